package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token carrying the user's
	// ID and role set. Returns the token string or an error if token
	// generation fails.
	GenerateToken(ctx context.Context, userID uuid.UUID, roles []domain.Role) (string, error)

	// ValidateToken validates the provided access token string and extracts
	// the claims. Returns the claims containing user information if the
	// token is valid, or an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Roles is the role set granted to the user at issue time.
	Roles []domain.Role `json:"roles,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Principal is the authenticated identity derived from a verified token.
// It lives only for the duration of one request and is never persisted.
type Principal struct {
	UserID uuid.UUID
	Roles  []domain.Role
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role domain.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrincipalFromClaims builds the request principal from validated claims.
func PrincipalFromClaims(claims *Claims) Principal {
	return Principal{
		UserID: claims.UserID,
		Roles:  claims.Roles,
	}
}
