package shared

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a valid body", func(t *testing.T) {
		t.Parallel()
		body := bytes.NewBufferString(`{"email":"a@example.com","password":"password123"}`)
		req := httptest.NewRequest("POST", "/auth/login", body)

		var target decodeTarget
		require.NoError(t, DecodeJSON(req, &target))
		assert.Equal(t, "a@example.com", target.Email)
		assert.Equal(t, "password123", target.Password)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{not json`))

		var target decodeTarget
		assert.Error(t, DecodeJSON(req, &target))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid struct", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateRequest(decodeTarget{
			Email:    "a@example.com",
			Password: "password123",
		}))
	})

	t.Run("reports tag violations as validator errors", func(t *testing.T) {
		t.Parallel()
		err := ValidateRequest(decodeTarget{Email: "not-an-email", Password: "short"})
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
	})
}
