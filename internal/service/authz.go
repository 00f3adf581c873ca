package service

import (
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/service/auth"
)

// AuthorizeTaskAccess decides whether the principal may act on the task.
// Access is granted if and only if the principal owns the task. This applies
// uniformly to read-one, update, delete, and both label operations; listing
// never reaches this check because list queries are owner-scoped at the
// storage layer.
//
// The check is pure: it operates on an already-loaded task, so callers decide
// the lookup-versus-ownership ordering (a missing task is reported as not
// found before ownership is ever evaluated).
func AuthorizeTaskAccess(principal auth.Principal, task *domain.Task) error {
	if task.UserID != principal.UserID {
		return ErrTaskNotOwned
	}
	return nil
}

// AuthorizeAdminAccess decides whether the principal may use administrative
// endpoints. Access requires the admin role.
func AuthorizeAdminAccess(principal auth.Principal) error {
	if !principal.HasRole(domain.RoleAdmin) {
		return ErrAdminRequired
	}
	return nil
}
