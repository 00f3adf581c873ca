// Package service contains the application services that orchestrate domain
// entities and stores. Authorization decisions for task access live here.
package service

import "errors"

// Common service errors
var (
	// ErrTaskNotOwned is returned when an authenticated user attempts an
	// operation on a task owned by a different user. Ownership is the sole
	// authorization rule for task operations; roles never override it.
	ErrTaskNotOwned = errors.New("task is owned by a different user")

	// ErrAdminRequired is returned when an operation requires the admin role.
	ErrAdminRequired = errors.New("admin role required")
)
