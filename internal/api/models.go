package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// A roles field, if present in the body, is simply never read: registration
// always produces a user with the default role set.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1,max=200"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// UserResponse is a user record stripped of password material.
type UserResponse struct {
	ID        uuid.UUID     `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Roles     []domain.Role `json:"roles"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// userToResponse converts a domain user to its API representation.
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// CreateTaskLabelRequest is one label entry in a create or add-labels payload.
type CreateTaskLabelRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CreateTaskRequest defines the payload for creating a task. Any owner field
// a client might send is ignored; ownership always comes from the token.
type CreateTaskRequest struct {
	Title       string                   `json:"title"       validate:"required,min=1,max=200"`
	Description string                   `json:"description" validate:"required"`
	Status      domain.TaskStatus        `json:"status"      validate:"required,oneof=open in_progress done"`
	Labels      []CreateTaskLabelRequest `json:"labels"      validate:"omitempty,dive"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string            `json:"description" validate:"omitempty"`
	Status      *domain.TaskStatus `json:"status"      validate:"omitempty,oneof=open in_progress done"`
}

// LabelResponse is a task label in API responses.
type LabelResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TaskResponse is a task record in API responses.
type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	Labels      []LabelResponse   `json:"labels"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(task *domain.Task) TaskResponse {
	labels := make([]LabelResponse, 0, len(task.Labels))
	for _, l := range task.Labels {
		labels = append(labels, LabelResponse{ID: l.ID, Name: l.Name})
	}

	return TaskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Labels:      labels,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// PaginationMeta describes the window of a paginated listing and the total
// size of the full filtered set.
type PaginationMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TaskListResponse is the envelope for task listings.
type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// MessageResponse is a trivial one-field response body.
type MessageResponse struct {
	Message string `json:"message"`
}
