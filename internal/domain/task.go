package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID   = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidStatusTransition is returned when a status change does not
	// follow the open -> in_progress -> done ordering.
	ErrInvalidStatusTransition = errors.New("invalid task status transition")
)

// statusOrder fixes the progression of task statuses. A transition is legal
// only if it moves strictly forward in this order, so tasks can never be
// reverted and a no-op "transition" to the current status is rejected.
var statusOrder = map[TaskStatus]int{
	TaskStatusOpen:       0,
	TaskStatusInProgress: 1,
	TaskStatusDone:       2,
}

// Task represents a unit of work owned by exactly one user.
// The owner is set at creation and never reassigned.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Labels      []Label    `json:"labels"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. It generates a new UUID
// for the task ID and sets the creation/update timestamps. An empty status
// defaults to open. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusOpen
	}

	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	_, ok := statusOrder[status]
	return ok
}

// CanTransition reports whether moving a task from one status to another is
// permitted. Both statuses must be valid, and the target must come strictly
// later in the open -> in_progress -> done ordering. Skipping a stage
// (open -> done) is allowed; moving backward or staying put is not.
func CanTransition(from, to TaskStatus) bool {
	fromOrder, ok := statusOrder[from]
	if !ok {
		return false
	}
	toOrder, ok := statusOrder[to]
	if !ok {
		return false
	}
	return fromOrder < toOrder
}

// UpdateStatus moves the task to the requested status and updates the
// UpdatedAt timestamp. Returns ErrInvalidStatusTransition (wrapped with the
// offending pair) if the move is not permitted by the status ordering.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if !CanTransition(t.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, status)
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// HasLabel reports whether the task already carries a label with the
// given name.
func (t *Task) HasLabel(name string) bool {
	for _, l := range t.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}
