package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Label
var (
	ErrEmptyLabelID     = errors.New("label ID cannot be empty")
	ErrEmptyLabelTaskID = errors.New("label task ID cannot be empty")
	ErrEmptyLabelName   = errors.New("label name cannot be empty")
)

// Label is a short tag attached to exactly one task. Label names are unique
// within a task; uniqueness across tasks is not required.
type Label struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLabel creates a new Label for the given task.
// Returns an error if validation fails.
func NewLabel(taskID uuid.UUID, name string) (*Label, error) {
	label := &Label{
		ID:        uuid.New(),
		TaskID:    taskID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := label.Validate(); err != nil {
		return nil, err
	}

	return label, nil
}

// Validate checks if the Label has valid data.
func (l *Label) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLabelID
	}

	if l.TaskID == uuid.Nil {
		return ErrEmptyLabelTaskID
	}

	if l.Name == "" {
		return ErrEmptyLabelName
	}

	return nil
}

// DedupeLabelNames trims the given names and drops empties and duplicates
// while preserving first-seen order. Used when attaching labels so a request
// carrying the same name twice results in a single label.
func DedupeLabelNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
