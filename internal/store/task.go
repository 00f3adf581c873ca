package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/domain"
)

// Pagination bounds a list query to one page of results.
type Pagination struct {
	Offset int
	Limit  int
}

// Pagination defaults and bounds applied by Normalize.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps the pagination window to sane values: a non-negative
// offset and a limit between 1 and MaxPageLimit, defaulting to
// DefaultPageLimit when unset.
func (p Pagination) Normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// TaskFilters narrows a task listing. Zero values mean "no filter".
// The owner scope is not part of the filters: every listing is always
// constrained to one user's tasks at the query level.
type TaskFilters struct {
	// Status restricts results to tasks in the given status.
	Status domain.TaskStatus

	// Search matches tasks whose title or description contains the given
	// text, case-insensitively.
	Search string
}

// TaskStore defines the interface for task and label persistence.
type TaskStore interface {
	// Create saves a new task together with any labels already attached to
	// it. Callers that need the task and its labels persisted atomically
	// must run Create inside a transaction via WithTx; the task service
	// does this.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, including its labels.
	// Returns ErrTaskNotFound if the task does not exist. The lookup is
	// deliberately not scoped by owner; ownership is the service layer's
	// decision.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves one page of the given user's tasks matching the
	// filters, newest first, along with the total count of the full
	// filtered set. The owner scope is applied in the query itself, never
	// by filtering rows after an unscoped fetch.
	List(
		ctx context.Context,
		userID uuid.UUID,
		filters TaskFilters,
		page Pagination,
	) ([]*domain.Task, int, error)

	// Update persists the task's title, description, and status.
	// Labels are managed separately via AddLabels/RemoveLabels.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and all of its labels.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLabels attaches the given labels to their task. Labels whose name
	// already exists on the task are skipped rather than rejected.
	AddLabels(ctx context.Context, labels []*domain.Label) error

	// RemoveLabels detaches labels from the task by name. Names not present
	// on the task are ignored.
	RemoveLabels(ctx context.Context, taskID uuid.UUID, names []string) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
