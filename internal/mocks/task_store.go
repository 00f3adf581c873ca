package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps tasks in a map and applies the same owner scoping
// and filter semantics the real store does.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn         func(ctx context.Context, userID uuid.UUID, filters store.TaskFilters, page store.Pagination) ([]*domain.Task, int, error)
	UpdateFn       func(ctx context.Context, task *domain.Task) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	AddLabelsFn    func(ctx context.Context, labels []*domain.Label) error
	RemoveLabelsFn func(ctx context.Context, taskID uuid.UUID, names []string) error

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	copied := *task
	copied.Labels = append([]domain.Label(nil), task.Labels...)
	return &copied, nil
}

// List implements the TaskStore interface with the same owner scoping the
// real store applies in SQL.
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filters store.TaskFilters,
	page store.Pagination,
) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filters, page)
	}

	var matched []*domain.Task
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		if filters.Status != "" && task.Status != filters.Status {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		matched = append(matched, task)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if page.Offset >= total {
		return nil, total, nil
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}

	out := make([]*domain.Task, 0, end-page.Offset)
	for _, task := range matched[page.Offset:end] {
		copied := *task
		out = append(out, &copied)
	}

	return out, total, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists {
		return store.ErrTaskNotFound
	}

	copied := *task
	copied.Labels = existing.Labels
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, id)
	return nil
}

// AddLabels implements the TaskStore interface
func (m *MockTaskStore) AddLabels(ctx context.Context, labels []*domain.Label) error {
	if m.AddLabelsFn != nil {
		return m.AddLabelsFn(ctx, labels)
	}

	for _, label := range labels {
		task, exists := m.Tasks[label.TaskID]
		if !exists {
			return store.ErrTaskNotFound
		}
		if !task.HasLabel(label.Name) {
			task.Labels = append(task.Labels, *label)
		}
	}

	return nil
}

// RemoveLabels implements the TaskStore interface
func (m *MockTaskStore) RemoveLabels(
	ctx context.Context,
	taskID uuid.UUID,
	names []string,
) error {
	if m.RemoveLabelsFn != nil {
		return m.RemoveLabelsFn(ctx, taskID, names)
	}

	task, exists := m.Tasks[taskID]
	if !exists {
		return store.ErrTaskNotFound
	}

	remove := make(map[string]struct{}, len(names))
	for _, name := range names {
		remove[name] = struct{}{}
	}

	kept := task.Labels[:0]
	for _, label := range task.Labels {
		if _, ok := remove[label.Name]; !ok {
			kept = append(kept, label)
		}
	}
	task.Labels = kept

	return nil
}

// WithTx implements the TaskStore interface for transaction support
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	// For mock purposes, just return the same mock
	return m
}
