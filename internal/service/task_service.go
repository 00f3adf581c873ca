package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/service/auth"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// The owner is never part of the input: it is always forced to the
// authenticated principal.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Labels      []string
}

// TaskPatch describes a partial update to a task. Nil fields are left
// unchanged. When Status is set, the transition is validated against the
// status ordering regardless of which other fields change, and the whole
// patch is rejected if the transition is illegal.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// TaskService orchestrates task lifecycle operations over the task store,
// gating every task-scoped operation behind the ownership check.
type TaskService interface {
	// CreateTask creates a task owned by the principal, attaching any
	// labels atomically with the task. Duplicate label names in the input
	// are de-duplicated.
	CreateTask(ctx context.Context, principal auth.Principal, input CreateTaskInput) (*domain.Task, error)

	// ListTasks returns one page of the principal's tasks matching the
	// filters plus the total count of the full filtered set. The owner
	// scope is applied in the storage query.
	ListTasks(
		ctx context.Context,
		principal auth.Principal,
		filters store.TaskFilters,
		page store.Pagination,
	) ([]*domain.Task, int, error)

	// GetTask returns the task with the given ID.
	// Returns store.ErrTaskNotFound for a missing task, ErrTaskNotOwned for
	// an existing task owned by someone else - in that order.
	GetTask(ctx context.Context, principal auth.Principal, id uuid.UUID) (*domain.Task, error)

	// UpdateTask applies the patch to the task. Fails with
	// domain.ErrInvalidStatusTransition if the patch contains an illegal
	// status move; in that case nothing is persisted.
	UpdateTask(
		ctx context.Context,
		principal auth.Principal,
		id uuid.UUID,
		patch TaskPatch,
	) (*domain.Task, error)

	// DeleteTask removes the task and its labels.
	DeleteTask(ctx context.Context, principal auth.Principal, id uuid.UUID) error

	// AddLabels appends labels to the task by name, skipping names the task
	// already carries, and returns the refreshed task.
	AddLabels(
		ctx context.Context,
		principal auth.Principal,
		id uuid.UUID,
		names []string,
	) (*domain.Task, error)

	// RemoveLabels removes labels from the task by name. Names not present
	// on the task are ignored.
	RemoveLabels(ctx context.Context, principal auth.Principal, id uuid.UUID, names []string) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore store.TaskStore
	txRunner  store.TxRunner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, txRunner store.TxRunner, logger *slog.Logger) TaskService {
	return &taskServiceImpl{
		taskStore: taskStore,
		txRunner:  txRunner,
		logger:    logger.With("component", "task_service"),
	}
}

// getOwnedTask loads a task by bare ID and verifies ownership.
// A missing task surfaces as store.ErrTaskNotFound before ownership is
// evaluated, so callers probing foreign task IDs cannot distinguish
// "never existed" from "exists but hidden" only for missing tasks.
func (s *taskServiceImpl) getOwnedTask(
	ctx context.Context,
	principal auth.Principal,
	id uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeTaskAccess(principal, task); err != nil {
		s.logger.Debug("task access denied",
			"task_id", id,
			"owner_id", task.UserID,
			"principal_id", principal.UserID)
		return nil, err
	}

	return task, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	principal auth.Principal,
	input CreateTaskInput,
) (*domain.Task, error) {
	// Owner is forced to the principal regardless of anything the client
	// put in the request body.
	task, err := domain.NewTask(principal.UserID, input.Title, input.Description, input.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	for _, name := range domain.DedupeLabelNames(input.Labels) {
		label, err := domain.NewLabel(task.ID, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		task.Labels = append(task.Labels, *label)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", principal.UserID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Debug("task created",
		"task_id", task.ID,
		"user_id", principal.UserID,
		"labels", len(task.Labels))

	return task, nil
}

// ListTasks implements TaskService.ListTasks.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	principal auth.Principal,
	filters store.TaskFilters,
	page store.Pagination,
) ([]*domain.Task, int, error) {
	tasks, total, err := s.taskStore.List(ctx, principal.UserID, filters, page.Normalize())
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", principal.UserID)
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(
	ctx context.Context,
	principal auth.Principal,
	id uuid.UUID,
) (*domain.Task, error) {
	return s.getOwnedTask(ctx, principal, id)
}

// UpdateTask implements TaskService.UpdateTask.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	principal auth.Principal,
	id uuid.UUID,
	patch TaskPatch,
) (*domain.Task, error) {
	task, err := s.getOwnedTask(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	// Apply the patch in memory first. Nothing reaches the store until the
	// whole patch - status transition included - has been accepted, so an
	// illegal transition rejects the other field changes with it.
	if patch.Status != nil {
		if err := task.UpdateStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(
	ctx context.Context,
	principal auth.Principal,
	id uuid.UUID,
) error {
	if _, err := s.getOwnedTask(ctx, principal, id); err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, id); err != nil {
		// A concurrent delete may have won the race; the task is gone
		// either way.
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Debug("task deleted",
		"task_id", id,
		"user_id", principal.UserID)

	return nil
}

// AddLabels implements TaskService.AddLabels.
func (s *taskServiceImpl) AddLabels(
	ctx context.Context,
	principal auth.Principal,
	id uuid.UUID,
	names []string,
) (*domain.Task, error) {
	task, err := s.getOwnedTask(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	var labels []*domain.Label
	for _, name := range domain.DedupeLabelNames(names) {
		if task.HasLabel(name) {
			continue
		}
		label, err := domain.NewLabel(task.ID, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		labels = append(labels, label)
	}

	if len(labels) > 0 {
		if err := s.taskStore.AddLabels(ctx, labels); err != nil {
			s.logger.Error("failed to add labels",
				"error", err,
				"task_id", id)
			return nil, fmt.Errorf("failed to add labels: %w", err)
		}
	}

	// Re-read so the response reflects the stored label set.
	return s.taskStore.GetByID(ctx, id)
}

// RemoveLabels implements TaskService.RemoveLabels.
func (s *taskServiceImpl) RemoveLabels(
	ctx context.Context,
	principal auth.Principal,
	id uuid.UUID,
	names []string,
) error {
	if _, err := s.getOwnedTask(ctx, principal, id); err != nil {
		return err
	}

	// Removing a name the task does not carry is a no-op, not an error.
	if err := s.taskStore.RemoveLabels(ctx, id, domain.DedupeLabelNames(names)); err != nil {
		s.logger.Error("failed to remove labels",
			"error", err,
			"task_id", id)
		return fmt.Errorf("failed to remove labels: %w", err)
	}

	return nil
}
