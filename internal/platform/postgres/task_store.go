package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{
		db: db,
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
// The caller is expected to run this inside a transaction when the task
// carries labels, so the task and its labels land atomically.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	for i := range task.Labels {
		if err := s.insertLabel(ctx, &task.Labels[i]); err != nil {
			return err
		}
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	labels, err := s.labelsForTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Labels = labels

	return &task, nil
}

// List implements store.TaskStore.List.
// The owner scope is part of the WHERE clause, so tasks belonging to other
// users never leave the database.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filters store.TaskFilters,
	page store.Pagination,
) ([]*domain.Task, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	whereClause := strings.Join(where, " AND ")

	// Total counts the full filtered set, independent of the page window.
	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + whereClause

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, MapError(err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, 0, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	for _, task := range tasks {
		labels, err := s.labelsForTask(ctx, task.ID)
		if err != nil {
			return nil, 0, err
		}
		task.Labels = labels
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "task")
}

// Delete implements store.TaskStore.Delete.
// Labels go with the task via ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "task")
}

// AddLabels implements store.TaskStore.AddLabels.
// ON CONFLICT DO NOTHING makes a concurrent duplicate insert harmless; the
// service layer has already skipped names it saw on the task.
func (s *PostgresTaskStore) AddLabels(ctx context.Context, labels []*domain.Label) error {
	for _, label := range labels {
		if err := s.insertLabel(ctx, label); err != nil {
			return err
		}
	}
	return nil
}

// RemoveLabels implements store.TaskStore.RemoveLabels.
// Names not present on the task simply affect zero rows.
func (s *PostgresTaskStore) RemoveLabels(
	ctx context.Context,
	taskID uuid.UUID,
	names []string,
) error {
	for _, name := range names {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM task_labels WHERE task_id = $1 AND name = $2`,
			taskID, name,
		)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db: tx,
	}
}

// insertLabel inserts one label row, ignoring duplicates on (task_id, name).
func (s *PostgresTaskStore) insertLabel(ctx context.Context, label *domain.Label) error {
	if err := label.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO task_labels (id, task_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id, name) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		label.ID,
		label.TaskID,
		label.Name,
		label.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// labelsForTask loads a task's labels in insertion order.
func (s *PostgresTaskStore) labelsForTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]domain.Label, error) {
	query := `
		SELECT id, task_id, name, created_at
		FROM task_labels
		WHERE task_id = $1
		ORDER BY created_at ASC, name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var labels []domain.Label
	for rows.Next() {
		var label domain.Label
		if err := rows.Scan(&label.ID, &label.TaskID, &label.Name, &label.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return labels, nil
}
