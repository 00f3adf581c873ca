package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/mocks"
	"github.com/taskboardhq/taskboard-api/internal/service/auth"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

func newTestTaskService(taskStore store.TaskStore) (TaskService, *mocks.MockTxRunner) {
	txRunner := &mocks.MockTxRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTaskService(taskStore, txRunner, logger), txRunner
}

func principalFor(userID uuid.UUID) auth.Principal {
	return auth.Principal{UserID: userID, Roles: []domain.Role{domain.RoleUser}}
}

// seedTask places a task directly into the mock store and returns it.
func seedTask(
	t *testing.T,
	taskStore *mocks.MockTaskStore,
	userID uuid.UUID,
	title string,
	status domain.TaskStatus,
	labels ...string,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, "description of "+title, status)
	require.NoError(t, err)

	for _, name := range labels {
		label, err := domain.NewLabel(task.ID, name)
		require.NoError(t, err)
		task.Labels = append(task.Labels, *label)
	}

	taskStore.Tasks[task.ID] = task
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("creates task owned by the principal", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, txRunner := newTestTaskService(taskStore)

		userID := uuid.New()
		task, err := svc.CreateTask(context.Background(), principalFor(userID), CreateTaskInput{
			Title:       "Write report",
			Description: "Quarterly report",
			Status:      domain.TaskStatusOpen,
		})
		require.NoError(t, err)

		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, domain.TaskStatusOpen, task.Status)
		assert.Equal(t, 1, txRunner.CallCount)

		stored, err := taskStore.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, userID, stored.UserID)
	})

	t.Run("defaults empty status to open", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		task, err := svc.CreateTask(context.Background(), principalFor(uuid.New()), CreateTaskInput{
			Title:       "No status given",
			Description: "",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusOpen, task.Status)
	})

	t.Run("de-duplicates label names", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		task, err := svc.CreateTask(context.Background(), principalFor(uuid.New()), CreateTaskInput{
			Title:       "Labelled task",
			Description: "",
			Status:      domain.TaskStatusOpen,
			Labels:      []string{"urgent", "backend", "urgent", " urgent "},
		})
		require.NoError(t, err)

		require.Len(t, task.Labels, 2)
		assert.Equal(t, "urgent", task.Labels[0].Name)
		assert.Equal(t, "backend", task.Labels[1].Name)
		for _, label := range task.Labels {
			assert.Equal(t, task.ID, label.TaskID)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		_, err := svc.CreateTask(context.Background(), principalFor(uuid.New()), CreateTaskInput{
			Title:  "",
			Status: domain.TaskStatusOpen,
		})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Empty(t, taskStore.Tasks)
	})
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	t.Run("returns owned task", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Mine", domain.TaskStatusOpen, "urgent")

		task, err := svc.GetTask(context.Background(), principalFor(userID), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, task.ID)
		require.Len(t, task.Labels, 1)
		assert.Equal(t, "urgent", task.Labels[0].Name)
	})

	t.Run("missing task reports not found", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		_, err := svc.GetTask(context.Background(), principalFor(uuid.New()), uuid.New())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("foreign task reports ownership error", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		seeded := seedTask(t, taskStore, uuid.New(), "Not mine", domain.TaskStatusOpen)

		_, err := svc.GetTask(context.Background(), principalFor(uuid.New()), seeded.ID)
		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	t.Run("patches title and description", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Old title", domain.TaskStatusOpen)

		newTitle := "New title"
		newDescription := "New description"
		task, err := svc.UpdateTask(context.Background(), principalFor(userID), seeded.ID, TaskPatch{
			Title:       &newTitle,
			Description: &newDescription,
		})
		require.NoError(t, err)
		assert.Equal(t, newTitle, task.Title)
		assert.Equal(t, newDescription, task.Description)
		assert.Equal(t, domain.TaskStatusOpen, task.Status)

		stored := taskStore.Tasks[seeded.ID]
		assert.Equal(t, newTitle, stored.Title)
	})

	t.Run("applies a forward status transition", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Moving", domain.TaskStatusOpen)

		status := domain.TaskStatusDone
		task, err := svc.UpdateTask(context.Background(), principalFor(userID), seeded.ID, TaskPatch{
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
	})

	t.Run("illegal transition rejects the whole patch", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Old title", domain.TaskStatusDone)

		newTitle := "New title"
		status := domain.TaskStatusOpen
		_, err := svc.UpdateTask(context.Background(), principalFor(userID), seeded.ID, TaskPatch{
			Title:  &newTitle,
			Status: &status,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

		// Nothing from the patch reached the store, the title included.
		stored := taskStore.Tasks[seeded.ID]
		assert.Equal(t, "Old title", stored.Title)
		assert.Equal(t, domain.TaskStatusDone, stored.Status)
	})

	t.Run("same-status patch is rejected", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Steady", domain.TaskStatusInProgress)

		status := domain.TaskStatusInProgress
		_, err := svc.UpdateTask(context.Background(), principalFor(userID), seeded.ID, TaskPatch{
			Status: &status,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	})

	t.Run("rejects patch producing an invalid task", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Valid title", domain.TaskStatusOpen)

		empty := ""
		_, err := svc.UpdateTask(context.Background(), principalFor(userID), seeded.ID, TaskPatch{
			Title: &empty,
		})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Equal(t, "Valid title", taskStore.Tasks[seeded.ID].Title)
	})

	t.Run("foreign task cannot be patched", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		seeded := seedTask(t, taskStore, uuid.New(), "Not mine", domain.TaskStatusOpen)

		newTitle := "Hijacked"
		_, err := svc.UpdateTask(context.Background(), principalFor(uuid.New()), seeded.ID, TaskPatch{
			Title: &newTitle,
		})
		assert.ErrorIs(t, err, ErrTaskNotOwned)
		assert.Equal(t, "Not mine", taskStore.Tasks[seeded.ID].Title)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	t.Run("deletes owned task", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Doomed", domain.TaskStatusOpen)

		require.NoError(t, svc.DeleteTask(context.Background(), principalFor(userID), seeded.ID))
		assert.NotContains(t, taskStore.Tasks, seeded.ID)
	})

	t.Run("missing task reports not found", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		err := svc.DeleteTask(context.Background(), principalFor(uuid.New()), uuid.New())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("foreign task cannot be deleted", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		seeded := seedTask(t, taskStore, uuid.New(), "Not mine", domain.TaskStatusOpen)

		err := svc.DeleteTask(context.Background(), principalFor(uuid.New()), seeded.ID)
		assert.ErrorIs(t, err, ErrTaskNotOwned)
		assert.Contains(t, taskStore.Tasks, seeded.ID)
	})
}

func TestAddLabels(t *testing.T) {
	t.Parallel()

	t.Run("adds new labels and skips existing ones", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Labelled", domain.TaskStatusOpen, "urgent")

		task, err := svc.AddLabels(
			context.Background(),
			principalFor(userID),
			seeded.ID,
			[]string{"urgent", "backend", "backend"},
		)
		require.NoError(t, err)

		names := make([]string, 0, len(task.Labels))
		for _, label := range task.Labels {
			names = append(names, label.Name)
		}
		assert.ElementsMatch(t, []string{"urgent", "backend"}, names)
	})

	t.Run("all-duplicate request leaves the task unchanged", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Labelled", domain.TaskStatusOpen, "urgent")

		addCalled := false
		taskStore.AddLabelsFn = func(ctx context.Context, labels []*domain.Label) error {
			addCalled = true
			return nil
		}

		task, err := svc.AddLabels(context.Background(), principalFor(userID), seeded.ID, []string{"urgent"})
		require.NoError(t, err)
		assert.False(t, addCalled, "store should not be hit when nothing new is added")
		require.Len(t, task.Labels, 1)
	})

	t.Run("foreign task cannot be labelled", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		seeded := seedTask(t, taskStore, uuid.New(), "Not mine", domain.TaskStatusOpen)

		_, err := svc.AddLabels(context.Background(), principalFor(uuid.New()), seeded.ID, []string{"x"})
		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})
}

func TestRemoveLabels(t *testing.T) {
	t.Parallel()

	t.Run("removes named labels", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Labelled", domain.TaskStatusOpen, "urgent", "backend")

		err := svc.RemoveLabels(context.Background(), principalFor(userID), seeded.ID, []string{"urgent"})
		require.NoError(t, err)

		stored := taskStore.Tasks[seeded.ID]
		require.Len(t, stored.Labels, 1)
		assert.Equal(t, "backend", stored.Labels[0].Name)
	})

	t.Run("unknown names are a no-op", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seeded := seedTask(t, taskStore, userID, "Labelled", domain.TaskStatusOpen, "urgent")

		err := svc.RemoveLabels(context.Background(), principalFor(userID), seeded.ID, []string{"nope"})
		require.NoError(t, err)
		require.Len(t, taskStore.Tasks[seeded.ID].Labels, 1)
	})

	t.Run("foreign task labels cannot be removed", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		seeded := seedTask(t, taskStore, uuid.New(), "Not mine", domain.TaskStatusOpen, "urgent")

		err := svc.RemoveLabels(context.Background(), principalFor(uuid.New()), seeded.ID, []string{"urgent"})
		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	t.Run("lists only the principal's tasks", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seedTask(t, taskStore, userID, "Mine one", domain.TaskStatusOpen)
		seedTask(t, taskStore, userID, "Mine two", domain.TaskStatusDone)
		seedTask(t, taskStore, uuid.New(), "Someone else's", domain.TaskStatusOpen)

		tasks, total, err := svc.ListTasks(
			context.Background(),
			principalFor(userID),
			store.TaskFilters{},
			store.Pagination{},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.Equal(t, userID, task.UserID)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		seedTask(t, taskStore, userID, "Open task", domain.TaskStatusOpen)
		seedTask(t, taskStore, userID, "Done task", domain.TaskStatusDone)

		tasks, total, err := svc.ListTasks(
			context.Background(),
			principalFor(userID),
			store.TaskFilters{Status: domain.TaskStatusDone},
			store.Pagination{},
		)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Done task", tasks[0].Title)
	})

	t.Run("paginates and reports the full total", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		svc, _ := newTestTaskService(taskStore)

		userID := uuid.New()
		base := time.Now().UTC()
		for i := 0; i < 5; i++ {
			task := seedTask(t, taskStore, userID, "Task", domain.TaskStatusOpen)
			// Spread creation times so ordering is deterministic.
			task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		}

		tasks, total, err := svc.ListTasks(
			context.Background(),
			principalFor(userID),
			store.TaskFilters{},
			store.Pagination{Offset: 0, Limit: 2},
		)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, tasks, 2)

		tasks, total, err = svc.ListTasks(
			context.Background(),
			principalFor(userID),
			store.TaskFilters{},
			store.Pagination{Offset: 4, Limit: 2},
		)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, tasks, 1)
	})
}
