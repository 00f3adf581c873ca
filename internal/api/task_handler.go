package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taskboardhq/taskboard-api/internal/api/shared"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/service"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// handleServiceError translates a task service error into an HTTP response.
// Status-transition violations keep the message-array shape.
func (h *TaskHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidStatusTransition) {
		shared.RespondWithValidationErrors(w, r, []string{GetSafeErrorMessage(err)})
		return
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// List handles GET /tasks requests.
// The listing is always scoped to the caller; other users' tasks are
// excluded in the storage query itself.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	filters, page, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	page = page.Normalize()

	tasks, total, err := h.taskService.ListTasks(r.Context(), principal, filters, page)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	data := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		data = append(data, taskToResponse(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Data: data,
		Meta: PaginationMeta{
			Total:  total,
			Offset: page.Offset,
			Limit:  page.Limit,
		},
	})
}

// Get handles GET /tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), principal, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Create handles POST /tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, ValidationMessages(err))
		return
	}

	labels := make([]string, 0, len(req.Labels))
	for _, l := range req.Labels {
		labels = append(labels, l.Name)
	}

	task, err := h.taskService.CreateTask(r.Context(), principal, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Labels:      labels,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Update handles PATCH /tasks/{id} requests.
// A patch carrying an illegal status transition is rejected whole.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, ValidationMessages(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), principal, id, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), principal, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLabels handles POST /tasks/{id}/labels requests.
// The body is an array of label objects; duplicates are de-duplicated.
func (h *TaskHandler) AddLabels(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req []CreateTaskLabelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	names := make([]string, 0, len(req))
	for _, l := range req {
		if err := shared.ValidateRequest(l); err != nil {
			shared.RespondWithValidationErrors(w, r, ValidationMessages(err))
			return
		}
		names = append(names, l.Name)
	}

	task, err := h.taskService.AddLabels(r.Context(), principal, id, names)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// RemoveLabels handles DELETE /tasks/{id}/labels requests.
// The body is an array of label names; unknown names are ignored.
func (h *TaskHandler) RemoveLabels(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var names []string
	if err := shared.DecodeJSON(r, &names); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.taskService.RemoveLabels(r.Context(), principal, id, names); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseListQuery extracts the filter and pagination query parameters,
// writing a 400 response on malformed values.
func parseListQuery(
	w http.ResponseWriter,
	r *http.Request,
) (store.TaskFilters, store.Pagination, bool) {
	var filters store.TaskFilters
	var page store.Pagination

	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		if !domain.IsValidTaskStatus(domain.TaskStatus(status)) {
			shared.RespondWithValidationErrors(w, r, []string{"status has an invalid value"})
			return filters, page, false
		}
		filters.Status = domain.TaskStatus(status)
	}

	filters.Search = q.Get("search")

	if offset := q.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			shared.RespondWithValidationErrors(w, r, []string{"offset must be a non-negative integer"})
			return filters, page, false
		}
		page.Offset = n
	}

	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			shared.RespondWithValidationErrors(w, r, []string{"limit must be a positive integer"})
			return filters, page, false
		}
		page.Limit = n
	}

	return filters, page, true
}
