package handler

import (
	"net/http"
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
	"github.com/rezkam/cadence/internal/recurrence"
)

// taskPatchFields maps PATCH body keys to update mask fields.
var taskPatchFields = map[string]string{
	"title":          domain.FieldTitle,
	"description":    domain.FieldDescription,
	"priority":       domain.FieldPriority,
	"categoryId":     domain.FieldCategoryID,
	"dueDate":        domain.FieldDueDate,
	"reminderTime":   domain.FieldReminderTime,
	"recurrenceRule": domain.FieldRecurrence,
}

// ListTasks handles GET /v1/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := domain.ListTasksParams{
		CategoryID: queryString(r, "category_id"),
		TagID:      queryString(r, "tag_id"),
		OrderBy:    q.Get("order_by"),
		OrderDir:   q.Get("order_dir"),
		Limit:      limit,
		Offset:     offset,
	}

	if params.Status, err = queryStatus(r); err != nil {
		writeError(w, r, err)
		return
	}
	if p := q.Get("priority"); p != "" {
		priority, err := domain.NewPriority(p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.Priority = &priority
	}

	result, err := h.todoService.ListTasks(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapTaskPageToDTO(result, max(offset, 0)))
}

// CreateTask handles POST /v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.todoService.CreateTask(r.Context(), domain.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		CategoryID:   req.CategoryID,
		DueDate:      req.DueDate,
		ReminderTime: req.ReminderTime,
		Recurrence:   req.RecurrenceRule,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, MapTaskToDTO(task))
}

// GetTask handles GET /v1/tasks/{taskID}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.todoService.GetTask(r.Context(), pathParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapTaskToDTO(task))
}

// UpdateTask handles PATCH /v1/tasks/{taskID}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	body, err := decodePatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mask, err := body.mask(taskPatchFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := domain.UpdateTaskParams{
		TaskID:       pathParam(r, "taskID"),
		UpdateMask:   mask,
		Title:        patchField[string](body, "title"),
		Description:  patchField[string](body, "description"),
		Priority:     body.priority("priority"),
		CategoryID:   patchField[string](body, "categoryId"),
		DueDate:      body.date("dueDate"),
		ReminderTime: patchField[time.Time](body, "reminderTime"),
		Recurrence:   patchField[recurrence.Rule](body, "recurrenceRule"),
	}
	if body.err != nil {
		writeError(w, r, body.err)
		return
	}

	task, err := h.todoService.UpdateTask(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapTaskToDTO(task))
}

// DeleteTask handles DELETE /v1/tasks/{taskID}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.DeleteTask(r.Context(), pathParam(r, "taskID")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// CompleteTask handles POST /v1/tasks/{taskID}/complete.
// For a recurring task the response also carries the newly created successor.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	result, err := h.todoService.CompleteTask(r.Context(), pathParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapCompletionToDTO(result))
}

// UncompleteTask handles POST /v1/tasks/{taskID}/uncomplete.
func (h *TaskHandler) UncompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.todoService.UncompleteTask(r.Context(), pathParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapTaskToDTO(task))
}

// ReorderTasks handles PUT /v1/tasks/order.
func (h *TaskHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req []TaskOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	orders := make([]domain.TaskOrder, 0, len(req))
	for _, o := range req {
		orders = append(orders, domain.TaskOrder{ID: o.ID, SortOrder: o.SortOrder})
	}

	if err := h.todoService.ReorderTasks(r.Context(), orders); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// SetTaskTags handles PUT /v1/tasks/{taskID}/tags.
func (h *TaskHandler) SetTaskTags(w http.ResponseWriter, r *http.Request) {
	var req SetTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.todoService.SetTaskTags(r.Context(), pathParam(r, "taskID"), req.TagIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapTaskToDTO(task))
}

// AddTaskTag handles POST /v1/tasks/{taskID}/tags/{tagID}.
func (h *TaskHandler) AddTaskTag(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.AddTagToTask(r.Context(), pathParam(r, "taskID"), pathParam(r, "tagID")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// RemoveTaskTag handles DELETE /v1/tasks/{taskID}/tags/{tagID}.
func (h *TaskHandler) RemoveTaskTag(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.RemoveTagFromTask(r.Context(), pathParam(r, "taskID"), pathParam(r, "tagID")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}
