package handler

import (
	"net/http"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
)

var subTaskPatchFields = map[string]string{
	"title":       domain.FieldTitle,
	"description": domain.FieldDescription,
	"priority":    domain.FieldPriority,
	"dueDate":     domain.FieldDueDate,
	"completed":   domain.FieldCompleted,
	"sortOrder":   domain.FieldSortOrder,
}

var categoryPatchFields = map[string]string{
	"name":      domain.FieldName,
	"color":     domain.FieldColor,
	"sortOrder": domain.FieldSortOrder,
}

var tagPatchFields = map[string]string{
	"name":  domain.FieldName,
	"color": domain.FieldColor,
}

// === Sub-tasks ===

// ListSubTasks handles GET /v1/tasks/{taskID}/subtasks.
func (h *TaskHandler) ListSubTasks(w http.ResponseWriter, r *http.Request) {
	subTasks, err := h.todoService.ListSubTasks(r.Context(), pathParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	dtos := make([]SubTaskDTO, 0, len(subTasks))
	for _, st := range subTasks {
		dtos = append(dtos, MapSubTaskToDTO(st))
	}
	response.OK(w, map[string]any{"subTasks": dtos})
}

// CreateSubTask handles POST /v1/tasks/{taskID}/subtasks.
func (h *TaskHandler) CreateSubTask(w http.ResponseWriter, r *http.Request) {
	var req CreateSubTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	st, err := h.todoService.CreateSubTask(r.Context(), pathParam(r, "taskID"), domain.CreateSubTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, MapSubTaskToDTO(st))
}

// UpdateSubTask handles PATCH /v1/subtasks/{subTaskID}.
func (h *TaskHandler) UpdateSubTask(w http.ResponseWriter, r *http.Request) {
	body, err := decodePatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mask, err := body.mask(subTaskPatchFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := domain.UpdateSubTaskParams{
		SubTaskID:   pathParam(r, "subTaskID"),
		UpdateMask:  mask,
		Title:       patchField[string](body, "title"),
		Description: patchField[string](body, "description"),
		Priority:    body.priority("priority"),
		DueDate:     body.date("dueDate"),
		Completed:   patchField[bool](body, "completed"),
		SortOrder:   patchField[int](body, "sortOrder"),
	}
	if body.err != nil {
		writeError(w, r, body.err)
		return
	}

	st, err := h.todoService.UpdateSubTask(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapSubTaskToDTO(st))
}

// DeleteSubTask handles DELETE /v1/subtasks/{subTaskID}.
func (h *TaskHandler) DeleteSubTask(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.DeleteSubTask(r.Context(), pathParam(r, "subTaskID")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// === Categories ===

// ListCategories handles GET /v1/categories.
func (h *TaskHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.todoService.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, MapCategoryToDTO(c))
	}
	response.OK(w, map[string]any{"categories": dtos})
}

// CreateCategory handles POST /v1/categories.
func (h *TaskHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateLabelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.todoService.CreateCategory(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, MapCategoryToDTO(category))
}

// GetCategory handles GET /v1/categories/{categoryID}.
func (h *TaskHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.todoService.GetCategory(r.Context(), pathParam(r, "categoryID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapCategoryToDTO(category))
}

// UpdateCategory handles PATCH /v1/categories/{categoryID}.
func (h *TaskHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := decodePatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mask, err := body.mask(categoryPatchFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := domain.UpdateCategoryParams{
		CategoryID: pathParam(r, "categoryID"),
		UpdateMask: mask,
		Name:       patchField[string](body, "name"),
		Color:      patchField[string](body, "color"),
		SortOrder:  patchField[int](body, "sortOrder"),
	}
	if body.err != nil {
		writeError(w, r, body.err)
		return
	}

	category, err := h.todoService.UpdateCategory(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapCategoryToDTO(category))
}

// DeleteCategory handles DELETE /v1/categories/{categoryID}.
// Tasks of the category are kept and lose their category.
func (h *TaskHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.DeleteCategory(r.Context(), pathParam(r, "categoryID")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// === Tags ===

// ListTags handles GET /v1/tags.
func (h *TaskHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.todoService.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	dtos := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		dtos = append(dtos, MapTagToDTO(t))
	}
	response.OK(w, map[string]any{"tags": dtos})
}

// CreateTag handles POST /v1/tags.
func (h *TaskHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateLabelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.todoService.CreateTag(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, MapTagToDTO(tag))
}

// UpdateTag handles PATCH /v1/tags/{tagID}.
func (h *TaskHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	body, err := decodePatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mask, err := body.mask(tagPatchFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := domain.UpdateTagParams{
		TagID:      pathParam(r, "tagID"),
		UpdateMask: mask,
		Name:       patchField[string](body, "name"),
		Color:      patchField[string](body, "color"),
	}
	if body.err != nil {
		writeError(w, r, body.err)
		return
	}

	tag, err := h.todoService.UpdateTag(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapTagToDTO(tag))
}

// DeleteTag handles DELETE /v1/tags/{tagID}.
func (h *TaskHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.DeleteTag(r.Context(), pathParam(r, "tagID")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}
