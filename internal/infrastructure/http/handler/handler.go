package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/cadence/internal/application/todo"
	mw "github.com/rezkam/cadence/internal/infrastructure/http/middleware"
	"github.com/rezkam/cadence/internal/infrastructure/http/openapi"
)

// TaskHandler adapts HTTP requests to todo service calls.
type TaskHandler struct {
	todoService *todo.Service
}

// NewTaskHandler creates a new HTTP API handler.
func NewTaskHandler(todoService *todo.Service) *TaskHandler {
	return &TaskHandler{todoService: todoService}
}

// NewOpenAPIRouter creates the API handler: request validation against the
// embedded OpenAPI document followed by the /v1 routes. It expects to be
// mounted at /api. Production code and tests both build the API through here.
func NewOpenAPIRouter(todoService *todo.Service) (http.Handler, error) {
	h := NewTaskHandler(todoService)

	spec, err := openapi.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(mw.NewValidator(spec, mw.ValidationConfig{MultiError: false}))
	h.Routes(r)

	return r, nil
}

// Routes registers the /v1 routes on r.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Put("/order", h.ReorderTasks)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", h.GetTask)
				r.Patch("/", h.UpdateTask)
				r.Delete("/", h.DeleteTask)
				r.Post("/complete", h.CompleteTask)
				r.Post("/uncomplete", h.UncompleteTask)

				r.Put("/tags", h.SetTaskTags)
				r.Post("/tags/{tagID}", h.AddTaskTag)
				r.Delete("/tags/{tagID}", h.RemoveTaskTag)

				r.Get("/subtasks", h.ListSubTasks)
				r.Post("/subtasks", h.CreateSubTask)
			})
		})

		r.Patch("/subtasks/{subTaskID}", h.UpdateSubTask)
		r.Delete("/subtasks/{subTaskID}", h.DeleteSubTask)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Get("/{categoryID}", h.GetCategory)
			r.Patch("/{categoryID}", h.UpdateCategory)
			r.Delete("/{categoryID}", h.DeleteCategory)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Patch("/{tagID}", h.UpdateTag)
			r.Delete("/{tagID}", h.DeleteTag)
		})

		r.Get("/stats", h.GetStats)
		r.Get("/stats/trend", h.GetDailyTrend)
		r.Get("/stats/count", h.CountTasks)

		r.Post("/recurrence/validate", h.ValidateRule)
		r.Post("/recurrence/preview", h.PreviewOccurrences)
	})
}
