package handler

import (
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurrence"
)

// Response bodies. Field names follow the JSON shape of the UI.

type TaskDTO struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    *string          `json:"description"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	CategoryID     *string          `json:"categoryId"`
	DueDate        *string          `json:"dueDate"`
	ReminderTime   *time.Time       `json:"reminderTime"`
	RecurrenceRule *recurrence.Rule `json:"recurrenceRule"`
	CompletedAt    *time.Time       `json:"completedAt"`
	SortOrder      int              `json:"sortOrder"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	SubTasks       []SubTaskDTO     `json:"subTasks"`
	Tags           []TagDTO         `json:"tags"`
}

type TaskPageDTO struct {
	Tasks      []TaskDTO `json:"tasks"`
	TotalCount int       `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
	NextOffset *int      `json:"nextOffset"`
}

type CompletionDTO struct {
	CompletedTask TaskDTO  `json:"completedTask"`
	NextTask      *TaskDTO `json:"nextTask,omitempty"`
}

type SubTaskDTO struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"dueDate"`
	Completed   bool      `json:"completed"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

type TagDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatsDTO struct {
	Period         string  `json:"period"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	CompletionRate float64 `json:"completionRate"`
	PeriodStart    string  `json:"periodStart"`
	PeriodEnd      string  `json:"periodEnd"`
}

type TrendDayDTO struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

type RuleValidationDTO struct {
	Valid bool   `json:"valid"`
	Field string `json:"field,omitempty"`
	Error string `json:"error,omitempty"`
}

// Request bodies.

type CreateTaskRequest struct {
	Title          string           `json:"title"`
	Description    *string          `json:"description"`
	Priority       string           `json:"priority"`
	CategoryID     *string          `json:"categoryId"`
	DueDate        *string          `json:"dueDate"`
	ReminderTime   *time.Time       `json:"reminderTime"`
	RecurrenceRule *recurrence.Rule `json:"recurrenceRule"`
}

type CreateSubTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	SortOrder   *int    `json:"sortOrder"`
}

// CreateLabelRequest creates a category or a tag.
type CreateLabelRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type TaskOrderRequest struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

type SetTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}

type PreviewRequest struct {
	Rule  recurrence.Rule `json:"rule"`
	From  *string         `json:"from"`
	Limit int             `json:"limit"`
}

// Domain → DTO mappers

func MapTaskToDTO(t *domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		CategoryID:     t.CategoryID,
		DueDate:        formatDate(t.DueDate),
		ReminderTime:   t.ReminderTime,
		RecurrenceRule: t.Recurrence,
		CompletedAt:    t.CompletedAt,
		SortOrder:      t.SortOrder,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		SubTasks:       make([]SubTaskDTO, 0, len(t.SubTasks)),
		Tags:           make([]TagDTO, 0, len(t.Tags)),
	}
	for _, st := range t.SubTasks {
		dto.SubTasks = append(dto.SubTasks, MapSubTaskToDTO(st))
	}
	for _, tag := range t.Tags {
		dto.Tags = append(dto.Tags, MapTagToDTO(tag))
	}
	return dto
}

func MapTaskPageToDTO(result *domain.PagedResult, offset int) TaskPageDTO {
	page := TaskPageDTO{
		Tasks:      make([]TaskDTO, 0, len(result.Tasks)),
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	}
	for _, t := range result.Tasks {
		page.Tasks = append(page.Tasks, MapTaskToDTO(t))
	}
	if result.HasMore {
		next := offset + len(result.Tasks)
		page.NextOffset = &next
	}
	return page
}

func MapCompletionToDTO(result *domain.CompletionResult) CompletionDTO {
	dto := CompletionDTO{CompletedTask: MapTaskToDTO(result.Completed)}
	if result.Next != nil {
		next := MapTaskToDTO(result.Next)
		dto.NextTask = &next
	}
	return dto
}

func MapSubTaskToDTO(st *domain.SubTask) SubTaskDTO {
	return SubTaskDTO{
		ID:          st.ID,
		TaskID:      st.TaskID,
		Title:       st.Title,
		Description: st.Description,
		Priority:    string(st.Priority),
		DueDate:     formatDate(st.DueDate),
		Completed:   st.Completed,
		SortOrder:   st.SortOrder,
		CreatedAt:   st.CreatedAt,
	}
}

func MapCategoryToDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
	}
}

func MapTagToDTO(t *domain.Tag) TagDTO {
	return TagDTO{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
	}
}

func MapStatsToDTO(s *domain.StatsSummary) StatsDTO {
	return StatsDTO{
		Period:         string(s.Period),
		TotalTasks:     s.TotalTasks,
		CompletedTasks: s.CompletedTasks,
		CompletionRate: s.CompletionRate,
		PeriodStart:    recurrence.FormatDate(s.PeriodStart),
		PeriodEnd:      recurrence.FormatDate(s.PeriodEnd),
	}
}

func MapTrendToDTO(trend []domain.DailyTrend) []TrendDayDTO {
	days := make([]TrendDayDTO, 0, len(trend))
	for _, d := range trend {
		days = append(days, TrendDayDTO{
			Date:      recurrence.FormatDate(d.Date),
			Completed: d.Completed,
			Created:   d.Created,
		})
	}
	return days
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := recurrence.FormatDate(*t)
	return &s
}
