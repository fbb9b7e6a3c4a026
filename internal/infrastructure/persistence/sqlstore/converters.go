package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurrence"
)

// Instants are stored as fixed-width UTC text so that string comparison
// orders them chronologically and the first ten bytes are the calendar day.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// === Scalar Conversion Helpers ===

func timeToDB(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func dbToTime(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// timePtrToDB converts *time.Time to a nullable column value.
func timePtrToDB(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: timeToDB(*t), Valid: true}
}

func dbToTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := dbToTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// datePtrToDB stores a calendar date as YYYY-MM-DD.
func datePtrToDB(d *time.Time) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: recurrence.FormatDate(*d), Valid: true}
}

func dbToDatePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := recurrence.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", s.String, err)
	}
	return &d, nil
}

func stringPtrToDB(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func dbToStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// ruleToDB encodes a recurrence rule as its JSON text.
func ruleToDB(rule *recurrence.Rule) (sql.NullString, error) {
	if rule == nil {
		return sql.NullString{}, nil
	}
	text, err := recurrence.Encode(*rule)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode recurrence rule: %w", err)
	}
	return sql.NullString{String: text, Valid: true}, nil
}

func dbToRule(s sql.NullString) (*recurrence.Rule, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	rule, err := recurrence.Decode(s.String)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// === Task Conversions ===

// taskColumns lists the task columns in the order scanTask expects.
const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.category_id,
	t.due_date, t.reminder_time, t.recurrence_rule, t.completed_at, t.sort_order,
	t.created_at, t.updated_at`

// dbTask is the raw row shape of the tasks table.
type dbTask struct {
	ID             string
	Title          string
	Description    sql.NullString
	Status         string
	Priority       string
	CategoryID     sql.NullString
	DueDate        sql.NullString
	ReminderTime   sql.NullString
	RecurrenceRule sql.NullString
	CompletedAt    sql.NullString
	SortOrder      int
	CreatedAt      string
	UpdatedAt      string
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var r dbTask
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Status, &r.Priority, &r.CategoryID,
		&r.DueDate, &r.ReminderTime, &r.RecurrenceRule, &r.CompletedAt, &r.SortOrder,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return dbTaskToDomain(r)
}

func dbTaskToDomain(r dbTask) (*domain.Task, error) {
	status, err := domain.NewTaskStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database for task %s: %w", r.ID, err)
	}
	priority, err := domain.NewPriority(r.Priority)
	if err != nil {
		return nil, fmt.Errorf("invalid priority in database for task %s: %w", r.ID, err)
	}
	rule, err := dbToRule(r.RecurrenceRule)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule in database for task %s: %w", r.ID, err)
	}

	task := &domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: dbToStringPtr(r.Description),
		Status:      status,
		Priority:    priority,
		CategoryID:  dbToStringPtr(r.CategoryID),
		Recurrence:  rule,
		SortOrder:   r.SortOrder,
	}

	if task.DueDate, err = dbToDatePtr(r.DueDate); err != nil {
		return nil, err
	}
	if task.ReminderTime, err = dbToTimePtr(r.ReminderTime); err != nil {
		return nil, err
	}
	if task.CompletedAt, err = dbToTimePtr(r.CompletedAt); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = dbToTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = dbToTime(r.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// domainTaskToDB returns the column values of a task in taskColumns order.
func domainTaskToDB(task *domain.Task) ([]any, error) {
	rule, err := ruleToDB(task.Recurrence)
	if err != nil {
		return nil, err
	}
	return []any{
		task.ID,
		task.Title,
		stringPtrToDB(task.Description),
		string(task.Status),
		string(task.Priority),
		stringPtrToDB(task.CategoryID),
		datePtrToDB(task.DueDate),
		timePtrToDB(task.ReminderTime),
		rule,
		timePtrToDB(task.CompletedAt),
		task.SortOrder,
		timeToDB(task.CreatedAt),
		timeToDB(task.UpdatedAt),
	}, nil
}

// === Sub-task Conversions ===

const subTaskColumns = `id, task_id, title, description, priority, due_date, completed, sort_order, created_at`

func scanSubTask(row scanner) (*domain.SubTask, error) {
	var (
		st          domain.SubTask
		description sql.NullString
		priority    string
		dueDate     sql.NullString
		createdAt   string
	)
	err := row.Scan(&st.ID, &st.TaskID, &st.Title, &description, &priority, &dueDate,
		&st.Completed, &st.SortOrder, &createdAt)
	if err != nil {
		return nil, err
	}

	if st.Priority, err = domain.NewPriority(priority); err != nil {
		return nil, fmt.Errorf("invalid priority in database for sub-task %s: %w", st.ID, err)
	}
	st.Description = dbToStringPtr(description)
	if st.DueDate, err = dbToDatePtr(dueDate); err != nil {
		return nil, err
	}
	if st.CreatedAt, err = dbToTime(createdAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// === Category and Tag Conversions ===

const categoryColumns = `id, name, color, sort_order, created_at`

func scanCategory(row scanner) (*domain.Category, error) {
	var (
		c         domain.Category
		color     sql.NullString
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &color, &c.SortOrder, &createdAt); err != nil {
		return nil, err
	}

	c.Color = dbToStringPtr(color)
	var err error
	if c.CreatedAt, err = dbToTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

const tagColumns = `id, name, color, created_at`

func scanTag(row scanner) (*domain.Tag, error) {
	var (
		t         domain.Tag
		color     sql.NullString
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &color, &createdAt); err != nil {
		return nil, err
	}

	t.Color = dbToStringPtr(color)
	var err error
	if t.CreatedAt, err = dbToTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
