package sqlstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/cadence/internal/application/todo"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/sqlstore"
	"github.com/rezkam/cadence/internal/ptr"
	"github.com/rezkam/cadence/internal/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postgresDSNEnv enables the PostgreSQL variant of every store test.
const postgresDSNEnv = "CADENCE_TEST_POSTGRES_DSN"

var baseTime = time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)

func openSQLite(t *testing.T) *sqlstore.Store {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.DBConfig{
		Dialect: sqlstore.SQLite,
		DSN:     filepath.Join(t.TempDir(), "cadence.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func openPostgres(t *testing.T) *sqlstore.Store {
	t.Helper()

	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}

	store, err := sqlstore.Open(context.Background(), sqlstore.DBConfig{
		Dialect: sqlstore.Postgres,
		DSN:     dsn,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.DB().Exec(`TRUNCATE task_tags, sub_tasks, tags, tasks, categories CASCADE`)
	require.NoError(t, err)
	return store
}

// forEachDialect runs fn against a fresh SQLite store and, when configured,
// a truncated PostgreSQL store.
func forEachDialect(t *testing.T, fn func(t *testing.T, store *sqlstore.Store)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) { fn(t, openSQLite(t)) })
	t.Run("postgres", func(t *testing.T) { fn(t, openPostgres(t)) })
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func newTask(t *testing.T, title string, sortOrder int) *domain.Task {
	t.Helper()
	return &domain.Task{
		ID:        newID(t),
		Title:     title,
		Status:    domain.TaskStatusTodo,
		Priority:  domain.PriorityNone,
		SortOrder: sortOrder,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestOpen_MigratesOnceAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cadence.db")

	store, err := sqlstore.Open(ctx, sqlstore.DBConfig{DSN: path})
	require.NoError(t, err)
	assert.Equal(t, sqlstore.SQLite, store.Dialect())
	require.NoError(t, store.Ping(ctx))

	task := newTask(t, "persisted", 0)
	require.NoError(t, store.CreateTask(ctx, task))
	require.NoError(t, store.Close())

	reopened, err := sqlstore.Open(ctx, sqlstore.DBConfig{DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.FindTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), sqlstore.DBConfig{})
	require.Error(t, err)
}

func TestTaskRoundTrip(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		category := &domain.Category{ID: newID(t), Name: "Home", CreatedAt: baseTime}
		require.NoError(t, store.CreateCategory(ctx, category))

		reminder := time.Date(2025, 1, 30, 18, 45, 0, 0, time.UTC)
		task := newTask(t, "Pay rent", 3)
		task.Description = ptr.To("landlord")
		task.Priority = domain.PriorityHigh
		task.CategoryID = &category.ID
		task.DueDate = date(2025, 1, 31)
		task.ReminderTime = &reminder
		task.Recurrence = &recurrence.Rule{Type: recurrence.Monthly, Interval: 1, DayOfMonth: ptr.To(31)}
		require.NoError(t, store.CreateTask(ctx, task))

		got, err := store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)

		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "Pay rent", got.Title)
		assert.Equal(t, "landlord", *got.Description)
		assert.Equal(t, domain.TaskStatusTodo, got.Status)
		assert.Equal(t, domain.PriorityHigh, got.Priority)
		assert.Equal(t, category.ID, *got.CategoryID)
		assert.Equal(t, *task.DueDate, *got.DueDate)
		assert.True(t, reminder.Equal(*got.ReminderTime))
		assert.Equal(t, *task.Recurrence, *got.Recurrence)
		assert.Nil(t, got.CompletedAt)
		assert.Equal(t, 3, got.SortOrder)
		assert.True(t, baseTime.Equal(got.CreatedAt))
		assert.Empty(t, got.SubTasks)
		assert.Empty(t, got.Tags)

		completedAt := baseTime.Add(time.Hour)
		got.Complete(completedAt)
		got.Recurrence = nil
		got.DueDate = nil
		require.NoError(t, store.UpdateTask(ctx, got))

		updated, err := store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		assert.True(t, completedAt.Equal(*updated.CompletedAt))
		assert.Nil(t, updated.Recurrence)
		assert.Nil(t, updated.DueDate)
		assert.True(t, baseTime.Equal(updated.CreatedAt), "created_at is never rewritten")
	})
}

func TestTaskErrors(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()
		missing := newID(t)

		_, err := store.FindTaskByID(ctx, missing)
		require.ErrorIs(t, err, domain.ErrTaskNotFound)

		require.ErrorIs(t, store.UpdateTask(ctx, newTask(t, "ghost", 0)), domain.ErrTaskNotFound)
		require.ErrorIs(t, store.DeleteTask(ctx, missing), domain.ErrTaskNotFound)
		require.ErrorIs(t, store.SetTaskSortOrder(ctx, missing, 1, baseTime), domain.ErrTaskNotFound)

		orphan := newTask(t, "orphan", 0)
		orphan.CategoryID = ptr.To(missing)
		require.ErrorIs(t, store.CreateTask(ctx, orphan), domain.ErrCategoryNotFound)
	})
}

func TestFindTasks(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		tag := &domain.Tag{ID: newID(t), Name: "urgent", CreatedAt: baseTime}
		require.NoError(t, store.CreateTag(ctx, tag))

		specs := []struct {
			title    string
			priority domain.Priority
			due      *time.Time
			status   domain.TaskStatus
		}{
			{"a", domain.PriorityLow, date(2025, 2, 3), domain.TaskStatusTodo},
			{"b", domain.PriorityHigh, nil, domain.TaskStatusTodo},
			{"c", domain.PriorityMedium, date(2025, 2, 1), domain.TaskStatusCompleted},
			{"d", domain.PriorityNone, date(2025, 2, 2), domain.TaskStatusTodo},
		}
		ids := map[string]string{}
		for i, spec := range specs {
			task := newTask(t, spec.title, i)
			task.Priority = spec.priority
			task.DueDate = spec.due
			task.Status = spec.status
			task.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
			require.NoError(t, store.CreateTask(ctx, task))
			ids[spec.title] = task.ID
		}
		require.NoError(t, store.AddTaskTag(ctx, ids["b"], tag.ID))
		require.NoError(t, store.AddTaskTag(ctx, ids["d"], tag.ID))

		titles := func(params domain.ListTasksParams) []string {
			t.Helper()
			if params.Limit == 0 {
				params.Limit = 10
			}
			result, err := store.FindTasks(ctx, params)
			require.NoError(t, err)
			out := make([]string, 0, len(result.Tasks))
			for _, task := range result.Tasks {
				out = append(out, task.Title)
			}
			return out
		}

		assert.Equal(t, []string{"a", "b", "c", "d"}, titles(domain.ListTasksParams{}))
		assert.Equal(t, []string{"d", "c", "b", "a"}, titles(domain.ListTasksParams{OrderDir: domain.OrderDesc}))
		assert.Equal(t, []string{"c", "d", "a", "b"}, titles(domain.ListTasksParams{OrderBy: domain.OrderByDueDate}),
			"tasks without due date sort last")
		assert.Equal(t, []string{"b", "c", "a", "d"},
			titles(domain.ListTasksParams{OrderBy: domain.OrderByPriority, OrderDir: domain.OrderDesc}))
		assert.Equal(t, []string{"a", "b", "c", "d"}, titles(domain.ListTasksParams{OrderBy: domain.OrderByCreatedAt}))

		todoStatus := domain.TaskStatusTodo
		assert.Equal(t, []string{"a", "b", "d"}, titles(domain.ListTasksParams{Status: &todoStatus}))
		assert.Equal(t, []string{"b", "d"}, titles(domain.ListTasksParams{TagID: &tag.ID}))

		high := domain.PriorityHigh
		assert.Equal(t, []string{"b"}, titles(domain.ListTasksParams{Priority: &high}))

		page, err := store.FindTasks(ctx, domain.ListTasksParams{Limit: 3, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 4, page.TotalCount)
		assert.False(t, page.HasMore)
		assert.Len(t, page.Tasks, 2)

		page, err = store.FindTasks(ctx, domain.ListTasksParams{Limit: 1})
		require.NoError(t, err)
		assert.True(t, page.HasMore)

		_, err = store.FindTasks(ctx, domain.ListTasksParams{OrderBy: "title; DROP TABLE tasks", Limit: 1})
		require.ErrorIs(t, err, domain.ErrInvalidOrderBy)

		count, err := store.CountTasks(ctx, &todoStatus)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestSortOrders(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		next, err := store.NextTaskSortOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, next)

		task := newTask(t, "t", 4)
		require.NoError(t, store.CreateTask(ctx, task))

		next, err = store.NextTaskSortOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, next)

		require.NoError(t, store.SetTaskSortOrder(ctx, task.ID, 9, baseTime.Add(time.Hour)))
		got, err := store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, got.SortOrder)
		assert.True(t, baseTime.Add(time.Hour).Equal(got.UpdatedAt))

		next, err = store.NextSubTaskSortOrder(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, next)

		next, err = store.NextCategorySortOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, next)
	})
}

func TestSubTasks(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		task := newTask(t, "Move", 0)
		require.NoError(t, store.CreateTask(ctx, task))

		first := &domain.SubTask{ID: newID(t), TaskID: task.ID, Title: "boxes", Priority: domain.PriorityLow,
			DueDate: date(2025, 2, 10), SortOrder: 1, CreatedAt: baseTime}
		second := &domain.SubTask{ID: newID(t), TaskID: task.ID, Title: "van", Priority: domain.PriorityNone,
			SortOrder: 0, CreatedAt: baseTime}
		require.NoError(t, store.CreateSubTask(ctx, first))
		require.NoError(t, store.CreateSubTask(ctx, second))

		list, err := store.FindSubTasks(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "van", list[0].Title)
		assert.Equal(t, *first.DueDate, *list[1].DueDate)

		first.Completed = true
		first.Description = ptr.To("from the shop")
		require.NoError(t, store.UpdateSubTask(ctx, first))
		got, err := store.FindSubTaskByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "from the shop", *got.Description)

		loaded, err := store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.SubTasks, 2)

		next, err := store.NextSubTaskSortOrder(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, next)

		require.NoError(t, store.DeleteSubTask(ctx, second.ID))
		require.ErrorIs(t, store.DeleteSubTask(ctx, second.ID), domain.ErrSubTaskNotFound)

		orphan := &domain.SubTask{ID: newID(t), TaskID: newID(t), Title: "x", Priority: domain.PriorityNone, CreatedAt: baseTime}
		require.ErrorIs(t, store.CreateSubTask(ctx, orphan), domain.ErrTaskNotFound)

		require.NoError(t, store.DeleteTask(ctx, task.ID))
		_, err = store.FindSubTaskByID(ctx, first.ID)
		require.ErrorIs(t, err, domain.ErrSubTaskNotFound, "sub-tasks cascade with their task")
	})
}

func TestCategories(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		work := &domain.Category{ID: newID(t), Name: "Work", Color: ptr.To("#00AAFF"), SortOrder: 1, CreatedAt: baseTime}
		home := &domain.Category{ID: newID(t), Name: "Home", SortOrder: 0, CreatedAt: baseTime}
		require.NoError(t, store.CreateCategory(ctx, work))
		require.NoError(t, store.CreateCategory(ctx, home))

		dup := &domain.Category{ID: newID(t), Name: "Work", CreatedAt: baseTime}
		require.ErrorIs(t, store.CreateCategory(ctx, dup), domain.ErrDuplicateName)

		list, err := store.FindCategories(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Home", list[0].Name)
		assert.Equal(t, "#00AAFF", *list[1].Color)

		home.Name = "Work"
		require.ErrorIs(t, store.UpdateCategory(ctx, home), domain.ErrDuplicateName)

		work.Color = nil
		work.Name = "Office"
		require.NoError(t, store.UpdateCategory(ctx, work))
		got, err := store.FindCategoryByID(ctx, work.ID)
		require.NoError(t, err)
		assert.Equal(t, "Office", got.Name)
		assert.Nil(t, got.Color)

		task := newTask(t, "report", 0)
		task.CategoryID = &work.ID
		require.NoError(t, store.CreateTask(ctx, task))

		require.NoError(t, store.DeleteCategory(ctx, work.ID))
		loaded, err := store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded.CategoryID, "tasks outlive their category")

		_, err = store.FindCategoryByID(ctx, work.ID)
		require.ErrorIs(t, err, domain.ErrCategoryNotFound)
		require.ErrorIs(t, store.DeleteCategory(ctx, work.ID), domain.ErrCategoryNotFound)
	})
}

func TestTags(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		urgent := &domain.Tag{ID: newID(t), Name: "urgent", Color: ptr.To("#FF0000"), CreatedAt: baseTime}
		later := &domain.Tag{ID: newID(t), Name: "later", CreatedAt: baseTime}
		require.NoError(t, store.CreateTag(ctx, urgent))
		require.NoError(t, store.CreateTag(ctx, later))
		require.ErrorIs(t, store.CreateTag(ctx, &domain.Tag{ID: newID(t), Name: "urgent", CreatedAt: baseTime}),
			domain.ErrDuplicateName)

		tags, err := store.FindTags(ctx)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "later", tags[0].Name)

		task := newTask(t, "t", 0)
		require.NoError(t, store.CreateTask(ctx, task))

		require.NoError(t, store.ReplaceTaskTags(ctx, task.ID, []string{urgent.ID, later.ID}))
		require.NoError(t, store.AddTaskTag(ctx, task.ID, urgent.ID), "linking twice is a no-op")

		loaded, err := store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Tags, 2)
		assert.Equal(t, "later", loaded.Tags[0].Name)

		require.NoError(t, store.ReplaceTaskTags(ctx, task.ID, []string{later.ID}))
		loaded, err = store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Tags, 1)

		require.ErrorIs(t, store.AddTaskTag(ctx, task.ID, newID(t)), domain.ErrTagNotFound)

		later.Name = "someday"
		require.NoError(t, store.UpdateTag(ctx, later))
		got, err := store.FindTagByID(ctx, later.ID)
		require.NoError(t, err)
		assert.Equal(t, "someday", got.Name)

		require.NoError(t, store.RemoveTaskTag(ctx, task.ID, later.ID))
		require.NoError(t, store.RemoveTaskTag(ctx, task.ID, later.ID))

		require.NoError(t, store.AddTaskTag(ctx, task.ID, urgent.ID))
		require.NoError(t, store.DeleteTag(ctx, urgent.ID))
		loaded, err = store.FindTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Tags, "tag links cascade with the tag")

		_, err = store.FindTagByID(ctx, urgent.ID)
		require.ErrorIs(t, err, domain.ErrTagNotFound)
	})
}

func TestStatistics(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		mk := func(created time.Time, completed *time.Time) {
			task := newTask(t, "t", 0)
			task.CreatedAt = created
			task.UpdatedAt = created
			if completed != nil {
				task.Complete(*completed)
			}
			require.NoError(t, store.CreateTask(ctx, task))
		}

		jan30 := time.Date(2025, 1, 30, 8, 0, 0, 0, time.UTC)
		feb1Late := time.Date(2025, 2, 1, 23, 59, 59, 0, time.UTC)
		feb2 := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

		mk(jan30, &feb1Late)
		mk(jan30, nil)
		mk(feb1Late, &feb2)
		mk(feb2, nil)

		start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 1)

		completed, err := store.CountCompletedBetween(ctx, start, end)
		require.NoError(t, err)
		assert.Equal(t, 1, completed, "window end is exclusive")

		total, err := store.CountCreatedBefore(ctx, end)
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		windowStart := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
		windowEnd := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

		perDay, err := store.CompletedPerDay(ctx, windowStart, windowEnd)
		require.NoError(t, err)
		assert.Equal(t, []domain.DayCount{{Day: "2025-02-01", Count: 1}, {Day: "2025-02-02", Count: 1}}, perDay)

		created, err := store.CreatedPerDay(ctx, windowStart, windowEnd)
		require.NoError(t, err)
		assert.Equal(t, []domain.DayCount{
			{Day: "2025-01-30", Count: 2},
			{Day: "2025-02-01", Count: 1},
			{Day: "2025-02-02", Count: 1},
		}, created)
	})
}

func TestAtomic(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()

		t.Run("commits on success", func(t *testing.T) {
			task := newTask(t, "committed", 0)
			err := store.Atomic(ctx, func(repo todo.Repository) error {
				return repo.CreateTask(ctx, task)
			})
			require.NoError(t, err)

			_, err = store.FindTaskByID(ctx, task.ID)
			require.NoError(t, err)
		})

		t.Run("rolls back on error", func(t *testing.T) {
			task := newTask(t, "rolled back", 0)
			boom := errors.New("boom")
			err := store.Atomic(ctx, func(repo todo.Repository) error {
				require.NoError(t, repo.CreateTask(ctx, task))
				return boom
			})
			require.ErrorIs(t, err, boom)

			_, err = store.FindTaskByID(ctx, task.ID)
			require.ErrorIs(t, err, domain.ErrTaskNotFound)
		})

		t.Run("rolls back and re-panics", func(t *testing.T) {
			task := newTask(t, "panicked", 0)
			assert.Panics(t, func() {
				_ = store.Atomic(ctx, func(repo todo.Repository) error {
					require.NoError(t, repo.CreateTask(ctx, task))
					panic("kaboom")
				})
			})

			_, err := store.FindTaskByID(ctx, task.ID)
			require.ErrorIs(t, err, domain.ErrTaskNotFound)
		})

		t.Run("nested calls join the outer transaction", func(t *testing.T) {
			task := newTask(t, "nested", 0)
			err := store.Atomic(ctx, func(repo todo.Repository) error {
				return repo.Atomic(ctx, func(inner todo.Repository) error {
					return inner.CreateTask(ctx, task)
				})
			})
			require.NoError(t, err)

			_, err = store.FindTaskByID(ctx, task.ID)
			require.NoError(t, err)
		})
	})
}

// TestServiceCompletion runs the recurring completion workflow on a real database.
func TestServiceCompletion(t *testing.T) {
	forEachDialect(t, func(t *testing.T, store *sqlstore.Store) {
		ctx := context.Background()
		now := time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC)
		svc := todo.NewService(store, todo.Config{Now: func() time.Time { return now }})

		task, err := svc.CreateTask(ctx, domain.CreateTaskInput{
			Title:      "Pay rent",
			DueDate:    ptr.To("2025-01-31"),
			Recurrence: &recurrence.Rule{Type: recurrence.Monthly, Interval: 1, DayOfMonth: ptr.To(31)},
		})
		require.NoError(t, err)

		result, err := svc.CompleteTask(ctx, task.ID)
		require.NoError(t, err)
		require.NotNil(t, result.Next)

		next, err := svc.GetTask(ctx, result.Next.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, next.Status)
		assert.Equal(t, "2025-02-28", recurrence.FormatDate(*next.DueDate))
		assert.Equal(t, 1, next.SortOrder)

		original, err := svc.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, original.Status)
		assert.True(t, now.Equal(*original.CompletedAt))

		stats, err := svc.GetStats(ctx, "day", now)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.CompletedTasks)
		assert.Equal(t, 2, stats.TotalTasks)
	})
}
