package todo

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurrence"
)

// memRepo is an in-memory Repository. Atomic snapshots the whole state and
// restores it when the callback fails, which is enough to observe rollback.
type memRepo struct {
	mu sync.Mutex

	tasks      map[string]domain.Task
	subTasks   map[string]domain.SubTask
	categories map[string]domain.Category
	tags       map[string]domain.Tag
	taskTags   map[string][]string // task ID -> tag IDs

	// failCreateTask makes the next CreateTask call fail.
	failCreateTask error
	atomicCalls    int
}

func newMemRepo() *memRepo {
	return &memRepo{
		tasks:      map[string]domain.Task{},
		subTasks:   map[string]domain.SubTask{},
		categories: map[string]domain.Category{},
		tags:       map[string]domain.Tag{},
		taskTags:   map[string][]string{},
	}
}

var _ Repository = (*memRepo)(nil)

func (m *memRepo) Atomic(ctx context.Context, fn func(repo Repository) error) error {
	m.mu.Lock()
	m.atomicCalls++
	snapshot := m.snapshot()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.restore(snapshot)
		m.mu.Unlock()
		return err
	}
	return nil
}

type memState struct {
	tasks      map[string]domain.Task
	subTasks   map[string]domain.SubTask
	categories map[string]domain.Category
	tags       map[string]domain.Tag
	taskTags   map[string][]string
}

func (m *memRepo) snapshot() memState {
	tt := make(map[string][]string, len(m.taskTags))
	for k, v := range m.taskTags {
		tt[k] = slices.Clone(v)
	}
	return memState{
		tasks:      maps.Clone(m.tasks),
		subTasks:   maps.Clone(m.subTasks),
		categories: maps.Clone(m.categories),
		tags:       maps.Clone(m.tags),
		taskTags:   tt,
	}
}

func (m *memRepo) restore(s memState) {
	m.tasks, m.subTasks, m.categories, m.tags, m.taskTags = s.tasks, s.subTasks, s.categories, s.tags, s.taskTags
}

// === Tasks ===

func (m *memRepo) CreateTask(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failCreateTask; err != nil {
		m.failCreateTask = nil
		return err
	}
	if task.CategoryID != nil {
		if _, ok := m.categories[*task.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}
	m.tasks[task.ID] = copyTask(task)
	return nil
}

func (m *memRepo) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task := copyTask(&t)

	task.SubTasks = m.subTasksOf(id)
	task.Tags = []*domain.Tag{}
	for _, tagID := range m.taskTags[id] {
		tag := m.tags[tagID]
		task.Tags = append(task.Tags, &tag)
	}
	return &task, nil
}

func (m *memRepo) FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*domain.Task
	for _, t := range m.tasks {
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Priority != nil && t.Priority != *params.Priority {
			continue
		}
		if params.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *params.CategoryID) {
			continue
		}
		if params.TagID != nil && !slices.Contains(m.taskTags[t.ID], *params.TagID) {
			continue
		}
		task := copyTask(&t)
		all = append(all, &task)
	}

	slices.SortFunc(all, func(a, b *domain.Task) int {
		c := cmp.Compare(a.SortOrder, b.SortOrder)
		if params.OrderDir == domain.OrderDesc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	total := len(all)
	start := min(params.Offset, total)
	end := min(start+params.Limit, total)
	return &domain.PagedResult{
		Tasks:      all[start:end],
		TotalCount: total,
		HasMore:    end < total,
	}, nil
}

func (m *memRepo) UpdateTask(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	if task.CategoryID != nil {
		if _, ok := m.categories[*task.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}
	m.tasks[task.ID] = copyTask(task)
	return nil
}

func (m *memRepo) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	delete(m.taskTags, id)
	for sid, st := range m.subTasks {
		if st.TaskID == id {
			delete(m.subTasks, sid)
		}
	}
	return nil
}

func (m *memRepo) SetTaskSortOrder(ctx context.Context, id string, sortOrder int, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.SortOrder = sortOrder
	t.UpdatedAt = updatedAt
	m.tasks[id] = t
	return nil
}

func (m *memRepo) NextTaskSortOrder(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := 0
	for _, t := range m.tasks {
		next = max(next, t.SortOrder+1)
	}
	return next, nil
}

func (m *memRepo) CountTasks(ctx context.Context, status *domain.TaskStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if status == nil || t.Status == *status {
			n++
		}
	}
	return n, nil
}

// === Sub-tasks ===

func (m *memRepo) CreateSubTask(ctx context.Context, subTask *domain.SubTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[subTask.TaskID]; !ok {
		return domain.ErrTaskNotFound
	}
	m.subTasks[subTask.ID] = *subTask
	return nil
}

func (m *memRepo) FindSubTaskByID(ctx context.Context, id string) (*domain.SubTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.subTasks[id]
	if !ok {
		return nil, domain.ErrSubTaskNotFound
	}
	return &st, nil
}

func (m *memRepo) FindSubTasks(ctx context.Context, taskID string) ([]*domain.SubTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subTasksOf(taskID), nil
}

func (m *memRepo) subTasksOf(taskID string) []*domain.SubTask {
	out := []*domain.SubTask{}
	for _, st := range m.subTasks {
		if st.TaskID == taskID {
			out = append(out, &st)
		}
	}
	slices.SortFunc(out, func(a, b *domain.SubTask) int { return cmp.Compare(a.SortOrder, b.SortOrder) })
	return out
}

func (m *memRepo) UpdateSubTask(ctx context.Context, subTask *domain.SubTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subTasks[subTask.ID]; !ok {
		return domain.ErrSubTaskNotFound
	}
	m.subTasks[subTask.ID] = *subTask
	return nil
}

func (m *memRepo) DeleteSubTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subTasks[id]; !ok {
		return domain.ErrSubTaskNotFound
	}
	delete(m.subTasks, id)
	return nil
}

func (m *memRepo) NextSubTaskSortOrder(ctx context.Context, taskID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := 0
	for _, st := range m.subTasks {
		if st.TaskID == taskID {
			next = max(next, st.SortOrder+1)
		}
	}
	return next, nil
}

// === Categories ===

func (m *memRepo) CreateCategory(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.Name == category.Name {
			return domain.ErrDuplicateName
		}
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *memRepo) FindCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *memRepo) FindCategories(ctx context.Context) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Category{}
	for _, c := range m.categories {
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domain.Category) int { return cmp.Compare(a.SortOrder, b.SortOrder) })
	return out, nil
}

func (m *memRepo) UpdateCategory(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	for id, c := range m.categories {
		if id != category.ID && c.Name == category.Name {
			return domain.ErrDuplicateName
		}
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *memRepo) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	for tid, t := range m.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			m.tasks[tid] = t
		}
	}
	return nil
}

func (m *memRepo) NextCategorySortOrder(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := 0
	for _, c := range m.categories {
		next = max(next, c.SortOrder+1)
	}
	return next, nil
}

// === Tags ===

func (m *memRepo) CreateTag(ctx context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tags {
		if t.Name == tag.Name {
			return domain.ErrDuplicateName
		}
	}
	m.tags[tag.ID] = *tag
	return nil
}

func (m *memRepo) FindTagByID(ctx context.Context, id string) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tags[id]
	if !ok {
		return nil, domain.ErrTagNotFound
	}
	return &t, nil
}

func (m *memRepo) FindTags(ctx context.Context) ([]*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Tag{}
	for _, t := range m.tags {
		out = append(out, &t)
	}
	slices.SortFunc(out, func(a, b *domain.Tag) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *memRepo) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[tag.ID]; !ok {
		return domain.ErrTagNotFound
	}
	m.tags[tag.ID] = *tag
	return nil
}

func (m *memRepo) DeleteTag(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(m.tags, id)
	for taskID, ids := range m.taskTags {
		m.taskTags[taskID] = slices.DeleteFunc(ids, func(t string) bool { return t == id })
	}
	return nil
}

func (m *memRepo) ReplaceTaskTags(ctx context.Context, taskID string, tagIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range tagIDs {
		if _, ok := m.tags[id]; !ok {
			return domain.ErrTagNotFound
		}
	}
	m.taskTags[taskID] = slices.Clone(tagIDs)
	return nil
}

func (m *memRepo) AddTaskTag(ctx context.Context, taskID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(m.taskTags[taskID], tagID) {
		m.taskTags[taskID] = append(m.taskTags[taskID], tagID)
	}
	return nil
}

func (m *memRepo) RemoveTaskTag(ctx context.Context, taskID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.taskTags[taskID] = slices.DeleteFunc(m.taskTags[taskID], func(t string) bool { return t == tagID })
	return nil
}

// === Statistics ===

func (m *memRepo) CountCompletedBetween(ctx context.Context, start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if t.Status == domain.TaskStatusCompleted && t.CompletedAt != nil &&
			!t.CompletedAt.Before(start) && t.CompletedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CountCreatedBefore(ctx context.Context, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if t.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CompletedPerDay(ctx context.Context, start, end time.Time) ([]domain.DayCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := map[string]int{}
	for _, t := range m.tasks {
		if t.Status == domain.TaskStatusCompleted && t.CompletedAt != nil &&
			!t.CompletedAt.Before(start) && t.CompletedAt.Before(end) {
			counts[recurrence.FormatDate(t.CompletedAt.UTC())]++
		}
	}
	return toDayCounts(counts), nil
}

func (m *memRepo) CreatedPerDay(ctx context.Context, start, end time.Time) ([]domain.DayCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := map[string]int{}
	for _, t := range m.tasks {
		if !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			counts[recurrence.FormatDate(t.CreatedAt.UTC())]++
		}
	}
	return toDayCounts(counts), nil
}

func toDayCounts(counts map[string]int) []domain.DayCount {
	out := make([]domain.DayCount, 0, len(counts))
	for _, day := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, domain.DayCount{Day: day, Count: counts[day]})
	}
	return out
}

// copyTask drops loaded relations so stored rows never alias caller memory.
func copyTask(t *domain.Task) domain.Task {
	c := *t
	c.SubTasks = nil
	c.Tags = nil
	return c
}
