package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/storage"
)

// CreatedAtLayout matches the ISO-8601 form stored in createdAt.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrNotFound is returned when an operation that requires an existing task
// gets an unknown id.
var ErrNotFound = errors.New("task not found")

// Direction of a manual move.
type Direction int

const (
	Up Direction = iota
	Down
)

// TaskService owns the canonical ordered task list and the editing target.
// Every mutation writes the full list to the store before returning.
type TaskService struct {
	store *storage.Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	tasks   []model.Task
	editing string
}

// Option customises a TaskService.
type Option func(*TaskService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) { s.newID = newID }
}

func NewTaskService(store *storage.Store, log zerolog.Logger, opts ...Option) *TaskService {
	s := &TaskService{
		store: store,
		log:   log.With().Str("component", "tasks").Logger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the stored one. Records without an
// id, with a duplicate id or with a blank title are dropped.
func (s *TaskService) Load(ctx context.Context) {
	raw := storage.Load(ctx, s.store, storage.KeyAssignments, []json.RawMessage{})

	tasks := make([]model.Task, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, item := range raw {
		var task model.Task
		if err := json.Unmarshal(item, &task); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("skip malformed task")
			continue
		}
		if task.ID == "" || strings.TrimSpace(task.Title) == "" {
			s.log.Warn().Int("index", i).Str("id", task.ID).Msg("skip incomplete task")
			continue
		}
		if _, dup := seen[task.ID]; dup {
			s.log.Warn().Int("index", i).Str("id", task.ID).Msg("skip duplicate task")
			continue
		}
		seen[task.ID] = struct{}{}
		if task.Priority == "" {
			task.Priority = model.PriorityMedium
		}
		tasks = append(tasks, task)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.editing = ""
	s.mu.Unlock()

	s.log.Info().Int("count", len(tasks)).Msg("tasks loaded")
}

// Tasks returns a copy of the list in manual order.
func (s *TaskService) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id.
func (s *TaskService) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

// Add validates the draft and puts the new task at the front of the list.
func (s *TaskService) Add(ctx context.Context, draft model.Draft) (model.Task, error) {
	now := s.now()
	if err := Validate(draft, now).Err(); err != nil {
		return model.Task{}, err
	}

	priority, _ := model.ParsePriority(draft.Priority)
	task := model.Task{
		ID:        s.newID(),
		Title:     strings.TrimSpace(draft.Title),
		Category:  draft.Category,
		DueDate:   strings.TrimSpace(draft.DueDate),
		Priority:  priority,
		CreatedAt: now.UTC().Format(CreatedAtLayout),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.persist(ctx)

	s.log.Info().Str("id", task.ID).Msg("task added")
	return task, nil
}

// Update replaces the mutable fields of a task in place. Updating the
// editing target ends the edit.
func (s *TaskService) Update(ctx context.Context, id string, draft model.Draft) (model.Task, error) {
	if err := Validate(draft, s.now()).Err(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	priority, _ := model.ParsePriority(draft.Priority)
	task := &s.tasks[i]
	task.Title = strings.TrimSpace(draft.Title)
	task.Category = draft.Category
	task.DueDate = strings.TrimSpace(draft.DueDate)
	task.Priority = priority
	if s.editing == id {
		s.editing = ""
	}
	s.persist(ctx)

	s.log.Info().Str("id", id).Msg("task updated")
	return *task, nil
}

// Remove deletes a task. Unknown ids are ignored.
func (s *TaskService) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.editing == id {
		s.editing = ""
	}
	s.persist(ctx)

	s.log.Info().Str("id", id).Msg("task removed")
}

// ToggleComplete flips the completed flag. Unknown ids are ignored.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persist(ctx)

	s.log.Info().Str("id", id).Bool("completed", s.tasks[i].Completed).Msg("task toggled")
}

// Move swaps a task with its neighbour in the manual order. It does nothing
// at the boundary, for unknown ids or for an unknown direction.
func (s *TaskService) Move(ctx context.Context, id string, dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	var j int
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return
	}
	if j < 0 || j >= len(s.tasks) {
		return
	}
	s.tasks[i], s.tasks[j] = s.tasks[j], s.tasks[i]
	s.persist(ctx)
}

// BulkDeleteCompleted removes every completed task and returns how many.
func (s *TaskService) BulkDeleteCompleted(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.Completed {
			if s.editing == task.ID {
				s.editing = ""
			}
			continue
		}
		kept = append(kept, task)
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	s.persist(ctx)

	s.log.Info().Int("removed", removed).Msg("completed tasks deleted")
	return removed
}

// BeginEdit makes id the editing target.
func (s *TaskService) BeginEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return ErrNotFound
	}
	s.editing = id
	return nil
}

// CancelEdit clears the editing target.
func (s *TaskService) CancelEdit() {
	s.mu.Lock()
	s.editing = ""
	s.mu.Unlock()
}

// EditingTarget returns the id being edited, if any.
func (s *TaskService) EditingTarget() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing, s.editing != ""
}

func (s *TaskService) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held. Write failures keep the in-memory
// list; the store has already logged them.
func (s *TaskService) persist(ctx context.Context) {
	_ = s.store.Save(ctx, storage.KeyAssignments, s.tasks)
}
