package todo

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/smarttask/internal/clock"
)

// Store owns an ordered, in-memory collection of tasks. Insertion order is
// the base order; sorting happens only in View.
//
// Mutations take the write lock and queries take the read lock, so a query
// never observes a half-applied mutation. Every method returns copies.
type Store struct {
	mu    sync.RWMutex
	tasks []Task

	clock           clock.Clock
	ids             IDGenerator
	logger          *log.Logger
	defaultPriority Priority
	defaultCategory Category
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for creation timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithIDGenerator sets the id source for new tasks.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithLogger sets the logger that records mutations at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithDefaults sets the priority and category given to drafts that leave
// them empty. Invalid values are ignored.
func WithDefaults(p Priority, c Category) Option {
	return func(s *Store) {
		if p.Valid() {
			s.defaultPriority = p
		}
		if c.Valid() {
			s.defaultCategory = c
		}
	}
}

// NewStore returns an empty store. Without options it uses the real clock,
// sequential ids, a discarding logger, and medium/personal defaults.
func NewStore(opts ...Option) *Store {
	s := &Store{
		clock:           clock.Real(),
		ids:             NewSequentialIDs(""),
		logger:          log.New(io.Discard),
		defaultPriority: PriorityMedium,
		defaultCategory: CategoryPersonal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the priority and category applied to sparse drafts.
func (s *Store) Defaults() (Priority, Category) {
	return s.defaultPriority, s.defaultCategory
}

// Add creates a task from d and appends it. It fails with a
// *ValidationError, leaving the store unchanged, when the trimmed title is
// empty or an enum value is unknown.
func (s *Store) Add(d Draft) (Task, error) {
	task := Task{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Priority:    d.Priority,
		Category:    d.Category,
		DueDate:     d.DueDate,
	}
	if task.Priority == "" {
		task.Priority = s.defaultPriority
	}
	if task.Category == "" {
		task.Category = s.defaultCategory
	}
	if err := validateTask(&task); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.NextID()
	if s.indexOf(id) >= 0 {
		return Task{}, fmt.Errorf("id generator repeated live id %q", id)
	}
	task.ID = id
	task.CreatedAt = s.clock.Now()
	s.tasks = append(s.tasks, task)

	s.logger.Debug("task added", "id", task.ID, "priority", task.Priority, "category", task.Category)
	return task, nil
}

// Toggle flips the completion state of the task with the given id.
func (s *Store) Toggle(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	s.tasks[i].Completed = !s.tasks[i].Completed

	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return s.tasks[i], nil
}

// Remove deletes the task with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.logger.Debug("task removed", "id", id)
	return nil
}

// Edit applies p to the task with the given id. The patch is applied in
// full or not at all. ID and CreatedAt never change.
func (s *Store) Edit(id string, p Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	updated := s.tasks[i]
	if p.Title != nil {
		updated.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		updated.Description = *p.Description
	}
	if p.Priority != nil {
		updated.Priority = *p.Priority
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}
	if p.DueDate != nil {
		updated.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		updated.Completed = *p.Completed
	}
	if err := validateTask(&updated); err != nil {
		return Task{}, err
	}
	s.tasks[i] = updated

	s.logger.Debug("task edited", "id", id)
	return updated, nil
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// All returns every task in insertion order.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// indexOf returns the position of id, or -1. Callers hold the lock.
func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// validateTask checks the fields every stored task must satisfy.
func validateTask(t *Task) *ValidationError {
	if t.Title == "" {
		return invalid("title", "must not be empty")
	}
	if !t.Priority.Valid() {
		return invalid("priority", "invalid priority %q, must be one of: low, medium, high", t.Priority)
	}
	if !t.Category.Valid() {
		return invalid("category", "invalid category %q, must be one of: personal, work, health, learning", t.Category)
	}
	return nil
}
