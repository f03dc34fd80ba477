package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultEventBuffer is the subscriber channel size used when none is configured.
const DefaultEventBuffer = 100

// Service is the meal store: it owns the ordered meal list and keeps the
// repository in sync with it. Every mutation is followed by a full save.
//
// A single caller is expected to drive the mutations. The lock only protects
// readers such as introspection and subscribers.
type Service struct {
	mu   sync.RWMutex
	repo Repository

	logger          *slog.Logger
	saveErrHandler  func(error)
	eventBufferSize int
	subscribers     []chan Event

	meals       []Meal
	source      Source
	loaded      bool
	lastSave    *time.Time
	lastSaveErr error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSaveErrorHandler registers a callback invoked whenever a save fails.
// Save failures never abort a mutation; this is how callers get to know.
func WithSaveErrorHandler(fn func(error)) ServiceOption {
	return func(s *Service) {
		s.saveErrHandler = fn
	}
}

// WithServiceEventBuffer sets the buffer size of subscriber channels.
func WithServiceEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service backed by repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		eventBufferSize: DefaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the meals from the repository. When there is no usable saved
// state it falls back to LoadSampleData. The sample meals are only persisted
// by the first mutation.
func (s *Service) Load(ctx context.Context) (Source, error) {
	if err := ctx.Err(); err != nil {
		return SourceNone, err
	}

	meals, err := s.repo.Load(ctx)
	source := SourceStorage
	if err != nil {
		if errors.Is(err, ErrNoSavedState) {
			s.logger.Debug("no saved meals, loading sample data", "reason", err)
		} else {
			s.logger.Warn("failed to load meals, loading sample data", "error", err)
		}
		meals = s.LoadSampleData()
		source = SourceSample
	}

	s.mu.Lock()
	s.meals = meals
	s.source = source
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("meals loaded", "source", source, "count", len(meals))
	return source, nil
}

// Reload replaces the in-memory meals with the persisted ones.
// Unlike Load it does not fall back to sample data: on failure the current
// list is kept and the error is returned.
func (s *Service) Reload(ctx context.Context) error {
	meals, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload meals: %w", err)
	}

	s.mu.Lock()
	s.meals = meals
	s.source = SourceStorage
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// LoadSampleData returns the hard-coded seed list.
func (s *Service) LoadSampleData() []Meal {
	return SampleMeals()
}

// Loaded reports whether Load has been called.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Meals returns a copy of the current list.
func (s *Service) Meals() []Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.meals)
}

// Len returns the number of meals.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meals)
}

// At returns the meal at position i.
func (s *Service) At(i int) (Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.at(i)
}

// Add appends m to the list, saves, and returns the new meal's index.
func (s *Service) Add(ctx context.Context, m Meal) (int, error) {
	if m.IsZero() {
		return -1, ErrInvalidMeal
	}

	s.mu.Lock()
	s.meals = Insert(s.meals, m)
	index := len(s.meals) - 1
	s.mu.Unlock()

	s.logger.Debug("adding a new meal", "index", index, "name", m.Name())
	s.afterMutation(ctx, newEvent(EventAdd, index, index+1), "add "+m.Name())
	return index, nil
}

// Replace swaps the meal at position i for m and saves.
func (s *Service) Replace(ctx context.Context, i int, m Meal) error {
	if m.IsZero() {
		return ErrInvalidMeal
	}

	s.mu.Lock()
	meals, err := Replace(s.meals, i, m)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.meals = meals
	count := len(meals)
	s.mu.Unlock()

	s.afterMutation(ctx, newEvent(EventReplace, i, count), "update "+m.Name())
	return nil
}

// RemoveAt deletes the meal at position i and saves.
func (s *Service) RemoveAt(ctx context.Context, i int) error {
	s.mu.Lock()
	removed, err := s.at(i)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	meals, _ := RemoveAt(s.meals, i)
	s.meals = meals
	count := len(meals)
	s.mu.Unlock()

	s.afterMutation(ctx, newEvent(EventRemove, i, count), "remove "+removed.Name())
	return nil
}

// Move reorders the list so that the meal at from ends up at to, then saves.
func (s *Service) Move(ctx context.Context, from, to int) error {
	s.mu.Lock()
	meals, err := Move(s.meals, from, to)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.meals = meals
	count := len(meals)
	s.mu.Unlock()

	s.afterMutation(ctx, newEvent(EventMove, to, count), fmt.Sprintf("move %d to %d", from, to))
	return nil
}

// Save persists the whole current list.
// On failure the in-memory list stays authoritative: the error is logged,
// recorded, passed to the save error handler and returned.
func (s *Service) Save(ctx context.Context) error {
	meals := s.Meals()

	if err := s.repo.Save(ctx, meals); err != nil {
		err = fmt.Errorf("failed to save meals: %w", err)
		s.logger.Error("failed to save meals", "error", err, "count", len(meals))

		s.mu.Lock()
		s.lastSaveErr = err
		s.mu.Unlock()

		if s.saveErrHandler != nil {
			s.saveErrHandler(err)
		}
		s.publish(newEvent(EventSaveFailed, -1, len(meals)))
		return err
	}

	now := time.Now()
	s.mu.Lock()
	s.lastSave = &now
	s.lastSaveErr = nil
	s.mu.Unlock()

	s.logger.Debug("meals successfully saved", "count", len(meals))
	s.publish(newEvent(EventSave, -1, len(meals)))
	return nil
}

// LastSaveError returns the error of the last save, or nil if it succeeded.
func (s *Service) LastSaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveErr
}

// Subscribe returns a channel receiving every list change and save outcome.
// Events are dropped for subscribers that do not keep up.
func (s *Service) Subscribe() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, s.eventBufferSize)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Close closes every subscriber channel.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

// Watch observes changes made to the archive outside this service, if the
// repository supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}

// History lists past revisions of the archive, if the repository keeps them.
func (s *Service) History(ctx context.Context, limit int) ([]Revision, error) {
	h, ok := s.repo.(Historian)
	if !ok {
		return nil, errors.New("repository does not keep history")
	}
	return h.History(ctx, limit)
}

func (s *Service) afterMutation(ctx context.Context, e Event, subject string) {
	s.publish(e)

	if val, ok := ctx.Value(ChangeReasonKey).(string); !ok || val == "" {
		ctx = context.WithValue(ctx, ChangeReasonKey, FormatChangeReason(changeTypeFor(e.Type), "meals", subject, ""))
	}
	// Save failures are reported through the logger, the handler and the
	// event stream. The mutation itself succeeded.
	_ = s.Save(ctx)
}

func (s *Service) at(i int) (Meal, error) {
	if err := checkIndex(s.meals, i); err != nil {
		return Meal{}, err
	}
	return s.meals[i], nil
}

func (s *Service) publish(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- e:
		default:
			s.logger.Debug("subscriber is full, dropping event", "event", e.String())
		}
	}
}

func changeTypeFor(t EventType) string {
	switch t {
	case EventAdd:
		return CommitTypeFeat
	case EventRemove:
		return CommitTypeChore
	default:
		return CommitTypeRefactor
	}
}
