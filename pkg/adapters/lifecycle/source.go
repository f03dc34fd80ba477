package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/foodtracker/pkg/core"
)

// SourceOption configures a meal event source.
type SourceOption func(*mealSource)

// WithEventTypes forwards only events of the given types.
// Without it every event is forwarded.
func WithEventTypes(types ...core.EventType) SourceOption {
	return func(s *mealSource) {
		s.accept = make(map[core.EventType]bool, len(types))
		for _, t := range types {
			s.accept[t] = true
		}
	}
}

type mealSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	accept map[core.EventType]bool
}

// NewSource creates a lifecycle.Source from a meal event channel, such as the
// one returned by Service.Subscribe or Service.Watch.
// The source stops when either the input channel is closed or the context
// given to Start is done.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &mealSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *mealSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *mealSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.accept != nil && !s.accept[e.Type] {
					continue
				}
				// core.Event satisfies lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
