package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/foodtracker/pkg/core"
)

// Open prepares the store at uri, loads its meals (falling back to sample
// data) and returns the ready-to-use meal store.
//
//	store, err := platform.Open(dir, platform.WithAutoInit(true))
func Open(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	service, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}

	if _, err := service.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}
	return service, nil
}

// New prepares the store at uri and returns the meal store without loading it.
// The URI argument is adapter-specific (a directory for 'fs').
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}

	serviceOpts := []core.ServiceOption{core.WithServiceLogger(o.logger)}
	if fn, ok := o.config["save_error_handler"].(func(error)); ok {
		serviceOpts = append(serviceOpts, core.WithSaveErrorHandler(fn))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		serviceOpts = append(serviceOpts, core.WithServiceEventBuffer(size))
	}

	return core.NewService(repo, serviceOpts...), nil
}
