// Package loader owns the lifecycle of a single people collection fetch: the
// loading and failure flags and the last successfully fetched collection.
package loader

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/kinfolk/kinctl/internal/log"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/people/source"
)

// State is a point-in-time snapshot of the controller.
type State struct {
	People  []people.Person
	Loading bool
	Failed  bool
}

// Listener is notified after every state transition.
type Listener func(State)

// Controller fetches the people collection and tracks the load flags.
type Controller struct {
	src      source.Source
	logger   *slog.Logger
	listener Listener

	// fetch serializes Load calls so at most one fetch is in flight.
	fetch sync.Mutex

	mu    sync.RWMutex
	state State
}

type Option func(*Controller)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithListener registers the change listener.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listener = l
	}
}

func New(src source.Source, opts ...Option) *Controller {
	c := &Controller{
		src:    src,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state. The People slice is a copy.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Load performs one fetch. On success the collection is replaced. On failure
// Failed is set and the previous collection is kept. Loading is cleared in
// both cases. The returned error is the fetch error, for callers that want
// the detail; the state itself only carries the flag.
func (c *Controller) Load(ctx context.Context) error {
	c.fetch.Lock()
	defer c.fetch.Unlock()

	c.update(func(s *State) {
		s.Failed = false
		s.Loading = true
	})

	fetched, err := c.src.ListPeople(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "people fetch failed", slog.Any("error", err))
		c.update(func(s *State) {
			s.Failed = true
			s.Loading = false
		})
		return err
	}

	if fetched == nil {
		fetched = []people.Person{}
	}
	c.update(func(s *State) {
		s.People = fetched
		s.Loading = false
	})
	return nil
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if c.listener != nil {
		c.listener(snapshot)
	}
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.People = slices.Clone(c.state.People)
	return s
}
