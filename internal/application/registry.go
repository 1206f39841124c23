package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// ErrViewNotFound is returned for a view ID that was never mounted or has
// been unmounted.
var ErrViewNotFound = errors.New("view not found")

// ViewRegistry owns the mounted views. Views idle for longer than ttl are
// unmounted by the sweeper, which covers tabs closed without an unload
// request reaching the server.
type ViewRegistry struct {
	prSvc    *PRService
	sink     driven.SubmissionSink
	clock    Clock
	basePath string
	ttl      time.Duration
	interval time.Duration
	logger   zerolog.Logger

	mu    sync.RWMutex
	views map[string]*View
}

// RegistryOptions configures a ViewRegistry.
type RegistryOptions struct {
	BasePath      string
	TTL           time.Duration
	SweepInterval time.Duration
	Clock         Clock
	Logger        zerolog.Logger
}

// NewViewRegistry creates an empty registry.
func NewViewRegistry(prSvc *PRService, sink driven.SubmissionSink, opts RegistryOptions) *ViewRegistry {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &ViewRegistry{
		prSvc:    prSvc,
		sink:     sink,
		clock:    clock,
		basePath: opts.BasePath,
		ttl:      opts.TTL,
		interval: opts.SweepInterval,
		logger:   opts.Logger.With().Str("component", "views").Logger(),
		views:    make(map[string]*View),
	}
}

// Mount loads the PR detail and registers a fresh view for it.
func (r *ViewRegistry) Mount(ctx context.Context, prID string) (*View, error) {
	detail, err := r.prSvc.Detail(ctx, prID)
	if err != nil {
		return nil, err
	}
	all, err := r.prSvc.List(ctx)
	if err != nil {
		return nil, err
	}

	v := NewView(detail, ViewOptions{
		ID:       uuid.NewString(),
		BasePath: r.basePath,
		AllPRs:   all,
		Clock:    r.clock,
		Sink:     r.sink,
		Logger:   r.logger,
	})

	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()

	r.logger.Debug().Str("view", v.ID).Str("pr", prID).Msg("view mounted")
	return v, nil
}

// Get returns a mounted view.
func (r *ViewRegistry) Get(id string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("view %q: %w", id, ErrViewNotFound)
	}
	return v, nil
}

// Unmount removes and unmounts a view.
func (r *ViewRegistry) Unmount(id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("view %q: %w", id, ErrViewNotFound)
	}
	v.Unmount()
	r.logger.Debug().Str("view", id).Msg("view unmounted")
	return nil
}

// Len returns the number of mounted views.
func (r *ViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Sweep unmounts every view idle for longer than the TTL and returns how
// many were removed.
func (r *ViewRegistry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*View
	for id, v := range r.views {
		if v.LastSeen().Before(cutoff) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.Unmount()
	}
	return len(stale)
}

// Start runs the sweeper on the configured interval until ctx is canceled.
// Remaining views are unmounted on exit.
func (r *ViewRegistry) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.unmountAll()
			r.logger.Info().Msg("view sweeper stopped")
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info().Int("swept", n).Int("mounted", r.Len()).Msg("idle views unmounted")
			}
		}
	}
}

func (r *ViewRegistry) unmountAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.Unmount()
	}
}
