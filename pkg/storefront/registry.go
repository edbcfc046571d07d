package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Factory builds the controller for a new session.
type Factory func(ctx context.Context, sessionID string) *Controller

type session struct {
	once     sync.Once
	ctrl     *Controller
	err      error
	lastSeen time.Time
}

// Registry maps browser sessions to their controllers.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  Factory
	now      func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{sessions: make(map[string]*session), factory: factory, now: time.Now}
}

// Get returns the controller for sessionID, building it on first use. A
// failed build is not remembered; the next Get for the session retries.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Controller, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{}
		r.sessions[sessionID] = s
	}
	s.lastSeen = r.now()
	r.mu.Unlock()

	s.once.Do(func() { s.ctrl, s.err = r.build(ctx, sessionID) })
	if s.err != nil {
		r.mu.Lock()
		if r.sessions[sessionID] == s {
			delete(r.sessions, sessionID)
		}
		r.mu.Unlock()
		return nil, s.err
	}
	return s.ctrl, nil
}

func (r *Registry) build(ctx context.Context, sessionID string) (ctrl *Controller, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("storefront: building session: %v", p)
		}
	}()
	ctrl = r.factory(ctx, sessionID)
	if ctrl == nil {
		return nil, errors.New("storefront: factory returned no controller")
	}
	return ctrl, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep forgets sessions idle for longer than idle. Their snapshots stay in
// storage, so a returning browser gets its cart back.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}
