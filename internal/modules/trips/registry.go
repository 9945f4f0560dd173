package trips

import (
	"context"
	"log/slog"
	"sync"
)

type entry struct {
	manager *Manager
	cancel  context.CancelFunc
}

// Registry keeps one Manager per signed-in user, each loaded once and kept
// fresh by its change-feed subscription.
type Registry struct {
	deps Deps
	log  *slog.Logger

	mu       sync.Mutex
	managers map[string]*entry
}

func NewRegistry(deps Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{deps: deps, log: logger.With("module", "trips"), managers: make(map[string]*entry)}
}

// Get returns the user's manager, creating, loading and subscribing it on
// first use. Load and subscription failures are logged, not returned.
func (r *Registry) Get(ctx context.Context, uid string) *Manager {
	r.mu.Lock()
	if e, ok := r.managers[uid]; ok {
		r.mu.Unlock()
		return e.manager
	}
	m := NewManager(uid, r.deps)
	watchCtx, cancel := context.WithCancel(context.Background())
	r.managers[uid] = &entry{manager: m, cancel: cancel}
	r.mu.Unlock()

	_ = m.Load(ctx)
	if err := m.Watch(watchCtx); err != nil {
		r.log.WarnContext(ctx, "trip feed subscription failed", "uid", uid, "err", err)
	}
	return m
}

// Drop forgets the user's manager and stops its subscription, e.g. on sign-out.
func (r *Registry) Drop(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.managers[uid]; ok {
		e.cancel()
		delete(r.managers, uid)
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for uid, e := range r.managers {
		e.cancel()
		delete(r.managers, uid)
	}
}
