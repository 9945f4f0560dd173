// README: Trip collection manager: the authoritative in-memory list for one user.
package trips

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"voyager/internal/modules/itinerary"
	"voyager/internal/types"
)

// Deps are the collaborators shared by every user's manager.
type Deps struct {
	Store     Store
	Trials    TrialStore
	Feed      Feed
	Charger   Charger
	TripPrice types.Money
	Logger    *slog.Logger
}

type Manager struct {
	uid  string
	deps Deps
	log  *slog.Logger

	mu       sync.Mutex
	trips    []*itinerary.Trip
	selected *itinerary.Trip
}

func NewManager(uid string, deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		uid:  uid,
		deps: deps,
		log:  logger.With("module", "trips", "uid", uid),
	}
}

// Load replaces the local list with the store's contents. On failure the
// previous list is kept and the error is returned for the caller to report.
func (m *Manager) Load(ctx context.Context) error {
	list, err := m.deps.Store.List(ctx, m.uid)
	if err != nil {
		m.log.WarnContext(ctx, "load trips failed, keeping last known list", "err", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = list
	if m.selected != nil {
		if t, ok := lo.Find(list, func(t *itinerary.Trip) bool { return t.ID == m.selected.ID }); ok {
			m.selected = t
		} else {
			m.selected = nil
		}
	}
	return nil
}

// Trips returns a snapshot of the list, newest first.
func (m *Manager) Trips() []*itinerary.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*itinerary.Trip(nil), m.trips...)
}

func (m *Manager) Get(id types.ID) (*itinerary.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := lo.Find(m.trips, func(t *itinerary.Trip) bool { return t.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Select marks the trip currently being viewed.
func (m *Manager) Select(id types.ID) (*itinerary.Trip, error) {
	t, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.selected = t
	m.mu.Unlock()
	return t, nil
}

func (m *Manager) Selected() *itinerary.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// NextTripFree reports whether the next AddTrip would use the free trial.
func (m *Manager) NextTripFree(ctx context.Context) (bool, error) {
	used, err := m.deps.Trials.Used(ctx, m.uid)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return !used, nil
}

// AddTrip admits a new trip. The user's first trip is free; later ones are
// charged TripPrice before anything is persisted. A failed insert leaves the
// local list unchanged and hands a claimed free trial back.
func (m *Manager) AddTrip(ctx context.Context, t *itinerary.Trip) (AddResult, error) {
	free, err := m.deps.Trials.Claim(ctx, m.uid)
	if err != nil {
		return AddResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !free {
		memo := fmt.Sprintf("trip %s", t.Name)
		if _, err := m.deps.Charger.Charge(ctx, m.deps.TripPrice, memo); err != nil {
			m.log.WarnContext(ctx, "trip payment failed", "trip_id", t.ID, "err", err)
			return AddResult{}, fmt.Errorf("%w: %v", ErrPayment, err)
		}
	}

	if err := m.deps.Store.Insert(ctx, m.uid, t); err != nil {
		m.log.ErrorContext(ctx, "persist trip failed", "trip_id", t.ID, "err", err)
		if free {
			if rerr := m.deps.Trials.Release(ctx, m.uid); rerr != nil {
				m.log.WarnContext(ctx, "release free trial failed", "err", rerr)
			}
		}
		return AddResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	m.mu.Lock()
	m.trips = append([]*itinerary.Trip{t}, lo.Reject(m.trips, func(x *itinerary.Trip, _ int) bool { return x.ID == t.ID })...)
	m.selected = t
	m.mu.Unlock()

	m.log.InfoContext(ctx, "trip added", "trip_id", t.ID, "paid", !free)
	return AddResult{Trip: t, Paid: !free}, nil
}

// UpdateTrip persists t and then replaces the entry with the same identity in
// the list and in the selection. Nothing local changes when the write fails.
func (m *Manager) UpdateTrip(ctx context.Context, t *itinerary.Trip) error {
	if _, err := m.Get(t.ID); err != nil {
		return err
	}
	if err := m.deps.Store.Update(ctx, m.uid, t); err != nil {
		m.log.ErrorContext(ctx, "persist trip update failed", "trip_id", t.ID, "err", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.trips {
		if x.ID == t.ID {
			m.trips[i] = t
		}
	}
	if m.selected != nil && m.selected.ID == t.ID {
		m.selected = t
	}
	return nil
}

// DeleteTrip removes the trip locally first, then from the store. When the
// store refuses, the list is reloaded so the trip reappears.
func (m *Manager) DeleteTrip(ctx context.Context, id types.ID) error {
	m.mu.Lock()
	before := len(m.trips)
	m.trips = lo.Reject(m.trips, func(t *itinerary.Trip, _ int) bool { return t.ID == id })
	removed := len(m.trips) != before
	if m.selected != nil && m.selected.ID == id {
		m.selected = nil
	}
	m.mu.Unlock()
	if !removed {
		return ErrNotFound
	}

	if err := m.deps.Store.Delete(ctx, m.uid, id); err != nil {
		m.log.WarnContext(ctx, "delete trip failed, reloading", "trip_id", id, "err", err)
		_ = m.Load(ctx)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	m.log.InfoContext(ctx, "trip deleted", "trip_id", id)
	return nil
}

// Watch subscribes to the change feed and reloads on every signal until ctx
// ends. It returns once the subscription is established.
func (m *Manager) Watch(ctx context.Context) error {
	if m.deps.Feed == nil {
		return nil
	}
	changes, err := m.deps.Feed.Subscribe(ctx, m.uid)
	if err != nil {
		return err
	}
	go func() {
		for range changes {
			_ = m.Load(ctx)
		}
	}()
	return nil
}
