package editor

import (
	"sync"

	"voyager/internal/modules/itinerary"
	"voyager/internal/types"
)

// Sessions holds one edit session per (user, trip).
type Sessions struct {
	engine *Engine

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(engine *Engine) *Sessions {
	return &Sessions{engine: engine, sessions: make(map[string]*Session)}
}

func sessionKey(uid string, tripID types.ID) string {
	return uid + "/" + string(tripID)
}

// Get returns the user's session for the trip, creating an IDLE one if needed.
func (r *Sessions) Get(uid string, t *itinerary.Trip) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sessionKey(uid, t.ID)
	s, ok := r.sessions[key]
	if !ok {
		s = r.engine.NewSession(t)
		r.sessions[key] = s
	}
	return s
}

// Lookup returns an existing session without creating one.
func (r *Sessions) Lookup(uid string, tripID types.ID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionKey(uid, tripID)]
	return s, ok
}

// Drop forgets the session once its trip is deleted.
func (r *Sessions) Drop(uid string, tripID types.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionKey(uid, tripID))
}
