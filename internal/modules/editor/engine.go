// README: Edit engine: quota gate, payment, model edit, merge back onto the trip.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"voyager/internal/modules/itinerary"
	"voyager/internal/modules/payment"
	"voyager/internal/types"
)

// Proposer produces a model patch for an edit instruction.
type Proposer interface {
	ProposeEdit(ctx context.Context, t *itinerary.Trip, instruction string) (*itinerary.Patch, error)
}

// Charger collects the per-edit price once the free quota is spent.
type Charger interface {
	Charge(ctx context.Context, amount types.Money, memo string) (payment.Receipt, error)
}

type Engine struct {
	proposer  Proposer
	charger   Charger
	freeEdits int
	price     types.Money
	log       *slog.Logger
}

func NewEngine(proposer Proposer, charger Charger, freeEdits int, price types.Money, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		proposer:  proposer,
		charger:   charger,
		freeEdits: freeEdits,
		price:     price,
		log:       logger.With("module", "editor"),
	}
}

// IsFree reports whether an edit on a trip with editCount prior edits is covered by the quota.
func (e *Engine) IsFree(editCount int) bool {
	return editCount < e.freeEdits
}

func (e *Engine) quote(t *itinerary.Trip, credit bool) Quote {
	return Quote{Free: credit || e.IsFree(t.EditCount), Price: e.price, EditCount: t.EditCount}
}

// Session is the edit state machine for one trip.
type Session struct {
	engine *Engine

	mu       sync.Mutex
	state    State
	trip     *itinerary.Trip
	prompt   string
	lastErr  error
	charging bool
	// credit is set when a paid edit could not be saved; the next edit is not charged.
	credit bool
}

// NewSession returns an IDLE session over a private copy of t.
func (e *Engine) NewSession(t *itinerary.Trip) *Session {
	return &Session{engine: e, state: StateIdle, trip: t.Clone()}
}

func (s *Session) transition(to State) error {
	if !CanTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, s.state, to)
	}
	s.state = to
	return nil
}

// Open moves IDLE -> PROMPTING against the latest copy of the trip and
// returns the quote for the next edit.
func (s *Session) Open(t *itinerary.Trip) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.charging {
		return Quote{}, ErrBusy
	}
	if s.state == StatePrompting {
		s.trip = t.Clone()
		return s.engine.quote(s.trip, s.credit), nil
	}
	if err := s.transition(StatePrompting); err != nil {
		return Quote{}, err
	}
	s.trip = t.Clone()
	s.lastErr = nil
	return s.engine.quote(s.trip, s.credit), nil
}

// Cancel closes the editor: PROMPTING -> IDLE. An in-flight edit cannot be cancelled.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return nil
	}
	if s.charging || s.state == StateSubmitting {
		return ErrBusy
	}
	if err := s.transition(StateIdle); err != nil {
		return err
	}
	s.prompt = ""
	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		TripID: s.trip.ID,
		State:  s.state,
		Prompt: s.prompt,
		Quote:  s.engine.quote(s.trip, s.credit),
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// Submit runs one edit against current, the caller's latest copy of the trip,
// so changes made since Open (manual additions, reloads) are kept. A nil
// current falls back to the copy taken at Open. When the free quota is spent
// the payment collaborator is charged first and the edit only proceeds once it
// succeeds. On success the session returns to IDLE with the merged trip; on any
// model or merge failure it returns to PROMPTING with the prompt kept for a retry.
func (s *Session) Submit(ctx context.Context, current *itinerary.Trip, prompt string) (Result, error) {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	if s.state == StateSubmitting || s.charging {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	if s.state != StatePrompting {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: submit from %s", ErrInvalidState, s.state)
	}
	s.prompt = prompt
	if prompt == "" {
		s.mu.Unlock()
		return Result{}, ErrEmptyPrompt
	}
	if current != nil {
		if current.ID != s.trip.ID {
			s.mu.Unlock()
			return Result{}, fmt.Errorf("%w: session is for trip %s, not %s", ErrInvalidState, s.trip.ID, current.ID)
		}
		s.trip = current.Clone()
	}
	base := s.trip
	paid := !s.credit && !s.engine.IsFree(base.EditCount)
	if paid {
		s.charging = true
	}
	s.mu.Unlock()

	if paid {
		_, err := s.engine.charger.Charge(ctx, s.engine.price, fmt.Sprintf("edit %d of trip %s", base.EditCount+1, base.ID))
		s.mu.Lock()
		s.charging = false
		if err != nil {
			s.lastErr = fmt.Errorf("%w: %v", ErrPayment, err)
			s.mu.Unlock()
			return Result{}, s.lastErr
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	if err := s.transition(StateSubmitting); err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	s.mu.Unlock()

	updated, err := s.engine.apply(ctx, base, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		_ = s.transition(StatePrompting)
		return Result{}, err
	}
	s.trip = updated.Clone()
	s.prompt = ""
	s.lastErr = nil
	s.credit = false
	_ = s.transition(StateIdle)
	return Result{Trip: updated, Paid: paid}, nil
}

// SaveFailed reopens a finished edit whose result the caller could not
// persist: IDLE -> PROMPTING with the prompt restored and err recorded. A paid
// edit leaves a credit so the retry is not charged again.
func (s *Session) SaveFailed(prompt string, res Result, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if terr := s.transition(StatePrompting); terr != nil {
		return terr
	}
	s.prompt = strings.TrimSpace(prompt)
	s.lastErr = err
	if res.Paid {
		s.credit = true
	}
	return nil
}

// apply asks the model for a patch and merges it onto base. Any parse or
// validation problem is reported as ErrMergeFailure.
func (e *Engine) apply(ctx context.Context, base *itinerary.Trip, prompt string) (*itinerary.Trip, error) {
	patch, err := e.proposer.ProposeEdit(ctx, base, prompt)
	if err != nil {
		if errors.Is(err, itinerary.ErrParse) {
			return nil, fmt.Errorf("%w: %w", ErrMergeFailure, err)
		}
		return nil, err
	}
	merged, err := Merge(base, patch)
	if err != nil {
		e.log.WarnContext(ctx, "edit merge rejected", "trip_id", base.ID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrMergeFailure, err)
	}
	e.log.InfoContext(ctx, "trip edited", "trip_id", merged.ID, "edit_count", merged.EditCount)
	return merged, nil
}

// Merge overlays the whitelisted fields of patch onto a copy of base, keeps
// base's identity and sets editCount to base's count plus one.
func Merge(base *itinerary.Trip, patch *itinerary.Patch) (*itinerary.Trip, error) {
	if patch == nil || patch.Empty() {
		return nil, errors.New("empty patch")
	}
	merged, err := patch.Apply(base)
	if err != nil {
		return nil, err
	}
	merged.ID = base.ID
	merged.EditCount = base.EditCount + 1
	return merged, nil
}
