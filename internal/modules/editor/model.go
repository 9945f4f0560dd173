// README: Edit session states and the transition table.
package editor

import (
	"errors"

	"voyager/internal/modules/itinerary"
	"voyager/internal/types"
)

type State string

const (
	StateIdle       State = "IDLE"
	StatePrompting  State = "PROMPTING"
	StateSubmitting State = "SUBMITTING"
)

// AllowedTransitions represents the edit flow (diagram) as code.
// SUBMITTING returns to IDLE on success and to PROMPTING on failure.
var AllowedTransitions = map[State][]State{
	StateIdle:       {StatePrompting},
	StatePrompting:  {StateSubmitting, StateIdle},
	StateSubmitting: {StateIdle, StatePrompting},
}

func CanTransition(from, to State) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrInvalidState = errors.New("invalid edit state transition")
	// ErrBusy rejects a submission while another is in flight.
	ErrBusy = errors.New("an edit is already in flight")
	// ErrMergeFailure means the model answered but the edit could not be merged.
	ErrMergeFailure = errors.New("edit could not be applied")
	ErrEmptyPrompt  = errors.New("edit prompt is empty")
	ErrPayment      = errors.New("payment was not completed")
)

// Quote tells the caller whether the next edit is free and, if not, its price.
type Quote struct {
	Free      bool        `json:"free"`
	Price     types.Money `json:"price"`
	EditCount int         `json:"editCount"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	TripID    types.ID `json:"tripId"`
	State     State    `json:"state"`
	Prompt    string   `json:"prompt"`
	Quote     Quote    `json:"quote"`
	LastError string   `json:"lastError,omitempty"`
}

// Result is a successful edit.
type Result struct {
	Trip *itinerary.Trip
	Paid bool
}
