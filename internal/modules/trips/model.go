// README: Trip collection collaborators: persistence, change feed, free-trial flag, payment.
package trips

import (
	"context"
	"errors"

	"voyager/internal/modules/itinerary"
	"voyager/internal/modules/payment"
	"voyager/internal/types"
)

var (
	ErrPersistence = errors.New("trip store unavailable")
	ErrNotFound    = errors.New("trip not found")
	ErrPayment     = errors.New("trip payment was not completed")
)

// Store persists trips per owning user. List is newest first.
type Store interface {
	List(ctx context.Context, uid string) ([]*itinerary.Trip, error)
	Insert(ctx context.Context, uid string, t *itinerary.Trip) error
	Update(ctx context.Context, uid string, t *itinerary.Trip) error
	Delete(ctx context.Context, uid string, id types.ID) error
}

// Notifier announces that a user's trip collection changed.
type Notifier interface {
	Notify(ctx context.Context, uid string) error
}

// Feed delivers a payload-free signal for every remote change to a user's
// trips. The channel closes when ctx ends.
type Feed interface {
	Subscribe(ctx context.Context, uid string) (<-chan struct{}, error)
}

// TrialStore holds the per-user "free trial used" flag. Claim sets the flag
// and reports whether this call was the one that set it.
type TrialStore interface {
	Used(ctx context.Context, uid string) (bool, error)
	Claim(ctx context.Context, uid string) (bool, error)
	Release(ctx context.Context, uid string) error
}

type Charger interface {
	Charge(ctx context.Context, amount types.Money, memo string) (payment.Receipt, error)
}

// AddResult reports how a new trip was admitted.
type AddResult struct {
	Trip *itinerary.Trip
	Paid bool
}
