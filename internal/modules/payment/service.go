// README: Mock payment collaborator: fixed delay, then success. No settlement.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"voyager/internal/types"
)

var ErrInvalidAmount = errors.New("payment amount must be positive")

type Receipt struct {
	ID        types.ID    `json:"id"`
	Amount    types.Money `json:"amount"`
	Memo      string      `json:"memo"`
	ChargedAt time.Time   `json:"chargedAt"`
}

// MockCharger simulates checkout: it waits for the configured delay and then
// succeeds. A cancelled context aborts the charge.
type MockCharger struct {
	delay time.Duration
	log   *slog.Logger
	now   func() time.Time

	mu       sync.Mutex
	receipts []Receipt
}

func NewMockCharger(delay time.Duration, logger *slog.Logger) *MockCharger {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockCharger{delay: delay, log: logger.With("module", "payment"), now: time.Now}
}

func (c *MockCharger) Charge(ctx context.Context, amount types.Money, memo string) (Receipt, error) {
	if amount.Amount <= 0 {
		return Receipt{}, ErrInvalidAmount
	}
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			c.log.WarnContext(ctx, "payment aborted", "amount", amount.String(), "memo", memo)
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	r := Receipt{ID: types.NewID(), Amount: amount, Memo: memo, ChargedAt: c.now()}
	c.mu.Lock()
	c.receipts = append(c.receipts, r)
	c.mu.Unlock()
	c.log.InfoContext(ctx, "payment accepted", "receipt_id", r.ID, "amount", amount.String(), "memo", memo)
	return r, nil
}

// Receipts returns every successful charge in order.
func (c *MockCharger) Receipts() []Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Receipt(nil), c.receipts...)
}
