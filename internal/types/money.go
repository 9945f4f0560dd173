// README: Common money value object used across modules.
package types

import "fmt"

// Money is an amount in minor units (cents) with an ISO currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// String renders the amount the way it is shown on payment prompts, e.g. "$0.99".
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	symbol := m.Currency + " "
	if m.Currency == "" || m.Currency == "USD" {
		symbol = "$"
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, amount/100, amount%100)
}
