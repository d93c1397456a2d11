// Package payment defines the payment-gateway port. The gateway tokenizes
// and charges cards out of band; this service only verifies intent status
// before accepting an order and issues refunds on cancellation.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Intent is the gateway's view of a payment.
type Intent struct {
	ID       string
	Status   string
	Amount   decimal.Decimal
	Currency string
}

// StatusSucceeded is the intent status required before order creation.
const StatusSucceeded = "succeeded"

// Succeeded reports whether the intent has been captured.
func (i *Intent) Succeeded() bool { return i.Status == StatusSucceeded }

// RefundResult is the gateway's answer to a refund request. Success is a
// business outcome distinct from a transport error: a declined refund
// comes back with Success=false and a nil error.
type RefundResult struct {
	Success  bool
	RefundID string
	Status   string
	Message  string
}

// Gateway is the port to the external card processor. Currency conversion
// to minor units happens inside implementations; the rest of the core
// works in decimal currency units.
type Gateway interface {
	GetIntent(ctx context.Context, id string) (*Intent, error)
	Refund(ctx context.Context, paymentRef string, amount decimal.Decimal) (*RefundResult, error)
}

// ToMinorUnits converts a decimal amount to integer minor units (cents)
// at the gateway boundary.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
