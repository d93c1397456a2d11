package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrIntentNotFound is returned for unknown payment references.
var ErrIntentNotFound = errors.New("payment: intent not found")

// MemoryGateway is an in-memory Gateway for development and tests. It
// records refunds and can be flipped to decline them.
type MemoryGateway struct {
	mu       sync.Mutex
	intents  map[string]Intent
	refunded map[string]int64 // refund id -> minor units

	// FailRefunds makes every refund come back declined.
	FailRefunds bool
}

var _ Gateway = (*MemoryGateway)(nil)

// NewMemoryGateway returns an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		intents:  make(map[string]Intent),
		refunded: make(map[string]int64),
	}
}

// Seed registers an intent, returning its id. Used by dev wiring and tests
// to simulate a payment collected before submission.
func (g *MemoryGateway) Seed(status string, amount decimal.Decimal) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := "pi_" + uuid.NewString()
	g.intents[id] = Intent{ID: id, Status: status, Amount: amount, Currency: "usd"}
	return id
}

// GetIntent looks an intent up by id.
func (g *MemoryGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, id)
	}
	return &intent, nil
}

// Refund records a refund against the referenced intent.
func (g *MemoryGateway) Refund(ctx context.Context, paymentRef string, amount decimal.Decimal) (*RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.intents[paymentRef]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, paymentRef)
	}
	if g.FailRefunds {
		return &RefundResult{
			Success: false,
			Status:  "failed",
			Message: "refund declined by processor",
		}, nil
	}

	id := "re_" + uuid.NewString()
	g.refunded[id] = ToMinorUnits(amount)
	return &RefundResult{Success: true, RefundID: id, Status: "succeeded"}, nil
}

// RefundCount reports how many refunds have been issued.
func (g *MemoryGateway) RefundCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refunded)
}
