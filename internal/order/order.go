// Package order defines the persisted order: an immutable snapshot of cart
// lines plus delivery details, moving through a small status machine.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/schedule"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// InvalidTransitionError reports an illegal status move.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order: invalid status transition %s -> %s", e.From, e.To)
}

// CanTransition checks a status move. Terminal states accept nothing;
// between non-terminal states any move is allowed, so an admin can walk a
// mistaken order back without fighting the machine.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return &InvalidTransitionError{From: from, To: to}
	}
	if from.Terminal() {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// PaymentStatusSucceeded is the gateway status required before an order
// may be created or refunded.
const PaymentStatusSucceeded = "succeeded"

// Order is the persisted record. Items and Delivery are snapshots taken at
// submission; they never change afterwards.
type Order struct {
	ID            string           `json:"id"`
	Number        string           `json:"order_number"`
	UserID        string           `json:"user_id"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	RestaurantID  string           `json:"restaurant_id"`
	Items         []cart.LineItem  `json:"items"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Delivery      schedule.Request `json:"delivery"`
	Status        Status           `json:"status"`
	PaymentRef    string           `json:"payment_ref,omitempty"`
	PaymentStatus string           `json:"payment_status,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Paid reports whether the order carries a successful payment worth
// refunding.
func (o *Order) Paid() bool {
	return o.PaymentRef != "" && o.PaymentStatus == PaymentStatusSucceeded
}

// Event is one row of the order's status history.
type Event struct {
	OrderID   string    `json:"order_id"`
	Status    Status    `json:"status"`
	Actor     string    `json:"actor"`
	Reason    string    `json:"reason,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	Status Status
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// Store errors.
var (
	ErrNotFound = errors.New("order: not found")
	// ErrDuplicatePaymentRef means an order already exists for this
	// payment reference; the client retried after a success it never saw.
	ErrDuplicatePaymentRef = errors.New("order: payment reference already used")
)

// Repository is the Order Store port. Persistence and consistency are the
// implementation's concern; callers treat orders as opaque snapshots.
type Repository interface {
	// Create persists the order and assigns Number and CreatedAt.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]*Order, error)
	// UpdateStatus moves the order and appends the event atomically.
	UpdateStatus(ctx context.Context, id string, st Status, ev Event) (*Order, error)
	Events(ctx context.Context, orderID string) ([]Event, error)
	// CountByStatus powers the admin dashboard.
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// Number formats the human-facing order number, e.g. CAT-20260830-007.
func Number(date time.Time, seq int) string {
	return fmt.Sprintf("CAT-%s-%03d", date.Format("20060102"), seq)
}
