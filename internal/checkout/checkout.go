// Package checkout sequences order submission: validate the delivery
// request, verify the caller and their payment, persist the order, then
// notify. Payment is collected before this step by the external gateway;
// the orchestrator only confirms it happened.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/notify"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/payment"
	"github.com/mizu-catering/orderhub/internal/schedule"
	"github.com/mizu-catering/orderhub/internal/validation"
)

var (
	// ErrOrderCreationFailed wraps an Order Store failure. The cart is
	// left intact so the customer can retry; there is no automatic retry.
	ErrOrderCreationFailed = errors.New("checkout: order could not be created")
	// ErrPaymentNotConfirmed means the referenced payment intent does
	// not exist or has not succeeded.
	ErrPaymentNotConfirmed = errors.New("checkout: payment not confirmed")
)

// Service orchestrates order submission.
type Service struct {
	orders    order.Repository
	payments  payment.Gateway
	mailer    notify.Mailer
	scheduler *schedule.Scheduler
	carts     *cart.Store

	// timeout bounds each external call.
	timeout time.Duration
	now     func() time.Time
}

// NewService wires the orchestrator. mailer may be nil; confirmation
// emails are then skipped.
func NewService(orders order.Repository, payments payment.Gateway, mailer notify.Mailer, scheduler *schedule.Scheduler, carts *cart.Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		orders:    orders,
		payments:  payments,
		mailer:    mailer,
		scheduler: scheduler,
		carts:     carts,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Submit runs the submission sequence for the given cart. On success the
// cart is destroyed and the persisted order returned; on store failure the
// cart survives for a retry.
func (s *Service) Submit(ctx context.Context, cartID string, delivery schedule.Request, paymentRef string) (*order.Order, error) {
	ident := auth.IdentityFrom(ctx)
	if ident == nil {
		return nil, auth.ErrAuthenticationRequired
	}

	if err := s.scheduler.Validate(delivery, s.now()); err != nil {
		return nil, err
	}

	c, err := s.carts.Get(cartID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		var verr validation.Error
		verr.Add("cart", "cart is empty")
		return nil, verr.Err()
	}

	if paymentRef == "" {
		return nil, ErrPaymentNotConfirmed
	}
	intent, err := s.getIntent(ctx, paymentRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentNotConfirmed, err)
	}
	if !intent.Succeeded() {
		return nil, fmt.Errorf("%w: intent status is %q", ErrPaymentNotConfirmed, intent.Status)
	}

	o := &order.Order{
		ID:            uuid.NewString(),
		UserID:        ident.ID,
		CustomerEmail: ident.Email,
		RestaurantID:  c.RestaurantID,
		Items:         c.Snapshot(),
		TotalAmount:   c.Subtotal(),
		Delivery:      delivery,
		Status:        order.StatusPending,
		PaymentRef:    intent.ID,
		PaymentStatus: intent.Status,
	}

	if err := s.create(ctx, o); err != nil {
		if errors.Is(err, order.ErrDuplicatePaymentRef) {
			// A retry after a lost response: the order already exists,
			// do not double-create or double-charge.
			return nil, err
		}
		slog.ErrorContext(ctx, "order creation failed", "cart_id", cartID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	s.carts.Delete(cartID)

	// Fire-and-forget: detach from the request context so the email is
	// not cancelled when the HTTP response is written.
	mailCtx := context.WithoutCancel(ctx)
	go func() {
		subject, body := notify.OrderConfirmation(o)
		notify.BestEffort(mailCtx, s.mailer, o.CustomerEmail, subject, body)
	}()

	return o, nil
}

func (s *Service) getIntent(ctx context.Context, ref string) (*payment.Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.payments.GetIntent(ctx, ref)
}

func (s *Service) create(ctx context.Context, o *order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.Create(ctx, o)
}
