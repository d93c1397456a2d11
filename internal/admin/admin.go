// Package admin implements the dashboard mutations: order status moves,
// cancellation with best-effort refund, and account actions. Every
// mutation is a guarded state transition plus an external side effect.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/notify"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/payment"
)

// Service holds the collaborators the admin mutations touch.
type Service struct {
	orders   order.Repository
	payments payment.Gateway
	mailer   notify.Mailer
	users    auth.UserStore

	timeout time.Duration
	now     func() time.Time
}

// NewService wires the admin service. mailer may be nil.
func NewService(orders order.Repository, payments payment.Gateway, mailer notify.Mailer, users auth.UserStore, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		orders:   orders,
		payments: payments,
		mailer:   mailer,
		users:    users,
		timeout:  timeout,
		now:      time.Now,
	}
}

// UpdateStatus moves an order to a new status and notifies the customer.
// Terminal states reject any further move; use CancelOrder for
// cancellation so the refund flow runs.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to order.Status, actor string) (*order.Order, error) {
	o, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CanTransition(o.Status, to); err != nil {
		return nil, err
	}
	if to == order.StatusCancelled {
		return nil, fmt.Errorf("admin: use cancellation for status %q", to)
	}

	updated, err := s.updateStatus(ctx, orderID, to, order.Event{Actor: actor})
	if err != nil {
		return nil, err
	}

	subject, body := notify.StatusUpdate(updated)
	notify.BestEffort(ctx, s.mailer, updated.CustomerEmail, subject, body)

	return updated, nil
}

// CancelParams describes a cancellation request.
type CancelParams struct {
	OrderID string
	Reason  string
	// Amount overrides the refund amount; nil refunds the full total.
	Amount *decimal.Decimal
	// Notify controls the customer email.
	Notify bool
	Actor  string
}

// CancelResult reports the cancellation and how the refund went. The
// operation's success is the state transition alone; a failed refund is
// carried here, not raised.
type CancelResult struct {
	Order    *order.Order         `json:"order"`
	Refund   notify.RefundOutcome `json:"refund"`
	RefundID string               `json:"refund_id,omitempty"`
	// Note is the admin-visible record of a refund failure.
	Note string `json:"note,omitempty"`
}

// CancelOrder cancels an order and refunds its payment best-effort. The
// ordering guarantee: the state transition always commits; refund failure
// is recorded and reported, never propagated.
func (s *Service) CancelOrder(ctx context.Context, p CancelParams) (*CancelResult, error) {
	o, err := s.get(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if err := order.CanTransition(o.Status, order.StatusCancelled); err != nil {
		return nil, err
	}

	result := &CancelResult{Refund: notify.RefundNone}
	if o.Paid() {
		amount := o.TotalAmount
		if p.Amount != nil {
			amount = *p.Amount
		}
		result.Refund, result.RefundID, result.Note = s.refund(ctx, o, amount)
	}

	ev := order.Event{
		Actor:  p.Actor,
		Reason: p.Reason,
		Notes:  result.Note,
	}
	updated, err := s.updateStatus(ctx, p.OrderID, order.StatusCancelled, ev)
	if err != nil {
		return nil, err
	}
	result.Order = updated

	if p.Notify {
		subject, body := notify.Cancellation(updated, result.Refund, p.Reason)
		notify.BestEffort(ctx, s.mailer, updated.CustomerEmail, subject, body)
	}

	return result, nil
}

// refund invokes the gateway and maps the outcome; it never returns an
// error because refund failure must not block cancellation.
func (s *Service) refund(ctx context.Context, o *order.Order, amount decimal.Decimal) (notify.RefundOutcome, string, string) {
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.payments.Refund(rctx, o.PaymentRef, amount)
	if err != nil {
		slog.ErrorContext(ctx, "refund call failed", "order_id", o.ID, "error", err)
		return notify.RefundFailed, "", fmt.Sprintf("refund of $%s failed: %v; manual follow-up required", amount.StringFixed(2), err)
	}
	if !res.Success {
		slog.WarnContext(ctx, "refund declined", "order_id", o.ID, "status", res.Status)
		return notify.RefundFailed, res.RefundID, fmt.Sprintf("refund of $%s declined by processor (%s); manual follow-up required", amount.StringFixed(2), res.Status)
	}
	return notify.RefundSucceeded, res.RefundID, ""
}

// BanUser marks the account banned; active tokens stop authenticating.
func (s *Service) BanUser(ctx context.Context, userID string) (*auth.User, error) {
	return s.setBanned(ctx, userID, true)
}

// UnbanUser lifts a ban.
func (s *Service) UnbanUser(ctx context.Context, userID string) (*auth.User, error) {
	return s.setBanned(ctx, userID, false)
}

func (s *Service) setBanned(ctx context.Context, userID string, banned bool) (*auth.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Banned = banned
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// PromoteUser grants the account the admin role.
func (s *Service) PromoteUser(ctx context.Context, userID string) (*auth.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Role = auth.RoleAdmin
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ResetPassword sets a temporary credential on the account and emails it
// to the user. The temporary password is returned to the admin as well,
// for support flows where the user has no mailbox access.
func (s *Service) ResetPassword(ctx context.Context, userID string) (string, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	temp := uuid.NewString()[:13]
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("admin: hash temporary password: %w", err)
	}
	u.PasswordHash = string(hash)
	if err := s.users.Update(ctx, u); err != nil {
		return "", err
	}

	subject, body := notify.PasswordReset(temp)
	notify.BestEffort(ctx, s.mailer, u.Email, subject, body)

	return temp, nil
}

// ListUsers returns every registered account.
func (s *Service) ListUsers(ctx context.Context) ([]*auth.User, error) {
	return s.users.List(ctx)
}

// Stats returns the order counts per status for the dashboard.
func (s *Service) Stats(ctx context.Context) (map[order.Status]int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.CountByStatus(ctx)
}

func (s *Service) get(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.GetByID(ctx, id)
}

func (s *Service) updateStatus(ctx context.Context, id string, st order.Status, ev order.Event) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.UpdateStatus(ctx, id, st, ev)
}
