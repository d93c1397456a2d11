package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/notify"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/payment"
)

type fixture struct {
	repo    *order.MemoryRepository
	gateway *payment.MemoryGateway
	users   *auth.MemoryUsers
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := order.NewMemoryRepository()
	gateway := payment.NewMemoryGateway()
	users := auth.NewMemoryUsers()
	svc := NewService(repo, gateway, nil, users, time.Second)
	return &fixture{repo: repo, gateway: gateway, users: users, svc: svc}
}

// seedOrder persists an order, optionally backed by a captured payment.
func (f *fixture) seedOrder(t *testing.T, st order.Status, paid bool) *order.Order {
	t.Helper()
	o := &order.Order{
		ID:            "ord_" + string(st),
		UserID:        "usr_demo",
		CustomerEmail: "demo@mizu.example",
		RestaurantID:  "mizu-sushi",
		Items: []cart.LineItem{{
			ID: "miso-soup", Name: "Miso Soup",
			UnitPrice: decimal.RequireFromString("3.25"), Quantity: 2,
		}},
		TotalAmount: decimal.RequireFromString("6.50"),
		Status:      order.StatusPending,
	}
	if paid {
		o.PaymentRef = f.gateway.Seed(payment.StatusSucceeded, o.TotalAmount)
		o.PaymentStatus = payment.StatusSucceeded
	}
	require.NoError(t, f.repo.Create(context.Background(), o))
	if st != order.StatusPending {
		_, err := f.repo.UpdateStatus(context.Background(), o.ID, st, order.Event{Actor: "test"})
		require.NoError(t, err)
		o.Status = st
	}
	return o
}

func TestUpdateStatus(t *testing.T) {
	t.Run("moves the order and records the event", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusPending, false)

		updated, err := f.svc.UpdateStatus(context.Background(), o.ID, order.StatusConfirmed, "admin@mizu.example")
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, updated.Status)

		evs, err := f.repo.Events(context.Background(), o.ID)
		require.NoError(t, err)
		last := evs[len(evs)-1]
		assert.Equal(t, order.StatusConfirmed, last.Status)
		assert.Equal(t, "admin@mizu.example", last.Actor)
	})

	t.Run("terminal orders accept no moves", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusDelivered, false)

		_, err := f.svc.UpdateStatus(context.Background(), o.ID, order.StatusPending, "admin")
		var transErr *order.InvalidTransitionError
		assert.ErrorAs(t, err, &transErr)
	})

	t.Run("cancellation is not a plain status move", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusPending, false)

		_, err := f.svc.UpdateStatus(context.Background(), o.ID, order.StatusCancelled, "admin")
		assert.Error(t, err)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateStatus(context.Background(), "nope", order.StatusConfirmed, "admin")
		assert.ErrorIs(t, err, order.ErrNotFound)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("paid order refunds in full", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusConfirmed, true)

		result, err := f.svc.CancelOrder(context.Background(), CancelParams{
			OrderID: o.ID,
			Reason:  "customer request",
			Actor:   "admin@mizu.example",
		})
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, result.Order.Status)
		assert.Equal(t, notify.RefundSucceeded, result.Refund)
		assert.NotEmpty(t, result.RefundID)
		assert.Equal(t, 1, f.gateway.RefundCount())
	})

	t.Run("unpaid order cancels without touching the gateway", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusPending, false)

		result, err := f.svc.CancelOrder(context.Background(), CancelParams{OrderID: o.ID, Actor: "admin"})
		require.NoError(t, err)
		assert.Equal(t, notify.RefundNone, result.Refund)
		assert.Equal(t, 0, f.gateway.RefundCount())
	})

	t.Run("declined refund never blocks the cancellation", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.FailRefunds = true
		o := f.seedOrder(t, order.StatusConfirmed, true)

		result, err := f.svc.CancelOrder(context.Background(), CancelParams{OrderID: o.ID, Actor: "admin"})
		require.NoError(t, err)

		assert.Equal(t, order.StatusCancelled, result.Order.Status)
		assert.Equal(t, notify.RefundFailed, result.Refund)
		assert.Contains(t, result.Note, "manual follow-up required")

		// The failure note lands in the audit trail.
		evs, err := f.repo.Events(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Contains(t, evs[len(evs)-1].Notes, "manual follow-up required")
	})

	t.Run("partial refund amount", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusConfirmed, true)

		half := decimal.RequireFromString("3.25")
		result, err := f.svc.CancelOrder(context.Background(), CancelParams{
			OrderID: o.ID,
			Amount:  &half,
			Actor:   "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, notify.RefundSucceeded, result.Refund)
	})

	t.Run("terminal orders cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, order.StatusDelivered, true)

		_, err := f.svc.CancelOrder(context.Background(), CancelParams{OrderID: o.ID, Actor: "admin"})
		var transErr *order.InvalidTransitionError
		assert.ErrorAs(t, err, &transErr)
		assert.Equal(t, 0, f.gateway.RefundCount())
	})
}

func TestUserMutations(t *testing.T) {
	seed := func(t *testing.T, f *fixture) auth.User {
		t.Helper()
		u := auth.User{
			ID:    "usr_demo",
			Email: "demo@mizu.example",
			Role:  auth.RoleUser,
		}
		f.users.AddUser(u, "demo-token")
		return u
	}

	t.Run("ban and unban", func(t *testing.T) {
		f := newFixture(t)
		u := seed(t, f)

		banned, err := f.svc.BanUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.True(t, banned.Banned)

		// Banned accounts no longer authenticate.
		_, err = f.users.Authenticate(context.Background(), "demo-token")
		assert.ErrorIs(t, err, auth.ErrAuthenticationRequired)

		unbanned, err := f.svc.UnbanUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.False(t, unbanned.Banned)

		_, err = f.users.Authenticate(context.Background(), "demo-token")
		assert.NoError(t, err)
	})

	t.Run("ban is idempotent", func(t *testing.T) {
		f := newFixture(t)
		u := seed(t, f)

		_, err := f.svc.BanUser(context.Background(), u.ID)
		require.NoError(t, err)
		again, err := f.svc.BanUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.True(t, again.Banned)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BanUser(context.Background(), "nope")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("promote grants the admin role", func(t *testing.T) {
		f := newFixture(t)
		u := seed(t, f)

		promoted, err := f.svc.PromoteUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, promoted.Role)

		ident, err := f.users.Authenticate(context.Background(), "demo-token")
		require.NoError(t, err)
		assert.True(t, ident.IsAdmin())
	})

	t.Run("reset password stores a bcrypt hash of the temp password", func(t *testing.T) {
		f := newFixture(t)
		u := seed(t, f)

		temp, err := f.svc.ResetPassword(context.Background(), u.ID)
		require.NoError(t, err)
		require.NotEmpty(t, temp)

		stored, err := f.users.Get(context.Background(), u.ID)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(temp)))
	})
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, order.StatusPending, false)
	f.seedOrder(t, order.StatusConfirmed, false)
	f.seedOrder(t, order.StatusDelivered, false)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats[order.StatusPending])
	assert.Equal(t, 1, stats[order.StatusConfirmed])
	assert.Equal(t, 1, stats[order.StatusDelivered])
}
