package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/schedule"
)

func openRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleOrder(id, userID, paymentRef string) *order.Order {
	return &order.Order{
		ID:            id,
		UserID:        userID,
		CustomerEmail: userID + "@mizu.example",
		RestaurantID:  "mizu-sushi",
		Items: []cart.LineItem{
			{
				ID:        "line-1",
				CatalogID: "sushi-mixed-platter",
				Name:      "Build-Your-Own Sushi Platter (8 items)",
				UnitPrice: decimal.RequireFromString("47.75"),
				Quantity:  1,
			},
			{
				ID:        "miso-soup",
				CatalogID: "miso-soup",
				Name:      "Miso Soup",
				UnitPrice: decimal.RequireFromString("3.25"),
				Quantity:  2,
			},
		},
		TotalAmount: decimal.RequireFromString("54.25"),
		Delivery: schedule.Request{
			Date:         "2026-09-05",
			Time:         "12:30",
			Street:       "200 Harbor Way",
			City:         "Oakdale",
			State:        "CA",
			PostalCode:   "95361",
			Instructions: "loading dock, ring twice",
		},
		Status:        order.StatusPending,
		PaymentRef:    paymentRef,
		PaymentStatus: order.PaymentStatusSucceeded,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := openRepo(t)
	repo.now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	o := sampleOrder("ord-1", "usr_demo", "pi_abc")
	require.NoError(t, repo.Create(ctx, o))
	assert.Equal(t, "CAT-20260830-001", o.Number)

	got, err := repo.GetByID(ctx, "ord-1")
	require.NoError(t, err)

	assert.Equal(t, o.UserID, got.UserID)
	assert.Equal(t, o.Number, got.Number)
	assert.Equal(t, "54.25", got.TotalAmount.StringFixed(2))
	assert.Equal(t, o.Delivery, got.Delivery)
	assert.Equal(t, "pi_abc", got.PaymentRef)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "47.75", got.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 2, got.Items[1].Quantity)

	// The initial event is part of the creating transaction.
	evs, err := repo.Events(ctx, "ord-1")
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, order.StatusPending, evs[0].Status)
	assert.Equal(t, "usr_demo", evs[0].Actor)
}

func TestOrderNumbersArePerDay(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return day1 }
	require.NoError(t, repo.Create(ctx, sampleOrder("a", "u1", "pi_1")))
	day1 = day1.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, sampleOrder("b", "u1", "pi_2")))

	repo.now = func() time.Time {
		return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	}
	c := sampleOrder("c", "u1", "pi_3")
	require.NoError(t, repo.Create(ctx, c))

	a, _ := repo.GetByID(ctx, "a")
	b, _ := repo.GetByID(ctx, "b")
	assert.Equal(t, "CAT-20260830-001", a.Number)
	assert.Equal(t, "CAT-20260830-002", b.Number)
	assert.Equal(t, "CAT-20260831-001", c.Number)
}

func TestDuplicatePaymentRef(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("first", "u1", "pi_same")))

	err := repo.Create(ctx, sampleOrder("second", "u1", "pi_same"))
	assert.ErrorIs(t, err, order.ErrDuplicatePaymentRef)

	// Orders without a payment reference never collide with each other.
	require.NoError(t, repo.Create(ctx, sampleOrder("free-1", "u1", "")))
	require.NoError(t, repo.Create(ctx, sampleOrder("free-2", "u1", "")))
}

func TestGetByIDNotFound(t *testing.T) {
	repo := openRepo(t)
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	clock := base
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.Create(ctx, sampleOrder("o1", "alice", "pi_1")))
	clock = clock.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, sampleOrder("o2", "bob", "pi_2")))
	clock = clock.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, sampleOrder("o3", "alice", "pi_3")))

	_, err := repo.UpdateStatus(ctx, "o2", order.StatusConfirmed, order.Event{Actor: "admin"})
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.List(ctx, order.Filter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "o3", got[0].ID)
		assert.Equal(t, "o1", got[2].ID)
	})

	t.Run("by user", func(t *testing.T) {
		got, err := repo.List(ctx, order.Filter{UserID: "alice"})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("by status", func(t *testing.T) {
		got, err := repo.List(ctx, order.Filter{Status: order.StatusConfirmed})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "o2", got[0].ID)
	})

	t.Run("date range", func(t *testing.T) {
		got, err := repo.List(ctx, order.Filter{
			From: base.Add(30 * time.Second),
			To:   base.Add(90 * time.Second),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "o2", got[0].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := repo.List(ctx, order.Filter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "o2", got[0].ID)
	})
}

func TestUpdateStatus(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("ord-1", "u1", "pi_1")))

	updated, err := repo.UpdateStatus(ctx, "ord-1", order.StatusConfirmed, order.Event{
		Actor:  "admin@mizu.example",
		Reason: "kitchen accepted",
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, updated.Status)

	evs, err := repo.Events(ctx, "ord-1")
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, order.StatusConfirmed, evs[1].Status)
	assert.Equal(t, "kitchen accepted", evs[1].Reason)

	t.Run("unknown order", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, "nope", order.StatusConfirmed, order.Event{})
		assert.ErrorIs(t, err, order.ErrNotFound)
	})
}

func TestCountByStatus(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("a", "u1", "pi_1")))
	require.NoError(t, repo.Create(ctx, sampleOrder("b", "u1", "pi_2")))
	require.NoError(t, repo.Create(ctx, sampleOrder("c", "u1", "pi_3")))
	_, err := repo.UpdateStatus(ctx, "c", order.StatusCancelled, order.Event{Actor: "admin"})
	require.NoError(t, err)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[order.StatusPending])
	assert.Equal(t, 1, counts[order.StatusCancelled])
}
