// Package sqlite provides the SQLite-backed order.Repository.
//
// WAL mode is enabled on Open so reads (order tracking, admin lists) never
// block the writer handling a submission, and vice versa.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/order"

	// Register the pure-Go SQLite driver; no CGO, so plain Docker builds work.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    -- UUID assigned by the service at submission.
    id              TEXT PRIMARY KEY,

    -- Human-facing number, CAT-YYYYMMDD-NNN, sequential per day.
    number          TEXT NOT NULL UNIQUE,

    user_id         TEXT NOT NULL,
    customer_email  TEXT NOT NULL DEFAULT '',
    restaurant_id   TEXT NOT NULL,

    -- Immutable cart snapshot, JSON array of line items.
    items           TEXT NOT NULL,

    -- Decimal stored as TEXT to avoid float drift.
    total_amount    TEXT NOT NULL,

    -- Delivery snapshot.
    delivery_date   TEXT NOT NULL,
    delivery_time   TEXT NOT NULL,
    street          TEXT NOT NULL,
    city            TEXT NOT NULL,
    state           TEXT NOT NULL,
    postal_code     TEXT NOT NULL,
    instructions    TEXT NOT NULL DEFAULT '',

    status          TEXT NOT NULL,

    -- Payment reference doubles as the submission idempotency key:
    -- a retried submission with the same reference is rejected instead
    -- of double-creating the order.
    payment_ref     TEXT,
    payment_status  TEXT NOT NULL DEFAULT '',

    -- RFC3339 TEXT, the SQLite idiom for timestamps.
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_payment_ref
    ON orders(payment_ref) WHERE payment_ref IS NOT NULL AND payment_ref != '';

CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at);

-- Append-only status history: one row per transition, never updated.
CREATE TABLE IF NOT EXISTS order_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL REFERENCES orders(id),
    status      TEXT NOT NULL,
    actor       TEXT NOT NULL DEFAULT '',
    reason      TEXT NOT NULL DEFAULT '',
    notes       TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_events_order
    ON order_events(order_id, created_at);
`

// Repository is the SQLite implementation of order.Repository.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ order.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// Create persists the order, assigns its daily-sequential number and
// writes the initial status event in the same transaction.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin create: %w", err)
	}
	defer tx.Rollback()

	now := r.now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	var seq int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?`,
		fmtTime(startOfDay(now)), fmtTime(startOfDay(now).AddDate(0, 0, 1)),
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("sqlite: next order number: %w", err)
	}
	o.Number = order.Number(now, seq+1)

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("sqlite: marshal items: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
			(id, number, user_id, customer_email, restaurant_id, items, total_amount,
			 delivery_date, delivery_time, street, city, state, postal_code, instructions,
			 status, payment_ref, payment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Number, o.UserID, o.CustomerEmail, o.RestaurantID, string(items),
		o.TotalAmount.String(),
		o.Delivery.Date, o.Delivery.Time, o.Delivery.Street, o.Delivery.City,
		o.Delivery.State, o.Delivery.PostalCode, o.Delivery.Instructions,
		string(o.Status), nullableString(o.PaymentRef), o.PaymentStatus,
		fmtTime(now), fmtTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return order.ErrDuplicatePaymentRef
		}
		return fmt.Errorf("sqlite: insert order %q: %w", o.ID, err)
	}

	if err := insertEvent(ctx, tx, order.Event{
		OrderID:   o.ID,
		Status:    o.Status,
		Actor:     o.UserID,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit create: %w", err)
	}
	return nil
}

const orderColumns = `id, number, user_id, customer_email, restaurant_id, items, total_amount,
	delivery_date, delivery_time, street, city, state, postal_code, instructions,
	status, COALESCE(payment_ref, ''), payment_status, created_at, updated_at`

// GetByID returns a single order.
func (r *Repository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}
	return o, nil
}

// List returns orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f order.Filter) ([]*order.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, fmtTime(f.From.UTC()))
	}
	if !f.To.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, fmtTime(f.To.UTC()))
	}

	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q += " LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list orders: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves the order to st and appends ev atomically. The
// transition itself must already be authorized by the caller; last write
// wins if two admins race.
func (r *Repository) UpdateStatus(ctx context.Context, id string, st order.Status, ev order.Event) (*order.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin status update: %w", err)
	}
	defer tx.Rollback()

	now := r.now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(st), fmtTime(now), id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update status of %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, order.ErrNotFound
	}

	ev.OrderID = id
	ev.Status = st
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	if err := insertEvent(ctx, tx, ev); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit status update: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Events returns the order's status history, oldest first.
func (r *Repository) Events(ctx context.Context, orderID string) ([]order.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, status, actor, reason, notes, created_at
		FROM   order_events
		WHERE  order_id = ?
		ORDER  BY created_at ASC, id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: events for %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []order.Event
	for rows.Next() {
		var ev order.Event
		var created string
		if err := rows.Scan(&ev.OrderID, &ev.Status, &ev.Actor, &ev.Reason, &ev.Notes, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan event: %w", err)
		}
		if ev.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountByStatus returns the order count per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[order.Status]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: count by status: %w", err)
	}
	defer rows.Close()

	out := make(map[order.Status]int)
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("sqlite: scan count: %w", err)
		}
		out[order.Status(st)] = n
	}
	return out, rows.Err()
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev order.Event) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_events (order_id, status, actor, reason, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.OrderID, string(ev.Status), ev.Actor, ev.Reason, ev.Notes, fmtTime(ev.CreatedAt.UTC()))
	if err != nil {
		return fmt.Errorf("sqlite: insert event for %q: %w", ev.OrderID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var (
		o                order.Order
		items, total     string
		status           string
		created, updated string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.CustomerEmail, &o.RestaurantID, &items, &total,
		&o.Delivery.Date, &o.Delivery.Time, &o.Delivery.Street, &o.Delivery.City,
		&o.Delivery.State, &o.Delivery.PostalCode, &o.Delivery.Instructions,
		&status, &o.PaymentRef, &o.PaymentStatus, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if o.Items == nil {
		o.Items = []cart.LineItem{}
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	o.Status = order.Status(status)
	if o.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &o, nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nullableString returns nil for empty strings so the partial unique index
// on payment_ref ignores orders with no payment reference.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
