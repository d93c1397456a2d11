package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository for development and tests.
// It mirrors the sqlite implementation's behavior: daily order numbers,
// append-only events and payment-reference uniqueness.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[string]*Order
	events map[string][]Event

	now func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[string]*Order),
		events: make(map[string][]Event),
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	seq := 1
	for _, existing := range r.orders {
		if o.PaymentRef != "" && existing.PaymentRef == o.PaymentRef {
			return ErrDuplicatePaymentRef
		}
		if sameDay(existing.CreatedAt, now) {
			seq++
		}
	}

	o.Number = Number(now, seq)
	o.CreatedAt = now
	o.UpdatedAt = now

	cp := *o
	r.orders[o.ID] = &cp
	r.events[o.ID] = append(r.events[o.ID], Event{
		OrderID: o.ID, Status: o.Status, Actor: "system", CreatedAt: now,
	})
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context, f Filter) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Order
	for _, o := range r.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !o.CreatedAt.Before(f.To) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, st Status, ev Event) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := r.now().UTC()
	o.Status = st
	o.UpdatedAt = now

	ev.OrderID = id
	ev.Status = st
	ev.CreatedAt = now
	r.events[id] = append(r.events[id], ev)

	cp := *o
	return &cp, nil
}

func (r *MemoryRepository) Events(ctx context.Context, orderID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[orderID]; !ok {
		return nil, ErrNotFound
	}
	evs := r.events[orderID]
	out := make([]Event, len(evs))
	copy(out, evs)
	return out, nil
}

func (r *MemoryRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Status]int)
	for _, o := range r.orders {
		out[o.Status]++
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
