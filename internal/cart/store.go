package cart

import (
	"errors"
	"sync"
)

// ErrNotFound is returned for unknown cart ids.
var ErrNotFound = errors.New("cart: not found")

// Store keeps the live carts in process memory, one per order session.
// Carts never outlive the process: a cart is destroyed on successful
// submission or when the session switches restaurants.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Create opens a new cart for the given restaurant and returns a copy.
func (s *Store) Create(restaurantID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := New(restaurantID)
	s.carts[c.ID] = c
	return *c
}

// Get returns a copy of the cart with the given id.
func (s *Store) Get(id string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return Cart{}, ErrNotFound
	}
	return snapshot(c), nil
}

// Update runs fn against the cart under the store lock and returns the
// resulting copy. All mutations go through here so two requests for the
// same session cannot interleave.
func (s *Store) Update(id string, fn func(*Cart) error) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return Cart{}, ErrNotFound
	}
	if err := fn(c); err != nil {
		return Cart{}, err
	}
	return snapshot(c), nil
}

// Delete destroys the cart. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

// Replace destroys the cart and opens a fresh one for a different
// restaurant, keeping the same cart id so the session handle stays valid.
func (s *Store) Replace(id, restaurantID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[id]; !ok {
		return Cart{}, ErrNotFound
	}
	c := &Cart{ID: id, RestaurantID: restaurantID}
	s.carts[id] = c
	return *c, nil
}

func snapshot(c *Cart) Cart {
	out := *c
	out.Items = make([]LineItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
