package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// User is an account record as the admin mutators see it.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Banned       bool      `json:"banned"`
	PasswordHash string    `json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrUserNotFound is returned for unknown user ids.
var ErrUserNotFound = errors.New("auth: user not found")

// UserStore is the port to the account system.
type UserStore interface {
	Get(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)
}

// MemoryUsers is an in-memory UserStore plus Authenticator for development
// and tests: tokens map straight to identities.
type MemoryUsers struct {
	mu     sync.Mutex
	users  map[string]*User
	tokens map[string]string // token -> user id
}

var (
	_ UserStore     = (*MemoryUsers)(nil)
	_ Authenticator = (*MemoryUsers)(nil)
)

// NewMemoryUsers returns an empty store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		users:  make(map[string]*User),
		tokens: make(map[string]string),
	}
}

// AddUser registers a user and a static bearer token for them.
func (m *MemoryUsers) AddUser(u User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := u
	m.users[u.ID] = &cp
	if token != "" {
		m.tokens[token] = u.ID
	}
}

// Authenticate resolves a static token. Banned users fail authentication.
func (m *MemoryUsers) Authenticate(ctx context.Context, token string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.tokens[token]
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	u, ok := m.users[id]
	if !ok || u.Banned {
		return nil, ErrAuthenticationRequired
	}
	return &Identity{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (m *MemoryUsers) Get(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUsers) Update(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	cp := *u
	cp.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryUsers) List(ctx context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}
