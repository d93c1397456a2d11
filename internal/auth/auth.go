// Package auth defines the authentication collaborator ports: who the
// caller is and what role they hold. No token issuance happens here.
package auth

import (
	"context"
	"errors"
)

// Role is the caller's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool { return i != nil && i.Role == RoleAdmin }

var (
	// ErrAuthenticationRequired means no valid identity accompanied the call.
	ErrAuthenticationRequired = errors.New("auth: authentication required")
	// ErrForbidden means the identity lacks the required role.
	ErrForbidden = errors.New("auth: forbidden")
)

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// contextKey keeps our context values from colliding with other packages.
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity attaches the caller identity to the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the caller identity, or nil when unauthenticated.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
