package user

import (
	"context"
	"time"
)

// Role of a user in the shop.
type Role string

const (
	ADMIN    Role = "admin"
	CUSTOMER Role = "customer"
	SHIPPER  Role = "shipper"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case ADMIN, CUSTOMER, SHIPPER:
		return true
	}
	return false
}

// User description. Fields aligned for the GC optimal scanning.
type User struct {
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Login     string    `db:"login" json:"login"`
	Password  string    `db:"password" json:"-"`
	Role      Role      `db:"role" json:"role"`
	ID        int       `db:"id" json:"id"`
}

// Credential is the authentication token a client presents on every call.
// It is always passed explicitly, never looked up from ambient storage.
type Credential struct {
	Token string
}

// IsZero reports whether the credential carries no token.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

// userKey is the key for user.User values in Contexts. It is
// unexported; clients use user.NewContext and user.FromContext
// instead of using this key directly.
var userKey key

// NewContext returns a new Context that carries value u.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext returns the User value stored in ctx, if any.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok
}
