// Package requestid generates request identifiers and carries them
// through contexts and HTTP headers.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header a request id travels in.
const Header = "X-Request-ID"

type key int

var requestIDKey key

// New returns a fresh random request id.
func New() string {
	return uuid.NewString()
}

// NewContext returns a new Context that carries id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// FromContext returns the request id stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// Ensure returns ctx with a request id, generating one when missing.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := New()
	return NewContext(ctx, id), id
}
