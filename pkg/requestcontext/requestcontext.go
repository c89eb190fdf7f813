// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// The engine reads the current time through Now(ctx) rather than time.Now so
// tests can pin the clock:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//
// Middleware sets a request id once per request; services attach it to logs.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// RequestID retrieves the correlation id from the context, or "" if unset.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now returns the request time if one was injected, else the wall clock.
// All day-rollover and expiry logic must go through this accessor.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the clock for the rest of the request. Tests use this to
// exercise day rollover and session expiry deterministically.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
