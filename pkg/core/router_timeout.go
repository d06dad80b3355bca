package core

import (
	"context"
	"errors"
	"net/http"
	"time"

	manifest "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
)

// ErrRouteTimeout is the context cause when a route's timeout_ms elapses.
var ErrRouteTimeout = errors.New("route timeout exceeded")

// withPolicyTimeout bounds the request context by the route's timeout_ms.
// Outbound subscription calls made while handling the request share it.
func withPolicyTimeout(next http.HandlerFunc, p manifest.Policy) http.HandlerFunc {
	if p.TimeoutMS <= 0 {
		return next
	}
	d := time.Duration(p.TimeoutMS) * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeoutCause(r.Context(), d, ErrRouteTimeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}
