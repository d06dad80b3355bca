package core

import (
	"net/http"

	manifest "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
)

func withGuard(next http.HandlerFunc, a *auth.Middleware, g manifest.Guard) http.HandlerFunc {
	if !g.RequireSignature {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// Without auth middleware nothing can be verified.
		if a == nil || !a.IsVerified(r.Context()) {
			writeError(w, http.StatusUnauthorized, "request signature required")
			return
		}
		next(w, r)
	}
}
