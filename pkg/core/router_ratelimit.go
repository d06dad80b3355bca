package core

import (
	"net/http"

	manifest "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/ratelimit"
)

func withRateLimit(next http.HandlerFunc, rl *manifest.RateLimit) http.HandlerFunc {
	if rl == nil {
		return next
	}
	l := ratelimit.New(rl.RPS, rl.Burst, 0)
	if l == nil {
		return next
	}
	return ratelimit.Middleware(l, ratelimit.RemoteIP)(next).ServeHTTP
}
