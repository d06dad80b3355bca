// core/router.go
package core

import (
	"context"
	"net/http"
	"strings"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	manifest "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/logger"
	hmetrics "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/metrics"
	httpx "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/transport/httpx"
	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Dispatcher routes a decoded execution request to its lifecycle handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *lifecycle.ExecutionRequest) (*lifecycle.ExecutionResponse, error)
}

type BuildDeps struct {
	Auth       *auth.Middleware
	LogMW      *logger.Middleware
	Metrics    http.Handler
	Router     httpx.Router
	Dispatcher Dispatcher
	Log        *zap.Logger
}

const healthPath = "/healthz"

func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat(healthPath))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else {
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(nil))
		}
		r.Use(hmetrics.Collect(nil))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
	})

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	for _, rt := range cfg.Routes {
		h := wrapRoute(rt, d)
		h = withPolicyTimeout(h, rt.Policy)
		h = withGuard(h, d.Auth, rt.Guard)
		h = withRateLimit(h, rt.Policy.RateLimit)

		if rt.Handler.Type == manifest.HandlerLifecycle && d.LogMW != nil {
			d.LogMW.AddBodyLogPaths(rt.Path)
		}

		switch strings.ToUpper(rt.Method) {
		case http.MethodGet:
			r.Get(rt.Path, h)
		case http.MethodPost:
			r.Post(rt.Path, h)
		case http.MethodPut:
			r.Put(rt.Path, h)
		case http.MethodDelete:
			r.Delete(rt.Path, h)
		default:
			r.Handle(rt.Method, rt.Path, h)
		}
	}
	return r.Mux()
}
