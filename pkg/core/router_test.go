package core_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/core"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/logger"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/transport/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func buildRouter(t *testing.T, cfg manifest.Config, a *auth.Middleware, lm *logger.Middleware) http.Handler {
	t.Helper()
	require.NoError(t, cfg.Validate())
	app, err := cfg.AppConfig()
	require.NoError(t, err)
	return core.BuildRouter(cfg, core.BuildDeps{
		Auth:       a,
		LogMW:      lm,
		Metrics:    http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Router:     httpx.NewChi(),
		Dispatcher: lifecycle.NewDispatcher(app, nopSubscriber{}, nil),
	})
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.RemoteAddr = "192.0.2.10:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRouterServesWebhook(t *testing.T) {
	h := buildRouter(t, manifest.Default(), auth.New(auth.Config{}, nil, nil), nil)

	rec := send(h, http.MethodPost, "/", pingRequest)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"statusCode":200,"pingData":{"challenge":"abc-123"}}`, rec.Body.String())
}

func TestRouterFallbacks(t *testing.T) {
	h := buildRouter(t, manifest.Default(), nil, nil)

	rec := send(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, "# metrics", rec.Body.String())

	rec = send(h, http.MethodPost, "/nope", pingRequest)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = send(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"POST required"}`, rec.Body.String())
}

func TestRouterGuardRequiresSignature(t *testing.T) {
	cfg := manifest.Default()
	cfg.Routes[0].Guard.RequireSignature = true

	h := buildRouter(t, cfg, auth.New(auth.Config{}, nil, nil), nil)
	rec := send(h, http.MethodPost, "/", pingRequest)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"request signature required"}`, rec.Body.String())

	h = buildRouter(t, cfg, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, send(h, http.MethodPost, "/", pingRequest).Code)

	h = buildRouter(t, cfg, auth.New(auth.Config{DevBypass: true}, nil, nil), nil)
	assert.Equal(t, http.StatusOK, send(h, http.MethodPost, "/", pingRequest).Code)
}

func TestRouterAppliesRateLimit(t *testing.T) {
	cfg := manifest.Default()
	cfg.Routes[0].Policy.RateLimit = &manifest.RateLimit{RPS: 0.01, Burst: 1}
	h := buildRouter(t, cfg, nil, nil)

	assert.Equal(t, http.StatusOK, send(h, http.MethodPost, "/", pingRequest).Code)
	assert.Equal(t, http.StatusTooManyRequests, send(h, http.MethodPost, "/", pingRequest).Code)
}

func TestRouterAppliesTimeout(t *testing.T) {
	waitForDeadline := dispatchFunc(func(ctx context.Context, _ *lifecycle.ExecutionRequest) (*lifecycle.ExecutionResponse, error) {
		if _, ok := ctx.Deadline(); !ok {
			return &lifecycle.ExecutionResponse{Data: lifecycle.PingResponse{Challenge: "c"}}, nil
		}
		<-ctx.Done()
		return nil, context.Cause(ctx)
	})
	build := func(timeoutMS int) http.Handler {
		cfg := manifest.Default()
		cfg.Routes[0].Policy.TimeoutMS = timeoutMS
		return core.BuildRouter(cfg, core.BuildDeps{Router: httpx.NewChi(), Dispatcher: waitForDeadline})
	}

	rec := send(build(5), http.MethodPost, "/", pingRequest)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"route timeout exceeded"}`, rec.Body.String())

	rec = send(build(0), http.MethodPost, "/", pingRequest)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAppliesBodyLimit(t *testing.T) {
	cfg := manifest.Default()
	cfg.Routes[0].Policy.MaxBodyBytes = 16
	h := buildRouter(t, cfg, nil, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(h, http.MethodPost, "/", pingRequest).Code)
}

func TestRouterLogsAccessAndWebhookBodies(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	lm := logger.NewMiddleware(zap.New(obs), true)
	h := buildRouter(t, manifest.Default(), auth.New(auth.Config{}, nil, nil), lm)

	rec := send(h, http.MethodPost, "/", pingRequest)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["httpMethod"])
	assert.Equal(t, "/", fields["uri"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Equal(t, false, fields["signatureVerified"])
	assert.Equal(t, pingRequest, fields["requestData"])
	assert.NotEmpty(t, fields["requestId"])
}
