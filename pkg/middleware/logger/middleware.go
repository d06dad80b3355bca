package logger

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxLoggedBody = 1 << 16 // 64 KiB

// Middleware writes one access line per request.
type Middleware struct {
	access *zap.Logger
	debug  bool

	mu        sync.RWMutex
	bodyPaths map[string]struct{}
}

func NewMiddleware(access *zap.Logger, debug bool) *Middleware {
	if access == nil {
		access = zap.NewNop()
	}
	return &Middleware{access: access, debug: debug, bodyPaths: map[string]struct{}{}}
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			// Read and RESTORE request body so downstream can consume it
			var body []byte
			if r.Body != nil && m.shouldLogBody(r) {
				b, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
				if err == nil && len(b) <= maxLoggedBody {
					body = b
				}
				r.Body = struct {
					io.Reader
					io.Closer
				}{io.MultiReader(bytes.NewReader(b), r.Body), r.Body}
			}

			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				lat := time.Since(start)

				verified := false
				keyID := ""
				if ca != nil {
					verified = ca.IsVerified(r.Context())
					keyID = ca.KeyID(r.Context())
				}

				log := m.access.With(
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme),
					zap.Bool("signatureVerified", verified),
					zap.String("keyId", keyID),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Duration("lat", lat),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)

				// Redact by default; allowlist small JSON bodies only.
				if len(body) > 0 {
					log.Debug("", zap.ByteString("requestData", body))
				} else {
					log.Info("")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
