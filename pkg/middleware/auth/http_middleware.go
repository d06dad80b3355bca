package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware verifies signed requests and marks them on the context.
// Unsigned or badly signed requests continue unverified; route guards
// decide whether that is acceptable.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				ctx := context.WithValue(r.Context(), verifiedCtxKey, verification{keyID: "dev"})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := m.peekBody(r)
			if err != nil {
				m.log.Warn("signature body read failed",
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			sig, err := m.Verify(r, body)
			if err != nil {
				if !errors.Is(err, ErrNoSignature) {
					m.log.Warn("signature rejected",
						zap.String("requestId", chimd.GetReqID(r.Context())),
						zap.String("uri", r.URL.Path),
						zap.Error(err),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), verifiedCtxKey, verification{keyID: sig.KeyID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// peekBody reads up to maxBody bytes and puts them back in front of the
// remaining stream so downstream handlers see the full body.
func (m *Middleware) peekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, m.maxBody+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(b), r.Body), r.Body}
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > m.maxBody {
		return nil, errors.New("body exceeds signature limit")
	}
	return b, nil
}
