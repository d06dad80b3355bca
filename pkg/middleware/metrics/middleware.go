package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Collect produces the HTTP middleware that records the counters/histogram.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			defer func() {
				if uriLabels.skipped(r) {
					return
				}

				endTime := time.Since(startTime)

				verified := false
				if ca != nil {
					verified = ca.IsVerified(r.Context())
				}

				code := strconv.Itoa(ww.Status())
				uri := uriLabels.uri(r)
				method := r.Method

				totalHttpRequestsBySignature.WithLabelValues(strconv.FormatBool(verified)).Inc()
				totalHttpRequestsToUri.WithLabelValues(code, uri, method).Inc()
				totalHttpRequests.WithLabelValues(code, method).Inc()
				responseTime.Observe(endTime.Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
