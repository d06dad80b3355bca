package core

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/codec"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	hmetrics "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/metrics"
	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes caps webhook bodies when the route sets no limit.
const DefaultMaxBodyBytes int64 = 1 << 20

// WebhookHandler decodes one execution request, dispatches it and writes
// the encoded response. Failures are written as {"error": message}.
func WebhookHandler(d Dispatcher, log *zap.Logger, maxBody int64) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "POST body too large")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			writeError(w, http.StatusBadRequest, "POST body must not be empty")
			return
		}

		req, err := lifecycle.DecodeRequest(body)
		if err != nil {
			log.Info("rejected execution request",
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		start := time.Now()
		resp, err := d.Dispatch(r.Context(), req)
		hmetrics.ObserveLifecycle(lifecycleLabel(req.Lifecycle), outcome(err), time.Since(start))
		if err != nil {
			log.Error("lifecycle failed",
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.String("lifecycle", string(req.Lifecycle)),
				zap.String("executionId", req.ExecutionID),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp.StatusCode = statusIf(resp.StatusCode, http.StatusOK)
		out, err := codec.JSON.Marshal(resp)
		if err != nil {
			log.Error("encode response failed",
				zap.String("lifecycle", string(req.Lifecycle)),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, out, http.StatusOK)
	}
}

// lifecycleLabel bounds the metric label set to the known lifecycles.
func lifecycleLabel(l lifecycle.Lifecycle) string {
	if !l.Known() {
		return hmetrics.UnknownLifecycle
	}
	return string(l)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return hmetrics.OutcomeOK
	case errors.Is(err, lifecycle.ErrUnsupported):
		return hmetrics.OutcomeUnsupported
	default:
		return hmetrics.OutcomeError
	}
}
