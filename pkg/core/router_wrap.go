package core

import (
	"net/http"

	manifest "github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
)

func wrapRoute(rt manifest.Route, d BuildDeps) http.HandlerFunc {
	switch rt.Handler.Type {
	case manifest.HandlerLifecycle:
		if d.Dispatcher == nil {
			return func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusInternalServerError, "dispatcher unavailable")
			}
		}
		return WebhookHandler(d.Dispatcher, d.Log, rt.Policy.MaxBodyBytes)

	default:
		return func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusInternalServerError, "unknown handler type")
		}
	}
}
