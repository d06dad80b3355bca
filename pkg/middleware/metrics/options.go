package metrics

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Unmatched labels requests that reached no registered route.
const Unmatched = "unmatched"

// labels decides which requests are recorded and under which uri label.
type labels struct {
	mu    sync.RWMutex
	skip  map[string]struct{}
	label func(*http.Request) string
}

var uriLabels = &labels{
	skip:  map[string]struct{}{"/metrics": {}, "/healthz": {}},
	label: RoutePattern,
}

// AddMetricsSkipPaths excludes more exact paths from the HTTP collectors.
// The scrape and heartbeat paths are always skipped.
func AddMetricsSkipPaths(paths ...string) {
	uriLabels.mu.Lock()
	defer uriLabels.mu.Unlock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			uriLabels.skip[p] = struct{}{}
		}
	}
}

// SetPathNormalizer replaces the uri labeler. nil restores RoutePattern.
func SetPathNormalizer(fn func(*http.Request) string) {
	if fn == nil {
		fn = RoutePattern
	}
	uriLabels.mu.Lock()
	uriLabels.label = fn
	uriLabels.mu.Unlock()
}

// RoutePattern returns the matched chi pattern, so path parameters and
// unknown paths never mint new series.
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return Unmatched
}

func (l *labels) skipped(r *http.Request) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.skip[r.URL.Path]
	return ok
}

func (l *labels) uri(r *http.Request) string {
	l.mu.RLock()
	fn := l.label
	l.mu.RUnlock()
	return fn(r)
}
