package logger

import (
	"mime"
	"net/http"
	"strings"
)

// AddBodyLogPaths extends the set of paths whose request bodies are logged
// at debug level.
func (m *Middleware) AddBodyLogPaths(paths ...string) {
	m.mu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			m.bodyPaths[p] = struct{}{}
		}
	}
	m.mu.Unlock()
}

// Only log small JSON request bodies on allowlisted routes.
func (m *Middleware) shouldLogBody(r *http.Request) bool {
	if !m.debug {
		return false
	}
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if r.ContentLength > maxLoggedBody {
		return false
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		return false
	}
	m.mu.RLock()
	_, ok := m.bodyPaths[r.URL.Path]
	m.mu.RUnlock()
	return ok
}
