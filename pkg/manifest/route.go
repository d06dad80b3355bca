package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Route describes a single HTTP route.
type Route struct {
	Path    string   `toml:"path"`
	Method  string   `toml:"method"`
	Guard   Guard    `toml:"guard"`
	Policy  Policy   `toml:"policy"`
	Handler HSpec    `toml:"handler"`
	Tags    []string `toml:"tags"`
}

type Guard struct {
	// RequireSignature rejects requests whose HTTP signature was not
	// verified by the auth middleware.
	RequireSignature bool `toml:"require_signature"`
}

type Policy struct {
	TimeoutMS    int        `toml:"timeout_ms"`
	RateLimit    *RateLimit `toml:"rate_limit"`
	MaxBodyBytes int64      `toml:"max_body_bytes"`
}

type RateLimit struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

type HSpec struct {
	Type HandlerType `toml:"type"`
}

// normalize path/method
func (r *Route) normalize() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	if r.Path != "/" {
		r.Path = path.Clean(r.Path)
	}
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "POST"
	}
	return nil
}

// validate fields that are independent of global state.
func (r *Route) validate() error {
	switch r.Handler.Type {
	case HandlerLifecycle:
		if r.Method != "POST" {
			return fmt.Errorf("handler %q requires method POST", r.Handler.Type)
		}
	default:
		return fmt.Errorf("unknown handler type %q", r.Handler.Type)
	}

	if r.Policy.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	if r.Policy.MaxBodyBytes < 0 {
		return errors.New("policy.max_body_bytes must be >= 0")
	}
	if err := r.Policy.RateLimit.validate("policy.rate_limit"); err != nil {
		return err
	}
	return nil
}

func (rl *RateLimit) validate(field string) error {
	if rl == nil {
		return nil
	}
	if rl.RPS < 0 || rl.Burst < 0 {
		return fmt.Errorf("%s values must be >= 0", field)
	}
	if rl.RPS > 0 && rl.Burst == 0 {
		return fmt.Errorf("%s.burst must be > 0 when rps is set", field)
	}
	return nil
}
