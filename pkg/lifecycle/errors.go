// pkg/lifecycle/errors.go
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported matches any *UnsupportedLifecycleError via errors.Is.
var ErrUnsupported = errors.New("lifecycle: unsupported discriminator")

// UnsupportedLifecycleError is returned by the dispatcher and the
// CONFIGURATION sub-router when a discriminator has no registered handler.
type UnsupportedLifecycleError struct {
	Field     string // "lifecycle" or "phase"
	Value     string
	Supported []string
}

func (e *UnsupportedLifecycleError) Error() string {
	return fmt.Sprintf("unable to handle %s %q. Supported %ss: %s",
		e.Field, e.Value, e.Field, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedLifecycleError) Is(target error) bool { return target == ErrUnsupported }

// DecodeError wraps malformed request bodies. It is produced at the
// transport boundary and never by Dispatch.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode execution request: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

func unsupportedLifecycle(l Lifecycle, known []Lifecycle) error {
	names := make([]string, 0, len(known))
	for _, k := range known {
		names = append(names, string(k))
	}
	return &UnsupportedLifecycleError{Field: "lifecycle", Value: string(l), Supported: names}
}

func unsupportedPhase(p Phase, known []Phase) error {
	names := make([]string, 0, len(known))
	for _, k := range known {
		names = append(names, string(k))
	}
	return &UnsupportedLifecycleError{Field: "phase", Value: string(p), Supported: names}
}
