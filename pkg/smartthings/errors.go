// pkg/smartthings/errors.go
package smartthings

import "fmt"

// CollaboratorError reports a failed call to the SmartThings API: a
// transport failure, a non-2xx status, or an undecodable response body.
type CollaboratorError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *CollaboratorError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("smartthings %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("smartthings %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("smartthings %s: %v", e.Op, e.Err)
	}
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
