package manifest

// HandlerType enumerates the supported handler kinds.
type HandlerType string

const (
	// HandlerLifecycle decodes an execution request and dispatches it by
	// lifecycle.
	HandlerLifecycle HandlerType = "lifecycle"
)
