package metrics

import (
	"strconv"
	"time"
)

// Lifecycle dispatch outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnsupported = "unsupported"
)

// UnknownLifecycle labels dispatches whose lifecycle is not recognised.
const UnknownLifecycle = "unknown"

// ObserveLifecycle records one dispatch.
func ObserveLifecycle(lifecycle, outcome string, dur time.Duration) {
	if lifecycle == "" {
		lifecycle = UnknownLifecycle
	}
	totalLifecycles.WithLabelValues(lifecycle, outcome).Inc()
	lifecycleTime.WithLabelValues(lifecycle).Observe(dur.Seconds())
}

// ObserveSubscription records one outbound subscription call; code 0 means
// no response was received.
func ObserveSubscription(capability string, code int, _ error) {
	totalSubscriptions.WithLabelValues(capability, strconv.Itoa(code)).Inc()
}
