// pkg/smartthings/types.go
package smartthings

import (
	"fmt"
	"net/http"
)

// HTTPDoer is satisfied by *http.Client and allows easy mocking in tests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type SourceType string

const (
	CapabilitySource SourceType = "CAPABILITY"
	DeviceSource     SourceType = "DEVICE"
)

// CapabilitySubscription subscribes to every device at a location that
// exposes a capability.
type CapabilitySubscription struct {
	LocationID       string `json:"locationId"`
	Capability       string `json:"capability"`
	Attribute        string `json:"attribute,omitempty"`
	Value            string `json:"value,omitempty"`
	StateChangeOnly  *bool  `json:"stateChangeOnly,omitempty"`
	SubscriptionName string `json:"subscriptionName"`
}

// DeviceSubscription subscribes to one device component. An empty
// Capability or Attribute means any.
type DeviceSubscription struct {
	DeviceID         string `json:"deviceId"`
	ComponentID      string `json:"componentId,omitempty"`
	Capability       string `json:"capability,omitempty"`
	Attribute        string `json:"attribute,omitempty"`
	Value            string `json:"value,omitempty"`
	StateChangeOnly  *bool  `json:"stateChangeOnly,omitempty"`
	SubscriptionName string `json:"subscriptionName"`
}

// SubscriptionRequest is the body of a create-subscription call. Exactly
// one of Capability or Device is set, matching SourceType.
type SubscriptionRequest struct {
	SourceType SourceType              `json:"sourceType"`
	Capability *CapabilitySubscription `json:"capability,omitempty"`
	Device     *DeviceSubscription     `json:"device,omitempty"`
}

func (r SubscriptionRequest) validate() error {
	switch r.SourceType {
	case CapabilitySource:
		if r.Capability == nil || r.Device != nil {
			return fmt.Errorf("%s subscription requires only a capability body", r.SourceType)
		}
	case DeviceSource:
		if r.Device == nil || r.Capability != nil {
			return fmt.Errorf("%s subscription requires only a device body", r.SourceType)
		}
		if r.Device.DeviceID == "" {
			return fmt.Errorf("deviceId required")
		}
	default:
		return fmt.Errorf("unsupported sourceType %q", r.SourceType)
	}
	return nil
}

// capability names the subscribed capability for metrics and logs.
func (r SubscriptionRequest) capability() string {
	switch {
	case r.Capability != nil:
		return r.Capability.Capability
	case r.Device != nil:
		return r.Device.Capability
	}
	return ""
}

// Subscription is the platform's view of a created subscription.
type Subscription struct {
	ID             string                  `json:"id"`
	InstalledAppID string                  `json:"installedAppId"`
	SourceType     SourceType              `json:"sourceType"`
	Capability     *CapabilitySubscription `json:"capability,omitempty"`
	Device         *DeviceSubscription     `json:"device,omitempty"`
}
