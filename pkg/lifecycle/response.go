// pkg/lifecycle/response.go
package lifecycle

import (
	"encoding/json"
	"fmt"
)

// ResponseData is the lifecycle-specific payload of a response.
type ResponseData interface {
	Lifecycle() Lifecycle
	isResponseData()
}

type InstallResponse struct{}
type UpdateResponse struct{}
type UninstallResponse struct{}
type EventResponse struct{}
type OAuthCallbackResponse struct{}

type PingResponse struct {
	Challenge string `json:"challenge"`
}

// ConfigurationResponse is either an InitializeResponse or a PageResponse.
type ConfigurationResponse interface {
	ResponseData
	Phase() Phase
}

type InitializeResponse struct {
	Initialize Initialize `json:"initialize"`
}

type PageResponse struct {
	Page Page `json:"page"`
}

func (InstallResponse) Lifecycle() Lifecycle       { return Install }
func (UpdateResponse) Lifecycle() Lifecycle        { return Update }
func (UninstallResponse) Lifecycle() Lifecycle     { return Uninstall }
func (EventResponse) Lifecycle() Lifecycle         { return EventLifecycle }
func (OAuthCallbackResponse) Lifecycle() Lifecycle { return OAuthCallback }
func (PingResponse) Lifecycle() Lifecycle          { return Ping }
func (InitializeResponse) Lifecycle() Lifecycle    { return Configuration }
func (PageResponse) Lifecycle() Lifecycle          { return Configuration }

func (InstallResponse) isResponseData()       {}
func (UpdateResponse) isResponseData()        {}
func (UninstallResponse) isResponseData()     {}
func (EventResponse) isResponseData()         {}
func (OAuthCallbackResponse) isResponseData() {}
func (PingResponse) isResponseData()          {}
func (InitializeResponse) isResponseData()    {}
func (PageResponse) isResponseData()          {}

func (InitializeResponse) Phase() Phase { return PhaseInitialize }
func (PageResponse) Phase() Phase       { return PhasePage }

// ExecutionResponse pairs a payload with the optional status code set by
// the transport. Handlers never set StatusCode.
type ExecutionResponse struct {
	StatusCode int
	Data       ResponseData
}

func (r ExecutionResponse) MarshalJSON() ([]byte, error) {
	if r.Data == nil {
		return nil, fmt.Errorf("execution response: missing payload")
	}
	key := r.Data.Lifecycle().payloadKey()
	if key == "" {
		return nil, fmt.Errorf("execution response: unknown lifecycle %q", r.Data.Lifecycle())
	}
	out := make(map[string]any, 2)
	if r.StatusCode != 0 {
		out["statusCode"] = r.StatusCode
	}
	out[key] = r.Data
	return json.Marshal(out)
}
