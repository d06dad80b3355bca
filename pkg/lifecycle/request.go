// pkg/lifecycle/request.go
package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/codec"
)

// Envelope holds the fields common to every execution request.
type Envelope struct {
	ExecutionID string            `json:"executionId"`
	Locale      string            `json:"locale"`
	Version     string            `json:"version"`
	Settings    map[string]string `json:"settings"`
}

// InstalledApp describes the app instance a request concerns.
type InstalledApp struct {
	InstalledAppID string    `json:"installedAppId"`
	LocationID     string    `json:"locationId"`
	Config         ConfigMap `json:"config"`
	Permissions    []string  `json:"permissions"`
}

// RequestData is the lifecycle-specific payload of a request. Only the
// pointer payload types of this package implement it.
type RequestData interface {
	Lifecycle() Lifecycle
	isRequestData()
}

type InstallData struct {
	AuthToken    string       `json:"authToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	InstalledApp InstalledApp `json:"installedApp"`
}

type UpdateData struct {
	AuthToken           string       `json:"authToken"`
	RefreshToken        string       `json:"refreshToken,omitempty"`
	InstalledApp        InstalledApp `json:"installedApp"`
	PreviousConfig      ConfigMap    `json:"previousConfig"`
	PreviousPermissions []string     `json:"previousPermissions"`
}

// UninstallData is the installed app descriptor itself.
type UninstallData struct {
	InstalledApp
}

type EventData struct {
	AuthToken    string       `json:"authToken"`
	InstalledApp InstalledApp `json:"installedApp"`
	Events       EventList    `json:"events"`
}

type PingData struct {
	Challenge string `json:"challenge"`
}

type ConfigurationData struct {
	InstalledAppID string    `json:"installedAppId"`
	Phase          Phase     `json:"phase"`
	PageID         string    `json:"pageId"`
	PreviousPageID string    `json:"previousPageId"`
	Config         ConfigMap `json:"config"`
}

type OAuthCallbackData struct {
	InstalledAppID string `json:"installedAppId"`
	URLPath        string `json:"urlPath"`
}

func (*InstallData) Lifecycle() Lifecycle       { return Install }
func (*UpdateData) Lifecycle() Lifecycle        { return Update }
func (*UninstallData) Lifecycle() Lifecycle     { return Uninstall }
func (*EventData) Lifecycle() Lifecycle         { return EventLifecycle }
func (*PingData) Lifecycle() Lifecycle          { return Ping }
func (*ConfigurationData) Lifecycle() Lifecycle { return Configuration }
func (*OAuthCallbackData) Lifecycle() Lifecycle { return OAuthCallback }

func (*InstallData) isRequestData()       {}
func (*UpdateData) isRequestData()        {}
func (*UninstallData) isRequestData()     {}
func (*EventData) isRequestData()         {}
func (*PingData) isRequestData()          {}
func (*ConfigurationData) isRequestData() {}
func (*OAuthCallbackData) isRequestData() {}

// ExecutionRequest is one inbound lifecycle call. Lifecycle always equals
// Data.Lifecycle() for requests built by NewRequest or decoded from JSON,
// except when the tag is unknown, in which case Data is nil.
type ExecutionRequest struct {
	Envelope
	Lifecycle Lifecycle
	Data      RequestData
}

// NewRequest builds a request whose tag is derived from its payload.
func NewRequest(env Envelope, data RequestData) *ExecutionRequest {
	return &ExecutionRequest{Envelope: env, Lifecycle: data.Lifecycle(), Data: data}
}

type wireRequest struct {
	Lifecycle Lifecycle `json:"lifecycle"`
	Envelope
	InstallData       *InstallData       `json:"installData,omitempty"`
	UpdateData        *UpdateData        `json:"updateData,omitempty"`
	UninstallData     *UninstallData     `json:"uninstallData,omitempty"`
	EventData         *EventData         `json:"eventData,omitempty"`
	PingData          *PingData          `json:"pingData,omitempty"`
	ConfigurationData *ConfigurationData `json:"configurationData,omitempty"`
	OAuthCallbackData *OAuthCallbackData `json:"oauthCallbackData,omitempty"`
}

func (r ExecutionRequest) MarshalJSON() ([]byte, error) {
	w := wireRequest{Lifecycle: r.Lifecycle, Envelope: r.Envelope}
	switch d := r.Data.(type) {
	case *InstallData:
		w.InstallData = d
	case *UpdateData:
		w.UpdateData = d
	case *UninstallData:
		w.UninstallData = d
	case *EventData:
		w.EventData = d
	case *PingData:
		w.PingData = d
	case *ConfigurationData:
		w.ConfigurationData = d
	case *OAuthCallbackData:
		w.OAuthCallbackData = d
	case nil:
	default:
		return nil, fmt.Errorf("lifecycle %s: unsupported payload %T", r.Lifecycle, r.Data)
	}
	if r.Data != nil && r.Data.Lifecycle() != r.Lifecycle {
		return nil, fmt.Errorf("lifecycle %s: payload belongs to %s", r.Lifecycle, r.Data.Lifecycle())
	}
	return json.Marshal(w)
}

func (r *ExecutionRequest) UnmarshalJSON(b []byte) error {
	var w wireRequest
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Lifecycle == "" {
		return errors.New("lifecycle is required")
	}

	var present []RequestData
	for _, d := range []RequestData{
		w.InstallData, w.UpdateData, w.UninstallData, w.EventData,
		w.PingData, w.ConfigurationData, w.OAuthCallbackData,
	} {
		if !isNilPayload(d) {
			present = append(present, d)
		}
	}
	if len(present) > 1 {
		return fmt.Errorf("lifecycle %s: %d payloads present, want exactly one", w.Lifecycle, len(present))
	}

	*r = ExecutionRequest{Envelope: w.Envelope, Lifecycle: w.Lifecycle}
	if !w.Lifecycle.Known() {
		// Left for the dispatcher to reject with the supported list.
		return nil
	}
	if len(present) == 0 || present[0].Lifecycle() != w.Lifecycle {
		return fmt.Errorf("lifecycle %s: %s is required", w.Lifecycle, w.Lifecycle.payloadKey())
	}
	r.Data = present[0]
	return nil
}

// DecodeRequest parses one execution request. Every failure is a
// *DecodeError.
func DecodeRequest(data []byte) (*ExecutionRequest, error) {
	var req ExecutionRequest
	if err := codec.JSON.Unmarshal(data, &req); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &req, nil
}

// isNilPayload reports whether a typed nil pointer hides inside d.
func isNilPayload(d RequestData) bool {
	switch v := d.(type) {
	case *InstallData:
		return v == nil
	case *UpdateData:
		return v == nil
	case *UninstallData:
		return v == nil
	case *EventData:
		return v == nil
	case *PingData:
		return v == nil
	case *ConfigurationData:
		return v == nil
	case *OAuthCallbackData:
		return v == nil
	}
	return d == nil
}
