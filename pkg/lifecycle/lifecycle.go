// pkg/lifecycle/lifecycle.go
package lifecycle

// Lifecycle is the discriminator of an execution request.
type Lifecycle string

const (
	Configuration  Lifecycle = "CONFIGURATION"
	EventLifecycle Lifecycle = "EVENT"
	Install        Lifecycle = "INSTALL"
	OAuthCallback  Lifecycle = "OAUTH_CALLBACK"
	Ping           Lifecycle = "PING"
	Uninstall      Lifecycle = "UNINSTALL"
	Update         Lifecycle = "UPDATE"
)

// Lifecycles lists every known lifecycle in a stable order.
func Lifecycles() []Lifecycle {
	return []Lifecycle{Configuration, EventLifecycle, Install, OAuthCallback, Ping, Uninstall, Update}
}

// Known reports whether l is one of the closed set of lifecycles.
func (l Lifecycle) Known() bool {
	return l.payloadKey() != ""
}

// payloadKey is the JSON key carrying the lifecycle's payload in both
// requests and responses.
func (l Lifecycle) payloadKey() string {
	switch l {
	case Configuration:
		return "configurationData"
	case EventLifecycle:
		return "eventData"
	case Install:
		return "installData"
	case OAuthCallback:
		return "oauthCallbackData"
	case Ping:
		return "pingData"
	case Uninstall:
		return "uninstallData"
	case Update:
		return "updateData"
	}
	return ""
}

// Phase is the CONFIGURATION sub-discriminator.
type Phase string

const (
	PhaseInitialize Phase = "INITIALIZE"
	PhasePage       Phase = "PAGE"
)

// Phases lists every known configuration phase.
func Phases() []Phase {
	return []Phase{PhaseInitialize, PhasePage}
}
