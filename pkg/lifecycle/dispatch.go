// pkg/lifecycle/dispatch.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Subscriber registers an installed app for capability events on the
// remote platform.
type Subscriber interface {
	SubscribeToCapability(ctx context.Context, authToken, installedAppID, locationID, capability string) error
}

// HandlerFunc handles one lifecycle. It receives requests whose Data
// belongs to the lifecycle it is registered under.
type HandlerFunc func(ctx context.Context, req *ExecutionRequest) (ResponseData, error)

type phaseFunc func(ctx context.Context, data *ConfigurationData) (ConfigurationResponse, error)

// Dispatcher routes execution requests by lifecycle. Its tables are built
// once in NewDispatcher and only read afterwards, so a single Dispatcher
// serves concurrent requests without locking.
type Dispatcher struct {
	app      AppConfig
	sub      Subscriber
	log      *zap.Logger
	handlers map[Lifecycle]HandlerFunc
	phases   map[Phase]phaseFunc
}

func NewDispatcher(app AppConfig, sub Subscriber, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{app: app, sub: sub, log: log}
	d.handlers = map[Lifecycle]HandlerFunc{
		Configuration:  bind(d.configuration),
		EventLifecycle: bind(d.event),
		Install:        bind(d.install),
		OAuthCallback:  bind(d.oauthCallback),
		Ping:           bind(d.ping),
		Uninstall:      bind(d.uninstall),
		Update:         bind(d.update),
	}
	d.phases = map[Phase]phaseFunc{
		PhaseInitialize: d.initialize,
		PhasePage:       d.page,
	}
	return d
}

// SupportedLifecycles lists the lifecycles with a registered handler.
func (d *Dispatcher) SupportedLifecycles() []Lifecycle {
	out := make([]Lifecycle, 0, len(d.handlers))
	for _, l := range Lifecycles() {
		if _, ok := d.handlers[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Dispatch invokes the handler registered for req.Lifecycle exactly once.
// Handler errors are returned unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	if req == nil {
		return nil, errors.New("lifecycle: nil request")
	}
	h, ok := d.handlers[req.Lifecycle]
	if !ok {
		return nil, unsupportedLifecycle(req.Lifecycle, d.SupportedLifecycles())
	}
	d.log.Debug("dispatch",
		zap.String("lifecycle", string(req.Lifecycle)),
		zap.String("executionId", req.ExecutionID),
	)

	out, err := h(ctx, req)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Lifecycle() != req.Lifecycle {
		return nil, fmt.Errorf("lifecycle %s: handler produced mismatched response %T", req.Lifecycle, out)
	}
	return &ExecutionResponse{Data: out}, nil
}

// bind adapts a typed handler to the table signature.
func bind[Req RequestData, Resp ResponseData](fn func(context.Context, Req) (Resp, error)) HandlerFunc {
	return func(ctx context.Context, req *ExecutionRequest) (ResponseData, error) {
		data, ok := req.Data.(Req)
		if !ok || isNilPayload(data) {
			return nil, fmt.Errorf("lifecycle %s: missing or mismatched payload %T", req.Lifecycle, req.Data)
		}
		out, err := fn(ctx, data)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
