// pkg/lifecycle/handlers.go
package lifecycle

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var errNoSubscriber = errors.New("lifecycle: no subscriber configured")

func (d *Dispatcher) ping(_ context.Context, data *PingData) (PingResponse, error) {
	return PingResponse{Challenge: data.Challenge}, nil
}

func (d *Dispatcher) install(ctx context.Context, data *InstallData) (InstallResponse, error) {
	if err := d.subscribe(ctx, data.AuthToken, data.InstalledApp); err != nil {
		return InstallResponse{}, err
	}
	return InstallResponse{}, nil
}

func (d *Dispatcher) update(ctx context.Context, data *UpdateData) (UpdateResponse, error) {
	if err := d.subscribe(ctx, data.AuthToken, data.InstalledApp); err != nil {
		return UpdateResponse{}, err
	}
	return UpdateResponse{}, nil
}

func (d *Dispatcher) uninstall(_ context.Context, data *UninstallData) (UninstallResponse, error) {
	d.log.Info("uninstalled", zap.String("installedAppId", data.InstalledAppID))
	return UninstallResponse{}, nil
}

// TODO: act on device events once the automation behavior is decided; the
// list is only logged for now.
func (d *Dispatcher) event(_ context.Context, data *EventData) (EventResponse, error) {
	if ce := d.log.Check(zap.DebugLevel, "events received"); ce != nil {
		counts := make(map[string]int, 4)
		for _, e := range data.Events {
			counts[string(e.EventType())]++
		}
		ce.Write(
			zap.String("installedAppId", data.InstalledApp.InstalledAppID),
			zap.Int("count", len(data.Events)),
			zap.Any("byType", counts),
		)
	}
	return EventResponse{}, nil
}

func (d *Dispatcher) oauthCallback(_ context.Context, _ *OAuthCallbackData) (OAuthCallbackResponse, error) {
	return OAuthCallbackResponse{}, nil
}

// subscribe issues exactly one subscription call and returns its error
// unchanged.
func (d *Dispatcher) subscribe(ctx context.Context, authToken string, app InstalledApp) error {
	if d.sub == nil {
		return errNoSubscriber
	}
	return d.sub.SubscribeToCapability(ctx, authToken, app.InstalledAppID, app.LocationID, d.app.Capability)
}
