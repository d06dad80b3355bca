// pkg/lifecycle/configuration.go
package lifecycle

import (
	"context"

	"go.uber.org/zap"
)

func (d *Dispatcher) configuration(ctx context.Context, data *ConfigurationData) (ConfigurationResponse, error) {
	h, ok := d.phases[data.Phase]
	if !ok {
		return nil, unsupportedPhase(data.Phase, Phases())
	}
	return h(ctx, data)
}

func (d *Dispatcher) initialize(_ context.Context, _ *ConfigurationData) (ConfigurationResponse, error) {
	return InitializeResponse{Initialize: d.app.Initialize}, nil
}

// page renders the requested page. An empty or unknown pageId renders the
// first page.
func (d *Dispatcher) page(_ context.Context, data *ConfigurationData) (ConfigurationResponse, error) {
	p, ok := d.app.page(data.PageID)
	if !ok {
		if data.PageID != "" {
			d.log.Warn("unknown configuration page, rendering first page",
				zap.String("pageId", data.PageID),
				zap.String("installedAppId", data.InstalledAppID),
			)
		}
		p, ok = d.app.page(d.app.Initialize.FirstPageID)
	}
	if !ok {
		p = Page{PageID: d.app.Initialize.FirstPageID, Complete: true}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return PageResponse{Page: p}, nil
}
