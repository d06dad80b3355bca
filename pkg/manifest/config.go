package manifest

import (
	"fmt"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
)

// Config is the top-level manifest: the webhook routes, the app metadata
// returned on CONFIGURATION/INITIALIZE, the configuration pages and the
// SmartThings API client settings.
type Config struct {
	Routes      []Route     `toml:"route"`
	App         App         `toml:"app"`
	Pages       []PageSpec  `toml:"page"`
	SmartThings SmartThings `toml:"smartthings"`
}

// Validate normalizes the manifest in place and reports the first problem.
func (c *Config) Validate() error {
	if err := c.validateRoutes(); err != nil {
		return err
	}
	if err := c.App.validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.SmartThings.validate(); err != nil {
		return fmt.Errorf("smartthings: %w", err)
	}
	if _, err := c.AppConfig(); err != nil {
		return err
	}
	return nil
}

// AppConfig converts the manifest into the dispatcher's app configuration.
func (c *Config) AppConfig() (lifecycle.AppConfig, error) {
	pages := make([]lifecycle.Page, 0, len(c.Pages))
	for i, ps := range c.Pages {
		p, err := ps.toPage()
		if err != nil {
			return lifecycle.AppConfig{}, fmt.Errorf("page %d (%s): %w", i, ps.ID, err)
		}
		pages = append(pages, p)
	}
	capability := c.SmartThings.Capability
	if capability == "" {
		capability = lifecycle.MotionSensor
	}
	app := lifecycle.AppConfig{
		Initialize: c.App.initialize(),
		Pages:      pages,
		Capability: capability,
	}
	if err := app.Validate(); err != nil {
		return lifecycle.AppConfig{}, err
	}
	return app, nil
}
