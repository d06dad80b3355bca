// pkg/lifecycle/app.go
package lifecycle

import (
	"errors"
	"fmt"
)

// MotionSensor is the capability INSTALL and UPDATE subscribe to.
const MotionSensor = "motionSensor"

// AppConfig is the static description the configuration handlers render
// and the capability the install handlers subscribe to.
type AppConfig struct {
	Initialize Initialize
	Pages      []Page
	Capability string
}

// DefaultApp is the placeholder app: one complete page with no sections.
func DefaultApp() AppConfig {
	return AppConfig{
		Initialize: Initialize{
			ID:          "test",
			Name:        "test to see all devices",
			Description: "some description",
			Permissions: []string{"r:devices:*"},
			FirstPageID: "1",
		},
		Pages: []Page{{
			PageID:   "1",
			Name:     "page 1",
			Complete: true,
			Sections: []Section{},
		}},
		Capability: MotionSensor,
	}
}

// Validate checks that the first page exists and every page is well formed.
func (a AppConfig) Validate() error {
	if a.Initialize.FirstPageID == "" {
		return errors.New("app: firstPageId required")
	}
	if a.Capability == "" {
		return errors.New("app: subscription capability required")
	}
	seen := make(map[string]struct{}, len(a.Pages))
	for _, p := range a.Pages {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.PageID]; dup {
			return fmt.Errorf("app: duplicate page %q", p.PageID)
		}
		seen[p.PageID] = struct{}{}
	}
	if _, ok := seen[a.Initialize.FirstPageID]; !ok && len(a.Pages) > 0 {
		return fmt.Errorf("app: first page %q not defined", a.Initialize.FirstPageID)
	}
	return nil
}

func (a AppConfig) page(id string) (Page, bool) {
	for _, p := range a.Pages {
		if p.PageID == id {
			return p, true
		}
	}
	return Page{}, false
}
