package manifest

import (
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
)

// Default is the built-in manifest used when no manifest file exists: one
// webhook route at "/" and the placeholder app with a single empty page.
func Default() Config {
	app := lifecycle.DefaultApp()
	pages := make([]PageSpec, 0, len(app.Pages))
	for _, p := range app.Pages {
		pages = append(pages, PageSpec{ID: p.PageID, Name: p.Name, Complete: p.Complete})
	}
	return Config{
		Routes: []Route{{
			Path:    "/",
			Method:  "POST",
			Handler: HSpec{Type: HandlerLifecycle},
		}},
		App: App{
			ID:          app.Initialize.ID,
			Name:        app.Initialize.Name,
			Description: app.Initialize.Description,
			Permissions: app.Initialize.Permissions,
			FirstPageID: app.Initialize.FirstPageID,
		},
		Pages: pages,
		SmartThings: SmartThings{
			Capability: app.Capability,
		},
	}
}
