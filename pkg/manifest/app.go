package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
)

// App is the metadata rendered on CONFIGURATION/INITIALIZE.
type App struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Permissions []string `toml:"permissions"`
	FirstPageID string   `toml:"first_page_id"`
}

// permission scopes look like r:devices:* or i:deviceprofiles
var permissionRE = regexp.MustCompile(`^[rwxil]:[a-z]+(:(\*|[A-Za-z0-9._-]+))?$`)

func (a *App) validate() error {
	a.ID = strings.TrimSpace(a.ID)
	a.FirstPageID = strings.TrimSpace(a.FirstPageID)
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.FirstPageID == "" {
		return errors.New("first_page_id is required")
	}
	seen := make(map[string]struct{}, len(a.Permissions))
	for _, p := range a.Permissions {
		if !permissionRE.MatchString(p) {
			return fmt.Errorf("permission %q invalid", p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("permission %q listed twice", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

func (a App) initialize() lifecycle.Initialize {
	perms := make([]string, len(a.Permissions))
	copy(perms, a.Permissions)
	return lifecycle.Initialize{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Permissions: perms,
		FirstPageID: a.FirstPageID,
	}
}
