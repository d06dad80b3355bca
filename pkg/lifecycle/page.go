// pkg/lifecycle/page.go
package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Initialize is the app metadata returned for CONFIGURATION/INITIALIZE.
type Initialize struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	FirstPageID string   `json:"firstPageId"`
}

func (i Initialize) MarshalJSON() ([]byte, error) {
	type plain Initialize
	if i.Permissions == nil {
		i.Permissions = []string{}
	}
	return json.Marshal(plain(i))
}

// Page is one configuration page. A nil PreviousPageID or NextPageID marks
// a boundary and is encoded as null.
type Page struct {
	PageID         string    `json:"pageId"`
	Name           string    `json:"name"`
	PreviousPageID *string   `json:"previousPageId"`
	NextPageID     *string   `json:"nextPageId"`
	Complete       bool      `json:"complete"`
	Sections       []Section `json:"sections"`
}

type Section struct {
	Name     string      `json:"name,omitempty"`
	Settings SettingList `json:"settings"`
}

func (p Page) MarshalJSON() ([]byte, error) {
	type plain Page
	if p.Sections == nil {
		p.Sections = []Section{}
	}
	return json.Marshal(plain(p))
}

func (s Section) MarshalJSON() ([]byte, error) {
	type plain Section
	if s.Settings == nil {
		s.Settings = SettingList{}
	}
	return json.Marshal(plain(s))
}

// Validate enforces the page shape: a complete page has no successor.
func (p Page) Validate() error {
	if p.PageID == "" {
		return errors.New("page: pageId required")
	}
	if p.Complete && p.NextPageID != nil {
		return fmt.Errorf("page %q: complete page must not set nextPageId", p.PageID)
	}
	if !p.Complete && p.NextPageID == nil {
		return fmt.Errorf("page %q: incomplete page requires nextPageId", p.PageID)
	}
	for i, sec := range p.Sections {
		for j, s := range sec.Settings {
			if err := ValidateSetting(s); err != nil {
				return fmt.Errorf("page %q section %d setting %d: %w", p.PageID, i, j, err)
			}
		}
	}
	return nil
}
