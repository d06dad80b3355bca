package manifest

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
)

// PageSpec is one [[page]] table.
type PageSpec struct {
	ID         string        `toml:"id"`
	Name       string        `toml:"name"`
	PreviousID string        `toml:"previous_page_id"`
	NextID     string        `toml:"next_page_id"`
	Complete   bool          `toml:"complete"`
	Sections   []SectionSpec `toml:"section"`
}

type SectionSpec struct {
	Name     string        `toml:"name"`
	Settings []SettingSpec `toml:"setting"`
}

// SettingSpec is the flat TOML form of a setting. Which fields may be set
// depends on Type.
type SettingSpec struct {
	ID          string `toml:"id"`
	Type        string `toml:"type"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Required    bool   `toml:"required"`

	Multiple         bool     `toml:"multiple"`
	CloseOnSelection bool     `toml:"close_on_selection"`
	Preselect        bool     `toml:"preselect"`
	Capabilities     []string `toml:"capabilities"`
	Permissions      []string `toml:"permissions"`

	DefaultValue string   `toml:"default_value"`
	MinLength    int      `toml:"min_length"`
	MaxLength    int      `toml:"max_length"`
	Min          *float64 `toml:"min"`
	Max          *float64 `toml:"max"`

	Options      []OptionSpec `toml:"options"`
	OptionGroups []GroupSpec  `toml:"option_groups"`

	URL         string   `toml:"url"`
	Page        string   `toml:"page"`
	Image       string   `toml:"image"`
	Images      []string `toml:"images"`
	Video       string   `toml:"video"`
	URLTemplate string   `toml:"url_template"`
}

type OptionSpec struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

type GroupSpec struct {
	Name    string       `toml:"name"`
	Options []OptionSpec `toml:"options"`
}

// allowedFields lists the variant-specific keys each setting type accepts.
var allowedFields = map[lifecycle.SettingType][]string{
	lifecycle.DeviceSettingType:    {"multiple", "close_on_selection", "preselect", "capabilities", "permissions"},
	lifecycle.TextSettingType:      {"default_value", "min_length", "max_length"},
	lifecycle.PasswordSettingType:  {"min_length", "max_length"},
	lifecycle.BooleanSettingType:   {"default_value"},
	lifecycle.EnumSettingType:      {"multiple", "default_value", "options", "option_groups"},
	lifecycle.ModeSettingType:      {"multiple"},
	lifecycle.SceneSettingType:     {"multiple"},
	lifecycle.LinkSettingType:      {"url", "image"},
	lifecycle.PageSettingType:      {"page", "image"},
	lifecycle.ImageSettingType:     {"image"},
	lifecycle.ImagesSettingType:    {"images"},
	lifecycle.VideoSettingType:     {"video", "image"},
	lifecycle.TimeSettingType:      {"default_value"},
	lifecycle.ParagraphSettingType: {"default_value"},
	lifecycle.EmailSettingType:     {"default_value"},
	lifecycle.DecimalSettingType:   {"default_value", "min", "max"},
	lifecycle.NumberSettingType:    {"default_value", "min", "max"},
	lifecycle.PhoneSettingType:     {"default_value"},
	lifecycle.OAuthSettingType:     {"url_template"},
}

// setFields reports the variant-specific keys that carry a value.
func (s SettingSpec) setFields() []string {
	var out []string
	add := func(name string, set bool) {
		if set {
			out = append(out, name)
		}
	}
	add("multiple", s.Multiple)
	add("close_on_selection", s.CloseOnSelection)
	add("preselect", s.Preselect)
	add("capabilities", len(s.Capabilities) > 0)
	add("permissions", len(s.Permissions) > 0)
	add("default_value", s.DefaultValue != "")
	add("min_length", s.MinLength != 0)
	add("max_length", s.MaxLength != 0)
	add("min", s.Min != nil)
	add("max", s.Max != nil)
	add("options", len(s.Options) > 0)
	add("option_groups", len(s.OptionGroups) > 0)
	add("url", s.URL != "")
	add("page", s.Page != "")
	add("image", s.Image != "")
	add("images", len(s.Images) > 0)
	add("video", s.Video != "")
	add("url_template", s.URLTemplate != "")
	return out
}

func (p PageSpec) toPage() (lifecycle.Page, error) {
	if strings.TrimSpace(p.ID) == "" {
		return lifecycle.Page{}, errors.New("id is required")
	}
	page := lifecycle.Page{
		PageID:         p.ID,
		Name:           p.Name,
		PreviousPageID: optional(p.PreviousID),
		NextPageID:     optional(p.NextID),
		Complete:       p.Complete,
		Sections:       make([]lifecycle.Section, 0, len(p.Sections)),
	}
	for i, sec := range p.Sections {
		out := lifecycle.Section{Name: sec.Name, Settings: make(lifecycle.SettingList, 0, len(sec.Settings))}
		ids := make(map[string]struct{}, len(sec.Settings))
		for j, ss := range sec.Settings {
			s, err := ss.toSetting()
			if err != nil {
				return lifecycle.Page{}, fmt.Errorf("section %d setting %d: %w", i, j, err)
			}
			if _, dup := ids[ss.ID]; dup {
				return lifecycle.Page{}, fmt.Errorf("section %d: duplicate setting id %q", i, ss.ID)
			}
			ids[ss.ID] = struct{}{}
			out.Settings = append(out.Settings, s)
		}
		page.Sections = append(page.Sections, out)
	}
	return page, nil
}

func (s SettingSpec) toSetting() (lifecycle.Setting, error) {
	if strings.TrimSpace(s.ID) == "" {
		return nil, errors.New("id is required")
	}
	typ := lifecycle.SettingType(strings.ToUpper(strings.TrimSpace(s.Type)))
	allowed, ok := allowedFields[typ]
	if !ok {
		return nil, fmt.Errorf("setting %q: unknown type %q", s.ID, s.Type)
	}
	var extra []string
	for _, f := range s.setFields() {
		if !slices.Contains(allowed, f) {
			extra = append(extra, f)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return nil, fmt.Errorf("setting %q: %s does not accept %s", s.ID, typ, strings.Join(extra, ", "))
	}

	base := lifecycle.SettingBase{ID: s.ID, Name: s.Name, Description: s.Description, Required: s.Required}
	var out lifecycle.Setting
	switch typ {
	case lifecycle.DeviceSettingType:
		out = lifecycle.DeviceSetting{
			SettingBase:      base,
			Multiple:         s.Multiple,
			CloseOnSelection: s.CloseOnSelection,
			Preselect:        s.Preselect,
			Capabilities:     s.Capabilities,
			Permissions:      s.Permissions,
		}
	case lifecycle.TextSettingType:
		out = lifecycle.TextSetting{SettingBase: base, DefaultValue: s.DefaultValue, MinLength: s.MinLength, MaxLength: s.MaxLength}
	case lifecycle.PasswordSettingType:
		out = lifecycle.PasswordSetting{SettingBase: base, MinLength: s.MinLength, MaxLength: s.MaxLength}
	case lifecycle.BooleanSettingType:
		out = lifecycle.BooleanSetting{SettingBase: base, DefaultValue: s.DefaultValue}
	case lifecycle.EnumSettingType:
		choices, err := s.enumChoices()
		if err != nil {
			return nil, err
		}
		out = lifecycle.EnumSetting{SettingBase: base, Multiple: s.Multiple, DefaultValue: s.DefaultValue, Choices: choices}
	case lifecycle.ModeSettingType:
		out = lifecycle.ModeSetting{SettingBase: base, Multiple: s.Multiple}
	case lifecycle.SceneSettingType:
		out = lifecycle.SceneSetting{SettingBase: base, Multiple: s.Multiple}
	case lifecycle.LinkSettingType:
		out = lifecycle.LinkSetting{SettingBase: base, URL: s.URL, Image: s.Image}
	case lifecycle.PageSettingType:
		out = lifecycle.PageSetting{SettingBase: base, Page: s.Page, Image: s.Image}
	case lifecycle.ImageSettingType:
		out = lifecycle.ImageSetting{SettingBase: base, Image: s.Image}
	case lifecycle.ImagesSettingType:
		out = lifecycle.ImagesSetting{SettingBase: base, Images: s.Images}
	case lifecycle.VideoSettingType:
		out = lifecycle.VideoSetting{SettingBase: base, Video: s.Video, Image: s.Image}
	case lifecycle.TimeSettingType:
		out = lifecycle.TimeSetting{SettingBase: base, DefaultValue: s.DefaultValue}
	case lifecycle.ParagraphSettingType:
		out = lifecycle.ParagraphSetting{SettingBase: base, DefaultValue: s.DefaultValue}
	case lifecycle.EmailSettingType:
		out = lifecycle.EmailSetting{SettingBase: base, DefaultValue: s.DefaultValue}
	case lifecycle.DecimalSettingType:
		out = lifecycle.DecimalSetting{SettingBase: base, DefaultValue: s.DefaultValue, Min: s.Min, Max: s.Max}
	case lifecycle.NumberSettingType:
		lo, err := integral("min", s.Min)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", s.ID, err)
		}
		hi, err := integral("max", s.Max)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", s.ID, err)
		}
		out = lifecycle.NumberSetting{SettingBase: base, DefaultValue: s.DefaultValue, Min: lo, Max: hi}
	case lifecycle.PhoneSettingType:
		out = lifecycle.PhoneSetting{SettingBase: base, DefaultValue: s.DefaultValue}
	case lifecycle.OAuthSettingType:
		out = lifecycle.OAuthSetting{SettingBase: base, URLTemplate: s.URLTemplate}
	}

	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return nil, fmt.Errorf("setting %q: min greater than max", s.ID)
	}
	if s.MinLength < 0 || s.MaxLength < 0 || (s.MaxLength > 0 && s.MinLength > s.MaxLength) {
		return nil, fmt.Errorf("setting %q: invalid length bounds", s.ID)
	}
	if err := lifecycle.ValidateSetting(out); err != nil {
		return nil, err
	}
	return out, nil
}

// enumChoices takes either options or option_groups, never both.
func (s SettingSpec) enumChoices() (lifecycle.EnumChoices, error) {
	switch {
	case len(s.Options) > 0 && len(s.OptionGroups) > 0:
		return nil, fmt.Errorf("setting %q: options and option_groups are mutually exclusive", s.ID)
	case len(s.Options) > 0:
		opts, err := enumOptions(s.ID, s.Options)
		if err != nil {
			return nil, err
		}
		return lifecycle.EnumOptions(opts), nil
	case len(s.OptionGroups) > 0:
		groups := make(lifecycle.EnumGroups, 0, len(s.OptionGroups))
		for _, g := range s.OptionGroups {
			opts, err := enumOptions(s.ID, g.Options)
			if err != nil {
				return nil, err
			}
			groups = append(groups, lifecycle.EnumGroup{Name: g.Name, Options: opts})
		}
		return groups, nil
	default:
		return nil, fmt.Errorf("setting %q: options or option_groups required", s.ID)
	}
}

func enumOptions(id string, in []OptionSpec) ([]lifecycle.EnumOption, error) {
	out := make([]lifecycle.EnumOption, 0, len(in))
	for _, o := range in {
		if o.ID == "" {
			return nil, fmt.Errorf("setting %q: option id is required", id)
		}
		out = append(out, lifecycle.EnumOption{ID: o.ID, Name: o.Name})
	}
	return out, nil
}

func integral(field string, f *float64) (*int64, error) {
	if f == nil {
		return nil, nil
	}
	if *f != math.Trunc(*f) {
		return nil, fmt.Errorf("%s must be a whole number", field)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
	if *f < math.MinInt64 || *f >= math.MaxInt64 {
		return nil, fmt.Errorf("%s %g is out of range", field, *f)
	}
	n := int64(*f)
	return &n, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
