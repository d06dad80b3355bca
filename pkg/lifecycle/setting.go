// pkg/lifecycle/setting.go
package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SettingType discriminates Setting variants.
type SettingType string

const (
	DeviceSettingType    SettingType = "DEVICE"
	TextSettingType      SettingType = "TEXT"
	PasswordSettingType  SettingType = "PASSWORD"
	BooleanSettingType   SettingType = "BOOLEAN"
	EnumSettingType      SettingType = "ENUM"
	ModeSettingType      SettingType = "MODE"
	SceneSettingType     SettingType = "SCENE"
	LinkSettingType      SettingType = "LINK"
	PageSettingType      SettingType = "PAGE"
	ImageSettingType     SettingType = "IMAGE"
	ImagesSettingType    SettingType = "IMAGES"
	VideoSettingType     SettingType = "VIDEO"
	TimeSettingType      SettingType = "TIME"
	ParagraphSettingType SettingType = "PARAGRAPH"
	EmailSettingType     SettingType = "EMAIL"
	DecimalSettingType   SettingType = "DECIMAL"
	NumberSettingType    SettingType = "NUMBER"
	PhoneSettingType     SettingType = "PHONE"
	OAuthSettingType     SettingType = "OAUTH"
)

// Setting is one input rendered on a configuration page.
type Setting interface {
	SettingType() SettingType
	isSetting()
}

// SettingBase holds the fields every setting carries.
type SettingBase struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// DeviceSetting selects devices. Capabilities and Permissions are required.
type DeviceSetting struct {
	SettingBase
	Multiple         bool     `json:"multiple"`
	CloseOnSelection bool     `json:"closeOnSelection,omitempty"`
	Preselect        bool     `json:"preselect,omitempty"`
	Capabilities     []string `json:"capabilities"`
	Permissions      []string `json:"permissions"`
}

type TextSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
	MinLength    int    `json:"minLength,omitempty"`
	MaxLength    int    `json:"maxLength,omitempty"`
}

type PasswordSetting struct {
	SettingBase
	MinLength int `json:"minLength,omitempty"`
	MaxLength int `json:"maxLength,omitempty"`
}

type BooleanSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
}

// EnumSetting offers either a flat option list or named option groups.
type EnumSetting struct {
	SettingBase
	Multiple     bool        `json:"multiple"`
	DefaultValue string      `json:"defaultValue,omitempty"`
	Choices      EnumChoices `json:"-"`
}

// EnumChoices is EnumOptions or EnumGroups.
type EnumChoices interface {
	isEnumChoices()
}

type EnumOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EnumGroup struct {
	Name    string       `json:"name"`
	Options []EnumOption `json:"options"`
}

type EnumOptions []EnumOption
type EnumGroups []EnumGroup

func (EnumOptions) isEnumChoices() {}
func (EnumGroups) isEnumChoices()  {}

func (s EnumSetting) MarshalJSON() ([]byte, error) {
	type plain EnumSetting
	out := struct {
		plain
		Options        EnumOptions `json:"options,omitempty"`
		GroupedOptions EnumGroups  `json:"groupedOptions,omitempty"`
	}{plain: plain(s)}
	switch c := s.Choices.(type) {
	case EnumOptions:
		out.Options = c
	case EnumGroups:
		out.GroupedOptions = c
	case nil:
	default:
		return nil, fmt.Errorf("enum setting %q: unsupported choices %T", s.ID, s.Choices)
	}
	return json.Marshal(out)
}

type ModeSetting struct {
	SettingBase
	Multiple bool `json:"multiple"`
}

type SceneSetting struct {
	SettingBase
	Multiple bool `json:"multiple"`
}

type LinkSetting struct {
	SettingBase
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// PageSetting links to another configuration page.
type PageSetting struct {
	SettingBase
	Page  string `json:"page"`
	Image string `json:"image,omitempty"`
}

type ImageSetting struct {
	SettingBase
	Image string `json:"image"`
}

type ImagesSetting struct {
	SettingBase
	Images []string `json:"images"`
}

type VideoSetting struct {
	SettingBase
	Video string `json:"video"`
	Image string `json:"image,omitempty"`
}

type TimeSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
}

type ParagraphSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
}

type EmailSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
}

type DecimalSetting struct {
	SettingBase
	DefaultValue string   `json:"defaultValue,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
}

type NumberSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
	Min          *int64 `json:"min,omitempty"`
	Max          *int64 `json:"max,omitempty"`
}

type PhoneSetting struct {
	SettingBase
	DefaultValue string `json:"defaultValue,omitempty"`
}

type OAuthSetting struct {
	SettingBase
	URLTemplate string `json:"urlTemplate"`
}

func (DeviceSetting) SettingType() SettingType    { return DeviceSettingType }
func (TextSetting) SettingType() SettingType      { return TextSettingType }
func (PasswordSetting) SettingType() SettingType  { return PasswordSettingType }
func (BooleanSetting) SettingType() SettingType   { return BooleanSettingType }
func (EnumSetting) SettingType() SettingType      { return EnumSettingType }
func (ModeSetting) SettingType() SettingType      { return ModeSettingType }
func (SceneSetting) SettingType() SettingType     { return SceneSettingType }
func (LinkSetting) SettingType() SettingType      { return LinkSettingType }
func (PageSetting) SettingType() SettingType      { return PageSettingType }
func (ImageSetting) SettingType() SettingType     { return ImageSettingType }
func (ImagesSetting) SettingType() SettingType    { return ImagesSettingType }
func (VideoSetting) SettingType() SettingType     { return VideoSettingType }
func (TimeSetting) SettingType() SettingType      { return TimeSettingType }
func (ParagraphSetting) SettingType() SettingType { return ParagraphSettingType }
func (EmailSetting) SettingType() SettingType     { return EmailSettingType }
func (DecimalSetting) SettingType() SettingType   { return DecimalSettingType }
func (NumberSetting) SettingType() SettingType    { return NumberSettingType }
func (PhoneSetting) SettingType() SettingType     { return PhoneSettingType }
func (OAuthSetting) SettingType() SettingType     { return OAuthSettingType }

func (DeviceSetting) isSetting()    {}
func (TextSetting) isSetting()      {}
func (PasswordSetting) isSetting()  {}
func (BooleanSetting) isSetting()   {}
func (EnumSetting) isSetting()      {}
func (ModeSetting) isSetting()      {}
func (SceneSetting) isSetting()     {}
func (LinkSetting) isSetting()      {}
func (PageSetting) isSetting()      {}
func (ImageSetting) isSetting()     {}
func (ImagesSetting) isSetting()    {}
func (VideoSetting) isSetting()     {}
func (TimeSetting) isSetting()      {}
func (ParagraphSetting) isSetting() {}
func (EmailSetting) isSetting()     {}
func (DecimalSetting) isSetting()   {}
func (NumberSetting) isSetting()    {}
func (PhoneSetting) isSetting()     {}
func (OAuthSetting) isSetting()     {}

// SettingList is the ordered settings of a section. Each element is encoded
// with its "type" tag first.
type SettingList []Setting

func (l SettingList) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, s := range l {
		if s == nil {
			return nil, fmt.Errorf("setting %d: nil", i)
		}
		body, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("setting %d: %w", i, err)
		}
		if len(body) < 2 || body[0] != '{' {
			return nil, fmt.Errorf("setting %d: not an object", i)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, `{"type":%q`, s.SettingType())
		if rest := bytes.TrimSpace(body[1:]); len(rest) > 1 {
			buf.WriteByte(',')
		}
		buf.Write(body[1:])
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// ValidateSetting checks the per-variant required fields.
func ValidateSetting(s Setting) error {
	switch v := s.(type) {
	case DeviceSetting:
		if len(v.Capabilities) == 0 {
			return fmt.Errorf("device setting %q: capabilities required", v.ID)
		}
		if len(v.Permissions) == 0 {
			return fmt.Errorf("device setting %q: permissions required", v.ID)
		}
	case EnumSetting:
		if v.Choices == nil {
			return fmt.Errorf("enum setting %q: options or groupedOptions required", v.ID)
		}
	case PageSetting:
		if v.Page == "" {
			return fmt.Errorf("page setting %q: page required", v.ID)
		}
	case LinkSetting:
		if v.URL == "" {
			return fmt.Errorf("link setting %q: url required", v.ID)
		}
	case OAuthSetting:
		if v.URLTemplate == "" {
			return fmt.Errorf("oauth setting %q: urlTemplate required", v.ID)
		}
	case nil:
		return fmt.Errorf("nil setting")
	}
	return nil
}
