// pkg/lifecycle/config.go
package lifecycle

import (
	"encoding/json"
	"fmt"
)

// ValueType discriminates ConfigEntry variants.
type ValueType string

const (
	StringValue ValueType = "STRING"
	DeviceValue ValueType = "DEVICE"
	ModeValue   ValueType = "MODE"
)

// ConfigEntry is one value of a configuration item. Implemented by
// StringConfig, DeviceConfig and ModeConfig only.
type ConfigEntry interface {
	ValueType() ValueType
	isConfigEntry()
}

type StringConfig struct {
	Value string `json:"value"`
}

type DeviceConfig struct {
	DeviceID    string `json:"deviceId"`
	ComponentID string `json:"componentId"`
}

type ModeConfig struct {
	ModeID string `json:"modeId"`
}

func (StringConfig) ValueType() ValueType { return StringValue }
func (DeviceConfig) ValueType() ValueType { return DeviceValue }
func (ModeConfig) ValueType() ValueType   { return ModeValue }

func (StringConfig) isConfigEntry() {}
func (DeviceConfig) isConfigEntry() {}
func (ModeConfig) isConfigEntry()   {}

// ConfigEntries is the ordered value list of one configuration item.
type ConfigEntries []ConfigEntry

// ConfigMap maps configuration item names to their entries.
type ConfigMap map[string]ConfigEntries

type wireConfigEntry struct {
	ValueType    ValueType     `json:"valueType"`
	StringConfig *StringConfig `json:"stringConfig,omitempty"`
	DeviceConfig *DeviceConfig `json:"deviceConfig,omitempty"`
	ModeConfig   *ModeConfig   `json:"modeConfig,omitempty"`
}

func (c ConfigEntries) MarshalJSON() ([]byte, error) {
	out := make([]wireConfigEntry, 0, len(c))
	for i, e := range c {
		w := wireConfigEntry{}
		switch v := e.(type) {
		case StringConfig:
			w.ValueType, w.StringConfig = StringValue, &v
		case DeviceConfig:
			w.ValueType, w.DeviceConfig = DeviceValue, &v
		case ModeConfig:
			w.ValueType, w.ModeConfig = ModeValue, &v
		default:
			return nil, fmt.Errorf("config entry %d: unsupported type %T", i, e)
		}
		out = append(out, w)
	}
	return json.Marshal(out)
}

func (c *ConfigEntries) UnmarshalJSON(b []byte) error {
	var raw []wireConfigEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(ConfigEntries, 0, len(raw))
	for i, w := range raw {
		e, err := w.entry()
		if err != nil {
			return fmt.Errorf("config entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	*c = out
	return nil
}

func (w wireConfigEntry) entry() (ConfigEntry, error) {
	present := 0
	for _, set := range []bool{w.StringConfig != nil, w.DeviceConfig != nil, w.ModeConfig != nil} {
		if set {
			present++
		}
	}
	if present > 1 {
		return nil, fmt.Errorf("valueType %q carries more than one payload", w.ValueType)
	}
	switch w.ValueType {
	case StringValue:
		if w.StringConfig != nil {
			return *w.StringConfig, nil
		}
	case DeviceValue:
		if w.DeviceConfig != nil {
			return *w.DeviceConfig, nil
		}
	case ModeValue:
		if w.ModeConfig != nil {
			return *w.ModeConfig, nil
		}
	default:
		return nil, fmt.Errorf("unknown valueType %q", w.ValueType)
	}
	return nil, fmt.Errorf("valueType %q payload missing", w.ValueType)
}
