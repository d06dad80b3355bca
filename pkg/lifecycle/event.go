// pkg/lifecycle/event.go
package lifecycle

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates Event variants.
type EventType string

const (
	DeviceEventType         EventType = "DEVICE_EVENT"
	ModeEventType           EventType = "MODE_EVENT"
	TimerEventType          EventType = "TIMER_EVENT"
	DeviceCommandsEventType EventType = "DEVICE_COMMANDS_EVENT"
)

// Event is one entry of an EVENT request. Implemented by DeviceEvent,
// ModeEvent, TimerEvent and DeviceCommandsEvent only.
type Event interface {
	EventType() EventType
	isEvent()
}

// DeviceEvent is a sensor attribute change.
type DeviceEvent struct {
	SubscriptionName string          `json:"subscriptionName"`
	EventID          string          `json:"eventId"`
	LocationID       string          `json:"locationId"`
	DeviceID         string          `json:"deviceId"`
	ComponentID      string          `json:"componentId"`
	Capability       string          `json:"capability"`
	Attribute        string          `json:"attribute"`
	Value            json.RawMessage `json:"value"`
	StateChange      bool            `json:"stateChange"`
}

// ModeEvent is a location mode change.
type ModeEvent struct {
	ModeID string
}

// TimerType is the schedule kind of a TimerEvent.
type TimerType string

const (
	TimerCron TimerType = "CRON"
	TimerOnce TimerType = "ONCE"
)

// TimerEvent is a scheduled timer firing. Expression is set for CRON timers.
type TimerEvent struct {
	EventID    string    `json:"eventId"`
	Name       string    `json:"name"`
	Type       TimerType `json:"type"`
	Time       string    `json:"time"` // ISO-8601
	Expression string    `json:"expression,omitempty"`
}

// DeviceCommandsEvent is a batch of commands addressed to one device.
type DeviceCommandsEvent struct {
	DeviceID   string          `json:"deviceId"`
	ProfileID  string          `json:"profileId"`
	ExternalID string          `json:"externalId"`
	Commands   []DeviceCommand `json:"commands"`
}

type DeviceCommand struct {
	ComponentID string            `json:"componentId"`
	Capability  string            `json:"capability"`
	Command     string            `json:"command"`
	Arguments   []json.RawMessage `json:"arguments"`
}

func (DeviceEvent) EventType() EventType         { return DeviceEventType }
func (ModeEvent) EventType() EventType           { return ModeEventType }
func (TimerEvent) EventType() EventType          { return TimerEventType }
func (DeviceCommandsEvent) EventType() EventType { return DeviceCommandsEventType }

func (DeviceEvent) isEvent()         {}
func (ModeEvent) isEvent()           {}
func (TimerEvent) isEvent()          {}
func (DeviceCommandsEvent) isEvent() {}

// EventList is the ordered event list of an EVENT request.
type EventList []Event

// Mode events carry modeId directly on the event rather than under a
// payload key.
type wireEvent struct {
	EventType      EventType            `json:"eventType"`
	DeviceEvent    *DeviceEvent         `json:"deviceEvent,omitempty"`
	ModeID         *string              `json:"modeId,omitempty"`
	TimerEvent     *TimerEvent          `json:"timerEvent,omitempty"`
	DeviceCommands *DeviceCommandsEvent `json:"deviceCommands,omitempty"`
}

func (l EventList) MarshalJSON() ([]byte, error) {
	out := make([]wireEvent, 0, len(l))
	for i, e := range l {
		w := wireEvent{}
		switch v := e.(type) {
		case DeviceEvent:
			w.EventType, w.DeviceEvent = DeviceEventType, &v
		case ModeEvent:
			w.EventType, w.ModeID = ModeEventType, &v.ModeID
		case TimerEvent:
			w.EventType, w.TimerEvent = TimerEventType, &v
		case DeviceCommandsEvent:
			w.EventType, w.DeviceCommands = DeviceCommandsEventType, &v
		default:
			return nil, fmt.Errorf("event %d: unsupported type %T", i, e)
		}
		out = append(out, w)
	}
	return json.Marshal(out)
}

func (l *EventList) UnmarshalJSON(b []byte) error {
	var raw []wireEvent
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(EventList, 0, len(raw))
	for i, w := range raw {
		e, err := w.event()
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

func (w wireEvent) event() (Event, error) {
	present := 0
	for _, set := range []bool{w.DeviceEvent != nil, w.ModeID != nil, w.TimerEvent != nil, w.DeviceCommands != nil} {
		if set {
			present++
		}
	}
	if present > 1 {
		return nil, fmt.Errorf("eventType %q carries more than one payload", w.EventType)
	}
	switch w.EventType {
	case DeviceEventType:
		if w.DeviceEvent != nil {
			return *w.DeviceEvent, nil
		}
	case ModeEventType:
		if w.ModeID != nil {
			return ModeEvent{ModeID: *w.ModeID}, nil
		}
	case TimerEventType:
		if w.TimerEvent != nil {
			switch w.TimerEvent.Type {
			case TimerCron, TimerOnce:
			default:
				return nil, fmt.Errorf("unknown timer type %q", w.TimerEvent.Type)
			}
			return *w.TimerEvent, nil
		}
	case DeviceCommandsEventType:
		if w.DeviceCommands != nil {
			return *w.DeviceCommands, nil
		}
	default:
		return nil, fmt.Errorf("unknown eventType %q", w.EventType)
	}
	return nil, fmt.Errorf("eventType %q payload missing", w.EventType)
}
