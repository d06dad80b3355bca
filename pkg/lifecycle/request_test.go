package lifecycle_test

import (
	"encoding/json"
	"testing"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/codec"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestPayloads(t *testing.T) {
	req := decode(t, installBody)
	assert.Equal(t, lifecycle.Install, req.Lifecycle)
	assert.Equal(t, "exec-1", req.ExecutionID)
	assert.Equal(t, "en", req.Locale)

	data, ok := req.Data.(*lifecycle.InstallData)
	require.True(t, ok)
	assert.Equal(t, "token-1", data.AuthToken)
	assert.Equal(t, "refresh-1", data.RefreshToken)
	assert.Equal(t, "app-1", data.InstalledApp.InstalledAppID)
	assert.Equal(t, lifecycle.ConfigEntries{
		lifecycle.DeviceConfig{DeviceID: "dev-1", ComponentID: "main"},
	}, data.InstalledApp.Config["sensors"])

	uninstall := decode(t, uninstallBody).Data.(*lifecycle.UninstallData)
	assert.Equal(t, "app-3", uninstall.InstalledAppID)
	assert.Equal(t, "loc-3", uninstall.LocationID)

	update := decode(t, updateBody).Data.(*lifecycle.UpdateData)
	assert.Equal(t, lifecycle.ConfigEntries{lifecycle.StringConfig{Value: "old"}}, update.PreviousConfig["name"])

	oauth := decode(t, oauthCallbackBody).Data.(*lifecycle.OAuthCallbackData)
	assert.Equal(t, "/callback?code=abc", oauth.URLPath)
}

func TestDecodeEvents(t *testing.T) {
	data := decode(t, eventBody).Data.(*lifecycle.EventData)
	require.Len(t, data.Events, 3)

	dev, ok := data.Events[0].(lifecycle.DeviceEvent)
	require.True(t, ok)
	assert.Equal(t, "motion", dev.Attribute)
	assert.JSONEq(t, `"active"`, string(dev.Value))
	assert.True(t, dev.StateChange)

	assert.Equal(t, lifecycle.ModeEvent{ModeID: "mode-1"}, data.Events[1])

	timer, ok := data.Events[2].(lifecycle.TimerEvent)
	require.True(t, ok)
	assert.Equal(t, lifecycle.TimerCron, timer.Type)
	assert.Equal(t, "0 0 * * *", timer.Expression)
}

func TestDecodeRequestRejectsMalformedUnions(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"lifecycle":`},
		{"trailing content", `{"lifecycle":"PING","pingData":{"challenge":"x"}} {}`},
		{"missing lifecycle", `{"pingData":{"challenge":"x"}}`},
		{"missing payload", `{"lifecycle":"PING"}`},
		{"null payload", `{"lifecycle":"PING","pingData":null}`},
		{"mismatched payload", `{"lifecycle":"PING","installData":{"authToken":"t"}}`},
		{"two payloads", `{"lifecycle":"PING","pingData":{"challenge":"x"},"oauthCallbackData":{}}`},
		{"unknown valueType", `{"lifecycle":"UNINSTALL","uninstallData":{"config":{"a":[{"valueType":"NUMBER"}]}}}`},
		{"config payload missing", `{"lifecycle":"UNINSTALL","uninstallData":{"config":{"a":[{"valueType":"MODE"}]}}}`},
		{"two config payloads", `{"lifecycle":"UNINSTALL","uninstallData":{"config":{"a":[{"valueType":"STRING","stringConfig":{"value":"v"},"modeConfig":{"modeId":"m"}}]}}}`},
		{"unknown eventType", `{"lifecycle":"EVENT","eventData":{"events":[{"eventType":"HUB_EVENT"}]}}`},
		{"event payload missing", `{"lifecycle":"EVENT","eventData":{"events":[{"eventType":"DEVICE_EVENT"}]}}`},
		{"bad timer type", `{"lifecycle":"EVENT","eventData":{"events":[{"eventType":"TIMER_EVENT","timerEvent":{"type":"WEEKLY"}}]}}`},
		{"two event payloads", `{"lifecycle":"EVENT","eventData":{"events":[{"eventType":"MODE_EVENT","modeId":"m","timerEvent":{"type":"ONCE"}}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := lifecycle.DecodeRequest([]byte(tc.body))
			require.Error(t, err)
			assert.Nil(t, req)
			var de *lifecycle.DecodeError
			assert.ErrorAs(t, err, &de)
		})
	}
}

func TestRequestRoundTrip(t *testing.T) {
	requests := []*lifecycle.ExecutionRequest{
		lifecycle.NewRequest(lifecycle.Envelope{ExecutionID: "1", Locale: "en", Version: "1"}, &lifecycle.InstallData{
			AuthToken: "tok",
			InstalledApp: lifecycle.InstalledApp{
				InstalledAppID: "app",
				LocationID:     "loc",
				Config: lifecycle.ConfigMap{
					"text":   {lifecycle.StringConfig{Value: "hello"}},
					"device": {lifecycle.DeviceConfig{DeviceID: "d", ComponentID: "main"}},
					"mode":   {lifecycle.ModeConfig{ModeID: "m"}},
				},
				Permissions: []string{"r:devices:*"},
			},
		}),
		lifecycle.NewRequest(lifecycle.Envelope{ExecutionID: "2", Settings: map[string]string{"k": "v"}}, &lifecycle.EventData{
			AuthToken:    "tok",
			InstalledApp: lifecycle.InstalledApp{InstalledAppID: "app"},
			Events: lifecycle.EventList{
				lifecycle.DeviceEvent{DeviceID: "d", Value: json.RawMessage(`{"level":3}`)},
				lifecycle.ModeEvent{ModeID: "m"},
				lifecycle.TimerEvent{EventID: "t", Type: lifecycle.TimerOnce, Time: "2024-05-01T10:00:00Z"},
				lifecycle.DeviceCommandsEvent{DeviceID: "d", Commands: []lifecycle.DeviceCommand{{
					ComponentID: "main", Capability: "switch", Command: "on",
					Arguments: []json.RawMessage{json.RawMessage(`1`), json.RawMessage(`"x"`)},
				}}},
			},
		}),
		lifecycle.NewRequest(lifecycle.Envelope{ExecutionID: "3"}, &lifecycle.PingData{Challenge: "c"}),
		lifecycle.NewRequest(lifecycle.Envelope{ExecutionID: "4"}, &lifecycle.ConfigurationData{
			InstalledAppID: "app", Phase: lifecycle.PhasePage, PageID: "2", PreviousPageID: "1",
		}),
		lifecycle.NewRequest(lifecycle.Envelope{ExecutionID: "5"}, &lifecycle.OAuthCallbackData{InstalledAppID: "app", URLPath: "/cb"}),
	}
	for _, want := range requests {
		b, err := codec.JSON.Marshal(want)
		require.NoError(t, err)

		got, err := lifecycle.DecodeRequest(b)
		require.NoError(t, err)
		assert.Equal(t, want, got, string(b))
	}
}

func TestRequestKeepsEmptySettings(t *testing.T) {
	for body, want := range map[string]map[string]string{
		`{"lifecycle":"PING","settings":{},"pingData":{"challenge":"c"}}`:   {},
		`{"lifecycle":"PING","settings":null,"pingData":{"challenge":"c"}}`: nil,
		`{"lifecycle":"PING","pingData":{"challenge":"c"}}`:                 nil,
	} {
		first, err := lifecycle.DecodeRequest([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, want, first.Settings, body)

		b, err := codec.JSON.Marshal(first)
		require.NoError(t, err)
		second, err := lifecycle.DecodeRequest(b)
		require.NoError(t, err)
		assert.Equal(t, first, second, string(b))
	}
}

func TestMarshalRejectsInconsistentRequest(t *testing.T) {
	req := &lifecycle.ExecutionRequest{Lifecycle: lifecycle.Install, Data: &lifecycle.PingData{}}
	_, err := codec.JSON.Marshal(req)
	assert.Error(t, err)
}
