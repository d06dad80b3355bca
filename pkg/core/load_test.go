package core_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/core"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullManifest = `
[[route]]
path = "smartapp"
handler.type = "lifecycle"
guard.require_signature = true
policy.timeout_ms = 5000
policy.max_body_bytes = 2048
policy.rate_limit = { rps = 10.0, burst = 20 }

[app]
id = "motion-app"
name = "Motion"
description = "watches motion"
permissions = ["r:devices:*", "x:devices:*"]
first_page_id = "1"

[[page]]
id = "1"
name = "Devices"
next_page_id = "2"

  [[page.section]]
  name = "Sensors"

    [[page.section.setting]]
    id = "sensors"
    type = "DEVICE"
    multiple = true
    capabilities = ["motionSensor"]
    permissions = ["r"]

    [[page.section.setting]]
    id = "mode"
    type = "ENUM"
    options = [{ id = "away", name = "Away" }, { id = "home", name = "Home" }]

[[page]]
id = "2"
name = "Done"
previous_page_id = "1"
complete = true

[smartthings]
api_url = "https://api.example.com/v1/"
capability = "contactSensor"
subscription_name = "contacts"
timeout_ms = 3000
rate_limit = { rps = 2.0, burst = 4 }
`

func TestParseConfig(t *testing.T) {
	cfg, err := core.ParseConfig([]byte(fullManifest))
	require.NoError(t, err)

	require.Len(t, cfg.Routes, 1)
	rt := cfg.Routes[0]
	assert.Equal(t, "/smartapp", rt.Path)
	assert.Equal(t, "POST", rt.Method)
	assert.True(t, rt.Guard.RequireSignature)
	assert.Equal(t, 5000, rt.Policy.TimeoutMS)
	assert.Equal(t, int64(2048), rt.Policy.MaxBodyBytes)
	require.NotNil(t, rt.Policy.RateLimit)
	assert.Equal(t, 20, rt.Policy.RateLimit.Burst)

	assert.Equal(t, "https://api.example.com/v1/", cfg.SmartThings.APIURL)
	assert.Equal(t, "contacts", cfg.SmartThings.SubscriptionName)

	app, err := cfg.AppConfig()
	require.NoError(t, err)
	assert.Equal(t, "contactSensor", app.Capability)
	assert.Equal(t, []string{"r:devices:*", "x:devices:*"}, app.Initialize.Permissions)
	require.Len(t, app.Pages, 2)
	require.NotNil(t, app.Pages[0].NextPageID)
	assert.Equal(t, "2", *app.Pages[0].NextPageID)
	assert.Nil(t, app.Pages[0].PreviousPageID)
	require.Len(t, app.Pages[0].Sections, 1)
	settings := app.Pages[0].Sections[0].Settings
	require.Len(t, settings, 2)
	assert.Equal(t, lifecycle.DeviceSettingType, settings[0].SettingType())
	assert.Equal(t, lifecycle.EnumOptions{{ID: "away", Name: "Away"}, {ID: "home", Name: "Home"}},
		settings[1].(lifecycle.EnumSetting).Choices)
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	_, err := core.ParseConfig([]byte(`
[[route]]
path = "/"
handler.type = "lifecycle"
handler.codec = "json"

[app]
id = "a"
first_page_id = "1"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest:")
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	_, err := core.ParseConfig([]byte(`
[[route]]
path = "/"
handler.type = "relay"

[app]
id = "a"
first_page_id = "1"
`))
	assert.Error(t, err)

	_, err = core.ParseConfig([]byte(`not = [toml`))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "manifest.toml")
	require.NoError(t, os.WriteFile(p, []byte(fullManifest), 0o600))

	cfg, err := core.LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "motion-app", cfg.App.ID)

	_, err = core.LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRepositoryManifestLoads(t *testing.T) {
	cfg, err := core.LoadConfig(filepath.Join("..", "..", "manifest.toml"))
	require.NoError(t, err)
	app, err := cfg.AppConfig()
	require.NoError(t, err)
	assert.Equal(t, lifecycle.DefaultApp(), app)
}
