package lifecycle_test

import (
	"testing"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/codec"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingListTagsEachVariant(t *testing.T) {
	lo, hi := int64(1), int64(10)
	list := lifecycle.SettingList{
		lifecycle.DeviceSetting{
			SettingBase:  lifecycle.SettingBase{ID: "sensors", Name: "Motion sensors", Required: true},
			Multiple:     true,
			Capabilities: []string{"motionSensor"},
			Permissions:  []string{"r"},
		},
		lifecycle.EnumSetting{
			SettingBase: lifecycle.SettingBase{ID: "color"},
			Choices:     lifecycle.EnumOptions{{ID: "r", Name: "Red"}},
		},
		lifecycle.EnumSetting{
			SettingBase: lifecycle.SettingBase{ID: "grouped"},
			Choices: lifecycle.EnumGroups{{
				Name:    "warm",
				Options: []lifecycle.EnumOption{{ID: "o", Name: "Orange"}},
			}},
		},
		lifecycle.NumberSetting{SettingBase: lifecycle.SettingBase{ID: "n"}, Min: &lo, Max: &hi},
		lifecycle.PageSetting{SettingBase: lifecycle.SettingBase{ID: "next"}, Page: "2"},
		lifecycle.ParagraphSetting{SettingBase: lifecycle.SettingBase{ID: "p"}},
	}

	b, err := codec.JSON.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"DEVICE","id":"sensors","name":"Motion sensors","required":true,"multiple":true,
		 "capabilities":["motionSensor"],"permissions":["r"]},
		{"type":"ENUM","id":"color","multiple":false,"options":[{"id":"r","name":"Red"}]},
		{"type":"ENUM","id":"grouped","multiple":false,
		 "groupedOptions":[{"name":"warm","options":[{"id":"o","name":"Orange"}]}]},
		{"type":"NUMBER","id":"n","min":1,"max":10},
		{"type":"PAGE","id":"next","page":"2"},
		{"type":"PARAGRAPH","id":"p"}
	]`, string(b))
	assert.Equal(t, `[{"type":"DEVICE",`, string(b[:18]), "type tag leads each element")
}

func TestSettingListRejectsNil(t *testing.T) {
	_, err := codec.JSON.Marshal(lifecycle.SettingList{nil})
	assert.Error(t, err)
}

func TestValidateSetting(t *testing.T) {
	base := lifecycle.SettingBase{ID: "s"}
	invalid := map[string]lifecycle.Setting{
		"device without capabilities": lifecycle.DeviceSetting{SettingBase: base, Permissions: []string{"r"}},
		"device without permissions":  lifecycle.DeviceSetting{SettingBase: base, Capabilities: []string{"switch"}},
		"enum without choices":        lifecycle.EnumSetting{SettingBase: base},
		"page without target":         lifecycle.PageSetting{SettingBase: base},
		"link without url":            lifecycle.LinkSetting{SettingBase: base},
		"oauth without template":      lifecycle.OAuthSetting{SettingBase: base},
		"nil":                         nil,
	}
	for name, s := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, lifecycle.ValidateSetting(s))
		})
	}
	assert.NoError(t, lifecycle.ValidateSetting(lifecycle.TextSetting{SettingBase: base}))
}

func TestPageValidate(t *testing.T) {
	next := "2"
	assert.NoError(t, lifecycle.Page{PageID: "1", Complete: true}.Validate())
	assert.NoError(t, lifecycle.Page{PageID: "1", NextPageID: &next}.Validate())
	assert.Error(t, lifecycle.Page{PageID: "1", Complete: true, NextPageID: &next}.Validate())
	assert.Error(t, lifecycle.Page{PageID: "1"}.Validate())
	assert.Error(t, lifecycle.Page{Complete: true}.Validate())
	assert.Error(t, lifecycle.Page{
		PageID:   "1",
		Complete: true,
		Sections: []lifecycle.Section{{Settings: lifecycle.SettingList{lifecycle.EnumSetting{}}}},
	}.Validate())
}

func TestPageEncodesBoundariesAsNull(t *testing.T) {
	b, err := codec.JSON.Marshal(lifecycle.Page{PageID: "1", Name: "page 1", Complete: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pageId":"1","name":"page 1","previousPageId":null,"nextPageId":null,"complete":true,"sections":[]}`, string(b))

	b, err = codec.JSON.Marshal(lifecycle.Section{Name: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"s","settings":[]}`, string(b))
}

func TestAppConfigValidate(t *testing.T) {
	require.NoError(t, lifecycle.DefaultApp().Validate())

	app := lifecycle.DefaultApp()
	app.Initialize.FirstPageID = "9"
	assert.Error(t, app.Validate())

	app = lifecycle.DefaultApp()
	app.Pages = append(app.Pages, app.Pages[0])
	assert.Error(t, app.Validate())

	app = lifecycle.DefaultApp()
	app.Capability = ""
	assert.Error(t, app.Validate())

	app = lifecycle.DefaultApp()
	app.Initialize.FirstPageID = ""
	assert.Error(t, app.Validate())
}

func TestInitializeEncodesEmptyPermissions(t *testing.T) {
	b, err := codec.JSON.Marshal(lifecycle.Initialize{ID: "a", FirstPageID: "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","name":"","description":"","permissions":[],"firstPageId":"1"}`, string(b))
}
