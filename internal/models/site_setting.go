// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Well-known setting names.
const (
	SettingSiteTitle       = "site_title"
	SettingSiteDescription = "site_description"
	SettingThemeColor      = "theme_color"
)

// SettingType is a hint for the settings page on how to render the input.
type SettingType string

const (
	SettingTypeText   SettingType = "text"
	SettingTypeSelect SettingType = "select"
)

// SettingDef is one entry of the compiled default settings table. Only the
// value is ever persisted; the rest drives the settings form.
type SettingDef struct {
	Name        string
	Value       string
	Description string
	Type        SettingType
	Options     []string
}

// ThemeColors lists the PicoCSS classless color variants.
var ThemeColors = []string{
	"azure", "red", "pink", "fuchsia", "purple", "violet", "indigo", "blue", "cyan",
	"jade", "green", "lime", "yellow", "amber", "pumpkin", "orange", "sand",
}

// DefaultSettings is the compiled default table, in display order.
var DefaultSettings = []SettingDef{
	{
		Name:        SettingSiteTitle,
		Value:       "PicoCMS",
		Description: "The name of your website",
		Type:        SettingTypeText,
	},
	{
		Name:        SettingSiteDescription,
		Value:       "A simple CMS with SQLite and PicoCSS.",
		Description: "Short description used for search engines",
		Type:        SettingTypeText,
	},
	{
		Name:        SettingThemeColor,
		Value:       "azure",
		Description: "Select the theme color for the website (PicoCSS).",
		Type:        SettingTypeSelect,
		Options:     ThemeColors,
	},
}

// DefaultSetting looks up a key in the default table.
func DefaultSetting(name string) (SettingDef, bool) {
	for _, d := range DefaultSettings {
		if d.Name == name {
			return d, true
		}
	}
	return SettingDef{}, false
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// WithDefaults returns a copy of s where every default key that has no row
// falls back to its compiled value.
func (s SiteSettings) WithDefaults() SiteSettings {
	out := make(SiteSettings, len(s)+len(DefaultSettings))
	for _, d := range DefaultSettings {
		out[d.Name] = d.Value
	}
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Value returns the stored value for name, falling back to the compiled
// default when the key is absent.
func (s SiteSettings) Value(name string) string {
	if v, ok := s[name]; ok {
		return v
	}
	if d, ok := DefaultSetting(name); ok {
		return d.Value
	}
	return ""
}
