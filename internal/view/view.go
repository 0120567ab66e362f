// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package view defines the typed data each page template receives. Every
// page gets its own struct so templates cannot reach data that belongs to
// another page.
package view

import (
	"net/url"
	"strings"

	"picocms/internal/models"
	"picocms/internal/route"
)

// Model is the page-specific part of a rendered response.
type Model interface {
	// Template names the page template that renders this model.
	Template() string
}

// Layout is the data shared by every page: site identity, navigation and
// the login state that toggles the admin bar.
type Layout struct {
	SiteTitle       string
	SiteDescription string
	NavPages        []models.Post
	LoggedIn        bool
	BasePath        string
	CSRFToken       string
	Page            route.Page
	Slug            string
}

// URL joins path segments onto the base path. Segments are escaped, so a
// slug can never break out of its path position.
func (l Layout) URL(segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(l.BasePath, "/"))
	b.WriteByte('/')
	first := true
	for _, seg := range segments {
		for _, part := range strings.Split(strings.Trim(seg, "/"), "/") {
			if part == "" {
				continue
			}
			if !first {
				b.WriteByte('/')
			}
			b.WriteString(url.PathEscape(part))
			first = false
		}
	}
	return b.String()
}

// Current reports whether page is the one being rendered, for aria-current.
func (l Layout) Current(page string) bool {
	return string(l.Page) == page
}

// HomeView lists posts of type post, newest first.
type HomeView struct {
	Posts []models.Post
}

func (HomeView) Template() string { return "home" }

// SingleView shows one post or page.
type SingleView struct {
	Post *models.Post
}

func (SingleView) Template() string { return "single" }

// LoginView is the login form with an optional inline error.
type LoginView struct {
	Error string
	TOTP  bool
}

func (LoginView) Template() string { return "login" }

// AdminView is the dashboard: inbox plus both content lists.
type AdminView struct {
	UnreadCount int
	Messages    []models.Message
	Pages       []models.Post
	Posts       []models.Post
}

func (AdminView) Template() string { return "admin" }

// PostFormView is the create or edit form. Post is nil when creating.
type PostFormView struct {
	Post *models.Post
}

func (PostFormView) Template() string { return "post_form" }

// IsNew reports whether the form creates a new post.
func (v PostFormView) IsNew() bool { return v.Post == nil }

// SettingField pairs a default table entry with its current value.
type SettingField struct {
	models.SettingDef
	Current string
}

// Label turns a setting name such as site_title into "Site Title".
func (f SettingField) Label() string {
	words := strings.Split(f.Name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// IsSelect reports whether the field renders as a dropdown.
func (f SettingField) IsSelect() bool {
	return f.Type == models.SettingTypeSelect && len(f.Options) > 0
}

// SettingsView is the settings form, in default table order.
type SettingsView struct {
	Fields []SettingField
}

func (SettingsView) Template() string { return "settings" }

// NewSettingsView joins the default table with the stored values.
func NewSettingsView(current models.SiteSettings) SettingsView {
	fields := make([]SettingField, 0, len(models.DefaultSettings))
	for _, def := range models.DefaultSettings {
		fields = append(fields, SettingField{SettingDef: def, Current: current.Value(def.Name)})
	}
	return SettingsView{Fields: fields}
}

// ContactView is the contact form. Success is set after a stored submission.
type ContactView struct {
	Success bool
}

func (ContactView) Template() string { return "contact" }

// MessageView shows a single contact message.
type MessageView struct {
	Message *models.Message
}

func (MessageView) Template() string { return "message" }

// NotFoundView is rendered for missing posts, pages and messages.
type NotFoundView struct{}

func (NotFoundView) Template() string { return "not_found" }
