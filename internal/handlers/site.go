// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP front controller for PicoCMS. Every
// request is resolved into a route, optionally runs an admin action, and
// finally renders one page through the shared layout.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"picocms/internal/assets"
	"picocms/internal/auth"
	"picocms/internal/middleware"
	"picocms/internal/models"
	"picocms/internal/render"
	"picocms/internal/route"
	"picocms/internal/store"
	"picocms/internal/view"
)

// Login error texts shown inline on the login form.
const (
	msgInvalidLogin    = "Invalid username or password"
	msgTooManyAttempts = "Too many login attempts. Please try again later."
	msgLoginFailed     = "Login failed. Please try again."
)

// Site is the front controller. It owns the stores and collaborators every
// page and action needs.
type Site struct {
	renderer   *render.Renderer
	gate       *auth.Gate
	stylesheet *assets.Stylesheet
	content    *store.ContentStore
	messages   *store.MessageStore
	settings   *store.SiteSettingStore
	basePath   string
	actions    map[route.Action]actionFunc
}

// NewSite creates the front controller. basePath is the mount point of the
// application and is prefixed to every generated link.
func NewSite(renderer *render.Renderer, gate *auth.Gate, stylesheet *assets.Stylesheet, content *store.ContentStore, messages *store.MessageStore, settings *store.SiteSettingStore, basePath string) *Site {
	s := &Site{
		renderer:   renderer,
		gate:       gate,
		stylesheet: stylesheet,
		content:    content,
		messages:   messages,
		settings:   settings,
		basePath:   basePath,
	}
	s.actions = defaultActions()
	return s
}

// ServeHTTP handles every path that is not a static asset.
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rt := route.Resolve(r.URL.EscapedPath(), s.basePath).WithQuery(r.URL.Query())

	if rt.Action != route.ActionNone && s.gate.IsLoggedIn(ctx) {
		if s.dispatch(w, r, rt) == OutcomeHandled {
			return
		}
	}

	var loginErr string
	if rt.Page == route.PageLogin && r.Method == http.MethodPost {
		var ok bool
		if loginErr, ok = s.login(w, r); ok {
			s.redirect(w, r, string(route.PageAdmin))
			return
		}
	}

	settings := s.loadSettings(ctx)
	s.stylesheet.Ensure(ctx, settings)

	if rt.Page.RequiresLogin() && !s.gate.RequireLogin(w, r) {
		return
	}

	model, status := s.resolvePage(r, rt, loginErr)
	s.render(w, r, rt, settings, status, model)
}

// login checks the submitted credentials. It returns the error text for the
// form and whether the login succeeded.
func (s *Site) login(w http.ResponseWriter, r *http.Request) (string, bool) {
	err := s.gate.Login(r.Context(), w, r, auth.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Code:     r.PostFormValue("code"),
	})
	switch {
	case err == nil:
		return "", true
	case errors.Is(err, auth.ErrInvalidCredentials):
		slog.Info("failed login attempt", "remote", middleware.ClientIP(r))
		return msgInvalidLogin, false
	case errors.Is(err, auth.ErrTooManyAttempts):
		return msgTooManyAttempts, false
	default:
		slog.Error("login failed", "error", err)
		return msgLoginFailed, false
	}
}

// loadSettings reads all settings. A failed read falls back to the defaults.
func (s *Site) loadSettings(ctx context.Context) models.SiteSettings {
	settings, err := s.settings.All(ctx)
	if err != nil {
		slog.Error("load settings", "error", err)
		settings = models.SiteSettings{}
	}
	return settings.WithDefaults()
}

// layout builds the data shared by every page.
func (s *Site) layout(ctx context.Context, rt route.Route, settings models.SiteSettings) view.Layout {
	pageType := models.ContentTypePage
	pages, err := s.content.List(ctx, &pageType)
	if err != nil {
		slog.Error("list navigation pages", "error", err)
	}

	return view.Layout{
		SiteTitle:       settings.Value(models.SettingSiteTitle),
		SiteDescription: settings.Value(models.SettingSiteDescription),
		NavPages:        pages,
		LoggedIn:        s.gate.IsLoggedIn(ctx),
		BasePath:        s.basePath,
		Page:            rt.Page,
		Slug:            rt.Slug,
	}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, rt route.Route, settings models.SiteSettings, status int, model view.Model) {
	s.renderer.Page(w, r, status, s.layout(r.Context(), rt, settings), model)
}

// redirect sends a 303 to target, relative to the base path.
func (s *Site) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, s.url(target), http.StatusSeeOther)
}

func (s *Site) url(segments ...string) string {
	return view.Layout{BasePath: s.basePath}.URL(segments...)
}
