// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth guards the admin area. There is a single administrator whose
// credentials come from configuration; the only state kept per visitor is
// the logged_in flag in the session.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"

	"picocms/internal/middleware"
	"picocms/internal/session"
)

var (
	// ErrInvalidCredentials is returned for any username, password or code mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts is returned when the client exceeded the login rate limit.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// Credentials is what the login form submits. Code is only checked when a
// TOTP secret is configured.
type Credentials struct {
	Username string
	Password string
	Code     string
}

// Config holds the administrator identity.
type Config struct {
	Username     string
	PasswordHash string
	TOTPSecret   string
	// LoginURL is where unauthenticated visitors are sent.
	LoginURL string
}

// Gate checks and changes the login state of the current visitor.
type Gate struct {
	sessions session.Store
	cfg      Config
	limiter  *middleware.RateLimiter
}

// NewGate creates a Gate. limiter may be nil to disable login throttling.
func NewGate(sessions session.Store, cfg Config, limiter *middleware.RateLimiter) *Gate {
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/login"
	}
	return &Gate{sessions: sessions, cfg: cfg, limiter: limiter}
}

// TOTPEnabled reports whether logins require a one-time code.
func (g *Gate) TOTPEnabled() bool {
	return g.cfg.TOTPSecret != ""
}

// IsLoggedIn reports whether the session loaded for this request carries
// the logged_in flag.
func (g *Gate) IsLoggedIn(ctx context.Context) bool {
	sess := middleware.SessionFromCtx(ctx)
	return sess != nil && sess.LoggedIn
}

// RequireLogin redirects anonymous visitors to the login page. It returns
// false when it has written the redirect, and the caller must stop.
func (g *Gate) RequireLogin(w http.ResponseWriter, r *http.Request) bool {
	if g.IsLoggedIn(r.Context()) {
		return true
	}
	http.Redirect(w, r, g.cfg.LoginURL, http.StatusSeeOther)
	return false
}

// Login verifies the credentials and, on success, starts a logged in
// session. The password is always hashed so an unknown username takes as
// long to reject as a wrong password.
func (g *Gate) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, c Credentials) error {
	if g.limiter != nil && !g.limiter.Allow(middleware.ClientIP(r)) {
		slog.Warn("login rate limited", "remote", middleware.ClientIP(r))
		return ErrTooManyAttempts
	}

	userOK := g.cfg.Username != "" &&
		subtle.ConstantTimeCompare([]byte(c.Username), []byte(g.cfg.Username)) == 1
	passOK := CheckPassword(g.cfg.PasswordHash, c.Password)
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}

	if g.TOTPEnabled() && !totp.Validate(strings.TrimSpace(c.Code), g.cfg.TOTPSecret) {
		return ErrInvalidCredentials
	}

	if err := g.sessions.Create(ctx, w, r, &session.Data{LoggedIn: true}); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	slog.Info("admin logged in", "remote", middleware.ClientIP(r))
	return nil
}

// Logout destroys the whole session.
func (g *Gate) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := g.sessions.Destroy(ctx, w, r); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
