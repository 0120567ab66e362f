// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"picocms/internal/assets"
	"picocms/internal/auth"
	"picocms/internal/cache"
	"picocms/internal/config"
	"picocms/internal/database"
	"picocms/internal/handlers"
	"picocms/internal/middleware"
	"picocms/internal/render"
	"picocms/internal/router"
	"picocms/internal/session"
	"picocms/internal/store"
	"picocms/web"
)

// Throttling for the two public POST endpoints, per client IP.
const (
	loginAttemptsPerMinute   = 5
	contactMessagesPerMinute = 3
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

On startup the database is migrated and, when the settings table is empty,
seeded with the default settings and a few sample entries.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_path", cfg.BasePath,
		"db", cfg.DBDriver,
		"sessions", cfg.SessionBackend,
	)

	ctx := context.Background()

	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	db, err := database.Connect(dialect, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db, dialect); err != nil {
		slog.Error("failed to run migrations", "error", err)
		return err
	}

	// Seed defaults on first run (no-op once settings exist).
	if err := database.Seed(ctx, db, dialect); err != nil {
		slog.Error("failed to seed database", "error", err)
		return err
	}

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()

	sessions, closeSessions, err := newSessionStore(ctx, cfg, secureCookies)
	if err != nil {
		slog.Error("failed to initialize sessions", "error", err)
		return err
	}
	defer closeSessions()

	passwordHash, err := adminPasswordHash(cfg)
	if err != nil {
		slog.Error("failed to prepare admin credentials", "error", err)
		return err
	}

	loginLimiter := middleware.NewRateLimiter(loginAttemptsPerMinute, time.Minute)
	defer loginLimiter.Stop()
	contactLimiter := middleware.NewRateLimiter(contactMessagesPerMinute, time.Minute)
	defer contactLimiter.Stop()

	gate := auth.NewGate(sessions, auth.Config{
		Username:     cfg.AdminUsername,
		PasswordHash: passwordHash,
		TOTPSecret:   cfg.AdminTOTPSecret,
		LoginURL:     cfg.BasePath + "/login",
	}, loginLimiter)
	if gate.TOTPEnabled() {
		slog.Info("two-factor login enabled")
	}

	stylesheet := assets.NewStylesheet(assets.Options{
		Path:         cfg.StylesheetPath,
		CDNBase:      cfg.ThemeCDNBase,
		FallbackFS:   web.StaticFS,
		FallbackName: web.FallbackCSS,
		FallbackPath: cfg.FallbackCSSPath,
	})

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		return err
	}

	site := handlers.NewSite(renderer, gate, stylesheet,
		store.NewContentStore(db, dialect),
		store.NewMessageStore(db, dialect),
		store.NewSiteSettingStore(db, dialect),
		cfg.BasePath,
	)

	r := router.New(sessions, site, router.Options{
		BasePath:       cfg.BasePath,
		Secure:         secureCookies,
		ContactLimiter: contactLimiter,
	})

	// WriteTimeout covers a synchronous stylesheet fetch from the CDN.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		slog.Error("server failed to start", "error", err)
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newSessionStore builds the configured session backend and returns a
// function releasing its resources.
func newSessionStore(ctx context.Context, cfg *config.Config, secure bool) (session.Store, func(), error) {
	if cfg.SessionBackend == "valkey" {
		client, err := cache.ConnectValkey(ctx, cache.Options{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewValkeyStore(client, secure), func() { client.Close() }, nil
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, nil, fmt.Errorf("generate session secret: %w", err)
		}
		slog.Warn("SESSION_SECRET not set, using a random key; logins will not survive a restart")
	}
	return session.NewCookieStore(secret, secure), func() {}, nil
}

// adminPasswordHash returns the configured bcrypt hash, hashing the plain
// ADMIN_PASSWORD once at startup when no hash is given.
func adminPasswordHash(cfg *config.Config) (string, error) {
	if cfg.AdminPasswordHash != "" {
		return cfg.AdminPasswordHash, nil
	}
	if cfg.AdminPassword == "admin" {
		slog.Warn("using the default admin password, set ADMIN_PASSWORD_HASH before going live")
	}
	return auth.HashPassword(cfg.AdminPassword)
}
