// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

// envVars lists every variable Load reads.
var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "BASE_PATH",
	"DB_DRIVER", "SQLITE_PATH",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"SESSION_BACKEND", "SESSION_SECRET",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD", "VALKEY_DB",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "ADMIN_TOTP_SECRET",
	"STYLESHEET_PATH", "FALLBACK_CSS_PATH", "THEME_CDN_BASE",
}

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// the same as unset. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string]string{
		"Host":           cfg.Host,
		"Port":           cfg.Port,
		"Env":            cfg.Env,
		"DBDriver":       cfg.DBDriver,
		"SQLitePath":     cfg.SQLitePath,
		"SessionBackend": cfg.SessionBackend,
		"AdminUsername":  cfg.AdminUsername,
		"AdminPassword":  cfg.AdminPassword,
		"StylesheetPath": cfg.StylesheetPath,
		"ValkeyPort":     cfg.ValkeyPort,
	}
	want := map[string]string{
		"Host":           "0.0.0.0",
		"Port":           "8080",
		"Env":            "development",
		"DBDriver":       "sqlite",
		"SQLitePath":     "data/picocms.db",
		"SessionBackend": "cookie",
		"AdminUsername":  "admin",
		"AdminPassword":  "admin",
		"StylesheetPath": "data/style.css",
		"ValkeyPort":     "6379",
	}
	for field, got := range defaults {
		if got != want[field] {
			t.Errorf("%s: got %q, want %q", field, got, want[field])
		}
	}
	if cfg.BasePath != "" {
		t.Errorf("BasePath: got %q, want empty", cfg.BasePath)
	}
	if cfg.ValkeyDB != 0 {
		t.Errorf("ValkeyDB: got %d", cfg.ValkeyDB)
	}
	if !cfg.IsDev() || cfg.IsProduction() {
		t.Error("default env should be development")
	}
	if cfg.DSN() != "data/picocms.db" {
		t.Errorf("DSN: got %q", cfg.DSN())
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("BASE_PATH", "cms/")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("VALKEY_DB", "3")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasePath != "/cms" {
		t.Errorf("BasePath: got %q", cfg.BasePath)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver: got %q", cfg.DBDriver)
	}
	if want := "postgres://u:p%40ss@db:5432/picocms?sslmode=disable"; cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
	if cfg.ValkeyDB != 3 {
		t.Errorf("ValkeyDB: got %d", cfg.ValkeyDB)
	}
	if cfg.AdminPassword != "" {
		t.Error("dev password default should not apply when a hash is configured")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, wantErr string
	}{
		{"driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"session backend", "SESSION_BACKEND", "memcached", "SESSION_BACKEND"},
		{"valkey db", "VALKEY_DB", "two", "VALKEY_DB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err: got %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Production(t *testing.T) {
	secret := strings.Repeat("s", minSessionSecretLen)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr []string
	}{
		{
			name:    "nothing configured",
			env:     map[string]string{},
			wantErr: []string{"ADMIN_PASSWORD_HASH", "SESSION_SECRET"},
		},
		{
			name:    "default admin password",
			env:     map[string]string{"ADMIN_PASSWORD": "admin", "SESSION_SECRET": secret},
			wantErr: []string{"ADMIN_PASSWORD_HASH"},
		},
		{
			name:    "short secret",
			env:     map[string]string{"ADMIN_PASSWORD_HASH": "$2a$10$x", "SESSION_SECRET": "short"},
			wantErr: []string{"SESSION_SECRET"},
		},
		{
			name:    "postgres default password",
			env:     map[string]string{"ADMIN_PASSWORD": "strong", "SESSION_SECRET": secret, "DB_DRIVER": "postgres"},
			wantErr: []string{"POSTGRES_PASSWORD"},
		},
		{
			name: "valkey sessions need no secret",
			env:  map[string]string{"ADMIN_PASSWORD_HASH": "$2a$10$x", "SESSION_BACKEND": "valkey"},
		},
		{
			name: "complete",
			env:  map[string]string{"ADMIN_PASSWORD": "strong", "SESSION_SECRET": secret},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", "production")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !cfg.IsProduction() {
					t.Error("IsProduction should be true")
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %s", err, want)
				}
			}
		})
	}
}
