// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets maintains the derived site stylesheet. Its content is the
// PicoCSS classless build for the configured theme color, fetched from a
// CDN, with a bundled fallback when the CDN is unreachable.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"picocms/internal/models"
)

// DefaultCDNBase is the PicoCSS classless build prefix on jsDelivr.
const DefaultCDNBase = "https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.classless"

// Placeholder is written when neither the CDN nor the fallback is available.
const Placeholder = "/* PicoCMS: CSS failed to load from CDN and fallback.css was not found. */"

// maxCSSBytes caps the size of a CDN response. Larger bodies are a fetch
// failure.
const maxCSSBytes = 2 << 20

// Options configures a Stylesheet.
type Options struct {
	// Path is where the derived stylesheet is written.
	Path string
	// CDNBase overrides DefaultCDNBase.
	CDNBase string
	// FallbackFS and FallbackName locate the bundled fallback stylesheet.
	FallbackFS   fs.FS
	FallbackName string
	// FallbackPath, when set, is read from disk instead of FallbackFS.
	FallbackPath string
	// Client performs the CDN fetch. Defaults to a client with a 10s timeout.
	Client *http.Client
}

// Stylesheet owns the derived stylesheet file.
type Stylesheet struct {
	opts Options
}

// NewStylesheet creates a Stylesheet from opts.
func NewStylesheet(opts Options) *Stylesheet {
	if opts.CDNBase == "" {
		opts.CDNBase = DefaultCDNBase
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Stylesheet{opts: opts}
}

// Path returns the location of the derived stylesheet.
func (s *Stylesheet) Path() string {
	return s.opts.Path
}

// ThemeURL returns the CDN URL for a theme color. Azure is Pico's default
// build, so it has no color suffix.
func (s *Stylesheet) ThemeURL(theme string) string {
	theme = strings.TrimSpace(theme)
	if theme == "" || theme == "azure" || theme == "default" {
		return s.opts.CDNBase + ".min.css"
	}
	return s.opts.CDNBase + "." + url.PathEscape(theme) + ".min.css"
}

// Ensure writes the stylesheet for the current theme if the file does not
// exist yet. Failures are logged; styling degrades but pages still render.
func (s *Stylesheet) Ensure(ctx context.Context, settings models.SiteSettings) {
	if _, err := os.Stat(s.opts.Path); err == nil {
		return
	} else if !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("stylesheet stat failed", "path", s.opts.Path, "error", err)
		return
	}
	s.write(ctx, settings.Value(models.SettingThemeColor))
}

// Regenerate rebuilds the stylesheet for theme, replacing any existing file.
func (s *Stylesheet) Regenerate(ctx context.Context, theme string) {
	s.write(ctx, theme)
}

func (s *Stylesheet) write(ctx context.Context, theme string) {
	css := s.build(ctx, theme)

	if dir := filepath.Dir(s.opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("stylesheet mkdir failed", "dir", dir, "error", err)
			return
		}
	}

	// Write to a temp file and rename so readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(s.opts.Path), ".style-*.css")
	if err != nil {
		slog.Error("stylesheet write failed", "path", s.opts.Path, "error", err)
		return
	}
	_, werr := tmp.Write(css)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		slog.Error("stylesheet write failed", "path", s.opts.Path, "error", errors.Join(werr, cerr))
		return
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		slog.Warn("stylesheet chmod failed", "error", err)
	}
	if err := os.Rename(tmp.Name(), s.opts.Path); err != nil {
		os.Remove(tmp.Name())
		slog.Error("stylesheet rename failed", "path", s.opts.Path, "error", err)
		return
	}
	slog.Info("stylesheet written", "path", s.opts.Path, "theme", theme, "bytes", len(css))
}

// build runs the fetch, fallback, placeholder chain. It never fails.
func (s *Stylesheet) build(ctx context.Context, theme string) []byte {
	themeURL := s.ThemeURL(theme)
	css, err := s.fetch(ctx, themeURL)
	if err == nil {
		return css
	}
	slog.Warn("theme css fetch failed, using fallback", "url", themeURL, "theme", theme, "error", err)

	css, err = s.fallback()
	if err == nil {
		return css
	}
	slog.Error("fallback css unavailable, writing placeholder", "error", err)
	return []byte(Placeholder)
}

func (s *Stylesheet) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/css")

	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCSSBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxCSSBytes {
		return nil, fmt.Errorf("fetch: body exceeds %d bytes", maxCSSBytes)
	}
	if len(body) == 0 {
		return nil, errors.New("fetch: empty body")
	}
	return body, nil
}

func (s *Stylesheet) fallback() ([]byte, error) {
	if s.opts.FallbackPath != "" {
		return os.ReadFile(s.opts.FallbackPath)
	}
	if s.opts.FallbackFS == nil || s.opts.FallbackName == "" {
		return nil, errors.New("no fallback configured")
	}
	return fs.ReadFile(s.opts.FallbackFS, s.opts.FallbackName)
}
