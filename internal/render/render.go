// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render turns view models into HTML. Every page template is parsed
// together with the shared base layout and executed into a buffer, so a
// template error never leaves a half-written response behind.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"picocms/internal/middleware"
	"picocms/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// excerptLength is the number of characters of plain text shown on the feed.
const excerptLength = 200

// PageData is what every template receives: the shared layout plus the
// page-specific view model.
type PageData struct {
	view.Layout
	View view.Model
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// raw marks stored content as trusted HTML. Only the admin can write it.
		"raw": func(s string) template.HTML {
			return template.HTML(s)
		},
		"excerpt":  Excerpt,
		"nl2br":    NewlinesToBreaks,
		"date":     func(t time.Time) string { return t.Format("January 2, 2006") },
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"id":       func(n int64) string { return strconv.FormatInt(n, 10) },
		"year":     func() int { return time.Now().Year() },
	}
}

// New parses the embedded templates. Each page file is paired with base.html.
func New() (*Renderer, error) {
	return newFromFS(templateFS, "templates")
}

func newFromFS(fsys fs.FS, dir string) (*Renderer, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(Funcs()).ParseFS(
			fsys, dir+"/base.html", dir+"/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return r, nil
}

// Has reports whether a template for name was parsed.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders model inside the base layout with the given status code. The
// CSRF token of the request is injected into the layout.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, layout view.Layout, model view.Model) {
	name := model.Template()
	tmpl, ok := rn.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	layout.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", PageData{Layout: layout, View: model}); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("write response", "error", err)
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Excerpt strips markup from content and returns its first characters
// followed by an ellipsis.
func Excerpt(content string) string {
	text := html.UnescapeString(tagPattern.ReplaceAllString(content, ""))
	if utf8.RuneCountInString(text) > excerptLength {
		text = string([]rune(text)[:excerptLength])
	}
	return text + "..."
}

// NewlinesToBreaks escapes s and inserts a <br> before every line break.
func NewlinesToBreaks(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
}
