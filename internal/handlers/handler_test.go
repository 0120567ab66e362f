// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Each test gets its own seeded SQLite database, a stub CDN and a real
// HTTP server with a cookie jar, so session and redirect behavior is exercised
// end to end.
package handlers

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"golang.org/x/crypto/bcrypt"

	"picocms/internal/assets"
	"picocms/internal/auth"
	"picocms/internal/database"
	"picocms/internal/middleware"
	"picocms/internal/render"
	"picocms/internal/session"
	"picocms/internal/store"
)

const (
	testUser     = "admin"
	testPassword = "s3cret-pass"
	testCDNCSS   = "/* cdn css */"
)

// testSite bundles a running front controller and everything a test needs
// to inspect its side effects.
type testSite struct {
	t        *testing.T
	base     string
	srv      *httptest.Server
	client   *http.Client
	db       *sql.DB
	content  *store.ContentStore
	messages *store.MessageStore
	settings *store.SiteSettingStore
	cssPath  string

	mu      sync.Mutex
	cdnHits []string
}

func newTestSite(t *testing.T, basePath string) *testSite {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.SQLite, filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db, database.SQLite); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ts := &testSite{
		t:        t,
		base:     basePath,
		db:       db,
		content:  store.NewContentStore(db, database.SQLite),
		messages: store.NewMessageStore(db, database.SQLite),
		settings: store.NewSiteSettingStore(db, database.SQLite),
		cssPath:  filepath.Join(t.TempDir(), "style.css"),
	}

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.cdnHits = append(ts.cdnHits, r.URL.Path)
		ts.mu.Unlock()
		w.Header().Set("Content-Type", "text/css")
		io.WriteString(w, testCDNCSS)
	}))
	t.Cleanup(cdn.Close)

	sheet := assets.NewStylesheet(assets.Options{
		Path:         ts.cssPath,
		CDNBase:      cdn.URL + "/pico.classless",
		FallbackFS:   fstest.MapFS{"fallback.css": {Data: []byte("/* fallback */")}},
		FallbackName: "fallback.css",
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	sessions := session.NewCookieStore([]byte("handler-test-session-secret"), false)
	gate := auth.NewGate(sessions, auth.Config{
		Username:     testUser,
		PasswordHash: string(hash),
		LoginURL:     basePath + "/login",
	}, nil)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	site := NewSite(renderer, gate, sheet, ts.content, ts.messages, ts.settings, basePath)

	mux := http.NewServeMux()
	mux.HandleFunc(basePath+"/style.css", site.Stylesheet)
	mux.Handle("/", site)

	ts.srv = httptest.NewServer(middleware.LoadSession(sessions)(mux))
	t.Cleanup(ts.srv.Close)

	jar, _ := cookiejar.New(nil)
	ts.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return ts
}

// do sends a request and returns the response with its body read.
func (ts *testSite) do(method, path string, form url.Values) (*http.Response, string) {
	ts.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, ts.srv.URL+ts.base+path, body)
	if err != nil {
		ts.t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func (ts *testSite) get(path string) (*http.Response, string) {
	ts.t.Helper()
	return ts.do(http.MethodGet, path, nil)
}

func (ts *testSite) post(path string, form url.Values) (*http.Response, string) {
	ts.t.Helper()
	return ts.do(http.MethodPost, path, form)
}

// login signs in with the test credentials and fails the test otherwise.
func (ts *testSite) login() {
	ts.t.Helper()
	resp, body := ts.post("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	if resp.StatusCode != http.StatusSeeOther {
		ts.t.Fatalf("login: status %d, body: %s", resp.StatusCode, body)
	}
}

// expectRedirect asserts a 303 to the given path below the base path.
func (ts *testSite) expectRedirect(resp *http.Response, path string) {
	ts.t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		ts.t.Fatalf("status: got %d, want 303", resp.StatusCode)
	}
	if got, want := resp.Header.Get("Location"), ts.base+path; got != want {
		ts.t.Errorf("Location: got %q, want %q", got, want)
	}
}

func (ts *testSite) hits() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.cdnHits...)
}

func (ts *testSite) count(table string) int {
	ts.t.Helper()
	var n int
	if err := ts.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		ts.t.Fatalf("count %s: %v", table, err)
	}
	return n
}
