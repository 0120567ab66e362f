// Package session provides HTTP session management for the admin login
// flag. Two backends are available: a signed cookie store (gorilla/sessions)
// for single-node installs and a Valkey-backed store where the browser only
// holds a random session id.
package session

import (
	"context"
	"net/http"
	"time"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "pc_session"

	// DefaultTTL is how long a session lives before automatic expiry.
	DefaultTTL = 24 * time.Hour
)

// Data holds the session payload. The only state the site tracks is whether
// the visitor has logged in as the administrator.
type Data struct {
	LoggedIn  bool      `json:"logged_in"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the session lifecycle. Get returns nil without error when
// the request carries no valid session.
type Store interface {
	Get(ctx context.Context, r *http.Request) (*Data, error)
	Create(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// expiredCookie clears the session cookie on the client.
func expiredCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}
