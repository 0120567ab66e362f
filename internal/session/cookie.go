package session

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

const (
	valueLoggedIn  = "logged_in"
	valueCreatedAt = "created_at"
)

// CookieStore keeps the session payload in an authenticated, encrypted
// cookie. No server-side state is needed.
type CookieStore struct {
	store  *sessions.CookieStore
	secure bool
}

// NewCookieStore creates a cookie-backed store. The secret signs and
// encrypts the cookie and must stay stable across restarts.
func NewCookieStore(secret []byte, secure bool) *CookieStore {
	hashKey, blockKey := deriveKeys(secret)
	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(DefaultTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return &CookieStore{store: store, secure: secure}
}

// Get decodes the session cookie. A missing or tampered cookie yields nil.
func (s *CookieStore) Get(_ context.Context, r *http.Request) (*Data, error) {
	if _, err := r.Cookie(CookieName); err != nil {
		return nil, nil
	}

	sess, err := s.store.Get(r, CookieName)
	if err != nil {
		slog.Debug("discarding unreadable session cookie", "error", err)
		return nil, nil
	}
	if sess.IsNew {
		return nil, nil
	}

	loggedIn, _ := sess.Values[valueLoggedIn].(bool)
	data := &Data{LoggedIn: loggedIn}
	if ts, ok := sess.Values[valueCreatedAt].(int64); ok {
		data.CreatedAt = time.Unix(ts, 0)
	}
	return data, nil
}

// Create replaces whatever the cookie held with data.
func (s *CookieStore) Create(_ context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	sess, _ := s.store.New(r, CookieName)
	data.CreatedAt = time.Now()
	sess.Values[valueLoggedIn] = data.LoggedIn
	sess.Values[valueCreatedAt] = data.CreatedAt.Unix()

	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Destroy expires the session cookie.
func (s *CookieStore) Destroy(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	if _, err := r.Cookie(CookieName); err != nil {
		return nil
	}
	http.SetCookie(w, expiredCookie(s.secure))
	return nil
}

// deriveKeys stretches the configured secret into independent HMAC and AES
// keys so a single SESSION_SECRET is enough.
func deriveKeys(secret []byte) (hashKey, blockKey []byte) {
	hashKey = make([]byte, 32)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte("picocms session hash")), hashKey); err != nil {
		panic(fmt.Sprintf("session: derive hash key: %v", err))
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte("picocms session block")), blockKey); err != nil {
		panic(fmt.Sprintf("session: derive block key: %v", err))
	}
	return hashKey, blockKey
}
