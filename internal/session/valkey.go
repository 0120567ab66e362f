package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "picocms:session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// ValkeyStore keeps session payloads as JSON in Valkey with automatic TTL
// expiry. The browser cookie only carries the random id.
type ValkeyStore struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewValkeyStore creates a session store backed by the given Valkey client.
// Set secure to true when the site is served over TLS.
func NewValkeyStore(client *redis.Client, secure bool) *ValkeyStore {
	return &ValkeyStore{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create generates a new session id, stores the payload in Valkey and sets
// the session cookie on the response. Any previous session is dropped so a
// login always rotates the id.
func (s *ValkeyStore) Create(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		s.client.Del(ctx, keyPrefix+cookie.Value)
	}

	id, err := generateID()
	if err != nil {
		return fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return nil
}

// Get retrieves session data from Valkey using the session ID from the
// request cookie. Returns nil if no valid session exists.
func (s *ValkeyStore) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *ValkeyStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, expiredCookie(s.secure))
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
