package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"picocms/internal/session"
)

// fakeStore is an in-memory session.Store for exercising LoadSession.
type fakeStore struct {
	data *session.Data
	err  error
}

func (f *fakeStore) Get(context.Context, *http.Request) (*session.Data, error) {
	return f.data, f.err
}

func (f *fakeStore) Create(_ context.Context, _ http.ResponseWriter, _ *http.Request, d *session.Data) error {
	f.data = d
	return nil
}

func (f *fakeStore) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.data = nil
	return nil
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := &session.Data{LoggedIn: true}
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got != sess {
			t.Errorf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name      string
		store     *fakeStore
		wantLogin bool
		wantNil   bool
	}{
		{name: "logged in session", store: &fakeStore{data: &session.Data{LoggedIn: true}}, wantLogin: true},
		{name: "no session", store: &fakeStore{}, wantNil: true},
		{name: "backend error treated as anonymous", store: &fakeStore{err: errors.New("valkey down")}, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = SessionFromCtx(r.Context())
			})

			rr := httptest.NewRecorder()
			LoadSession(tt.store)(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if tt.wantNil {
				if got != nil {
					t.Errorf("expected no session, got %+v", got)
				}
				return
			}
			if got == nil || got.LoggedIn != tt.wantLogin {
				t.Errorf("got %+v, want LoggedIn=%v", got, tt.wantLogin)
			}
		})
	}
}
