// Package router sets up the HTTP routes and middleware chain for PicoCMS.
// Apart from the health check and the stylesheet, every path below the base
// path is handled by the front controller.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"picocms/internal/handlers"
	"picocms/internal/middleware"
	"picocms/internal/session"
)

// Options controls how the router mounts the site.
type Options struct {
	// BasePath is the mount point, such as "/cms". Empty mounts at the root.
	BasePath string
	// Secure marks the CSRF cookie as HTTPS only.
	Secure bool
	// ContactLimiter throttles contact form submissions. Nil disables it.
	ContactLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router.
func New(sessions session.Store, site *handlers.Site, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	mount := func(r chi.Router) {
		// Health check, no session and no CSRF.
		r.Get("/health", healthHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewCSRF(opts.Secure))
			r.Use(middleware.LoadSession(sessions))

			r.Get("/style.css", site.Stylesheet)

			if opts.ContactLimiter != nil {
				r.With(opts.ContactLimiter.Middleware).Post("/contact", site.ServeHTTP)
			}

			// Everything else goes through the front controller.
			r.Handle("/", site)
			r.Handle("/*", site)
		})
	}

	base := normalizeBase(opts.BasePath)
	if base == "" {
		mount(r)
	} else {
		r.Route(base, mount)
	}
	return r
}

// normalizeBase turns "cms/", "/cms" and "/cms/" into "/cms". The root
// becomes "".
func normalizeBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
