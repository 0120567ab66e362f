package handlers

import "net/http"

// Stylesheet serves the derived theme stylesheet, creating it first when it
// is missing.
func (s *Site) Stylesheet(w http.ResponseWriter, r *http.Request) {
	s.stylesheet.Ensure(r.Context(), s.loadSettings(r.Context()))
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, s.stylesheet.Path())
}
