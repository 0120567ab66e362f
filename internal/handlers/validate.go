package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"picocms/internal/models"
)

// contactForm is a trimmed contact submission.
type contactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func contactFromRequest(r *http.Request) contactForm {
	return contactForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   sanitizeEmail(strings.TrimSpace(r.PostFormValue("email"))),
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
}

// validateContact returns the problem with the submission, or "". Only
// presence is checked; field lengths are not limited.
func validateContact(f contactForm) string {
	if f.Name == "" || f.Email == "" || f.Subject == "" || f.Message == "" {
		return "All fields are required."
	}
	return ""
}

// sanitizeEmail drops every character that cannot appear in an address.
func sanitizeEmail(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("!#$%&'*+-=?^_`{|}~@.[]", r):
			return r
		}
		return -1
	}, s)
}

// submitContact stores a contact message. It reports whether a row was
// written; invalid submissions are dropped without a message to the sender.
func (s *Site) submitContact(r *http.Request) bool {
	f := contactFromRequest(r)
	if problem := validateContact(f); problem != "" {
		slog.Debug("contact submission rejected", "reason", problem)
		return false
	}

	msg, err := s.messages.Create(r.Context(), &models.Message{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
	})
	if err != nil {
		slog.Error("store contact message", "error", err)
		return false
	}
	slog.Info("contact message received", "id", msg.ID)
	return true
}
