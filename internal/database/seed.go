package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"picocms/internal/models"
)

// samplePosts are inserted on first run so a fresh install has something to show.
var samplePosts = []models.Post{
	{Title: "Hello World", Content: "Hello World! <br /> How Are you?", Type: models.ContentTypePost, Slug: "hello-world"},
	{Title: "Another Post", Content: "This is another post.", Type: models.ContentTypePost, Slug: "another-post"},
	{Title: "Welcome", Content: "Welcome to the PicoCMS!", Type: models.ContentTypePage, Slug: "welcome"},
}

var sampleMessage = models.Message{
	Name:    "John Doe",
	Email:   "john.doe@example.com",
	Subject: "Test Message",
	Message: "This is a test message.",
}

// Seed populates a fresh database with the default settings, a few sample
// posts and one sample message. It only runs while the settings table is
// empty, so emptying posts or messages later does not bring the samples back.
// Individual row failures are logged and skipped.
func Seed(ctx context.Context, db *sql.DB, d Dialect) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		return fmt.Errorf("seed check settings: %w", err)
	}

	if count > 0 {
		slog.Debug("database already seeded, skipping")
		return nil
	}

	for _, def := range models.DefaultSettings {
		_, err := db.ExecContext(ctx,
			d.Rebind("INSERT INTO settings (name, value) VALUES (?, ?) ON CONFLICT (name) DO NOTHING"),
			def.Name, def.Value,
		)
		if err != nil {
			slog.Error("seed setting failed", "name", def.Name, "error", err)
		}
	}

	// Stagger timestamps so the feed order matches insertion order.
	base := time.Now().UTC().Add(-time.Duration(len(samplePosts)) * time.Second)
	for i, p := range samplePosts {
		ts := base.Add(time.Duration(i) * time.Second)
		_, err := db.ExecContext(ctx,
			d.Rebind(`INSERT INTO posts (title, content, type, slug, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`),
			p.Title, p.Content, string(p.Type), p.Slug, ts, ts,
		)
		if err != nil {
			slog.Error("seed post failed", "slug", p.Slug, "error", err)
		}
	}

	_, err := db.ExecContext(ctx,
		d.Rebind(`INSERT INTO messages (name, email, subject, message, created_at, is_read)
			VALUES (?, ?, ?, ?, ?, ?)`),
		sampleMessage.Name, sampleMessage.Email, sampleMessage.Subject, sampleMessage.Message,
		time.Now().UTC(), false,
	)
	if err != nil {
		slog.Error("seed message failed", "error", err)
	}

	slog.Info("database seeded with defaults",
		"settings", len(models.DefaultSettings),
		"posts", len(samplePosts),
	)
	return nil
}
