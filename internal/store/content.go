// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"picocms/internal/database"
	"picocms/internal/models"
)

const postColumns = `id, title, content, type, slug, created_at, updated_at`

// ContentStore handles all post-related database operations.
// It serves both posts and pages through the unified posts table.
type ContentStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB, dialect database.Dialect) *ContentStore {
	return &ContentStore{db: db, dialect: dialect}
}

// List returns posts ordered by creation date descending. A nil contentType
// returns both kinds.
func (s *ContentStore) List(ctx context.Context, contentType *models.ContentType) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	if contentType != nil {
		query += ` WHERE type = ?`
		args = append(args, string(*contentType))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by its id. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.Rebind(`SELECT `+postColumns+` FROM posts WHERE id = ?`), id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug. Slugs are unique by convention
// only, so the oldest match wins. Returns nil if not found.
func (s *ContentStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.Rebind(`SELECT `+postColumns+` FROM posts WHERE slug = ? ORDER BY id LIMIT 1`), slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated id.
func (s *ContentStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	now := time.Now().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		INSERT INTO posts (title, content, type, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		p.Title, p.Content, string(p.Type), p.Slug, now, now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	created := *p
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// Update overwrites title, content, type and slug of an existing post and
// refreshes updated_at.
func (s *ContentStore) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE posts SET title = ?, content = ?, type = ?, slug = ?, updated_at = ?
		WHERE id = ?`),
		p.Title, p.Content, string(p.Type), p.Slug, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by id. Deleting a missing id is not an error.
func (s *ContentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	p := &models.Post{}
	var typ string
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &typ, &p.Slug, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Type = models.ParseContentType(typ)
	return p, nil
}
