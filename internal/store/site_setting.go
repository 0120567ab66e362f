// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"picocms/internal/database"
	"picocms/internal/models"
)

// SiteSettingStore manages site configuration in the database.
type SiteSettingStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB, dialect database.Dialect) *SiteSettingStore {
	return &SiteSettingStore{db: db, dialect: dialect}
}

// All returns every stored setting as a convenience map. Keys without a row
// are absent; callers use SiteSettings.Value to fall back to defaults.
func (s *SiteSettingStore) All(ctx context.Context) (models.SiteSettings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM settings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(models.SiteSettings)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// Set upserts a single setting. Each call commits on its own; there is no
// batch transaction across keys.
func (s *SiteSettingStore) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO settings (name, value)
		VALUES (?, ?)
		ON CONFLICT (name)
		DO UPDATE SET value = excluded.value`),
		name, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", name, err)
	}
	return nil
}
