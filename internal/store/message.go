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

const messageColumns = `id, name, email, subject, message, created_at, is_read`

// MessageStore persists contact form submissions.
type MessageStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewMessageStore creates a new MessageStore with the given database connection.
func NewMessageStore(db *sql.DB, dialect database.Dialect) *MessageStore {
	return &MessageStore{db: db, dialect: dialect}
}

// List returns messages newest first. A limit <= 0 returns all of them.
func (s *MessageStore) List(ctx context.Context, limit int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindByID retrieves a message by id. Returns nil if not found.
func (s *MessageStore) FindByID(ctx context.Context, id int64) (*models.Message, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.Rebind(`SELECT `+messageColumns+` FROM messages WHERE id = ?`), id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}

// Create stores a new unread message and returns it with the generated id.
func (s *MessageStore) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	now := time.Now().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		INSERT INTO messages (name, email, subject, message, created_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		m.Name, m.Email, m.Subject, m.Message, now, false,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	created := *m
	created.ID = id
	created.CreatedAt = now
	created.IsRead = false
	return &created, nil
}

// MarkRead flips an unread message to read. It reports whether a row
// changed, so a second call on the same message returns false.
func (s *MessageStore) MarkRead(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		s.dialect.Rebind(`UPDATE messages SET is_read = ? WHERE id = ? AND is_read = ?`), true, id, false)
	if err != nil {
		return false, fmt.Errorf("mark message read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark message read rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a message by id. Deleting a missing id is not an error.
func (s *MessageStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM messages WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// UnreadCount returns the number of messages not yet viewed.
func (s *MessageStore) UnreadCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		s.dialect.Rebind(`SELECT COUNT(*) FROM messages WHERE is_read = ?`), false).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

func scanMessage(row scanner) (*models.Message, error) {
	m := &models.Message{}
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt, &m.IsRead); err != nil {
		return nil, err
	}
	return m, nil
}
