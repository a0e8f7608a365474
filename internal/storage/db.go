package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"webmail-cli/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a draft does not exist
var ErrNotFound = errors.New("draft not found")

// DB wraps the SQLite database holding unsent drafts
type DB struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens or creates the local database at path
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db: db, now: time.Now}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the schema
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	recipients TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at);
`

// SaveDraft inserts or replaces a draft. A draft without an ID gets a new one.
func (d *DB) SaveDraft(ctx context.Context, draft *model.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	draft.UpdatedAt = d.now().UTC()

	_, err := d.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO drafts (id, recipients, subject, body, updated_at)
		VALUES (:id, :recipients, :subject, :body, :updated_at)
	`, draft)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// ListDrafts returns all drafts, most recently edited first
func (d *DB) ListDrafts(ctx context.Context) ([]model.Draft, error) {
	drafts := []model.Draft{}
	err := d.db.SelectContext(ctx, &drafts, `
		SELECT id, recipients, subject, body, updated_at
		FROM drafts
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// GetDraft returns one draft by ID
func (d *DB) GetDraft(ctx context.Context, id string) (model.Draft, error) {
	var draft model.Draft
	err := d.db.GetContext(ctx, &draft, `
		SELECT id, recipients, subject, body, updated_at FROM drafts WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, ErrNotFound
	}
	if err != nil {
		return model.Draft{}, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// DeleteDraft removes a draft. Deleting a missing draft is not an error.
func (d *DB) DeleteDraft(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
