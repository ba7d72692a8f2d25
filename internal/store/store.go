// Package store persists visitor preferences in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Zachkp/folio/internal/theme"

	_ "modernc.org/sqlite"
)

// LocalVisitor is the visitor id used by single-user hosts such as the
// terminal client.
const LocalVisitor = "local"

// DB wraps a sql.DB holding the preferences table.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// OpenMemory creates an in-memory database, mostly for tests.
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Path returns the file the database lives in.
func (d *DB) Path() string { return d.path }

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	visitor_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (visitor_id, name)
)`

func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, schema); err != nil {
		return err
	}
	// Older databases were created before updated_at existed.
	var hasUpdatedAt int
	err := d.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('preferences') WHERE name = 'updated_at'`,
	).Scan(&hasUpdatedAt)
	if err != nil {
		return err
	}
	if hasUpdatedAt == 0 {
		if _, err := d.ExecContext(ctx, `ALTER TABLE preferences ADD COLUMN updated_at DATETIME`); err != nil {
			return err
		}
		if _, err := d.ExecContext(ctx, `UPDATE preferences SET updated_at = CURRENT_TIMESTAMP WHERE updated_at IS NULL`); err != nil {
			return err
		}
	}
	return nil
}

// Preferences returns the theme.Storage for one visitor.
func (d *DB) Preferences(visitorID string) *Preferences {
	return &Preferences{db: d, visitorID: visitorID}
}

// CleanupStale removes preference rows untouched for longer than retention.
func (d *DB) CleanupStale(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(timeLayout)
	res, err := d.ExecContext(ctx, `DELETE FROM preferences WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up preferences: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CountVisitors returns how many visitors have at least one stored
// preference.
func (d *DB) CountVisitors(ctx context.Context) (int64, error) {
	var n int64
	err := d.QueryRowContext(ctx, `SELECT COUNT(DISTINCT visitor_id) FROM preferences`).Scan(&n)
	return n, err
}

// CURRENT_TIMESTAMP format, so string comparison orders correctly.
const timeLayout = "2006-01-02 15:04:05"

// Preferences is a visitor-scoped theme.Storage.
type Preferences struct {
	db        *DB
	visitorID string
}

var _ theme.Storage = (*Preferences)(nil)

func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND name = ?`,
		p.visitorID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", theme.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %s: %w", key, err)
	}
	return value, nil
}

func (p *Preferences) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, name, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (visitor_id, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, p.visitorID, key, value, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}
