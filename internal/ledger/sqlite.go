package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists ledger entries in a local SQLite database. It is
// the durable backend shipped with the worker; cross-worker visibility is
// whatever visibility the database file itself has.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite initializes or connects to the ledger database in dir.
func OpenSQLite(dir string) (*SQLiteBackend, error) {
	dbPath := filepath.Join(dir, "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS ledger_entries (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}

	return &SQLiteBackend{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Get fetches the value stored for key.
func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	row := b.db.QueryRowContext(ctx, `SELECT value FROM ledger_entries WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return []byte(value), nil
}

// Put writes the value for key, replacing any existing entry.
func (b *SQLiteBackend) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(
		ctx,
		`INSERT INTO ledger_entries (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		string(value),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put ledger entry: %w", err)
	}
	return nil
}

// List returns all entries whose key starts with prefix, keyed by full key.
func (b *SQLiteBackend) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	pattern := strings.ReplaceAll(strings.ReplaceAll(prefix, "%", `\%`), "_", `\_`) + "%"
	rows, err := b.db.QueryContext(
		ctx,
		`SELECT key, value FROM ledger_entries WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string][]byte)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries[key] = []byte(value)
	}
	return entries, rows.Err()
}
