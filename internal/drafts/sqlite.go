package drafts

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drafts (
    page       TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

// SQLiteStore keeps drafts in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create drafts directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(page string) (string, bool) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM drafts WHERE page = ?`, page).Scan(&content)
	if err != nil {
		return "", false
	}
	return content, true
}

func (s *SQLiteStore) Set(page, content string) error {
	_, err := s.db.Exec(`INSERT INTO drafts (page, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(page) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		page, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(page string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE page = ?`, page)
	return err
}

func (s *SQLiteStore) Pages() ([]string, error) {
	rows, err := s.db.Query(`SELECT page FROM drafts ORDER BY page`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pages []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("drafts: store already closed")
	}
	err := s.db.Close()
	s.db = nil
	return err
}
