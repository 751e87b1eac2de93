// Package store provides SQLite-backed persistence for ingested articles.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface; the
// sqlite-vec bindings supply the embedded SQLite build the driver loads.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// SQLiteStore is the SQLite-backed article store.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    position INTEGER NOT NULL,
    body TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (source, position)
);

CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
`

// NewSQLiteStore creates an in-memory store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Article CRUD
// =============================================================================

// UpsertArticle inserts a, replacing any row with the same id. Empty ids
// and creation times are filled in.
func (s *SQLiteStore) UpsertArticle(a *Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertArticle(s.db, a)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertArticle(db execer, a *Article) error {
	if a.ID == "" {
		a.ID = ArticleID(a.Source, a.Position)
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	_, err := db.Exec(`
		INSERT INTO articles (id, source, position, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			position = excluded.position,
			body = excluded.body,
			created_at = excluded.created_at
	`, a.ID, a.Source, a.Position, a.Body, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert article %s#%d: %w", a.Source, a.Position, err)
	}
	return nil
}

// GetArticle retrieves an article by id. Returns nil, nil when absent.
func (s *SQLiteStore) GetArticle(id string) (*Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a Article
	err := s.db.QueryRow(`
		SELECT id, source, position, body, created_at FROM articles WHERE id = ?
	`, id).Scan(&a.ID, &a.Source, &a.Position, &a.Body, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListArticles returns the articles of source, or of every source when
// source is empty, ordered by source then position.
func (s *SQLiteStore) ListArticles(source string) ([]*Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if source != "" {
		rows, err = s.db.Query(`
			SELECT id, source, position, body, created_at
			FROM articles WHERE source = ? ORDER BY position
		`, source)
	} else {
		rows, err = s.db.Query(`
			SELECT id, source, position, body, created_at
			FROM articles ORDER BY source, position
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Source, &a.Position, &a.Body, &a.CreatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

// CountArticles returns the number of stored articles.
func (s *SQLiteStore) CountArticles() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

// DeleteSource removes every article of source and reports how many went.
func (s *SQLiteStore) DeleteSource(source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM articles WHERE source = ?`, source)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ReplaceSource swaps the stored articles of source for articles in one
// transaction; on error the previous rows are left untouched. It returns how
// many rows were removed.
func (s *SQLiteStore) ReplaceSource(source string, articles []*Article) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("replace %s: begin: %w", source, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM articles WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("replace %s: clear: %w", source, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	for _, a := range articles {
		if a.Source != source {
			return 0, fmt.Errorf("replace %s: article from %q", source, a.Source)
		}
		if err := upsertArticle(tx, a); err != nil {
			return 0, fmt.Errorf("replace %s: %w", source, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("replace %s: commit: %w", source, err)
	}
	return int(removed), nil
}

// =============================================================================
// Snapshot
// =============================================================================

type exportData struct {
	Articles []*Article `json:"articles"`
}

// Export serializes every article to JSON.
func (s *SQLiteStore) Export() ([]byte, error) {
	articles, err := s.ListArticles("")
	if err != nil {
		return nil, fmt.Errorf("export articles: %w", err)
	}
	return json.Marshal(exportData{Articles: articles})
}

// Import replaces the store's contents with a snapshot made by Export.
func (s *SQLiteStore) Import(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data) == 0 {
		return nil
	}

	var importData exportData
	if err := json.Unmarshal(data, &importData); err != nil {
		return fmt.Errorf("import unmarshal: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("import begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM articles`); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	for _, a := range importData.Articles {
		if err := upsertArticle(tx, a); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return tx.Commit()
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)
