// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists a loaded library into a SQLite database with an
// FTS5 full-text index, so references can be searched without reparsing
// the export.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citelib/internal/library"
	"github.com/pdiddy/citelib/pkg/types"
)

// Store manages the library index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at cfg.Path, bootstrapping
// the schema when missing.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "citelib.db"
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS refs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			citekey TEXT NOT NULL UNIQUE,
			type TEXT,
			title TEXT,
			container_title TEXT,
			authors TEXT,
			year INTEGER,
			doi TEXT,
			url TEXT,
			abstract TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_year ON refs(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='refs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE refs_fts USING fts5(title, authors, abstract, content=refs, content_rowid=rowid)`,
			`CREATE TRIGGER refs_ai AFTER INSERT ON refs BEGIN
				INSERT INTO refs_fts(rowid, title, authors, abstract) VALUES (new.rowid, new.title, new.authors, new.abstract);
			END`,
			`CREATE TRIGGER refs_ad AFTER DELETE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, title, authors, abstract) VALUES('delete', old.rowid, old.title, old.authors, old.abstract);
			END`,
			`CREATE TRIGGER refs_au AFTER UPDATE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, title, authors, abstract) VALUES('delete', old.rowid, old.title, old.authors, old.abstract);
				INSERT INTO refs_fts(rowid, title, authors, abstract) VALUES (new.rowid, new.title, new.authors, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Rebuild replaces the indexed reference set with the given library's
// entries in one transaction.
func (s *Store) Rebuild(ctx context.Context, lib *library.Library) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refs`); err != nil {
		return 0, fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (citekey, type, title, container_title, authors, year, doi, url, abstract)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, key := range lib.Keys() {
		e, _ := lib.Entry(key)
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Type, e.Title, e.ContainerTitle, e.AuthorString(),
			e.Year(), e.DOI, e.URL, e.Abstract,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting reference %s: %w", e.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// Result is one search hit.
type Result struct {
	CiteKey        string
	Type           string
	Title          string
	ContainerTitle string
	Authors        string
	Year           int
}

// Search runs an FTS5 query over title, authors, and abstract and
// returns up to max results (0 means the store default), best match
// first.
func (s *Store) Search(ctx context.Context, query string, max int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if max <= 0 {
		max = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.citekey, r.type, r.title, r.container_title, r.authors, r.year
		 FROM refs_fts f
		 JOIN refs r ON r.rowid = f.rowid
		 WHERE refs_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		ftsQuote(query), max,
	)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.CiteKey, &r.Type, &r.Title, &r.ContainerTitle, &r.Authors, &r.Year); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of indexed references.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM refs`).Scan(&n)
	return n, err
}

// ftsQuote turns free text into an FTS5 phrase-safe query: each
// whitespace token becomes a quoted term, joined implicitly by AND.
func ftsQuote(query string) string {
	tokens := strings.Fields(query)
	for i, t := range tokens {
		tokens[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(tokens, " ")
}

// Lookup returns the indexed row for one citekey.
func (s *Store) Lookup(ctx context.Context, citekey string) (Result, error) {
	var r Result
	err := s.db.QueryRowContext(ctx,
		`SELECT citekey, type, title, container_title, authors, year FROM refs WHERE citekey = ?`,
		citekey,
	).Scan(&r.CiteKey, &r.Type, &r.Title, &r.ContainerTitle, &r.Authors, &r.Year)
	if err == sql.ErrNoRows {
		return Result{}, fmt.Errorf("%w: %q", library.ErrNotFound, citekey)
	}
	return r, err
}
