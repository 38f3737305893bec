// Package envcache is a small persistent cache of last-resolved env
// values (spec.md §6: "Persistent caches for resolved values"), keyed by
// (docID, varName). Grounded on
// _examples/mvp-joe-canopy/internal/store/store.go's sql.Open/Migrate/
// prepared-statement style — kept intentionally to a single table,
// matching that repo's direct database/sql + go-sqlite3 usage rather
// than reaching for an ORM.
package envcache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is a SQLite-backed store of the last value envbind resolved for
// a given (document, variable) pair, plus a short description of where
// that value came from (a .env file path, a docker-compose service,
// etc.) for display purposes.
type Cache struct {
	db *sql.DB
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS resolved_values (
  doc_id      TEXT NOT NULL,
  var_name    TEXT NOT NULL,
  value       TEXT NOT NULL,
  source_desc TEXT NOT NULL,
  PRIMARY KEY (doc_id, var_name)
);
`

// Open opens (creating if necessary) a SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("envcache: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("envcache: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("envcache: migrate: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put records the last-resolved value for (docID, varName), overwriting
// any prior entry.
func (c *Cache) Put(docID, varName, value, sourceDesc string) error {
	_, err := c.db.Exec(
		`INSERT INTO resolved_values (doc_id, var_name, value, source_desc)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (doc_id, var_name) DO UPDATE SET value = excluded.value, source_desc = excluded.source_desc`,
		docID, varName, value, sourceDesc,
	)
	if err != nil {
		return fmt.Errorf("envcache: put %s/%s: %w", docID, varName, err)
	}
	return nil
}

// Entry is one cached resolution.
type Entry struct {
	Value      string
	SourceDesc string
}

// Get returns the last-resolved value for (docID, varName), if any.
func (c *Cache) Get(docID, varName string) (Entry, bool, error) {
	var e Entry
	err := c.db.QueryRow(
		`SELECT value, source_desc FROM resolved_values WHERE doc_id = ? AND var_name = ?`,
		docID, varName,
	).Scan(&e.Value, &e.SourceDesc)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("envcache: get %s/%s: %w", docID, varName, err)
	}
	return e, true, nil
}

// DeleteDocument drops every cached entry for docID.
// internal/envcore.Core.Close does not call it.
func (c *Cache) DeleteDocument(docID string) error {
	if _, err := c.db.Exec(`DELETE FROM resolved_values WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("envcache: delete document %s: %w", docID, err)
	}
	return nil
}
