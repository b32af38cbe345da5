package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FocuswithJustin/Lectern/core/verse"
	"github.com/FocuswithJustin/Lectern/internal/sqlitedriver"
)

// Snapshot persistence: a normalized single-source corpus can be written to
// a local SQLite file and reloaded on later startups, skipping payload
// fetch and re-normalization. Snapshots are an optimization only; a store
// without one behaves identically.

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS documents (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	chapters INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS verses (
	document        TEXT NOT NULL,
	chapter         INTEGER NOT NULL,
	verse           INTEGER NOT NULL,
	text            TEXT NOT NULL,
	paragraph_start INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (document, chapter, verse)
);
`

// SaveSnapshot writes the resident corpus to a SQLite file. Only a
// single-source store has a full corpus to persist.
func (s *Store) SaveSnapshot(ctx context.Context, path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mode != ModeSingle {
		return fmt.Errorf("snapshot requires a single-source store, have %s", s.mode)
	}

	db, err := sql.Open(sqlitedriver.DriverName, path)
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for i, name := range s.names {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO documents (position, name, chapters) VALUES (?, ?, ?)`,
			i, name, s.counts[name]); err != nil {
			return fmt.Errorf("write document %s: %w", name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO verses (document, chapter, verse, text, paragraph_start) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare verse insert: %w", err)
	}
	defer stmt.Close()

	for _, vs := range s.resident {
		for _, v := range vs {
			para := 0
			if v.ParagraphStart {
				para = 1
			}
			if _, err := stmt.ExecContext(ctx, v.Document, v.Chapter, v.Number, v.Text, para); err != nil {
				return fmt.Errorf("write verse %s %d:%d: %w", v.Document, v.Chapter, v.Number, err)
			}
		}
	}

	return tx.Commit()
}

// LoadSnapshot builds a single-source store from a SQLite snapshot file.
func LoadSnapshot(ctx context.Context, path string, cacheSize int) (*Store, error) {
	db, err := sql.Open(sqlitedriver.DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer db.Close()

	s := New(Config{CacheSize: cacheSize})
	s.mode = ModeSingle

	rows, err := db.QueryContext(ctx,
		`SELECT name, chapters FROM documents ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("read snapshot documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var chapters int
		if err := rows.Scan(&name, &chapters); err != nil {
			return nil, fmt.Errorf("scan snapshot document: %w", err)
		}
		s.names = append(s.names, name)
		s.counts[name] = chapters
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot documents: %w", err)
	}

	vrows, err := db.QueryContext(ctx,
		`SELECT document, chapter, verse, text, paragraph_start FROM verses ORDER BY document, chapter, verse`)
	if err != nil {
		return nil, fmt.Errorf("read snapshot verses: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var v verse.Verse
		var para int
		if err := vrows.Scan(&v.Document, &v.Chapter, &v.Number, &v.Text, &para); err != nil {
			return nil, fmt.Errorf("scan snapshot verse: %w", err)
		}
		v.ParagraphStart = para != 0
		key := verse.ChapterKey{Document: v.Document, Chapter: v.Chapter}
		s.resident[key] = append(s.resident[key], v)
	}
	if err := vrows.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot verses: %w", err)
	}

	if len(s.names) == 0 {
		return nil, fmt.Errorf("snapshot %s holds no documents", path)
	}
	return s, nil
}
