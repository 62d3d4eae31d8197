// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/sqlite.go
// Summary: SQLite record store for hosts that keep many items.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/tabdock/dock"
)

const recordSchemaVersion = 1

const recordSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS records (
    item_id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL,           -- Left/Right/Top/Bottom/Unset
    root_name TEXT NOT NULL DEFAULT '',
    is_main INTEGER NOT NULL DEFAULT 1,
    group_name TEXT NOT NULL DEFAULT '',
    updated INTEGER NOT NULL          -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_records_group ON records(group_name);
`

// SQLiteStore keeps one row per item.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(recordSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := checkSchemaVersion(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func checkSchemaVersion(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", recordSchemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version > recordSchemaVersion:
		return fmt.Errorf("%w: schema version %d is newer than supported %d", ErrCorrupt, version, recordSchemaVersion)
	}
	return nil
}

func (s *SQLiteStore) Save(e Entry) error {
	if e.Updated.IsZero() {
		e.Updated = time.Now().UTC()
	}
	rec := e.Record
	_, err := s.db.Exec(`
		INSERT INTO records (item_id, title, location, root_name, is_main, group_name, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			title = excluded.title,
			location = excluded.location,
			root_name = excluded.root_name,
			is_main = excluded.is_main,
			group_name = excluded.group_name,
			updated = excluded.updated`,
		e.ItemID, e.Title, rec.Location.String(), rec.LayoutRootName, boolToInt(rec.IsMainWindow),
		rec.TabGroupName, e.Updated.UnixNano())
	if err != nil {
		return fmt.Errorf("save record %q: %w", e.ItemID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(itemID string) (Entry, bool, error) {
	row := s.db.QueryRow(`
		SELECT item_id, title, location, root_name, is_main, group_name, updated
		FROM records WHERE item_id = ?`, itemID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, title, location, root_name, is_main, group_name, updated
		FROM records ORDER BY item_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Delete(itemID string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE item_id = ?", itemID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e        Entry
		location string
		isMain   int
		updated  int64
	)
	if err := row.Scan(&e.ItemID, &e.Title, &location, &e.Record.LayoutRootName, &isMain,
		&e.Record.TabGroupName, &updated); err != nil {
		return Entry{}, err
	}
	loc, err := dock.ParseLocation(location)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: record %q: %v", ErrCorrupt, e.ItemID, err)
	}
	e.Record.Location = loc
	e.Record.IsMainWindow = isMain != 0
	e.Updated = time.Unix(0, updated).UTC()
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
