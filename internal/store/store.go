// Package store persists networks as SQLite files, one table per component
// kind, mirroring the relational shape of the in-memory model.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite network file
type DB struct {
	conn *sql.DB
	Path string
}

// Open opens a SQLite network file with WAL mode and foreign keys enabled
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening network file: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// Close closes the underlying connection
func (d *DB) Close() error {
	return d.conn.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS buses (
	id      TEXT PRIMARY KEY,
	carrier TEXT NOT NULL DEFAULT '',
	v_nom   REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS generators (
	id            TEXT PRIMARY KEY,
	bus           TEXT NOT NULL,
	carrier       TEXT NOT NULL DEFAULT '',
	p_nom         REAL NOT NULL DEFAULT 0,
	p_max_pu      REAL NOT NULL DEFAULT 1,
	marginal_cost REAL NOT NULL DEFAULT 0,
	p             REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS loads (
	id      TEXT PRIMARY KEY,
	bus     TEXT NOT NULL,
	carrier TEXT NOT NULL DEFAULT '',
	p_set   REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS lines (
	id               TEXT PRIMARY KEY,
	bus0             TEXT NOT NULL,
	bus1             TEXT NOT NULL,
	s_nom            REAL NOT NULL DEFAULT 0,
	s_max_pu         REAL NOT NULL DEFAULT 1,
	s_nom_min        REAL NOT NULL DEFAULT 0,
	s_nom_max        REAL NOT NULL DEFAULT 0,
	s_nom_extendable INTEGER NOT NULL DEFAULT 0,
	capital_cost     REAL NOT NULL DEFAULT 0,
	p                REAL NOT NULL DEFAULT 0,
	s_nom_opt        REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS links (
	id               TEXT PRIMARY KEY,
	bus0             TEXT NOT NULL,
	bus1             TEXT NOT NULL,
	p_nom            REAL NOT NULL DEFAULT 0,
	p_nom_min        REAL NOT NULL DEFAULT 0,
	p_nom_max        REAL NOT NULL DEFAULT 0,
	p_min_pu         REAL NOT NULL DEFAULT 0,
	efficiency       REAL NOT NULL DEFAULT 1,
	p_nom_extendable INTEGER NOT NULL DEFAULT 0,
	capital_cost     REAL NOT NULL DEFAULT 0,
	p                REAL NOT NULL DEFAULT 0,
	p_nom_opt        REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS storage_units (
	id      TEXT PRIMARY KEY,
	bus     TEXT NOT NULL,
	carrier TEXT NOT NULL DEFAULT '',
	p_nom   REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS stores (
	id      TEXT PRIMARY KEY,
	bus     TEXT NOT NULL,
	carrier TEXT NOT NULL DEFAULT '',
	e_nom   REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS run_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// carrierSchema is applied separately: a network without a carrier table is a
// valid network, and the sanitizer treats the table as an optional capability.
const carrierSchema = `
CREATE TABLE IF NOT EXISTS carriers (
	id TEXT PRIMARY KEY
);
`

// Init creates the component tables. withCarriers controls whether the
// optional carrier table exists in this network file.
func (d *DB) Init(withCarriers bool) error {
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if withCarriers {
		if _, err := d.conn.Exec(carrierSchema); err != nil {
			return fmt.Errorf("creating carrier table: %w", err)
		}
	}
	return nil
}

// hasTable reports whether a table exists in the file
func (d *DB) hasTable(name string) (bool, error) {
	row := d.conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
