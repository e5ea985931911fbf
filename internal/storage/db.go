package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"debatetxt/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Bulk-index workers record failures concurrently.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  command TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transcripts (
  name TEXT PRIMARY KEY,
  url TEXT NOT NULL,
  hash TEXT NOT NULL,
  path TEXT NOT NULL,
  fetchedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS index_failures (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  indexName TEXT NOT NULL,
  documentId TEXT NOT NULL,
  error TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_index_failures_trace ON index_failures(traceId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

type Run struct {
	TraceID string
	Command string
	Timings map[string]float64
	Counts  map[string]int
}

func (d *DB) InsertRun(traceID, command string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, command, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, command, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) GetRun(traceID string) (*Run, error) {
	var run Run
	var timingsJSON, countsJSON string
	err := d.conn.QueryRow(`SELECT traceId, command, timingsJson, countsJson FROM runs WHERE traceId = ?`, traceID).
		Scan(&run.TraceID, &run.Command, &timingsJSON, &countsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(timingsJSON), &run.Timings)
	_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
	return &run, nil
}

func (d *DB) UpsertTranscript(file internal.TranscriptFile) error {
	_, err := d.conn.Exec(`
INSERT INTO transcripts (name, url, hash, path) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
  url=excluded.url,
  hash=excluded.hash,
  path=excluded.path,
  fetchedAt=CURRENT_TIMESTAMP
`, file.Name, file.URL, file.Hash, file.Path)
	return err
}

func (d *DB) GetTranscript(name string) (*internal.TranscriptFile, error) {
	var file internal.TranscriptFile
	err := d.conn.QueryRow(`SELECT name, url, hash, path FROM transcripts WHERE name = ?`, name).
		Scan(&file.Name, &file.URL, &file.Hash, &file.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (d *DB) InsertIndexFailure(traceID, indexName, documentID, message string) error {
	_, err := d.conn.Exec(`INSERT INTO index_failures (traceId, indexName, documentId, error) VALUES (?, ?, ?, ?)`, traceID, indexName, documentID, message)
	return err
}

func (d *DB) ListIndexFailures(traceID string) ([]string, error) {
	rows, err := d.conn.Query(`SELECT documentId FROM index_failures WHERE traceId = ? ORDER BY id ASC`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
