// Package passdb keeps a SQLite catalog of decoded passes: which satellite
// and instrument produced them, how many scanlines were recovered, and the
// time span they cover. Image data itself stays out of the database.
package passdb

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the pass catalog database.
type DB struct {
	*sql.DB
}

// Pass is one decoded pass record.
type Pass struct {
	ID         string
	Satellite  string
	Instrument string
	Lines      int
	Channels   int
	StartTime  float64
	EndTime    float64
}

// NewDB opens (creating if needed) the catalog at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS passes (
			pass_id           TEXT PRIMARY KEY,
			satellite         TEXT,
			instrument        TEXT,
			lines             BIGINT,
			channels          BIGINT,
			start_time        DOUBLE,
			end_time          DOUBLE,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("passdb: creating schema: %w", err)
	}

	return &DB{db}, nil
}

// RecordPass inserts a pass record and returns its generated id.
func (db *DB) RecordPass(p Pass) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := db.Exec(
		"INSERT INTO passes (pass_id, satellite, instrument, lines, channels, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Satellite, p.Instrument, p.Lines, p.Channels, p.StartTime, p.EndTime,
	)
	if err != nil {
		return "", fmt.Errorf("passdb: inserting pass: %w", err)
	}
	return p.ID, nil
}

// ListPasses returns all recorded passes, newest first.
func (db *DB) ListPasses() ([]Pass, error) {
	rows, err := db.Query(
		"SELECT pass_id, satellite, instrument, lines, channels, start_time, end_time FROM passes ORDER BY start_time DESC")
	if err != nil {
		return nil, fmt.Errorf("passdb: listing passes: %w", err)
	}
	defer rows.Close()

	var passes []Pass
	for rows.Next() {
		var p Pass
		if err := rows.Scan(&p.ID, &p.Satellite, &p.Instrument, &p.Lines, &p.Channels, &p.StartTime, &p.EndTime); err != nil {
			return nil, fmt.Errorf("passdb: scanning pass: %w", err)
		}
		passes = append(passes, p)
	}
	return passes, rows.Err()
}
