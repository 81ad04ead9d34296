package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/models"
)

// Record is one row in the imports table: the latest outcome for a date.
type Record struct {
	DateKey      string        `json:"date_key"`
	DailyNote    string        `json:"daily_note,omitempty"`
	ImportedPath string        `json:"imported_path,omitempty"`
	Checksum     string        `json:"checksum,omitempty"`
	Status       models.Status `json:"status"`
	Detail       string        `json:"detail,omitempty"`
	ImportedAt   time.Time     `json:"imported_at"`
}

// Store defines the journal operations. Consumers should depend on this
// interface rather than the concrete *DB type to facilitate testing.
type Store interface {
	Upsert(r Record) error
	Get(dateKey string) (*Record, error)
	List(limit int) ([]Record, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// Upsert inserts or replaces the record for a date key.
func (db *DB) Upsert(r Record) error {
	if r.ImportedAt.IsZero() {
		r.ImportedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO imports (date_key, daily_note, imported_path, checksum, status, detail, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET
			daily_note    = excluded.daily_note,
			imported_path = excluded.imported_path,
			checksum      = excluded.checksum,
			status        = excluded.status,
			detail        = excluded.detail,
			imported_at   = excluded.imported_at
	`, r.DateKey, r.DailyNote, r.ImportedPath, r.Checksum, string(r.Status), r.Detail, r.ImportedAt)
	if err != nil {
		return fmt.Errorf("journal: upsert: %w", err)
	}
	return nil
}

// Get returns the record for a date key, or apperr.ErrNotFound.
func (db *DB) Get(dateKey string) (*Record, error) {
	var r Record
	var status string
	err := db.conn.QueryRow(`
		SELECT date_key, daily_note, imported_path, checksum, status, detail, imported_at
		FROM imports WHERE date_key = ?
	`, dateKey).Scan(&r.DateKey, &r.DailyNote, &r.ImportedPath, &r.Checksum, &status, &r.Detail, &r.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("journal: get %s: %w", dateKey, err)
	}
	r.Status = models.Status(status)
	return &r, nil
}

// List returns the most recent records, newest first.
func (db *DB) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT date_key, daily_note, imported_path, checksum, status, detail, imported_at
		FROM imports
		ORDER BY imported_at DESC, date_key DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var status string
		if err := rows.Scan(&r.DateKey, &r.DailyNote, &r.ImportedPath, &r.Checksum, &status, &r.Detail, &r.ImportedAt); err != nil {
			return nil, err
		}
		r.Status = models.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
