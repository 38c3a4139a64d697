package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend implements Backend interface using SQLite database
type SQLiteBackend struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for SQLite backend
type SQLiteConfig struct {
	DBPath string
}

// NewSQLiteBackend creates a new SQLite ledger backend
func NewSQLiteBackend(config SQLiteConfig) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// StartSession inserts an open session row
func (s *SQLiteBackend) StartSession(entry SessionEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, subject_type, variant, app_label, path, started)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SubjectType,
		entry.Variant,
		entry.AppLabel,
		entry.Path,
		entry.Started,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// EndSession stores the stop time and final counters of a session
func (s *SQLiteBackend) EndSession(id string, stopped time.Time, records, dropped int64) error {
	res, err := s.db.Exec(`
		UPDATE sessions SET stopped = ?, records = ?, dropped = ?
		WHERE id = ?`,
		stopped.Unix(), records, dropped, id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// ReadSessions returns sessions ordered by start time, optionally
// filtered by subject type
func (s *SQLiteBackend) ReadSessions(subjectType string) ([]SessionEntry, error) {
	var query string
	var args []interface{}

	if subjectType == "" {
		query = `SELECT id, subject_type, variant, app_label, path, started, stopped, records, dropped
				FROM sessions
				ORDER BY started ASC, rowid ASC`
	} else {
		query = `SELECT id, subject_type, variant, app_label, path, started, stopped, records, dropped
				FROM sessions
				WHERE subject_type = ?
				ORDER BY started ASC, rowid ASC`
		args = []interface{}{subjectType}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]SessionEntry, 0)
	for rows.Next() {
		var e SessionEntry
		err := rows.Scan(&e.ID, &e.SubjectType, &e.Variant, &e.AppLabel, &e.Path,
			&e.Started, &e.Stopped, &e.Records, &e.Dropped)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sessions, nil
}

// Close gracefully shuts down the SQLite backend
func (s *SQLiteBackend) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
