package storage

import "time"

// Backend defines the interface for all session ledger implementations
type Backend interface {
	StartSession(entry SessionEntry) error
	EndSession(id string, stopped time.Time, records, dropped int64) error
	ReadSessions(subjectType string) ([]SessionEntry, error)
	Close() error
}

// SessionEntry represents one start..stop tracking interval of a subject
type SessionEntry struct {
	ID          string `json:"id"`
	SubjectType string `json:"subject_type"`
	Variant     string `json:"variant"`
	AppLabel    string `json:"app_label"`
	Path        string `json:"path"`
	Started     int64  `json:"started"`           // unix seconds
	Stopped     int64  `json:"stopped,omitempty"` // unix seconds, 0 while tracking
	Records     int64  `json:"records"`
	Dropped     int64  `json:"dropped"`
}

// Open reports whether the session has not been ended yet.
func (e SessionEntry) Open() bool {
	return e.Stopped == 0
}
