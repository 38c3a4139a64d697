package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryBackend implements Backend interface using in-memory storage.
// Used when the ledger is enabled without a database path, and in tests.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions []SessionEntry
}

// NewMemoryBackend creates a new in-memory ledger backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		sessions: make([]SessionEntry, 0),
	}
}

// StartSession records a new open session.
func (m *MemoryBackend) StartSession(entry SessionEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("session id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.ID == entry.ID {
			return fmt.Errorf("session %s already exists", entry.ID)
		}
	}

	m.sessions = append(m.sessions, entry)
	return nil
}

// EndSession closes an open session and stores its final counters.
func (m *MemoryBackend) EndSession(id string, stopped time.Time, records, dropped int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sessions {
		if m.sessions[i].ID != id {
			continue
		}
		m.sessions[i].Stopped = stopped.Unix()
		m.sessions[i].Records = records
		m.sessions[i].Dropped = dropped
		return nil
	}

	return fmt.Errorf("session %s not found", id)
}

// ReadSessions returns sessions ordered by start time. An empty
// subjectType matches all subjects.
func (m *MemoryBackend) ReadSessions(subjectType string) ([]SessionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]SessionEntry, 0, len(m.sessions))
	for _, s := range m.sessions {
		if subjectType != "" && s.SubjectType != subjectType {
			continue
		}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Started < result[j].Started
	})

	return result, nil
}

// Close performs cleanup for memory backend
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = nil
	return nil
}

// Len returns the number of stored sessions (for testing)
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
