package storage

import (
	"fmt"
	"time"
)

// Manager coordinates session ledger operations for the registry. A
// disabled manager accepts every call and stores nothing.
type Manager struct {
	backend Backend
	enabled bool
}

// NewManager creates a new ledger manager
func NewManager(backend Backend, enabled bool) *Manager {
	return &Manager{
		backend: backend,
		enabled: enabled,
	}
}

// NewManagerFromConfig creates a manager using environment variable configuration
func NewManagerFromConfig() (*Manager, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewManagerWithConfig(config)
}

// NewManagerWithConfig creates a manager for an explicit configuration
func NewManagerWithConfig(config *Config) (*Manager, error) {
	if !config.Enabled {
		return NewManager(nil, false), nil
	}

	var backend Backend
	if config.DBPath != "" {
		b, err := NewSQLiteBackend(SQLiteConfig{DBPath: config.DBPath})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		backend = b
	} else {
		backend = NewMemoryBackend()
	}

	return NewManager(backend, true), nil
}

// StartSession records the start of a tracking session if enabled
func (m *Manager) StartSession(entry SessionEntry) error {
	if !m.IsEnabled() {
		return nil // Ledger disabled, no-op
	}
	return m.backend.StartSession(entry)
}

// EndSession records the end of a tracking session if enabled
func (m *Manager) EndSession(id string, stopped time.Time, records, dropped int64) error {
	if !m.IsEnabled() {
		return nil
	}
	return m.backend.EndSession(id, stopped, records, dropped)
}

// ReadSessions retrieves recorded sessions
func (m *Manager) ReadSessions(subjectType string) ([]SessionEntry, error) {
	if !m.IsEnabled() {
		return nil, fmt.Errorf("session ledger not enabled")
	}
	return m.backend.ReadSessions(subjectType)
}

// Close releases the ledger backend
func (m *Manager) Close() error {
	if !m.IsEnabled() {
		return nil
	}
	return m.backend.Close()
}

// IsEnabled returns whether the ledger is enabled
func (m *Manager) IsEnabled() bool {
	return m != nil && m.enabled && m.backend != nil
}
