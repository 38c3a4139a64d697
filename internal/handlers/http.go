package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/thisdougb/framemetrics/internal/storage"
)

// StateInterface defines the interface that handlers need from the registry
type StateInterface interface {
	Dump() string
	GetStorageManager() *storage.Manager
}

// SessionsResponse is the body served by SessionsHandler
type SessionsResponse struct {
	Subject  string                 `json:"subject,omitempty"`
	Sessions []storage.SessionEntry `json:"sessions"`
	Summary  SessionsSummary        `json:"summary"`
}

// SessionsSummary provides aggregate information about the listed sessions
type SessionsSummary struct {
	TotalSessions int   `json:"total_sessions"`
	OpenSessions  int   `json:"open_sessions"`
	TotalRecords  int64 `json:"total_records"`
	TotalDropped  int64 `json:"total_dropped"`
}

// StatusHandler returns an HTTP handler that serves the dumper status as JSON
func StatusHandler(state StateInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%s\n", state.Dump())
	}
}

// SessionsHandler returns handler listing recorded tracking sessions.
// Supports an optional ?subject={type name} filter.
func SessionsHandler(state StateInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager := state.GetStorageManager()
		if manager == nil || !manager.IsEnabled() {
			http.Error(w, "session queries require the ledger to be enabled", http.StatusServiceUnavailable)
			return
		}

		subject := r.URL.Query().Get("subject")

		sessions, err := manager.ReadSessions(subject)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to read sessions: %v", err), http.StatusInternalServerError)
			return
		}

		response := SessionsResponse{
			Subject:  subject,
			Sessions: sessions,
			Summary:  summarize(sessions),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
		}
	}
}

func summarize(sessions []storage.SessionEntry) SessionsSummary {
	summary := SessionsSummary{TotalSessions: len(sessions)}
	for _, s := range sessions {
		if s.Open() {
			summary.OpenSessions++
		}
		summary.TotalRecords += s.Records
		summary.TotalDropped += s.Dropped
	}
	return summary
}
