package framemetrics

import (
	"net/http"

	"github.com/thisdougb/framemetrics/internal/core"
	"github.com/thisdougb/framemetrics/internal/handlers"
	"github.com/thisdougb/framemetrics/internal/metrics"
	"github.com/thisdougb/framemetrics/internal/storage"
)

// Subject is anything whose frame metrics can be tracked, usually a
// pointer to a screen or window.
type Subject = core.Subject

// Listener receives samples from the platform.
type Listener = core.Listener

// Platform is the host mechanism that produces frame samples.
type Platform = core.Platform

// AppContext resolves the application label and storage root.
type AppContext = core.AppContext

// Sample is one frame timing measurement.
type Sample = metrics.Sample

// SubjectStatus describes one tracked subject in Dump output.
type SubjectStatus = core.SubjectStatus

// SessionEntry is a tracking session recorded in the ledger.
type SessionEntry = storage.SessionEntry

var (
	ErrNotInitialized       = core.ErrNotInitialized
	ErrClosed               = core.ErrClosed
	ErrNilSubject           = core.ErrNilSubject
	ErrSubjectNotComparable = core.ErrSubjectNotComparable
)

// Dumper is the public interface for the frame metrics dumper
type Dumper struct {
	impl *core.Registry
}

// New creates a dumper for platform. Configuration and the session ledger
// are loaded from the environment.
func New(platform Platform) *Dumper {
	return &Dumper{
		impl: core.NewRegistry(platform),
	}
}

// NewWithLedger creates a dumper that records sessions in manager instead
// of the ledger configured in the environment.
func NewWithLedger(platform Platform, manager *storage.Manager) *Dumper {
	return &Dumper{
		impl: core.NewRegistry(platform, core.WithLedger(manager)),
	}
}

// Init sets the app label, output directory and build variant used for
// every metrics file. Only the first call has any effect.
func (d *Dumper) Init(app AppContext, variant string) {
	d.impl.Init(app, variant)
}

// TrackMetricsFor starts dumping frame metrics of subject to its file.
// Tracking an already tracked subject does nothing.
func (d *Dumper) TrackMetricsFor(subject Subject) error {
	return d.impl.StartTracking(subject)
}

// EndMetricsListeningFor stops tracking subject. Samples already received
// are still written before the file is closed.
func (d *Dumper) EndMetricsListeningFor(subject Subject) error {
	return d.impl.StopTracking(subject)
}

// Flush blocks until every queued sample has been written.
func (d *Dumper) Flush() {
	d.impl.Flush()
}

// Tracked returns the number of subjects currently tracked.
func (d *Dumper) Tracked() int {
	return d.impl.Tracked()
}

// Status returns per-subject counters, sorted by subject type.
func (d *Dumper) Status() []SubjectStatus {
	return d.impl.Status()
}

// Dump returns a JSON byte-string.
func (d *Dumper) Dump() string {
	return d.impl.Dump()
}

// Sessions returns recorded sessions for subjectType, or all sessions when
// subjectType is empty.
func (d *Dumper) Sessions(subjectType string) ([]SessionEntry, error) {
	return d.impl.Sessions(subjectType)
}

// StatusHandler returns an HTTP handler that serves Dump() as JSON
func (d *Dumper) StatusHandler() http.HandlerFunc {
	return handlers.StatusHandler(d.impl)
}

// SessionsHandler returns an HTTP handler listing ledger sessions.
// Query parameter: subject (optional)
func (d *Dumper) SessionsHandler() http.HandlerFunc {
	return handlers.SessionsHandler(d.impl)
}

// GetStorageManager returns the session ledger manager
func (d *Dumper) GetStorageManager() *storage.Manager {
	return d.impl.GetStorageManager()
}

// Close stops tracking all subjects, writes pending samples and closes
// every file.
func (d *Dumper) Close() error {
	return d.impl.Close()
}
