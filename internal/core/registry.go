package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thisdougb/framemetrics/internal/config"
	"github.com/thisdougb/framemetrics/internal/metrics"
	"github.com/thisdougb/framemetrics/internal/storage"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrNotInitialized       = errors.New("registry not initialized: call Init with an app context and variant first")
	ErrClosed               = errors.New("registry closed")
	ErrNilSubject           = errors.New("nil subject")
	ErrSubjectNotComparable = errors.New("subject type is not comparable")
)

// SubjectStatus describes one tracked subject for the status dump.
type SubjectStatus struct {
	Subject            string  `json:"subject"`
	Path               string  `json:"path"`
	SessionID          string  `json:"session_id"`
	Started            int64   `json:"started"`
	Records            int64   `json:"records"`
	Dropped            int64   `json:"dropped"`
	Errors             int64   `json:"errors"`
	AvgTotalDurationNs float64 `json:"avg_total_duration_ns"`
}

// Registry tracks one listener per subject and routes all of their file
// I/O through a single background worker.
type Registry struct {
	platform Platform
	cfg      config.Config
	format   metrics.FormatVersion
	ledger   *storage.Manager

	mu          sync.Mutex // guards everything below, including Init
	initialized bool
	closed      bool
	appLabel    string
	variant     string
	outputDir   string
	started     time.Time
	worker      *storage.Worker
	subjects    map[Subject]*subjectListener
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfig overrides the configuration loaded from the environment.
func WithConfig(cfg config.Config) Option {
	return func(r *Registry) {
		r.cfg = cfg
	}
}

// WithLedger sets the session ledger, replacing the one built from the
// environment.
func WithLedger(m *storage.Manager) Option {
	return func(r *Registry) {
		r.ledger = m
	}
}

// NewRegistry creates an uninitialized registry for platform.
func NewRegistry(platform Platform, opts ...Option) *Registry {
	r := &Registry{
		platform: platform,
		cfg:      config.Load(),
		subjects: make(map[Subject]*subjectListener),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.ledger == nil {
		ledger, err := storage.NewManagerFromConfig()
		if err != nil {
			// Log error but continue without a ledger
			config.LogError(context.Background(), "failed to initialize session ledger", zap.Error(err))
			ledger = storage.NewManager(nil, false)
		}
		r.ledger = ledger
	}

	r.format = metrics.ParseFormatVersion(r.cfg.RecordFormat)

	return r
}

// Init resolves the output directory and app label and starts the
// worker. Only the first call has any effect.
func (r *Registry) Init(app AppContext, variant string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return
	}

	ctx := config.SetContextCorrelationId(context.Background(), "init")

	r.outputDir = resolveOutputDir(ctx, app)
	r.appLabel = resolveAppLabel(ctx, app)
	r.variant = variant
	r.started = time.Now()

	r.worker = storage.NewWorker(r.cfg.QueueSize)
	r.worker.Start()

	r.initialized = true

	config.LogInfo(ctx, "frame metrics dumper initialized",
		zap.String("app_label", r.appLabel),
		zap.String("variant", r.variant),
		zap.String("output_dir", r.outputDir),
		zap.Stringer("format", r.format))
}

// StartTracking opens a writer for subject and attaches its listener to
// the platform. It is a no-op when the subject is already tracked or the
// platform cannot deliver samples.
func (r *Registry) StartTracking(subject Subject) error {
	if subject == nil {
		return ErrNilSubject
	}
	if !isComparable(subject) {
		return fmt.Errorf("%w: %T", ErrSubjectNotComparable, subject)
	}

	r.mu.Lock() // enter CRITICAL SECTION
	defer r.mu.Unlock()

	if err := r.checkUsable(); err != nil {
		return err
	}
	if r.platform == nil || !r.platform.Supported() {
		return nil
	}
	if _, ok := r.subjects[subject]; ok {
		return nil
	}

	subjectType := subject.TypeName()
	path := filepath.Join(r.outputDir, FileName(r.appLabel, subjectType, r.variant))

	l := &subjectListener{
		ctx:         config.SetContextCorrelationId(context.Background(), subjectType),
		subjectType: subjectType,
		sessionID:   uuid.NewString(),
		started:     time.Now(),
		appLabel:    r.appLabel,
		variant:     r.variant,
		worker:      r.worker,
		format:      r.format,
		writer:      storage.NewSubjectWriter(path, r.cfg.SyncEachRecord),
		ledger:      r.ledger,
		rolling:     metrics.NewRollingAverage(r.cfg.RollingSize),
	}

	// the open is queued ahead of any sample the platform delivers
	if err := r.worker.SubmitWait(l.open); err != nil {
		config.LogError(l.ctx, "failed to queue writer open", zap.Error(err))
	}

	r.subjects[subject] = l
	r.platform.Attach(subject, l)

	config.LogDebug(l.ctx, "tracking started", zap.String("path", path))
	return nil
}

// StopTracking detaches the subject's listener and queues the writer
// close behind any appends still pending. Untracked subjects are ignored.
func (r *Registry) StopTracking(subject Subject) error {
	if subject == nil || !isComparable(subject) {
		return nil
	}

	r.mu.Lock() // enter CRITICAL SECTION
	defer r.mu.Unlock()

	if err := r.checkUsable(); err != nil {
		return err
	}

	l, ok := r.subjects[subject]
	if !ok {
		return nil
	}

	r.detach(subject, l)
	if err := r.worker.SubmitWait(func() { l.close() }); err != nil {
		config.LogError(l.ctx, "failed to queue writer close", zap.Error(err))
	}

	config.LogDebug(l.ctx, "tracking stopped")
	return nil
}

// detach must be called with mu held.
func (r *Registry) detach(subject Subject, l *subjectListener) {
	l.detached.Store(true)
	if r.platform != nil {
		r.platform.Detach(subject, l)
	}
	delete(r.subjects, subject)
}

func (r *Registry) checkUsable() error {
	if r.closed {
		return ErrClosed
	}
	if !r.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Flush blocks until every write queued so far has reached its file.
func (r *Registry) Flush() {
	r.mu.Lock()
	w := r.worker
	r.mu.Unlock()

	if w != nil {
		w.Flush()
	}
}

// Tracked returns the number of tracked subjects.
func (r *Registry) Tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subjects)
}

// Status returns the tracked subjects ordered by subject type and path.
func (r *Registry) Status() []SubjectStatus {
	r.mu.Lock()
	listeners := make([]*subjectListener, 0, len(r.subjects))
	for _, l := range r.subjects {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	result := make([]SubjectStatus, 0, len(listeners))
	for _, l := range listeners {
		result = append(result, l.status())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Subject != result[j].Subject {
			return result[i].Subject < result[j].Subject
		}
		return result[i].Path < result[j].Path
	})
	return result
}

// Dump returns a JSON string describing the registry and its subjects.
func (r *Registry) Dump() string {
	subjects := r.Status()

	r.mu.Lock()
	output := map[string]interface{}{
		"Initialized": r.initialized,
		"AppLabel":    r.appLabel,
		"Variant":     r.variant,
		"OutputDir":   r.outputDir,
		"Format":      r.format.String(),
		"Subjects":    subjects,
	}
	if r.initialized {
		output["Started"] = r.started.Unix()
		output["Pending"] = r.worker.Pending()
	}
	r.mu.Unlock()

	data, err := json.MarshalIndent(output, "", "    ")
	if err != nil {
		config.LogError(context.Background(), "JSON marshalling failed", zap.Error(err))
		return "{}"
	}

	return string(data)
}

// Sessions returns the ledger sessions for subjectType, all if empty.
func (r *Registry) Sessions(subjectType string) ([]storage.SessionEntry, error) {
	return r.ledger.ReadSessions(subjectType)
}

// GetStorageManager returns the session ledger manager
func (r *Registry) GetStorageManager() *storage.Manager {
	return r.ledger
}

// Close stops tracking every subject, drains the worker and closes the
// ledger. Writer close failures are returned combined.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	var errs error // appended on the worker goroutine only
	for subject, l := range r.subjects {
		l := l // per-iteration copy, go directive is below 1.22
		r.detach(subject, l)
		if r.worker != nil {
			r.worker.SubmitWait(func() { errs = multierr.Append(errs, l.close()) })
		}
	}
	w := r.worker
	r.mu.Unlock()

	if w != nil {
		w.Stop()
	}

	return multierr.Append(errs, r.ledger.Close())
}
