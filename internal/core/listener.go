package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thisdougb/framemetrics/internal/config"
	"github.com/thisdougb/framemetrics/internal/metrics"
	"github.com/thisdougb/framemetrics/internal/storage"
	"go.uber.org/zap"
)

// subjectListener is the Listener attached for one tracked subject. It
// hands every sample to the worker and owns the subject's writer.
type subjectListener struct {
	ctx         context.Context
	subjectType string
	sessionID   string
	started     time.Time
	appLabel    string
	variant     string

	worker *storage.Worker
	format metrics.FormatVersion
	writer *storage.SubjectWriter
	ledger *storage.Manager

	detached atomic.Bool
	dropped  atomic.Int64

	rollingMu sync.Mutex
	rolling   *metrics.RollingAverage
}

// OnSample schedules s onto the worker. It never blocks; when the queue
// is full the sample is dropped and counted.
func (l *subjectListener) OnSample(s metrics.Sample) {
	if l.detached.Load() {
		return
	}

	if err := l.worker.Submit(func() { l.write(s) }); err != nil {
		if l.dropped.Add(1) == 1 {
			config.LogInfo(l.ctx, "dropping samples", zap.Error(err))
		}
		config.LogDebug(l.ctx, "sample dropped", zap.Error(err))
	}
}

// The methods below run on the worker goroutine only.

func (l *subjectListener) open() {
	if err := l.writer.Open(); err != nil {
		config.LogError(l.ctx, "failed to open subject writer", zap.Error(err))
	}

	err := l.ledger.StartSession(storage.SessionEntry{
		ID:          l.sessionID,
		SubjectType: l.subjectType,
		Variant:     l.variant,
		AppLabel:    l.appLabel,
		Path:        l.writer.Path(),
		Started:     l.started.Unix(),
	})
	if err != nil {
		config.LogError(l.ctx, "failed to record session start", zap.Error(err))
	}
}

func (l *subjectListener) write(s metrics.Sample) {
	if err := l.writer.Append(l.format.Format(s)); err != nil {
		config.LogError(l.ctx, "failed to append sample", zap.Error(err))
	}

	l.rollingMu.Lock()
	l.rolling.Add(s.TotalDuration)
	l.rollingMu.Unlock()
}

func (l *subjectListener) close() error {
	err := l.writer.Close()
	if err != nil {
		config.LogError(l.ctx, "failed to close subject writer", zap.Error(err))
	}

	if lerr := l.ledger.EndSession(l.sessionID, time.Now(), l.writer.Records(), l.dropped.Load()); lerr != nil {
		config.LogError(l.ctx, "failed to record session end", zap.Error(lerr))
	}

	config.LogDebug(l.ctx, "subject writer closed",
		zap.Int64("records", l.writer.Records()),
		zap.Int64("dropped", l.dropped.Load()))

	return err
}

func (l *subjectListener) status() SubjectStatus {
	l.rollingMu.Lock()
	avg := l.rolling.Average()
	l.rollingMu.Unlock()

	return SubjectStatus{
		Subject:            l.subjectType,
		Path:               l.writer.Path(),
		SessionID:          l.sessionID,
		Started:            l.started.Unix(),
		Records:            l.writer.Records(),
		Dropped:            l.dropped.Load(),
		Errors:             l.writer.Errors(),
		AvgTotalDurationNs: avg,
	}
}
