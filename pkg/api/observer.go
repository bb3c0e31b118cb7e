package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the validation engine and the persistence
// controller for logging and metrics.
//
// Implementations should be fast and non-blocking; callbacks run on the
// goroutine that performed the validation or the save.
type Observer interface {
	// OnValidated is called after every validation pass that gets published.
	OnValidated(ctx context.Context, findings []Finding, d time.Duration)

	// OnStatusChanged is called for every save-status transition.
	OnStatusChanged(ctx context.Context, from, to SaveStatus)

	// OnSaveCompleted is called after a snapshot was written.
	OnSaveCompleted(ctx context.Context, snap *Snapshot, trigger SaveTrigger, d time.Duration)

	// OnSaveFailed is called when the durable write failed.
	OnSaveFailed(ctx context.Context, trigger SaveTrigger, err error)

	// OnAutosaveSkipped is called when the autosave timer fired but the
	// latest findings were not empty.
	OnAutosaveSkipped(ctx context.Context, findings int)

	// OnSnapshotLoaded is called after a load attempt. snap is nil when no
	// usable snapshot exists; err carries the reason a stored value was
	// ignored (nil when the slot is simply empty).
	OnSnapshotLoaded(ctx context.Context, snap *Snapshot, err error)

	// OnSnapshotDiscarded is called after the stored snapshot was deleted.
	OnSnapshotDiscarded(ctx context.Context)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnValidated(ctx context.Context, findings []Finding, d time.Duration) {}
func (NoopObserver) OnStatusChanged(ctx context.Context, from, to SaveStatus)            {}
func (NoopObserver) OnSaveCompleted(ctx context.Context, snap *Snapshot, trigger SaveTrigger, d time.Duration) {
}
func (NoopObserver) OnSaveFailed(ctx context.Context, trigger SaveTrigger, err error)   {}
func (NoopObserver) OnAutosaveSkipped(ctx context.Context, findings int)                {}
func (NoopObserver) OnSnapshotLoaded(ctx context.Context, snap *Snapshot, err error)    {}
func (NoopObserver) OnSnapshotDiscarded(ctx context.Context)                            {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnValidated(ctx context.Context, findings []Finding, d time.Duration) {
	for _, o := range c.observers {
		o.OnValidated(ctx, findings, d)
	}
}

func (c *CompositeObserver) OnStatusChanged(ctx context.Context, from, to SaveStatus) {
	for _, o := range c.observers {
		o.OnStatusChanged(ctx, from, to)
	}
}

func (c *CompositeObserver) OnSaveCompleted(ctx context.Context, snap *Snapshot, trigger SaveTrigger, d time.Duration) {
	for _, o := range c.observers {
		o.OnSaveCompleted(ctx, snap, trigger, d)
	}
}

func (c *CompositeObserver) OnSaveFailed(ctx context.Context, trigger SaveTrigger, err error) {
	for _, o := range c.observers {
		o.OnSaveFailed(ctx, trigger, err)
	}
}

func (c *CompositeObserver) OnAutosaveSkipped(ctx context.Context, findings int) {
	for _, o := range c.observers {
		o.OnAutosaveSkipped(ctx, findings)
	}
}

func (c *CompositeObserver) OnSnapshotLoaded(ctx context.Context, snap *Snapshot, err error) {
	for _, o := range c.observers {
		o.OnSnapshotLoaded(ctx, snap, err)
	}
}

func (c *CompositeObserver) OnSnapshotDiscarded(ctx context.Context) {
	for _, o := range c.observers {
		o.OnSnapshotDiscarded(ctx)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs validation and save
// lifecycle events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnValidated(ctx context.Context, findings []Finding, d time.Duration) {
	blocking := 0
	for _, f := range findings {
		if f.Blocking() {
			blocking++
		}
	}
	o.Logger.DebugContext(ctx, "workflow_validated",
		slog.Int("findings", len(findings)),
		slog.Int("blocking", blocking),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnStatusChanged(ctx context.Context, from, to SaveStatus) {
	o.Logger.DebugContext(ctx, "save_status_changed",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}

func (o *LoggingObserver) OnSaveCompleted(ctx context.Context, snap *Snapshot, trigger SaveTrigger, d time.Duration) {
	o.Logger.InfoContext(ctx, "workflow_saved",
		slog.String("workflow", snap.Metadata.Name),
		slog.String("trigger", string(trigger)),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("edges", len(snap.Edges)),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnSaveFailed(ctx context.Context, trigger SaveTrigger, err error) {
	o.Logger.ErrorContext(ctx, "workflow_save_failed",
		slog.String("trigger", string(trigger)),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnAutosaveSkipped(ctx context.Context, findings int) {
	o.Logger.DebugContext(ctx, "autosave_skipped",
		slog.Int("findings", findings),
	)
}

func (o *LoggingObserver) OnSnapshotLoaded(ctx context.Context, snap *Snapshot, err error) {
	if err != nil {
		o.Logger.WarnContext(ctx, "snapshot_ignored", slog.Any("error", err))
		return
	}
	if snap == nil {
		o.Logger.DebugContext(ctx, "snapshot_absent")
		return
	}
	o.Logger.InfoContext(ctx, "snapshot_loaded",
		slog.String("workflow", snap.Metadata.Name),
		slog.Time("last_saved", snap.Metadata.LastSaved),
	)
}

func (o *LoggingObserver) OnSnapshotDiscarded(ctx context.Context) {
	o.Logger.InfoContext(ctx, "snapshot_discarded")
}

// BasicMetrics collects simple counters. It implements Observer, and can be
// combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	validations      atomic.Int64
	savesCompleted   atomic.Int64
	savesFailed      atomic.Int64
	autosavesSkipped atomic.Int64
	totalSaveTime    atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	Validations      int64
	SavesCompleted   int64
	SavesFailed      int64
	AutosavesSkipped int64
	AvgSaveDuration  time.Duration
}

func (m *BasicMetrics) OnValidated(ctx context.Context, findings []Finding, d time.Duration) {
	m.validations.Add(1)
}

func (m *BasicMetrics) OnSaveCompleted(ctx context.Context, snap *Snapshot, trigger SaveTrigger, d time.Duration) {
	m.savesCompleted.Add(1)
	m.totalSaveTime.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnSaveFailed(ctx context.Context, trigger SaveTrigger, err error) {
	m.savesFailed.Add(1)
}

func (m *BasicMetrics) OnAutosaveSkipped(ctx context.Context, findings int) {
	m.autosavesSkipped.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	saves := m.savesCompleted.Load()
	totalNs := m.totalSaveTime.Load()

	var avg time.Duration
	if saves > 0 {
		avg = time.Duration(totalNs / saves)
	}

	return BasicMetricsSnapshot{
		Validations:      m.validations.Load(),
		SavesCompleted:   saves,
		SavesFailed:      m.savesFailed.Load(),
		AutosavesSkipped: m.autosavesSkipped.Load(),
		AvgSaveDuration:  avg,
	}
}
