package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

//
// Helpers
//

// countingObserver is a simple Observer implementation used to verify fan-out behavior.
type countingObserver struct {
	mu sync.Mutex

	validated   int
	transitions []SaveStatus
	completed   int
	failed      int
	skipped     int
	loaded      int
	discarded   int
}

func (o *countingObserver) OnValidated(ctx context.Context, findings []Finding, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.validated++
}

func (o *countingObserver) OnStatusChanged(ctx context.Context, from, to SaveStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, to)
}

func (o *countingObserver) OnSaveCompleted(ctx context.Context, snap *Snapshot, trigger SaveTrigger, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed++
}

func (o *countingObserver) OnSaveFailed(ctx context.Context, trigger SaveTrigger, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed++
}

func (o *countingObserver) OnAutosaveSkipped(ctx context.Context, findings int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped++
}

func (o *countingObserver) OnSnapshotLoaded(ctx context.Context, snap *Snapshot, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded++
}

func (o *countingObserver) OnSnapshotDiscarded(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.discarded++
}

// recordingHandler is a minimal slog.Handler that just records log records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cpy := slog.Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		cpy.AddAttrs(a)
		return true
	})
	h.records = append(h.records, cpy)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return h
}

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

func newTestSnapshot() *Snapshot {
	return &Snapshot{
		Nodes: []Node{{ID: "node_0", Kind: KindStart, Data: StartData{Label: "Start"}}},
		Metadata: Metadata{
			Name:      "Sample Workflow",
			Version:   "1.0.0",
			LastSaved: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

//
// NoopObserver / CompositeObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	ctx := context.Background()
	var o NoopObserver

	o.OnValidated(ctx, nil, time.Millisecond)
	o.OnStatusChanged(ctx, SaveIdle, SaveSaving)
	o.OnSaveCompleted(ctx, newTestSnapshot(), TriggerManual, time.Millisecond)
	o.OnSaveFailed(ctx, TriggerAuto, errors.New("boom"))
	o.OnAutosaveSkipped(ctx, 2)
	o.OnSnapshotLoaded(ctx, nil, nil)
	o.OnSnapshotDiscarded(ctx)
}

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	obs := NewCompositeObserver(nil, nil)
	if _, ok := obs.(NoopObserver); !ok {
		t.Fatalf("expected NoopObserver, got %T", obs)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &countingObserver{}
	obs := NewCompositeObserver(nil, single)
	if obs != single {
		t.Fatalf("expected the single observer to be returned as-is, got %T", obs)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	ctx := context.Background()
	a := &countingObserver{}
	b := &countingObserver{}

	obs := NewCompositeObserver(a, b)
	if _, ok := obs.(*CompositeObserver); !ok {
		t.Fatalf("expected *CompositeObserver, got %T", obs)
	}

	obs.OnValidated(ctx, nil, 0)
	obs.OnStatusChanged(ctx, SaveIdle, SaveSaving)
	obs.OnSaveCompleted(ctx, newTestSnapshot(), TriggerManual, 0)
	obs.OnSaveFailed(ctx, TriggerAuto, errors.New("quota"))
	obs.OnAutosaveSkipped(ctx, 1)
	obs.OnSnapshotLoaded(ctx, nil, nil)
	obs.OnSnapshotDiscarded(ctx)

	for name, o := range map[string]*countingObserver{"a": a, "b": b} {
		if o.validated != 1 || o.completed != 1 || o.failed != 1 || o.skipped != 1 || o.loaded != 1 || o.discarded != 1 {
			t.Fatalf("observer %s did not receive every event: %+v", name, o)
		}
		if len(o.transitions) != 1 || o.transitions[0] != SaveSaving {
			t.Fatalf("observer %s: expected one transition to saving, got %v", name, o.transitions)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilLoggerUsesDefault(t *testing.T) {
	obs := NewLoggingObserver(nil)
	lo, ok := obs.(*LoggingObserver)
	if !ok {
		t.Fatalf("expected *LoggingObserver, got %T", obs)
	}
	if lo.Logger == nil {
		t.Fatalf("expected default logger, got nil")
	}
}

func TestLoggingObserver_OnSaveCompleted_EmitsInfoLog(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnSaveCompleted(context.Background(), newTestSnapshot(), TriggerAuto, time.Millisecond)

	if len(h.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(h.records))
	}
	rec := h.records[0]
	if rec.Level != slog.LevelInfo {
		t.Fatalf("expected LevelInfo, got %v", rec.Level)
	}
	if rec.Message != "workflow_saved" {
		t.Fatalf("expected message workflow_saved, got %q", rec.Message)
	}
	attrs := attrsToMap(rec)
	if attrs["workflow"] != "Sample Workflow" {
		t.Fatalf("expected workflow attribute, got %v", attrs["workflow"])
	}
	if attrs["trigger"] != string(TriggerAuto) {
		t.Fatalf("expected trigger=auto, got %v", attrs["trigger"])
	}
}

func TestLoggingObserver_OnSaveFailed_EmitsErrorLog(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnSaveFailed(context.Background(), TriggerManual, errors.New("quota exceeded"))

	if len(h.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(h.records))
	}
	if h.records[0].Level != slog.LevelError {
		t.Fatalf("expected LevelError, got %v", h.records[0].Level)
	}
	if attrsToMap(h.records[0])["error"] == nil {
		t.Fatalf("expected error attribute")
	}
}

func TestLoggingObserver_OnSnapshotLoaded_LevelDependsOnOutcome(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnSnapshotLoaded(ctx, newTestSnapshot(), nil)
	o.OnSnapshotLoaded(ctx, nil, nil)
	o.OnSnapshotLoaded(ctx, nil, errors.New("bad json"))

	if len(h.records) != 3 {
		t.Fatalf("expected 3 log records, got %d", len(h.records))
	}
	want := []slog.Level{slog.LevelInfo, slog.LevelDebug, slog.LevelWarn}
	for i, lvl := range want {
		if h.records[i].Level != lvl {
			t.Fatalf("record %d: expected %v, got %v", i, lvl, h.records[i].Level)
		}
	}
}

func TestLoggingObserver_OnValidated_CountsBlocking(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnValidated(context.Background(), []Finding{
		{ID: "no-start-node", Type: SeverityInfo},
		{ID: "unconnected-nodes", Type: SeverityError},
	}, time.Microsecond)

	attrs := attrsToMap(h.records[0])
	if attrs["findings"] != int64(2) {
		t.Fatalf("expected findings=2, got %v", attrs["findings"])
	}
	if attrs["blocking"] != int64(1) {
		t.Fatalf("expected blocking=1, got %v", attrs["blocking"])
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_CountersAndSnapshot(t *testing.T) {
	var m BasicMetrics
	ctx := context.Background()

	m.OnValidated(ctx, nil, 0)
	m.OnValidated(ctx, nil, 0)
	m.OnSaveCompleted(ctx, newTestSnapshot(), TriggerManual, 2*time.Millisecond)
	m.OnSaveCompleted(ctx, newTestSnapshot(), TriggerAuto, 4*time.Millisecond)
	m.OnSaveFailed(ctx, TriggerAuto, errors.New("x"))
	m.OnAutosaveSkipped(ctx, 3)

	snap := m.Snapshot()
	if snap.Validations != 2 {
		t.Fatalf("expected 2 validations, got %d", snap.Validations)
	}
	if snap.SavesCompleted != 2 || snap.SavesFailed != 1 || snap.AutosavesSkipped != 1 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.AvgSaveDuration != 3*time.Millisecond {
		t.Fatalf("expected avg 3ms, got %v", snap.AvgSaveDuration)
	}
}

func TestBasicMetrics_SnapshotZeroSavesHasZeroAverage(t *testing.T) {
	var m BasicMetrics
	if got := m.Snapshot().AvgSaveDuration; got != 0 {
		t.Fatalf("expected zero average, got %v", got)
	}
}
