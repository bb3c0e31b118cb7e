// Package metrics exports editor and persistence events as Prometheus
// metrics through an api.Observer.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/petrijr/blockflow/pkg/api"
)

const namespace = "blockflow"

// Observer is an api.Observer that records Prometheus metrics. Combine it
// with a LoggingObserver via api.NewCompositeObserver.
type Observer struct {
	validations        prometheus.Counter
	findings           *prometheus.GaugeVec
	validationDuration prometheus.Histogram
	saves              *prometheus.CounterVec
	saveDuration       *prometheus.HistogramVec
	autosavesSkipped   prometheus.Counter
	saveStatus         *prometheus.GaugeVec
	loads              *prometheus.CounterVec
	discards           prometheus.Counter
}

var _ api.Observer = (*Observer)(nil)

// NewObserver creates the collectors and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{
		validations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of published validation passes",
		}),
		findings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "validation_findings",
			Help:      "Findings of the last published validation pass",
		}, []string{"type"}), // type: error, info
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of validation passes in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Total number of snapshot writes",
		}, []string{"trigger", "status"}), // trigger: manual, auto; status: success, error
		saveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Duration of successful snapshot writes in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"trigger"}),
		autosavesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosaves_skipped_total",
			Help:      "Autosaves not written because the graph had findings",
		}),
		saveStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "save_status",
			Help:      "1 for the current save status, 0 for the others",
		}, []string{"status"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Snapshot load attempts by result",
		}, []string{"result"}), // result: found, absent, ignored
		discards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_discarded_total",
			Help:      "Total number of discarded snapshots",
		}),
	}

	collectors := []prometheus.Collector{
		o.validations, o.findings, o.validationDuration,
		o.saves, o.saveDuration, o.autosavesSkipped,
		o.saveStatus, o.loads, o.discards,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	o.setStatus(api.SaveIdle)
	return o, nil
}

func (o *Observer) setStatus(current api.SaveStatus) {
	for _, s := range []api.SaveStatus{api.SaveIdle, api.SaveSaving, api.SaveSaved, api.SaveError} {
		v := 0.0
		if s == current {
			v = 1
		}
		o.saveStatus.WithLabelValues(string(s)).Set(v)
	}
}

func (o *Observer) OnValidated(ctx context.Context, findings []api.Finding, d time.Duration) {
	o.validations.Inc()
	o.validationDuration.Observe(d.Seconds())

	var errs, infos int
	for _, f := range findings {
		if f.Blocking() {
			errs++
		} else {
			infos++
		}
	}
	o.findings.WithLabelValues(string(api.SeverityError)).Set(float64(errs))
	o.findings.WithLabelValues(string(api.SeverityInfo)).Set(float64(infos))
}

func (o *Observer) OnStatusChanged(ctx context.Context, from, to api.SaveStatus) {
	o.setStatus(to)
}

func (o *Observer) OnSaveCompleted(ctx context.Context, snap *api.Snapshot, trigger api.SaveTrigger, d time.Duration) {
	o.saves.WithLabelValues(string(trigger), "success").Inc()
	o.saveDuration.WithLabelValues(string(trigger)).Observe(d.Seconds())
}

func (o *Observer) OnSaveFailed(ctx context.Context, trigger api.SaveTrigger, err error) {
	o.saves.WithLabelValues(string(trigger), "error").Inc()
}

func (o *Observer) OnAutosaveSkipped(ctx context.Context, findings int) {
	o.autosavesSkipped.Inc()
}

func (o *Observer) OnSnapshotLoaded(ctx context.Context, snap *api.Snapshot, err error) {
	switch {
	case err != nil:
		o.loads.WithLabelValues("ignored").Inc()
	case snap == nil:
		o.loads.WithLabelValues("absent").Inc()
	default:
		o.loads.WithLabelValues("found").Inc()
	}
}

func (o *Observer) OnSnapshotDiscarded(ctx context.Context) {
	o.discards.Inc()
}
