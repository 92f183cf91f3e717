// Package metrics records per-run dataset statistics in a private Prometheus
// registry and writes them in the node-exporter textfile format.
package metrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tunegen/tunegen/internal/platform/errors"
)

const namespace = "tunegen"

// RunStats is what a finished (or failed) run reports.
type RunStats struct {
	FilesCollected    int
	Skipped           map[string]int // reason -> count
	Tokens            int
	TrainingRecords   int
	ValidationRecords int
	Duration          time.Duration
	Success           bool
	FinishedAt        time.Time
}

type Recorder struct {
	registry *prometheus.Registry

	filesCollected prometheus.Gauge
	filesSkipped   *prometheus.GaugeVec
	tokens         prometheus.Gauge
	records        *prometheus.GaugeVec
	duration       prometheus.Gauge
	lastSuccess    prometheus.Gauge
	lastRunOK      prometheus.Gauge
}

// New creates a recorder whose series carry a constant project label.
func New(project string) *Recorder {
	labels := prometheus.Labels{"project": project}
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.filesCollected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "files_collected",
		Help:        "Files that survived ignore rules and were loaded as text.",
		ConstLabels: labels,
	})
	r.filesSkipped = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "files_skipped",
		Help:        "Files skipped during collection or loading, by reason.",
		ConstLabels: labels,
	}, []string{"reason"})
	r.tokens = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "tokens",
		Help:        "Aggregate token count of the last run.",
		ConstLabels: labels,
	})
	r.records = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "records",
		Help:        "Records written per partition.",
		ConstLabels: labels,
	}, []string{"partition"})
	r.duration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "run_duration_seconds",
		Help:        "Wall time of the last run.",
		ConstLabels: labels,
	})
	r.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run.",
		ConstLabels: labels,
	})
	r.lastRunOK = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "last_run_success",
		Help:        "1 if the last run succeeded, 0 otherwise.",
		ConstLabels: labels,
	})

	r.registry.MustRegister(
		r.filesCollected,
		r.filesSkipped,
		r.tokens,
		r.records,
		r.duration,
		r.lastSuccess,
		r.lastRunOK,
	)
	return r
}

func (r *Recorder) Observe(s RunStats) {
	r.filesCollected.Set(float64(s.FilesCollected))

	reasons := make([]string, 0, len(s.Skipped))
	for reason := range s.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		r.filesSkipped.WithLabelValues(reason).Set(float64(s.Skipped[reason]))
	}

	r.tokens.Set(float64(s.Tokens))
	r.records.WithLabelValues("training").Set(float64(s.TrainingRecords))
	r.records.WithLabelValues("validation").Set(float64(s.ValidationRecords))
	r.duration.Set(s.Duration.Seconds())
	if s.Success {
		r.lastRunOK.Set(1)
		r.lastSuccess.Set(float64(s.FinishedAt.Unix()))
	} else {
		r.lastRunOK.Set(0)
	}
}

// WriteTextfile atomically writes the registry to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.NewWrite(path, err)
	}
	return nil
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
