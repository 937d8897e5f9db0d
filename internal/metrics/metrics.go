// Package metrics exposes Prometheus instrumentation for the analysis
// service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis outcomes recorded on the request counter.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_analyses_total",
			Help: "Total analysis requests by outcome",
		},
		[]string{"outcome"},
	)
	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insights_analysis_duration_seconds",
			Help:    "Wall-clock time spent running one analysis",
			Buckets: prometheus.DefBuckets,
		},
	)
	uploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insights_upload_bytes",
			Help:    "Size of uploaded workbook payloads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. sessions
// reports the current in-memory session count for the gauge; pass nil
// when no registry is running (CLI modes). Must be called once at
// startup.
func Init(sessions func() float64) {
	initOnce.Do(func() {
		prometheus.MustRegister(analysesTotal, analysisDuration, uploadBytes)
		if sessions != nil {
			prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "insights_active_sessions",
				Help: "Analysis sessions currently held in memory",
			}, sessions))
		}
	})
}

// ObserveAnalysis records one analysis request and its duration.
func ObserveAnalysis(outcome string, d time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	analysisDuration.Observe(d.Seconds())
}

// ObserveUpload records the size of an uploaded workbook.
func ObserveUpload(bytes int64) {
	uploadBytes.Observe(float64(bytes))
}
