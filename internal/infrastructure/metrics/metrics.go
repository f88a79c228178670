package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Khata metrics
	KhatasCreated prometheus.Counter
	KhatasClosed  prometheus.Counter

	// Entry metrics
	EntriesCreated  *prometheus.CounterVec
	EntriesDeleted  prometheus.Counter
	EntriesRestored prometheus.Counter
	EntryAmount     prometheus.Histogram

	// Summary cache metrics
	SummaryCacheHits   prometheus.Counter
	SummaryCacheMisses prometheus.Counter

	// Verification metrics
	VerificationsRun    prometheus.Counter
	VerificationsFailed prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		KhatasCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_khatas_created_total",
			Help: "Total number of khatas created",
		}),
		KhatasClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_khatas_closed_total",
			Help: "Total number of khatas closed",
		}),
		EntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_entries_created_total",
				Help: "Total number of entries posted",
			},
			[]string{"type"},
		),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_entries_deleted_total",
			Help: "Total number of entries soft-deleted",
		}),
		EntriesRestored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_entries_restored_total",
			Help: "Total number of entries restored",
		}),
		EntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "khata_entry_amount",
			Help:    "Posted entry amounts",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),
		SummaryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_summary_cache_hits_total",
			Help: "Total number of summary requests served from cache",
		}),
		SummaryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_summary_cache_misses_total",
			Help: "Total number of summary requests computed from the database",
		}),
		VerificationsRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_verifications_total",
			Help: "Total number of aggregate verifications run",
		}),
		VerificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_verifications_failed_total",
			Help: "Total number of aggregate verifications that found drift",
		}),
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
			[]string{"result"},
		),
	}
}
