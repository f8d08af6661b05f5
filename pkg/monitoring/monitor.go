package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds only the seeder metrics so a push does not carry process
// collectors from the default registry.
var Registry = prometheus.NewRegistry()

var (
	DocumentsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeder_documents_inserted_total",
			Help: "Total number of documents inserted per collection",
		},
		[]string{"collection"},
	)

	ScoresRecomputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seeder_scores_recomputed_total",
			Help: "Total number of score documents recomputed",
		},
	)

	PhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seeder_phase_duration_seconds",
			Help:    "Duration of each seeding phase",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"phase"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(DocumentsInserted)
		Registry.MustRegister(ScoresRecomputed)
		Registry.MustRegister(PhaseDuration)
	})
}

// ObservePhase records the time elapsed since start under phase.
func ObservePhase(phase string, start time.Time) {
	PhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// Push sends the registry to a Pushgateway. Batch jobs have no scrape window,
// so this is the only way the run metrics leave the process.
func Push(url, job string) error {
	return push.New(url, job).Gatherer(Registry).Push()
}
