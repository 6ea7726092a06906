// Package metrics provides optional Prometheus instrumentation for the
// module's solvers. Unlike the teacher's application-level
// promauto.New*-backed package globals (safe for a single running server),
// a reusable library may have many solver instances alive at once, so
// every collector here is constructed per-instance against a caller-owned
// prometheus.Registerer rather than registered globally at package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors a caller may wire into SweepAndPrune's
// FindCollisions and FloydWarshallOptimized's Generate. Pass nil to a
// component's SetMetrics method to skip instrumentation.
type Metrics struct {
	CollisionPairsFound   prometheus.Counter
	BroadPhaseSweepSeconds prometheus.Histogram

	GenerateSeconds      *prometheus.HistogramVec
	BarrierWaitSeconds   prometheus.Histogram
	ParallelFallbackTotal prometheus.Counter
}

// New registers a fresh set of collectors against reg and returns them.
// Safe to call once per solver instance; calling it twice against the same
// Registerer with the same constant labels panics (Prometheus's own
// duplicate-registration guard), matching how promauto.New* behaves.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CollisionPairsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simkit_broadphase_collision_pairs_total",
			Help: "Total collision pairs reported by SweepAndPrune.FindCollisions.",
		}),
		BroadPhaseSweepSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "simkit_broadphase_sweep_seconds",
			Help:    "Time spent in a single FindCollisions sweep.",
			Buckets: prometheus.DefBuckets,
		}),
		GenerateSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simkit_floydwarshall_generate_seconds",
			Help:    "Time spent in FloydWarshallOptimized.Generate, by engine.",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine"}), // engine: "scalar", "simd", "parallel"
		BarrierWaitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "simkit_floydwarshall_barrier_wait_seconds",
			Help:    "Time a row-parallel worker spent spinning on the pivot barrier.",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		ParallelFallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simkit_floydwarshall_parallel_fallback_total",
			Help: "Times Generate fell back from the row-parallel engine because fewer than two workers were available.",
		}),
	}
	reg.MustRegister(
		m.CollisionPairsFound,
		m.BroadPhaseSweepSeconds,
		m.GenerateSeconds,
		m.BarrierWaitSeconds,
		m.ParallelFallbackTotal,
	)
	return m
}
