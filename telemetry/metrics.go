package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	worldLabel      = "world"
	transitionLabel = "transition"
)

var (
	leafCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terralod_leaf_count",
		Help: "Current number of octree leaves.",
	}, []string{
		worldLabel,
	})

	transitionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terralod_transitions_applied",
		Help: "Transitions applied by refinement, by kind.",
	}, []string{
		worldLabel,
		transitionLabel,
	})

	refineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terralod_refine_duration_seconds",
		Help:    "Wall time of one refinement step.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{
		worldLabel,
	})

	chunksProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terralod_chunks_produced",
		Help: "Ready chunks emitted by the mesh pipeline.",
	}, []string{
		worldLabel,
	})

	groupBufferDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terralod_group_buffer_depth",
		Help: "Transition groups waiting for mesh completion.",
	}, []string{
		worldLabel,
	})
)

// InstrumentRefine records one refinement step's outcome.
func InstrumentRefine(world string, leaves, subdivisions, collapses int, start time.Time) {
	leafCount.With(prometheus.Labels{worldLabel: world}).Set(float64(leaves))
	transitionsApplied.With(prometheus.Labels{
		worldLabel:      world,
		transitionLabel: "subdivide",
	}).Add(float64(subdivisions))
	transitionsApplied.With(prometheus.Labels{
		worldLabel:      world,
		transitionLabel: "merge",
	}).Add(float64(collapses))
	refineDuration.With(prometheus.Labels{worldLabel: world}).
		Observe(time.Since(start).Seconds())
}

// InstrumentChunks counts chunks emitted by the pipeline.
func InstrumentChunks(world string, n int) {
	chunksProduced.With(prometheus.Labels{worldLabel: world}).Add(float64(n))
}

// InstrumentBufferDepth tracks the completion buffer's backlog.
func InstrumentBufferDepth(world string, depth int) {
	groupBufferDepth.With(prometheus.Labels{worldLabel: world}).Set(float64(depth))
}
