package thicket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const cameraLabel = "camera"

var (
	cullVisibleNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "thicket_cull_visible_nodes",
		Help: "The number of leaves in the last visibility tree of a camera.",
	}, []string{
		cameraLabel,
	})

	cullContainers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "thicket_cull_containers",
		Help: "The number of containers and cells in the last visibility tree of a camera.",
	}, []string{
		cameraLabel,
	})

	cullPruned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thicket_cull_pruned_total",
		Help: "The nodes rejected by a frustum test.",
	}, []string{
		cameraLabel,
	})

	cullPortals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thicket_cull_portals_total",
		Help: "The portals crossed during traversals.",
	}, []string{
		cameraLabel,
	})

	cullMalformedPortals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thicket_cull_malformed_portals_total",
		Help: "The portals skipped because their target or polygon was invalid.",
	}, []string{
		cameraLabel,
	})

	cullPoolExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thicket_cull_pool_exhausted_total",
		Help: "The nodes dropped because a visibility pool was full.",
	}, []string{
		cameraLabel,
	})

	cullAborts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thicket_cull_aborts_total",
		Help: "The frames that produced no visibility tree.",
	}, []string{
		cameraLabel,
	})

	cullLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "thicket_cull_latency_seconds",
		Help:    "The time to build a visibility tree.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	}, []string{
		cameraLabel,
	})
)

func instrumentCull(camera string, st CullStats) {
	labels := prometheus.Labels{cameraLabel: camera}
	cullVisibleNodes.With(labels).Set(float64(st.Visible))
	cullContainers.With(labels).Set(float64(st.Containers))
	cullPruned.With(labels).Add(float64(st.Pruned))
	cullPortals.With(labels).Add(float64(st.Portals))
	cullMalformedPortals.With(labels).Add(float64(st.MalformedPortals))
	cullPoolExhausted.With(labels).Add(float64(st.PoolExhausted))
	cullLatency.With(labels).Observe(st.Duration.Seconds())
}

func instrumentCullAbort(camera string) {
	cullAborts.
		With(prometheus.Labels{
			cameraLabel: camera,
		}).
		Inc()
}
