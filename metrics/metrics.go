// Package metrics exports Prometheus counters/gauges for the daemon's
// observability surface (SPEC_FULL.md §2a), grounded on
// postalsys-Muti-Metroo's internal/metrics package: one promauto
// factory bound to a namespace, one struct field per series.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "intentd"

// Metrics holds every exported series. PacketsSent, LSDBSize and
// KernelRoutes are also logged as structured METRIC_* lines via
// util/logger (SPEC_FULL.md §4.10), so those series and the log-based
// observability the original prototype relied on stay in sync; the
// other series are exported only.
type Metrics struct {
	PacketsSent  *prometheus.CounterVec
	LSDBSize     prometheus.Gauge
	KernelRoutes prometheus.Gauge
	FIBInstalls  *prometheus.CounterVec
	SPFFallbacks prometheus.Counter
	TickDuration prometheus.Histogram
}

// New creates a Metrics instance registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PacketsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_sent_total",
			Help:      "Total control packets sent, by message type.",
		}, []string{"type"}),
		LSDBSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lsdb_size",
			Help:      "Number of origins currently tracked in the LSDB.",
		}),
		KernelRoutes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kernel_routes",
			Help:      "Kernel routing table size, probed after each SPF/FIB install pass.",
		}),
		FIBInstalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fib_installs_total",
			Help:      "Total FIB install side effects issued, by outcome.",
		}, []string{"outcome"}),
		SPFFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spf_fallbacks_total",
			Help:      "Total times a constrained SPF failed and unconstrained SPF was used instead.",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one SPF/FIB install pass.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
