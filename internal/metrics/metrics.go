// Package metrics exposes Prometheus counters and histograms for the
// clustering engine's public operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AddTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clustermap_add_total",
		Help: "Total number of markers added",
	})
	RemoveTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clustermap_remove_total",
		Help: "Total number of markers removed",
	})
	RemoveNotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clustermap_remove_not_found_total",
		Help: "Total number of Remove calls for an unknown marker id",
	})
	RecomputeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clustermap_recompute_total",
		Help: "Total number of full recomputations",
	})
	RecomputeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clustermap_recompute_duration_ms",
		Help:    "Recompute duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 250, 500, 1000, 5000},
	})
	FrontierDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clustermap_frontier_duration_ms",
		Help:    "Frontier extraction duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100},
	})
	FrontierPointCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clustermap_frontier_points",
		Help:    "Number of points in a rendered frontier",
		Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000},
	})
	FrontierClusterCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clustermap_frontier_clusters",
		Help:    "Number of clusters in a rendered frontier",
		Buckets: []float64{0, 10, 50, 100, 500, 1000},
	})
	MarkersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clustermap_markers",
		Help: "Current number of live markers",
	})
)

func init() {
	prometheus.MustRegister(AddTotal)
	prometheus.MustRegister(RemoveTotal)
	prometheus.MustRegister(RemoveNotFoundTotal)
	prometheus.MustRegister(RecomputeTotal)
	prometheus.MustRegister(RecomputeDurationMs)
	prometheus.MustRegister(FrontierDurationMs)
	prometheus.MustRegister(FrontierPointCount)
	prometheus.MustRegister(FrontierClusterCount)
	prometheus.MustRegister(MarkersGauge)
}

// Handler returns the HTTP handler that serves the registered metrics.
func Handler() http.Handler { return promhttp.Handler() }
