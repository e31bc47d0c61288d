// Package metrics exposes refresh and upstream counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	fetches  *prometheus.CounterVec
	refresh  *prometheus.CounterVec
	duration prometheus.Histogram
	stale    prometheus.Gauge
	records  *prometheus.GaugeVec
	lastSeq  prometheus.Gauge
}

// New builds the collectors and registers them with Go and process
// collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hygienedash_upstream_fetch_total",
			Help: "Upstream reads by endpoint and by whether live or fallback data was used.",
		}, []string{"endpoint", "source"}),
		refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hygienedash_refresh_total",
			Help: "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hygienedash_refresh_duration_seconds",
			Help:    "Wall time of refresh cycles.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}),
		stale: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hygienedash_snapshot_stale",
			Help: "1 when the committed snapshot contains fallback data.",
		}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hygienedash_snapshot_records",
			Help: "Records in the committed snapshot by collection.",
		}, []string{"collection"}),
		lastSeq: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hygienedash_snapshot_seq",
			Help: "Sequence number of the committed snapshot.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetches, m.refresh, m.duration, m.stale, m.records, m.lastSeq,
	)
	return m
}

// ObserveFetch implements upstream.FetchObserver.
func (m *Metrics) ObserveFetch(endpoint string, source upstream.Source) {
	m.fetches.WithLabelValues(endpoint, string(source)).Inc()
}

// ObserveRefresh implements dataset.RefreshObserver.
func (m *Metrics) ObserveRefresh(outcome string, elapsed time.Duration) {
	m.refresh.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveSnapshot updates the snapshot gauges. Subscribe it to the store.
func (m *Metrics) ObserveSnapshot(s dataset.Snapshot) {
	if s.Stale {
		m.stale.Set(1)
	} else {
		m.stale.Set(0)
	}
	m.records.WithLabelValues("attendance").Set(float64(len(s.Attendance)))
	m.records.WithLabelValues("users").Set(float64(len(s.Users)))
	m.lastSeq.Set(float64(s.Seq))
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

var (
	_ upstream.FetchObserver  = (*Metrics)(nil)
	_ dataset.RefreshObserver = (*Metrics)(nil)
)
