package infra

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus collectors exported on /metrics.
type Metrics struct {
	registry       *prometheus.Registry
	visitsRecorded *prometheus.CounterVec
	reportDegraded prometheus.Counter
	sweeps         *prometheus.CounterVec
	rowsPurged     prometheus.Counter
	httpRequests   *prometheus.CounterVec
}

// NewMetrics registers the service collectors on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		visitsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusconnect",
			Name:      "visits_recorded_total",
			Help:      "Visit recording attempts by result.",
		}, []string{"result"}),
		reportDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campusconnect",
			Name:      "visit_report_degraded_total",
			Help:      "Weekly reports served as an all-zero series after a storage failure.",
		}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusconnect",
			Name:      "visit_sweeps_total",
			Help:      "Retention sweeps by result.",
		}, []string{"result"}),
		rowsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campusconnect",
			Name:      "visit_rows_purged_total",
			Help:      "Visit events and daily buckets removed by retention sweeps.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusconnect",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.visitsRecorded, m.reportDegraded, m.sweeps, m.rowsPurged, m.httpRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) VisitRecorded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.visitsRecorded.WithLabelValues(result).Inc()
}

func (m *Metrics) ReportDegraded() {
	m.reportDegraded.Inc()
}

func (m *Metrics) SweepFinished(deleted int64, err error) {
	if err != nil {
		m.sweeps.WithLabelValues("error").Inc()
		return
	}
	m.sweeps.WithLabelValues("ok").Inc()
	m.rowsPurged.Add(float64(deleted))
}

func (m *Metrics) HTTPRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
