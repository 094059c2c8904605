package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer is the process wide metrics collector.
var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Cells,
		Observer.prometheus.Fit,
		Observer.prometheus.Requests,
		Observer.prometheus.Classify,
	)
}

type Metrics struct {
	prometheus Prometheus
}

// Cell counts an evaluated sweep cell.
func (m *Metrics) Cell(kind string, status string) {
	m.prometheus.Cells.WithLabelValues(kind, status).Inc()
}

// Fit tracks the training duration of a classifier.
func (m *Metrics) Fit(kind string, d time.Duration) {
	m.prometheus.Fit.WithLabelValues(kind).Observe(d.Seconds())
}

// Request counts a served http request.
func (m *Metrics) Request(route string, code int) {
	m.prometheus.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Classified counts a classified text.
func (m *Metrics) Classified(sentiment string, cached bool) {
	m.prometheus.Classify.WithLabelValues(sentiment, strconv.FormatBool(cached)).Inc()
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
