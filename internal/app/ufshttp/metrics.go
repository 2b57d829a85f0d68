package ufshttp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics: счётчики отдачи файлов в собственном реестре Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	BytesServed *prometheus.CounterVec
}

// NewMetrics создаёт и регистрирует счётчики.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ufs",
			Name:      "file_requests_total",
			Help:      "Total number of /ufs file requests",
		}, []string{"store", "encoding", "status_code"}),
		BytesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ufs",
			Name:      "file_bytes_served_total",
			Help:      "Uncompressed bytes read from stores and sent to clients",
		}, []string{"store"}),
	}
	reg.MustRegister(m.Requests, m.BytesServed)

	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр, чтобы другие слои могли добавить свои счётчики.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(store, encoding string, status int, bytes int64) {
	if m == nil {
		return
	}
	if encoding == encodingIdentity {
		encoding = "identity"
	}
	m.Requests.WithLabelValues(store, encoding, statusLabel(status)).Inc()
	if bytes > 0 {
		m.BytesServed.WithLabelValues(store).Add(float64(bytes))
	}
}

func statusLabel(status int) string {
	switch status {
	case http.StatusOK:
		return "200"
	case http.StatusNotFound:
		return "404"
	default:
		return "500"
	}
}
