// Package metrics exposes the agent's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SamplesIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ambient_samples_ingested_total",
		Help: "Valid sensor samples recorded into the rolling windows",
	})
	SamplesRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ambient_samples_rejected_total",
		Help: "Sensor samples discarded because a metric read back invalid",
	})
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ambient_uploads_total",
		Help: "Upload attempts by outcome",
	}, []string{"result"})
	ConnectAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ambient_link_connect_attempts_total",
		Help: "Wireless connection attempts",
	})
	LinkState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ambient_link_state",
		Help: "Current link state (0 disconnected, 1 connecting, 2 connected)",
	})
)

// MustRegister registers all collectors with the default registry.
// Call it once at startup.
func MustRegister() {
	prometheus.MustRegister(SamplesIngested, SamplesRejected, Uploads,
		ConnectAttempts, LinkState)
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
