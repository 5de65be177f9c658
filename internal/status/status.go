// Package status serves the agent's diagnostic endpoints: a liveness
// check, a human-readable status page and Prometheus metrics.
package status

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/triitium/ESP-ambient-logger/internal/agent"
	"github.com/triitium/ESP-ambient-logger/internal/metrics"
)

// Snapshotter is the slice of agent.Agent the server needs.
type Snapshotter interface {
	Snapshot() agent.Snapshot
}

// Server serves diagnostics over HTTP.
type Server struct {
	agent Snapshotter
	mux   *http.ServeMux
}

// NewServer creates a diagnostics server over the given agent.
func NewServer(a Snapshotter) *Server {
	s := &Server{agent: a, mux: http.NewServeMux()}
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.Handle("/metrics", metrics.Handler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.agent.Snapshot()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "link: %s\n", snap.Link)

	if snap.ReadingOK {
		fmt.Fprintf(w, "temperature: %.2f °C\n", snap.Reading.Temperature)
		fmt.Fprintf(w, "humidity: %.2f %%RH\n", snap.Reading.Humidity)
		fmt.Fprintf(w, "pressure: %.2f hPa\n", snap.Reading.Pressure)
	} else {
		fmt.Fprintln(w, "reading: not yet available")
	}

	if !snap.SampledAt.IsZero() {
		fmt.Fprintf(w, "last sample: %s\n", humanize.Time(snap.SampledAt))
	}
	if !snap.UploadedAt.IsZero() {
		fmt.Fprintf(w, "last upload: %s (%d total)\n",
			humanize.Time(snap.UploadedAt), snap.Uploads)
	}
}
