package status

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/triitium/ESP-ambient-logger/internal/agent"
	"github.com/triitium/ESP-ambient-logger/internal/link"
	"github.com/triitium/ESP-ambient-logger/internal/telemetry"
)

type stubAgent struct {
	snap agent.Snapshot
}

func (s *stubAgent) Snapshot() agent.Snapshot { return s.snap }

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Healthz(t *testing.T) {
	srv := NewServer(&stubAgent{})
	require.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestServer_StatusWithReading(t *testing.T) {
	srv := NewServer(&stubAgent{snap: agent.Snapshot{
		Link: link.Connected,
		Reading: telemetry.Reading{
			Temperature: 21.57,
			Humidity:    48.2,
			Pressure:    1009.8,
		},
		ReadingOK:  true,
		SampledAt:  time.Now().Add(-2 * time.Second),
		UploadedAt: time.Now().Add(-30 * time.Second),
		Uploads:    7,
	}})

	rec := get(t, srv, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "link: connected")
	require.Contains(t, body, "temperature: 21.57")
	require.Contains(t, body, "humidity: 48.20")
	require.Contains(t, body, "pressure: 1009.80")
	require.Contains(t, body, "last upload")
	require.Contains(t, body, "(7 total)")
}

func TestServer_StatusBeforeFirstReading(t *testing.T) {
	srv := NewServer(&stubAgent{snap: agent.Snapshot{Link: link.Disconnected}})

	body := get(t, srv, "/status").Body.String()
	require.Contains(t, body, "link: disconnected")
	require.Contains(t, body, "reading: not yet available")
}
