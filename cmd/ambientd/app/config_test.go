package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ambientd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
settings:
  logLevel: debug
sensor:
  type: sim
  sampleInterval: 5s
  windowSize: 20
wireless:
  type: static
upload:
  serverUrl: http://collector.local:8080
  endpoint: /api/readings
  apiKey: k1
  interval: 30s
debug:
  listenAddr: :9090
`

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	require.Equal(t, SensorSim, config.Sensor.Type)
	require.Equal(t, 5*time.Second, time.Duration(config.Sensor.SampleInterval))
	require.Equal(t, 20, config.Sensor.WindowSize)
	require.Equal(t, WirelessStatic, config.Wireless.Type)
	require.Equal(t, "http://collector.local:8080", config.Upload.ServerURL)
	require.Equal(t, 30*time.Second, time.Duration(config.Upload.Interval))
	require.Equal(t, ":9090", config.Debug.ListenAddr)

	level, err := config.Settings.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `
upload:
  serverUrl: http://collector.local
  apiKey: k1
`))
	require.NoError(t, err)

	require.Equal(t, SensorBME280, config.Sensor.Type)
	require.Equal(t, 2*time.Second, time.Duration(config.Sensor.SampleInterval))
	require.Equal(t, 10, config.Sensor.WindowSize)
	require.Equal(t, WirelessWPACli, config.Wireless.Type)
	require.Equal(t, "wlan0", config.Wireless.Interface)
	require.Equal(t, 10*time.Second, time.Duration(config.Wireless.RetryInterval))
	require.Equal(t, time.Minute, time.Duration(config.Upload.Interval))

	level, err := config.Settings.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing server url", `
upload:
  apiKey: k1
`},
		{"missing api key", `
upload:
  serverUrl: http://collector.local
`},
		{"unknown sensor type", `
sensor:
  type: dht22
upload:
  serverUrl: http://collector.local
  apiKey: k1
`},
		{"unknown wireless type", `
wireless:
  type: ethernet
upload:
  serverUrl: http://collector.local
  apiKey: k1
`},
		{"bad window size", `
sensor:
  windowSize: 0
upload:
  serverUrl: http://collector.local
  apiKey: k1
`},
		{"bad duration", `
sensor:
  sampleInterval: soon
upload:
  serverUrl: http://collector.local
  apiKey: k1
`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
