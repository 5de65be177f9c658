package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SensorBME280 = "bme280"
	SensorSim    = "sim"

	WirelessWPACli = "wpa_cli"
	WirelessStatic = "static"
)

// Duration parses "250ms"/"10s" style values from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config represents the main agent configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Wireless WirelessConfig `yaml:"wireless"`
	Upload   UploadConfig   `yaml:"upload"`
	Debug    DebugConfig    `yaml:"debug"`
}

// Settings represents global agent settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level.
func (s Settings) Level() (slog.Level, error) {
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}

// SensorConfig represents the ambient sensor settings
type SensorConfig struct {
	Type           string   `yaml:"type"`
	I2CBus         string   `yaml:"i2cBus"`
	SampleInterval Duration `yaml:"sampleInterval"`
	WindowSize     int      `yaml:"windowSize"`
	SimFaultRate   float64  `yaml:"simFaultRate"`
}

// WirelessConfig represents the uplink settings
type WirelessConfig struct {
	Type          string   `yaml:"type"`
	Interface     string   `yaml:"interface"`
	SSID          string   `yaml:"ssid"`
	Passphrase    string   `yaml:"passphrase"`
	RetryInterval Duration `yaml:"retryInterval"`
}

// UploadConfig represents the collector settings
type UploadConfig struct {
	ServerURL string   `yaml:"serverUrl"`
	Endpoint  string   `yaml:"endpoint"`
	APIKey    string   `yaml:"apiKey"`
	Interval  Duration `yaml:"interval"`
}

// DebugConfig represents the diagnostics endpoint settings
type DebugConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// LoadConfig reads and validates the agent configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	config := Config{
		Sensor: SensorConfig{
			Type:           SensorBME280,
			SampleInterval: Duration(2 * time.Second),
			WindowSize:     10,
		},
		Wireless: WirelessConfig{
			Type:          WirelessWPACli,
			Interface:     "wlan0",
			RetryInterval: Duration(10 * time.Second),
		},
		Upload: UploadConfig{
			Interval: Duration(time.Minute),
		},
	}

	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	if err = config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Sensor.Type {
	case SensorBME280, SensorSim:
	default:
		return fmt.Errorf("unknown sensor type '%s'", c.Sensor.Type)
	}
	if c.Sensor.WindowSize <= 0 {
		return fmt.Errorf("invalid window size %d", c.Sensor.WindowSize)
	}
	if c.Sensor.SampleInterval <= 0 {
		return fmt.Errorf("invalid sample interval %v", time.Duration(c.Sensor.SampleInterval))
	}

	switch c.Wireless.Type {
	case WirelessWPACli, WirelessStatic:
	default:
		return fmt.Errorf("unknown wireless type '%s'", c.Wireless.Type)
	}
	if c.Wireless.RetryInterval <= 0 {
		return fmt.Errorf("invalid retry interval %v", time.Duration(c.Wireless.RetryInterval))
	}

	if c.Upload.ServerURL == "" {
		return fmt.Errorf("no collector server URL provided")
	}
	if c.Upload.APIKey == "" {
		return fmt.Errorf("no collector API key provided")
	}
	if c.Upload.Interval <= 0 {
		return fmt.Errorf("invalid upload interval %v", time.Duration(c.Upload.Interval))
	}

	return nil
}
