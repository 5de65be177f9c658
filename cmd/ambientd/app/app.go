package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/triitium/ESP-ambient-logger/internal/agent"
	"github.com/triitium/ESP-ambient-logger/internal/link"
	"github.com/triitium/ESP-ambient-logger/internal/metrics"
	"github.com/triitium/ESP-ambient-logger/internal/sensor"
	"github.com/triitium/ESP-ambient-logger/internal/sensor/bmx280"
	"github.com/triitium/ESP-ambient-logger/internal/sensor/sim"
	"github.com/triitium/ESP-ambient-logger/internal/status"
	"github.com/triitium/ESP-ambient-logger/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// Run wires the agent from configuration and drives it until ctx is
// cancelled. Past this point the only fatal condition is an absent
// sensor; everything else is retried forever.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	metrics.MustRegister()

	driver, closeDriver, err := createDriver(&config.Sensor, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize sensor: %w", err)
	}
	defer closeDriver()

	network, err := createNetwork(&config.Wireless)
	if err != nil {
		return fmt.Errorf("failed to create network adapter: %w", err)
	}

	supervisor := link.NewSupervisor(network,
		time.Duration(config.Wireless.RetryInterval),
		link.WithLogger(logger))

	aggregator := telemetry.NewAggregator(driver, config.Sensor.WindowSize,
		telemetry.WithLogger(logger))

	uploader := telemetry.NewUploader(config.Upload.ServerURL,
		config.Upload.Endpoint, config.Upload.APIKey,
		telemetry.WithUploaderLogger(logger))

	a := agent.New(supervisor, aggregator, uploader,
		time.Duration(config.Sensor.SampleInterval),
		time.Duration(config.Upload.Interval),
		agent.WithLogger(logger))

	// Initial connection attempt before the loop starts, as on boot.
	supervisor.Advance(ctx, time.Now())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(ctx)
	})

	if config.Debug.ListenAddr != "" {
		srv := &http.Server{
			Addr:    config.Debug.ListenAddr,
			Handler: status.NewServer(a),
		}
		g.Go(func() error {
			logger.Info("serving diagnostics", slog.String("addr", config.Debug.ListenAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("diagnostics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func createDriver(config *SensorConfig, logger *slog.Logger) (sensor.Driver, func(), error) {
	switch config.Type {
	case SensorBME280:
		d, err := bmx280.New(config.I2CBus, bmx280.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return d, func() { _ = d.Close() }, nil

	case SensorSim:
		return sim.New(time.Now().UnixNano(), config.SimFaultRate), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown sensor type '%s'", config.Type)
	}
}

func createNetwork(config *WirelessConfig) (link.Network, error) {
	switch config.Type {
	case WirelessWPACli:
		return link.NewWPACli(config.Interface, config.SSID, config.Passphrase), nil

	case WirelessStatic:
		return link.NewStatic(""), nil

	default:
		return nil, fmt.Errorf("unknown wireless type '%s'", config.Type)
	}
}
