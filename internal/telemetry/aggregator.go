package telemetry

import (
	"context"
	"io"
	"log/slog"

	"github.com/triitium/ESP-ambient-logger/internal/metrics"
	"github.com/triitium/ESP-ambient-logger/internal/sensor"
)

// WithLogger sets the logger for the aggregator
func WithLogger(logger *slog.Logger) func(*Aggregator) {
	return func(a *Aggregator) {
		a.logger = logger.With(slog.String("component", "aggregator"))
	}
}

// Aggregator smooths instantaneous sensor readings over fixed-size
// rolling windows, one per metric. A sample with any invalid metric is
// discarded whole, so the three windows always hold values from the
// same set of ticks.
type Aggregator struct {
	driver sensor.Driver

	temperature *Window
	humidity    *Window
	pressure    *Window

	logger *slog.Logger
}

// NewAggregator creates an aggregator with empty windows of the given
// capacity.
func NewAggregator(driver sensor.Driver, capacity int, options ...func(*Aggregator)) *Aggregator {
	a := Aggregator{
		driver:      driver,
		temperature: NewWindow(capacity),
		humidity:    NewWindow(capacity),
		pressure:    NewWindow(capacity),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&a)
	}

	return &a
}

// Ingest pulls one sample from the driver. A read error or any NaN
// metric discards the whole sample; no window is touched. Sensor faults
// are never fatal, they only cost one sample.
func (a *Aggregator) Ingest(ctx context.Context) {
	sample, err := a.driver.Sense(ctx)
	if err != nil {
		a.logger.Warn("sensor read failed, skipping sample", slog.Any("error", err))
		metrics.SamplesRejected.Inc()
		return
	}
	if !sample.Valid() {
		a.logger.Warn("sensor returned invalid reading, skipping sample")
		metrics.SamplesRejected.Inc()
		return
	}

	a.temperature.Push(sample.Temperature)
	a.humidity.Push(sample.Humidity)
	a.pressure.Push(sample.Pressure)
	metrics.SamplesIngested.Inc()
}

// Reading returns the current smoothed reading. ok is false until at
// least one valid sample has been ingested. Repeated calls without an
// intervening Ingest return the identical value.
func (a *Aggregator) Reading() (Reading, bool) {
	r := Reading{
		Temperature: a.temperature.Average(),
		Humidity:    a.humidity.Average(),
		Pressure:    a.pressure.Average(),
	}
	return r, r.Defined()
}
