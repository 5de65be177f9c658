// Package bmx280 reads ambient metrics from a Bosch BME280 on an I²C bus.
package bmx280

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"

	"github.com/triitium/ESP-ambient-logger/internal/sensor"
)

// PrimaryAddr and SecondaryAddr are the two I²C addresses a BME280 can
// be strapped to.
const (
	PrimaryAddr   = 0x76
	SecondaryAddr = 0x77
)

// WithLogger sets the logger for the driver
func WithLogger(logger *slog.Logger) func(*Driver) {
	return func(d *Driver) {
		d.logger = logger.With(slog.String("sensor", "bme280"))
	}
}

// Driver reads temperature, humidity and pressure from a BME280.
type Driver struct {
	bus i2c.BusCloser
	dev *bmxx80.Dev

	logger *slog.Logger
}

// New opens the I²C bus and probes for a BME280, falling back from the
// primary to the secondary address. Failure on both addresses means the
// device has nothing to report and is fatal to the caller.
func New(busName string, options ...func(*Driver)) (*Driver, error) {
	d := Driver{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&d)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initializing host drivers: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("opening I²C bus %q: %w", busName, err)
	}

	dev, err := bmxx80.NewI2C(bus, PrimaryAddr, &bmxx80.DefaultOpts)
	if err != nil {
		d.logger.Warn("no sensor on primary address, trying secondary",
			slog.String("bus", busName),
			slog.Int("addr", PrimaryAddr))

		dev, err = bmxx80.NewI2C(bus, SecondaryAddr, &bmxx80.DefaultOpts)
	}
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("no BME280 found on 0x%02x or 0x%02x: %w",
			PrimaryAddr, SecondaryAddr, err)
	}

	d.bus = bus
	d.dev = dev
	d.logger.Info("sensor initialized", slog.String("device", dev.String()))
	return &d, nil
}

// Sense performs one measurement of all three metrics.
func (d *Driver) Sense(_ context.Context) (sensor.Sample, error) {
	var env physic.Env
	if err := d.dev.Sense(&env); err != nil {
		return sensor.Sample{}, fmt.Errorf("sensing BME280: %w", err)
	}

	return sensor.Sample{
		Temperature: float32(env.Temperature.Celsius()),
		Humidity:    float32(env.Humidity) / float32(physic.PercentRH),
		Pressure:    float32(env.Pressure) / float32(100*physic.Pascal),
	}, nil
}

// Close halts the device and releases the bus.
func (d *Driver) Close() error {
	if err := d.dev.Halt(); err != nil {
		_ = d.bus.Close()
		return fmt.Errorf("halting BME280: %w", err)
	}
	return d.bus.Close()
}
