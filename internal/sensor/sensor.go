package sensor

import (
	"context"
	"math"
)

// Sample is one instantaneous reading of all three ambient metrics,
// already unit-converted. A metric the driver could not read is NaN.
type Sample struct {
	Temperature float32 // °C
	Humidity    float32 // %RH
	Pressure    float32 // hPa
}

// Valid reports whether every metric in the sample carries a usable value.
func (s Sample) Valid() bool {
	return !math.IsNaN(float64(s.Temperature)) &&
		!math.IsNaN(float64(s.Humidity)) &&
		!math.IsNaN(float64(s.Pressure))
}

// Driver is the capability the aggregator needs from an ambient sensor.
type Driver interface {
	// Sense reads all three metrics at once. Metrics that could not be
	// read come back as NaN; a non-nil error means the whole read failed.
	Sense(ctx context.Context) (Sample, error)
}
