// Package sim provides a simulated ambient sensor for development runs
// on machines without the real hardware.
package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/triitium/ESP-ambient-logger/internal/sensor"
)

// Driver produces a slow random walk around typical indoor conditions.
type Driver struct {
	mu        sync.Mutex
	rng       *rand.Rand
	cur       sensor.Sample
	faultRate float64
}

// New creates a simulated driver. faultRate is the probability in [0,1]
// that a Sense reports an invalid (NaN) sample.
func New(seed int64, faultRate float64) *Driver {
	return &Driver{
		rng:       rand.New(rand.NewSource(seed)),
		cur:       sensor.Sample{Temperature: 21.5, Humidity: 45, Pressure: 1013.25},
		faultRate: faultRate,
	}
}

// Sense returns the next simulated sample.
func (d *Driver) Sense(_ context.Context) (sensor.Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rng.Float64() < d.faultRate {
		nan := float32(math.NaN())
		return sensor.Sample{Temperature: nan, Humidity: nan, Pressure: nan}, nil
	}

	d.cur.Temperature += float32(d.rng.NormFloat64() * 0.05)
	d.cur.Humidity += float32(d.rng.NormFloat64() * 0.2)
	d.cur.Pressure += float32(d.rng.NormFloat64() * 0.1)
	return d.cur, nil
}
