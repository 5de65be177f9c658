package telemetry

import (
	"math"
	"strconv"
)

// Reading is one smoothed measurement of all three metrics. A metric
// with no valid samples yet is NaN; NaN is never coerced to zero.
type Reading struct {
	Temperature float32 // °C
	Humidity    float32 // %RH
	Pressure    float32 // hPa
}

// Defined reports whether every field carries a value.
func (r Reading) Defined() bool {
	return !math.IsNaN(float64(r.Temperature)) &&
		!math.IsNaN(float64(r.Humidity)) &&
		!math.IsNaN(float64(r.Pressure))
}

// centi renders a float with exactly two fractional digits on the wire,
// matching the collector's contract.
type centi float32

func (c centi) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(c), 'f', 2, 32), nil
}

type payload struct {
	APIKey  string  `json:"api_key"`
	Content content `json:"content"`
}

type content struct {
	Temperature centi `json:"temperature"`
	Humidity    centi `json:"humidity"`
	Pressure    centi `json:"pressure"`
}
