package telemetry

import (
	"fmt"
	"math"
)

// Window is a fixed-capacity circular buffer of float32 samples. New
// entries overwrite the oldest once the buffer has wrapped. It is never
// cleared: the device keeps it for its whole uptime.
type Window struct {
	buf    []float32
	cursor int
	filled bool
}

// NewWindow creates an empty window holding up to capacity samples.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		panic(fmt.Sprintf("telemetry: invalid window capacity %d", capacity))
	}
	return &Window{buf: make([]float32, capacity)}
}

// Push records one sample, overwriting the oldest entry once full.
func (w *Window) Push(v float32) {
	w.buf[w.cursor] = v
	w.cursor = (w.cursor + 1) % len(w.buf)
	if w.cursor == 0 {
		w.filled = true
	}
}

// Len returns the number of valid entries: everything before the cursor
// until the first wrap, the whole buffer after.
func (w *Window) Len() int {
	if w.filled {
		return len(w.buf)
	}
	return w.cursor
}

// Average returns the arithmetic mean over the valid entries, or NaN
// when no sample has been recorded yet.
func (w *Window) Average() float32 {
	n := w.Len()
	if n == 0 {
		return float32(math.NaN())
	}

	var sum float32
	for _, v := range w.buf[:n] {
		sum += v
	}
	return sum / float32(n)
}
