// Package link keeps the wireless uplink alive without blocking the
// rest of the agent indefinitely or hammering the radio.
package link

import "time"

// State is the phase of the wireless connection lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Network is the capability the supervisor needs from the wireless stack.
type Network interface {
	// Status reports the live link state.
	Status() State

	// Begin initiates connection establishment without waiting for it
	// to complete.
	Begin() error

	// LocalAddr returns the interface address, for diagnostics only.
	LocalAddr() string
}

// Clock abstracts time so connection attempts can be tested without
// real delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }
