package link

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/triitium/ESP-ambient-logger/internal/metrics"
)

// DefaultPollInterval is how often an in-flight connection attempt
// polls the link status.
const DefaultPollInterval = 200 * time.Millisecond

// WithLogger sets the logger for the supervisor
func WithLogger(logger *slog.Logger) func(*Supervisor) {
	return func(s *Supervisor) {
		s.logger = logger.With(slog.String("component", "link"))
	}
}

// WithClock sets the time source used while waiting on an attempt
func WithClock(clock Clock) func(*Supervisor) {
	return func(s *Supervisor) {
		s.clock = clock
	}
}

// WithPollInterval sets the status poll interval of an attempt
func WithPollInterval(d time.Duration) func(*Supervisor) {
	return func(s *Supervisor) {
		s.pollInterval = d
	}
}

// Supervisor owns the link state machine. A failed attempt is never
// fatal: it is retried on a later Advance, no sooner than retryInterval
// after the previous attempt started.
type Supervisor struct {
	net           Network
	retryInterval time.Duration
	pollInterval  time.Duration

	clock  Clock
	logger *slog.Logger

	state       State
	lastAttempt time.Time
	attempted   bool
}

// NewSupervisor creates a supervisor around the given network capability.
// retryInterval bounds both the duration of one attempt and the minimum
// spacing between attempts.
func NewSupervisor(net Network, retryInterval time.Duration, options ...func(*Supervisor)) *Supervisor {
	s := Supervisor{
		net:           net,
		retryInterval: retryInterval,
		pollInterval:  DefaultPollInterval,
		clock:         SystemClock(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// State returns the state as of the last Advance.
func (s *Supervisor) State() State { return s.state }

// Advance drives the state machine one step. It is the only operation
// in the agent allowed to block, and blocks at most retryInterval while
// an attempt is in flight. It returns the resulting state.
func (s *Supervisor) Advance(ctx context.Context, now time.Time) State {
	defer func() { metrics.LinkState.Set(float64(s.state)) }()

	if s.net.Status() == Connected {
		s.state = Connected
		return s.state
	}

	if s.state == Connected {
		s.logger.Info("link lost")
		s.state = Disconnected
	}

	if s.attempted && now.Sub(s.lastAttempt) < s.retryInterval {
		return s.state
	}

	s.lastAttempt = now
	s.attempted = true
	s.state = Connecting
	metrics.ConnectAttempts.Inc()

	s.logger.Info("connecting")
	if err := s.net.Begin(); err != nil {
		s.logger.Warn("could not initiate connection, will retry",
			slog.Any("error", err))
		s.state = Disconnected
		return s.state
	}

	deadline := now.Add(s.retryInterval)
	for s.clock.Now().Before(deadline) {
		if ctx.Err() != nil {
			s.state = Disconnected
			return s.state
		}
		if s.net.Status() == Connected {
			s.state = Connected
			s.logger.Info("link established",
				slog.String("addr", s.net.LocalAddr()))
			return s.state
		}
		s.clock.Sleep(s.pollInterval)
	}

	s.logger.Info("connection attempt timed out, will retry")
	s.state = Disconnected
	return s.state
}
