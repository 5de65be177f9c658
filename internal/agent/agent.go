// Package agent runs the periodic sample/upload control loop that ties
// the link supervisor, the aggregator and the uploader together.
package agent

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/triitium/ESP-ambient-logger/internal/link"
	"github.com/triitium/ESP-ambient-logger/internal/telemetry"
)

// Supervisor is the slice of link.Supervisor the loop needs.
type Supervisor interface {
	Advance(ctx context.Context, now time.Time) link.State
}

// Aggregator is the slice of telemetry.Aggregator the loop needs.
type Aggregator interface {
	Ingest(ctx context.Context)
	Reading() (telemetry.Reading, bool)
}

// Sender is the slice of telemetry.Uploader the loop needs.
type Sender interface {
	Send(ctx context.Context, r telemetry.Reading) error
}

// Snapshot is the last state observed by the loop, for diagnostics.
type Snapshot struct {
	Link       link.State
	Reading    telemetry.Reading
	ReadingOK  bool
	SampledAt  time.Time
	UploadedAt time.Time
	Uploads    uint64
}

// WithLogger sets the logger for the agent
func WithLogger(logger *slog.Logger) func(*Agent) {
	return func(a *Agent) {
		a.logger = logger.With(slog.String("component", "agent"))
	}
}

// WithClock sets the time source driving the loop
func WithClock(clock link.Clock) func(*Agent) {
	return func(a *Agent) {
		a.clock = clock
	}
}

// Agent owns the control loop. All three components execute strictly
// sequentially within a tick; there is no shared mutable state between
// them.
type Agent struct {
	supervisor Supervisor
	aggregator Aggregator
	sender     Sender

	sampleInterval time.Duration
	uploadInterval time.Duration

	clock  link.Clock
	logger *slog.Logger

	lastUpload time.Time

	mu   sync.RWMutex
	snap Snapshot
}

// New wires an agent from its three components. The upload interval
// starts counting from construction, as it does from device boot.
func New(supervisor Supervisor, aggregator Aggregator, sender Sender,
	sampleInterval, uploadInterval time.Duration, options ...func(*Agent)) *Agent {

	a := Agent{
		supervisor:     supervisor,
		aggregator:     aggregator,
		sender:         sender,
		sampleInterval: sampleInterval,
		uploadInterval: uploadInterval,
		clock:          link.SystemClock(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&a)
	}

	a.lastUpload = a.clock.Now()
	return &a
}

// Tick runs one pass of the control loop: link first, then sampling,
// then upload eligibility. A tick may be consumed entirely by a
// connection attempt; with the link down it ends early.
func (a *Agent) Tick(ctx context.Context, now time.Time) {
	state := a.supervisor.Advance(ctx, now)
	if state != link.Connected {
		a.observe(func(s *Snapshot) { s.Link = state })
		return
	}

	a.aggregator.Ingest(ctx)
	reading, ok := a.aggregator.Reading()
	a.observe(func(s *Snapshot) {
		s.Link = state
		s.Reading = reading
		s.ReadingOK = ok
		s.SampledAt = now
	})

	if now.Sub(a.lastUpload) < a.uploadInterval {
		return
	}
	a.lastUpload = now

	if !ok {
		a.logger.Info("skipping upload, averages not yet defined")
		return
	}

	if err := a.sender.Send(ctx, reading); err != nil {
		a.logger.Warn("upload failed, dropping reading", slog.Any("error", err))
		return
	}
	a.observe(func(s *Snapshot) {
		s.UploadedAt = now
		s.Uploads++
	})
}

// Run drives Tick at the sample interval until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	tck := time.NewTicker(a.sampleInterval)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tck.C:
			a.Tick(ctx, a.clock.Now())
		}
	}
}

// Snapshot returns a copy of the loop's last observed state. It is safe
// to call from a goroutine other than the loop's.
func (a *Agent) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

func (a *Agent) observe(f func(*Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f(&a.snap)
}
