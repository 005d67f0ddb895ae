package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
)

// Simulator is the external scheduler: it owns a body and repeatedly asks
// the integrator to cover a requested increment of simulated time.
type Simulator struct {
	integrator Advancer
	body       *dynamo.Body
	initial    *dynamo.Body
	t          float64
	calls      int
	metrics    []Metric
	observers  []Observer
	logger     *log.Logger
	now        func() time.Time
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithClock replaces the wall clock used for throughput.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func New(integrator Advancer, body *dynamo.Body, opts ...Option) *Simulator {
	s := &Simulator{
		integrator: integrator,
		body:       body,
		initial:    body.Clone(),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Body() dynamo.View { return s.body }
func (s *Simulator) Time() float64     { return s.t }
func (s *Simulator) Calls() int        { return s.calls }

// Snapshot returns a copy of the body that is safe to hand to another goroutine.
func (s *Simulator) Snapshot() *dynamo.Body { return s.body.Clone() }

// Reset restores the body, in place, to what was passed to New and rewinds
// time to zero.
func (s *Simulator) Reset() {
	copy(s.body.Points, s.initial.Points)
	copy(s.body.Springs, s.initial.Springs)
	s.t = 0
	s.calls = 0
}

// Call advances the body by increment. On failure the simulated time is
// left where it was. Errors carry the 1-based number of the failing call.
func (s *Simulator) Call(increment float64) (CallStats, error) {
	n := s.integrator.Substeps(s.t, increment)

	start := s.now()
	t, err := s.integrator.Advance(s.body.Points, s.body.Springs, s.t, increment)
	elapsed := s.now().Sub(start)
	if err != nil {
		return CallStats{}, &dynamo.SimulationError{Call: s.calls + 1, Time: s.t, Wrapped: err}
	}

	s.t = t
	s.calls++

	stats := CallStats{Call: s.calls, Substeps: n, Elapsed: elapsed}
	if secs := elapsed.Seconds(); secs > 0 {
		stats.Throughput = float64(len(s.body.Springs)) * float64(n) / secs
	}

	s.logger.Debug("advance",
		"call", stats.Call,
		"t", s.t,
		"substeps", n,
		"elapsed", elapsed,
		"springs_per_sec", stats.Throughput,
	)

	if !s.body.IsValid() {
		return stats, &dynamo.SimulationError{Call: s.calls, Time: s.t, Wrapped: dynamo.ErrInvalidState}
	}
	return stats, nil
}

// Run makes ceil(Duration/Increment) calls, sampling the body after each.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	calls := int(math.Ceil(cfg.Duration/cfg.Increment - 1e-9))
	if calls < 1 {
		calls = 1
	}

	result := &Result{
		Samples:    make([]Sample, 0, calls+1),
		Throughput: make([]float64, 0, calls),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, s.sample())
	s.logger.Info("run",
		"points", len(s.body.Points),
		"springs", len(s.body.Springs),
		"calls", calls,
		"increment", cfg.Increment,
	)

	var runErr error
	for i := 0; i < calls; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		stats, err := s.Call(cfg.Increment)
		if err != nil {
			if cfg.ValidateState || !errors.Is(err, dynamo.ErrInvalidState) {
				runErr = err
				break
			}
			s.logger.Warn("invalid state", "call", stats.Call, "t", s.t)
		}

		result.Calls++
		result.Substeps += int64(stats.Substeps)
		result.SpringEvaluations += int64(stats.Substeps) * int64(len(s.body.Springs))
		result.Elapsed += stats.Elapsed
		if stats.Throughput > 0 {
			result.Throughput = append(result.Throughput, stats.Throughput)
		}

		for _, m := range s.metrics {
			m.Observe(s.body, s.t)
		}
		for _, obs := range s.observers {
			obs.OnCall(s.body, s.t)
		}
		result.Samples = append(result.Samples, s.sample())
	}

	result.FinalTime = s.t
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		s.logger.Error("run stopped", "call", s.calls, "t", s.t, "err", runErr)
		return result, runErr
	}

	s.logger.Info("run complete",
		"calls", result.Calls,
		"t", result.FinalTime,
		"substeps", result.Substeps,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

func (s *Simulator) validateConfig(cfg RunConfig) error {
	if !(cfg.Increment > 0) || math.IsInf(cfg.Increment, 0) {
		return fmt.Errorf("increment must be positive, got %g: %w", cfg.Increment, dynamo.ErrParameterBounds)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %g: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}

func (s *Simulator) sample() Sample {
	return Sample{
		Time:          s.t,
		Centroid:      metrics.Centroid(s.body),
		MinHeight:     metrics.MinHeight(s.body),
		KineticEnergy: metrics.KineticEnergy(s.body),
		MaxSpeed:      metrics.MaxSpeed(s.body),
	}
}
