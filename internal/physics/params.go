package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

const (
	DefaultDt                   = 5e-7     // s
	DefaultGravity              = -9.81    // m/s², vertical axis
	DefaultGroundStiffness      = 100000.0 // N/m
	DefaultFriction             = 0.5
	DefaultDampingRate          = 1000.0 // 1/s, dampening = 1 - dt*rate
	DefaultOscillationAmplitude = 0.1
	DefaultOscillationFrequency = 10000.0 // rad/s

	// MinSpringDistance is the endpoint separation below which a spring
	// contributes no force.
	MinSpringDistance = 1e-12
)

// Params is the immutable integrator configuration.
type Params struct {
	Dt                   float64
	Gravity              float64
	GroundEnabled        bool
	GroundStiffness      float64
	Friction             float64
	DampingRate          float64
	OscillationAmplitude float64
	OscillationFrequency float64
}

func DefaultParams() Params {
	return Params{
		Dt:                   DefaultDt,
		Gravity:              DefaultGravity,
		GroundEnabled:        true,
		GroundStiffness:      DefaultGroundStiffness,
		Friction:             DefaultFriction,
		DampingRate:          DefaultDampingRate,
		OscillationAmplitude: DefaultOscillationAmplitude,
		OscillationFrequency: DefaultOscillationFrequency,
	}
}

func (p Params) Validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	if !(p.Dt > 0) || !finite(p.Dt) {
		return fmt.Errorf("dt must be positive, got %g: %w", p.Dt, dynamo.ErrParameterBounds)
	}
	if !finite(p.Gravity) {
		return fmt.Errorf("gravity must be finite, got %g: %w", p.Gravity, dynamo.ErrParameterBounds)
	}
	if !(p.GroundStiffness >= 0) || !finite(p.GroundStiffness) {
		return fmt.Errorf("ground stiffness must be non-negative, got %g: %w", p.GroundStiffness, dynamo.ErrParameterBounds)
	}
	if !(p.Friction >= 0) || !finite(p.Friction) {
		return fmt.Errorf("friction must be non-negative, got %g: %w", p.Friction, dynamo.ErrParameterBounds)
	}
	if !(p.DampingRate >= 0) || p.Dt*p.DampingRate >= 1 {
		return fmt.Errorf("damping rate %g with dt %g leaves no velocity: %w", p.DampingRate, p.Dt, dynamo.ErrParameterBounds)
	}
	if !finite(p.OscillationAmplitude) || math.Abs(p.OscillationAmplitude) >= 1 {
		return fmt.Errorf("oscillation amplitude must be in (-1, 1), got %g: %w", p.OscillationAmplitude, dynamo.ErrParameterBounds)
	}
	if !finite(p.OscillationFrequency) {
		return fmt.Errorf("oscillation frequency must be finite, got %g: %w", p.OscillationFrequency, dynamo.ErrParameterBounds)
	}
	return nil
}

// Dampening is the per-sub-step velocity factor.
func (p Params) Dampening() float64 {
	return 1 - p.Dt*p.DampingRate
}

// Adjust is the rest-length multiplier at simulated time t.
func (p Params) Adjust(t float64) float64 {
	return 1 + math.Sin(t*p.OscillationFrequency)*p.OscillationAmplitude
}

// EffectiveRestLength is l0 modulated by the actuation at time t.
func (p Params) EffectiveRestLength(l0, t float64) float64 {
	return l0 * p.Adjust(t)
}
