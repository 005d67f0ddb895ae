package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for body construction and integration.
var (
	// ErrInvalidTopology indicates an unrecognized topology mode.
	ErrInvalidTopology = errors.New("dynamo: invalid topology mode")

	// ErrIndexOutOfRange indicates a spring endpoint outside the point array.
	ErrIndexOutOfRange = errors.New("dynamo: spring endpoint index out of range")

	// ErrDegenerateSpring indicates a spring whose endpoints coincide or whose rest length is not positive.
	ErrDegenerateSpring = errors.New("dynamo: degenerate spring")

	// ErrInvalidMass indicates a point with non-positive mass.
	ErrInvalidMass = errors.New("dynamo: point mass must be positive")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates NaN or Inf in point positions or velocities.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrEmptyBody indicates a body with no points.
	ErrEmptyBody = errors.New("dynamo: body has no points")
)

// SimulationError wraps an error with the scheduler call that produced it.
type SimulationError struct {
	Call    int // 1-based scheduler call
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("call %d (t=%.6f): %v", e.Call, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
