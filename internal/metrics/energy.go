package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// TotalEnergy is kinetic + spring + gravitational energy of a body.
func TotalEnergy(v dynamo.View, gravity float64) float64 {
	return KineticEnergy(v) + SpringEnergy(v) + GravityEnergy(v, gravity)
}

type Energy struct {
	name        string
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(v dynamo.View, t float64) {
	e.totalEnergy += TotalEnergy(v, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change in total energy from the
// first observation. The body is driven and damped, so drift is expected;
// a sudden jump points at an unstable sub-step.
type EnergyDrift struct {
	name          string
	gravity       float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(v dynamo.View, t float64) {
	energy := TotalEnergy(v, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
