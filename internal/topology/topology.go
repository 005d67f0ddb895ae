package topology

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Mode selects the initial arrangement of points and springs.
type Mode string

const (
	Tetrahedron  Mode = "tetrahedron"
	CubeMinimal  Mode = "cubeMinimal"
	DenseLattice Mode = "denseLattice"
)

const (
	DefaultStiffness  = 10000.0 // N/m
	DefaultDropHeight = 0.2     // m
	DefaultMass       = 0.1     // kg

	// DenseLatticeSize is the number of points per axis of denseLattice.
	DenseLatticeSize = 10
	// latticeScale converts lattice indices to meters: coordinate = i / latticeScale.
	latticeScale = 10.0
)

// Params is the immutable generator configuration.
type Params struct {
	Stiffness  float64
	DropHeight float64
	Mass       float64
}

func DefaultParams() Params {
	return Params{
		Stiffness:  DefaultStiffness,
		DropHeight: DefaultDropHeight,
		Mass:       DefaultMass,
	}
}

func (p Params) Validate() error {
	if !(p.Stiffness > 0) || math.IsInf(p.Stiffness, 0) {
		return fmt.Errorf("stiffness must be positive, got %g: %w", p.Stiffness, dynamo.ErrParameterBounds)
	}
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("mass must be positive, got %g: %w", p.Mass, dynamo.ErrParameterBounds)
	}
	if !(p.DropHeight >= 0) || math.IsInf(p.DropHeight, 0) {
		return fmt.Errorf("drop height must be non-negative, got %g: %w", p.DropHeight, dynamo.ErrParameterBounds)
	}
	return nil
}

// Generator builds the arenas of one topology.
type Generator func(p Params) (*dynamo.Body, error)

type Registry struct {
	generators map[Mode]Generator
}

func NewRegistry() *Registry {
	r := &Registry{generators: make(map[Mode]Generator)}

	r.generators[Tetrahedron] = NewTetrahedron
	r.generators[CubeMinimal] = NewCube
	r.generators[DenseLattice] = func(p Params) (*dynamo.Body, error) {
		return NewLattice(DenseLatticeSize, p)
	}

	return r
}

func (r *Registry) Register(mode Mode, g Generator) {
	r.generators[mode] = g
}

// Generate builds and validates the body for mode. Unknown modes fail before
// any point is allocated.
func (r *Registry) Generate(mode Mode, p Params) (*dynamo.Body, error) {
	gen, ok := r.generators[mode]
	if !ok {
		return nil, fmt.Errorf("unknown topology %q: %w", mode, dynamo.ErrInvalidTopology)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	body, err := gen(p)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", mode, err)
	}
	if err := body.Validate(); err != nil {
		return nil, fmt.Errorf("generate %s: %w", mode, err)
	}
	return body, nil
}

func (r *Registry) Modes() []Mode {
	modes := make([]Mode, 0, len(r.generators))
	for m := range r.generators {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

var defaultRegistry = NewRegistry()

// Generate builds one of the built-in topologies.
func Generate(mode Mode, p Params) (*dynamo.Body, error) {
	return defaultRegistry.Generate(mode, p)
}

// Modes lists the built-in topology names.
func Modes() []Mode {
	return defaultRegistry.Modes()
}

// ParseMode validates a topology name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := defaultRegistry.generators[m]; !ok {
		return "", fmt.Errorf("unknown topology %q (available: %v): %w", s, Modes(), dynamo.ErrInvalidTopology)
	}
	return m, nil
}
