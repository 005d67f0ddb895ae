package topology

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/softbody/internal/dynamo"
)

func TestGenerateCounts(t *testing.T) {
	tests := []struct {
		mode    Mode
		points  int
		springs int
	}{
		{Tetrahedron, 4, 6},
		{CubeMinimal, 8, 28},
		{DenseLattice, 1000, 5859},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			body, err := Generate(tt.mode, DefaultParams())
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if len(body.Points) != tt.points {
				t.Errorf("expected %d points, got %d", tt.points, len(body.Points))
			}
			if len(body.Springs) != tt.springs {
				t.Errorf("expected %d springs, got %d", tt.springs, len(body.Springs))
			}
		})
	}
}

func TestRestLengthMatchesInitialDistance(t *testing.T) {
	for _, mode := range Modes() {
		body, err := Generate(mode, DefaultParams())
		if err != nil {
			t.Fatalf("%s: generate failed: %v", mode, err)
		}
		for i, s := range body.Springs {
			d := dynamo.Distance(body.Points[s.P1], body.Points[s.P2])
			if math.Abs(s.L0-d) > 1e-9 {
				t.Errorf("%s spring %d: l0 %.12f, distance %.12f", mode, i, s.L0, d)
			}
			if s.Length != s.L0 {
				t.Errorf("%s spring %d: cached length %f, expected %f", mode, i, s.Length, s.L0)
			}
			if s.K != DefaultStiffness {
				t.Errorf("%s spring %d: expected k %f, got %f", mode, i, DefaultStiffness, s.K)
			}
		}
	}
}

func TestDenseLatticeForwardNeighbours(t *testing.T) {
	body, err := Generate(DenseLattice, DefaultParams())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	seen := make(map[[2]int]bool, len(body.Springs))
	for i, s := range body.Springs {
		if s.P1 >= s.P2 {
			t.Errorf("spring %d points backward: %d -> %d", i, s.P1, s.P2)
		}
		key := [2]int{s.P1, s.P2}
		if seen[key] {
			t.Errorf("spring %d duplicates pair %v", i, key)
		}
		seen[key] = true

		x1, y1, z1 := s.P1/100, (s.P1/10)%10, s.P1%10
		x2, y2, z2 := s.P2/100, (s.P2/10)%10, s.P2%10
		for _, d := range []int{x2 - x1, y2 - y1, z2 - z1} {
			if d != 0 && d != 1 {
				t.Errorf("spring %d offset (%d,%d,%d) is not forward", i, x2-x1, y2-y1, z2-z1)
				break
			}
		}
	}

	if len(seen) != LatticeSpringCount(DenseLatticeSize) {
		t.Errorf("expected %d distinct pairs, got %d", LatticeSpringCount(DenseLatticeSize), len(seen))
	}
}

func TestDenseLatticeIndexing(t *testing.T) {
	p := DefaultParams()
	body, err := Generate(DenseLattice, p)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			for z := 0; z < 10; z++ {
				pt := body.Points[z+10*y+100*x]
				if pt.X != float64(x)/10 || pt.Y != p.DropHeight+float64(y)/10 || pt.Z != float64(z)/10 {
					t.Fatalf("point (%d,%d,%d) at (%f,%f,%f)", x, y, z, pt.X, pt.Y, pt.Z)
				}
				if pt.Mass != DefaultMass {
					t.Fatalf("point (%d,%d,%d) mass %f", x, y, z, pt.Mass)
				}
			}
		}
	}
}

func TestCubeLayout(t *testing.T) {
	p := Params{Stiffness: 500, DropHeight: 1.5, Mass: 0.2}
	body, err := Generate(CubeMinimal, p)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	minY := math.Inf(1)
	for i, pt := range body.Points {
		for _, v := range []float64{pt.X, pt.Z, pt.Y - p.DropHeight} {
			if math.Abs(v) > 1e-12 && math.Abs(v-0.1) > 1e-12 {
				t.Errorf("point %d coordinate %f not on the lattice", i, v)
			}
		}
		minY = math.Min(minY, pt.Y)
	}
	if minY != p.DropHeight {
		t.Errorf("expected lowest point at %f, got %f", p.DropHeight, minY)
	}

	for _, s := range body.Springs {
		if s.K != 500 {
			t.Errorf("expected k 500, got %f", s.K)
		}
	}
}

func TestTetrahedronIsRegular(t *testing.T) {
	body, err := Generate(Tetrahedron, DefaultParams())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for i, s := range body.Springs {
		if math.Abs(s.L0-0.2) > 1e-12 {
			t.Errorf("edge %d length %f, expected 0.2", i, s.L0)
		}
	}
	for i := 0; i < 3; i++ {
		if body.Points[i].Y != DefaultDropHeight {
			t.Errorf("base point %d at height %f", i, body.Points[i].Y)
		}
	}
}

func TestGenerateUnknownMode(t *testing.T) {
	body, err := Generate("octahedron", DefaultParams())
	if !errors.Is(err, dynamo.ErrInvalidTopology) {
		t.Errorf("expected ErrInvalidTopology, got %v", err)
	}
	if body != nil {
		t.Error("expected no body for unknown mode")
	}

	if _, err := ParseMode("cube"); !errors.Is(err, dynamo.ErrInvalidTopology) {
		t.Errorf("expected ErrInvalidTopology from ParseMode, got %v", err)
	}
	if m, err := ParseMode("denseLattice"); err != nil || m != DenseLattice {
		t.Errorf("expected denseLattice, got %q, %v", m, err)
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero stiffness", Params{Stiffness: 0, DropHeight: 0.2, Mass: 0.1}},
		{"negative mass", Params{Stiffness: 1, DropHeight: 0.2, Mass: -0.1}},
		{"negative drop", Params{Stiffness: 1, DropHeight: -0.2, Mass: 0.1}},
		{"NaN drop", Params{Stiffness: 1, DropHeight: math.NaN(), Mass: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(CubeMinimal, tt.params)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestLatticeSizes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		body, err := NewLattice(n, DefaultParams())
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(body.Points) != n*n*n {
			t.Errorf("n=%d: expected %d points, got %d", n, n*n*n, len(body.Points))
		}
		if len(body.Springs) != LatticeSpringCount(n) {
			t.Errorf("n=%d: expected %d springs, got %d", n, LatticeSpringCount(n), len(body.Springs))
		}
	}

	if _, err := NewLattice(0, DefaultParams()); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for empty lattice, got %v", err)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("pair", func(p Params) (*dynamo.Body, error) {
		points := []dynamo.Point{
			dynamo.NewPoint(0, p.DropHeight, 0, p.Mass),
			dynamo.NewPoint(0, p.DropHeight, 0, p.Mass),
		}
		return &dynamo.Body{Points: points, Springs: []dynamo.Spring{{K: p.Stiffness, P1: 0, P2: 1}}}, nil
	})

	if len(r.Modes()) != 4 {
		t.Errorf("expected 4 modes, got %v", r.Modes())
	}

	// coincident endpoints are rejected at generation
	if _, err := r.Generate("pair", DefaultParams()); !errors.Is(err, dynamo.ErrDegenerateSpring) {
		t.Errorf("expected ErrDegenerateSpring, got %v", err)
	}
}
