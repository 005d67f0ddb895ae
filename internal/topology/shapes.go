package topology

import (
	"fmt"
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// NewTetrahedron places four points on a regular tetrahedron with 0.2 m
// edges, base at the drop height, fully connected by six springs.
//
//	(±0.1, h, -0.1/√3), (0, h, 0.2/√3), (0, h + 0.4/√6, 0)
func NewTetrahedron(p Params) (*dynamo.Body, error) {
	h := p.DropHeight
	points := []dynamo.Point{
		dynamo.NewPoint(0.1, h, -0.1/math.Sqrt(3), p.Mass),
		dynamo.NewPoint(-0.1, h, -0.1/math.Sqrt(3), p.Mass),
		dynamo.NewPoint(0, h, 0.2/math.Sqrt(3), p.Mass),
		dynamo.NewPoint(0, h+0.4/math.Sqrt(6), 0, p.Mass),
	}
	return connectAll(points, p.Stiffness)
}

// NewCube builds the 2x2x2 lattice with 0.1 m edges, every pair connected.
// Index order is z + 2y + 4x.
func NewCube(p Params) (*dynamo.Body, error) {
	points := make([]dynamo.Point, 0, 8)
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				points = append(points, latticePoint(x, y, z, p))
			}
		}
	}
	return connectAll(points, p.Stiffness)
}

// NewLattice builds an n×n×n lattice with 0.1 m spacing. Each point connects
// to its seven forward neighbours (offsets in {0,1}³ minus the origin), so
// every unordered pair appears once and P1 < P2 for every spring.
// Index order is z + n·y + n²·x.
func NewLattice(n int, p Params) (*dynamo.Body, error) {
	if n < 1 {
		return nil, fmt.Errorf("lattice size must be positive, got %d: %w", n, dynamo.ErrParameterBounds)
	}

	points := make([]dynamo.Point, 0, n*n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				points = append(points, latticePoint(x, y, z, p))
			}
		}
	}

	index := func(x, y, z int) int { return z + n*y + n*n*x }
	springs := make([]dynamo.Spring, 0, LatticeSpringCount(n))
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				p1 := index(x, y, z)
				for x1 := x; x1 <= x+1 && x1 < n; x1++ {
					for y1 := y; y1 <= y+1 && y1 < n; y1++ {
						for z1 := z; z1 <= z+1 && z1 < n; z1++ {
							if x1 == x && y1 == y && z1 == z {
								continue
							}
							s, err := dynamo.NewSpring(points, p.Stiffness, p1, index(x1, y1, z1))
							if err != nil {
								return nil, err
							}
							springs = append(springs, s)
						}
					}
				}
			}
		}
	}

	return &dynamo.Body{Points: points, Springs: springs}, nil
}

// LatticeSpringCount is the number of forward-neighbour pairs in an n³ lattice.
func LatticeSpringCount(n int) int {
	if n < 1 {
		return 0
	}
	a, b := n-1, n
	// one, two and three axes advanced
	return 3*a*b*b + 3*a*a*b + a*a*a
}

func latticePoint(x, y, z int, p Params) dynamo.Point {
	return dynamo.NewPoint(
		float64(x)/latticeScale,
		p.DropHeight+float64(y)/latticeScale,
		float64(z)/latticeScale,
		p.Mass,
	)
}

func connectAll(points []dynamo.Point, k float64) (*dynamo.Body, error) {
	n := len(points)
	springs := make([]dynamo.Spring, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s, err := dynamo.NewSpring(points, k, i, j)
			if err != nil {
				return nil, err
			}
			springs = append(springs, s)
		}
	}
	return &dynamo.Body{Points: points, Springs: springs}, nil
}
