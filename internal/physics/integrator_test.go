package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/physics"
	"github.com/san-kum/softbody/internal/topology"
)

func mustIntegrator(p physics.Params) *physics.Integrator {
	in, err := physics.New(p)
	Expect(err).NotTo(HaveOccurred())
	return in
}

func momentum(points []dynamo.Point) (float64, float64, float64) {
	var px, py, pz float64
	for _, p := range points {
		px += p.Mass * p.VX
		py += p.Mass * p.VY
		pz += p.Mass * p.VZ
	}
	return px, py, pz
}

var _ = Describe("Integrator", func() {
	var params physics.Params

	BeforeEach(func() {
		params = physics.DefaultParams()
	})

	Describe("New", func() {
		DescribeTable("rejects out-of-range parameters",
			func(mutate func(*physics.Params)) {
				mutate(&params)
				_, err := physics.New(params)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero dt", func(p *physics.Params) { p.Dt = 0 }),
			Entry("negative dt", func(p *physics.Params) { p.Dt = -1e-6 }),
			Entry("negative friction", func(p *physics.Params) { p.Friction = -0.1 }),
			Entry("negative ground stiffness", func(p *physics.Params) { p.GroundStiffness = -1 }),
			Entry("damping that zeroes velocity", func(p *physics.Params) { p.DampingRate = 2 / p.Dt }),
			Entry("amplitude of one", func(p *physics.Params) { p.OscillationAmplitude = 1 }),
			Entry("NaN gravity", func(p *physics.Params) { p.Gravity = math.NaN() }),
		)

		It("accepts the defaults", func() {
			in := mustIntegrator(params)
			Expect(in.Params()).To(Equal(params))
			Expect(params.Dampening()).To(BeNumerically("~", 1-5e-4, 1e-15))
		})
	})

	Describe("Step", func() {
		It("applies gravity to a free point and adds velocity straight to position", func() {
			in := mustIntegrator(params)
			points := []dynamo.Point{dynamo.NewPoint(0.5, 1, -0.5, 0.1)}

			t, err := in.Step(points, nil, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(params.Dt))

			vy := params.Gravity * params.Dt * params.Dampening()
			Expect(points[0].VY).To(BeNumerically("~", vy, 1e-18))
			Expect(points[0].Y).To(BeNumerically("~", 1+vy, 1e-15))
			Expect(points[0].X).To(Equal(0.5))
			Expect(points[0].Z).To(Equal(-0.5))
		})

		It("leaves every force accumulator at zero", func() {
			in := mustIntegrator(params)
			body, err := topology.NewCube(topology.DefaultParams())
			Expect(err).NotTo(HaveOccurred())
			// stretch the body so springs carry load
			for i := range body.Points {
				body.Points[i].X *= 1.2
			}

			_, err = in.Step(body.Points, body.Springs, 1e-4)
			Expect(err).NotTo(HaveOccurred())

			for _, p := range body.Points {
				Expect(p.FX).To(BeZero())
				Expect(p.FY).To(BeZero())
				Expect(p.FZ).To(BeZero())
			}
		})

		It("pushes a penetrating point up and sticks it when horizontal force is small", func() {
			params.Gravity = 0
			in := mustIntegrator(params)
			p := dynamo.NewPoint(0.2, -0.001, 0.3, 0.1)
			p.VX, p.VZ = 0.3, -0.2
			points := []dynamo.Point{p}

			_, err := in.Step(points, nil, 0)
			Expect(err).NotTo(HaveOccurred())

			// fy = 1e5 * 0.001 = 100 N
			Expect(points[0].VX).To(BeZero())
			Expect(points[0].VZ).To(BeZero())
			Expect(points[0].X).To(Equal(0.2))
			Expect(points[0].Z).To(Equal(0.3))
			Expect(points[0].VY).To(BeNumerically("~", 100/0.1*params.Dt*params.Dampening(), 1e-12))
		})

		It("subtracts fy·μ from both horizontal components when sliding", func() {
			params.Gravity = 0
			in := mustIntegrator(params)
			p := dynamo.NewPoint(0, -0.001, 0, 0.1)
			p.FX = 200
			points := []dynamo.Point{p}

			_, err := in.Step(points, nil, 0)
			Expect(err).NotTo(HaveOccurred())

			// fh = 200 >= |100 * 0.5|: fx = 200 - 50, fz = 0 - 50
			damp := params.Dampening()
			Expect(points[0].VX).To(BeNumerically("~", 150/0.1*params.Dt*damp, 1e-12))
			Expect(points[0].VZ).To(BeNumerically("~", -50/0.1*params.Dt*damp, 1e-12))
			Expect(points[0].FX).To(BeZero())
		})

		It("ignores the floor when ground contact is disabled", func() {
			params.GroundEnabled = false
			in := mustIntegrator(params)
			points := []dynamo.Point{dynamo.NewPoint(0, -1, 0, 0.1)}

			_, err := in.Step(points, nil, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(points[0].VY).To(BeNumerically("~", params.Gravity*params.Dt*params.Dampening(), 1e-18))
		})
	})

	Describe("momentum", func() {
		var points []dynamo.Point
		var springs []dynamo.Spring

		BeforeEach(func() {
			params.Gravity = 0
			params.GroundEnabled = false

			points = []dynamo.Point{
				dynamo.NewPoint(0, 1, 0, 0.1),
				dynamo.NewPoint(0.1, 1, 0.05, 0.3),
			}
			s, err := dynamo.NewSpring(points, physics.DefaultParams().GroundStiffness/10, 0, 1)
			Expect(err).NotTo(HaveOccurred())
			springs = []dynamo.Spring{s}
			// stretch it
			points[1].X = 0.15
		})

		It("is conserved without damping", func() {
			params.DampingRate = 0
			in := mustIntegrator(params)
			points[0].VX, points[0].VY = 2e-5, -1e-5
			points[1].VZ = 3e-5
			px0, py0, pz0 := momentum(points)

			t := 0.0
			var err error
			for i := 0; i < 20000; i++ {
				t, err = in.Step(points, springs, t)
				Expect(err).NotTo(HaveOccurred())
			}

			px, py, pz := momentum(points)
			Expect(px).To(BeNumerically("~", px0, 1e-12))
			Expect(py).To(BeNumerically("~", py0, 1e-12))
			Expect(pz).To(BeNumerically("~", pz0, 1e-12))
		})

		It("stays zero under damping when it starts at zero", func() {
			in := mustIntegrator(params)

			_, err := in.Advance(points, springs, 0, 0.01)
			Expect(err).NotTo(HaveOccurred())

			px, py, pz := momentum(points)
			Expect(px).To(BeNumerically("~", 0, 1e-12))
			Expect(py).To(BeNumerically("~", 0, 1e-12))
			Expect(pz).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("Advance", func() {
		It("reaches the target increment and refreshes cached lengths", func() {
			in := mustIntegrator(params)
			body, err := topology.NewCube(topology.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			t, err := in.Advance(body.Points, body.Springs, 0.25, 1e-4)
			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(BeNumerically(">=", 0.25+1e-4))
			Expect(t).To(BeNumerically("<", 0.25+1e-4+2*params.Dt))

			for _, s := range body.Springs {
				d := dynamo.Distance(body.Points[s.P1], body.Points[s.P2])
				Expect(s.Length).To(Equal(d))
			}
			Expect(body.IsValid()).To(BeTrue())
		})

		It("counts the sub-steps it will run", func() {
			in := mustIntegrator(params)
			n := in.Substeps(0, 1e-5)
			Expect(n).To(BeNumerically(">=", 20))
			Expect(n).To(BeNumerically("<=", 21))
		})

		It("runs the dense lattice without leaving residual forces", func() {
			in := mustIntegrator(params)
			body, err := topology.Generate(topology.DenseLattice, topology.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			_, err = in.Advance(body.Points, body.Springs, 0, 1e-5)
			Expect(err).NotTo(HaveOccurred())
			Expect(body.IsValid()).To(BeTrue())
			for _, p := range body.Points {
				Expect(p.FX == 0 && p.FY == 0 && p.FZ == 0).To(BeTrue())
			}
		})

		It("rejects out-of-range springs without touching the points", func() {
			in := mustIntegrator(params)
			points := []dynamo.Point{
				dynamo.NewPoint(0, 1, 0, 0.1),
				dynamo.NewPoint(0.1, 1, 0, 0.1),
			}
			springs := []dynamo.Spring{{K: 1, P1: 0, P2: 2, L0: 0.1}}
			before := append([]dynamo.Point(nil), points...)

			t, err := in.Advance(points, springs, 0.5, 0.1)
			Expect(err).To(MatchError(dynamo.ErrIndexOutOfRange))
			Expect(t).To(Equal(0.5))
			Expect(points).To(Equal(before))

			_, err = in.Step(points, []dynamo.Spring{{K: 1, P1: -1, P2: 0, L0: 0.1}}, 0)
			Expect(err).To(MatchError(dynamo.ErrIndexOutOfRange))
		})

		It("rejects bad increments, times and empty bodies", func() {
			in := mustIntegrator(params)
			points := []dynamo.Point{dynamo.NewPoint(0, 1, 0, 0.1)}

			_, err := in.Advance(points, nil, 0, 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			_, err = in.Advance(points, nil, 0, -0.1)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			_, err = in.Advance(points, nil, math.NaN(), 0.1)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			_, err = in.Advance(nil, nil, 0, 0.1)
			Expect(err).To(MatchError(dynamo.ErrEmptyBody))
		})

		It("drops a single point to rest on the floor without tunneling", func() {
			in := mustIntegrator(params)
			const mass = 0.1
			points := []dynamo.Point{dynamo.NewPoint(0.05, 0.2, -0.05, mass)}
			restDepth := mass * -params.Gravity / params.GroundStiffness

			t := 0.0
			var err error
			for t < 0.5 {
				t, err = in.Advance(points, nil, t, 0.1)
				Expect(err).NotTo(HaveOccurred())
			}

			p := points[0]
			Expect(p.Y).To(BeNumerically(">=", -2*restDepth))
			Expect(p.Y).To(BeNumerically("~", -restDepth, 1e-9))
			Expect(math.Abs(p.VY)).To(BeNumerically("<", 1e-9))
			Expect(p.VX).To(BeZero())
			Expect(p.VZ).To(BeZero())
			Expect(p.X).To(Equal(0.05))
			Expect(p.Z).To(Equal(-0.05))
		})
	})
})
