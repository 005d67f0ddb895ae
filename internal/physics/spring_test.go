package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/physics"
)

var _ = Describe("Spring force model", func() {
	var params physics.Params

	BeforeEach(func() {
		params = physics.DefaultParams()
	})

	Describe("effective rest length", func() {
		It("equals l0 at t=0", func() {
			Expect(params.EffectiveRestLength(0.1, 0)).To(Equal(0.1))
		})

		It("peaks at 1.1·l0 a quarter period in", func() {
			t := math.Pi / (2 * params.OscillationFrequency)
			Expect(params.EffectiveRestLength(0.1, t)).To(BeNumerically("~", 0.11, 1e-12))
		})

		It("bottoms out at 0.9·l0 three quarters in", func() {
			t := 3 * math.Pi / (2 * params.OscillationFrequency)
			Expect(params.EffectiveRestLength(0.1, t)).To(BeNumerically("~", 0.09, 1e-12))
		})

		It("is constant when the amplitude is zero", func() {
			params.OscillationAmplitude = 0
			Expect(params.EffectiveRestLength(0.1, 1.2345)).To(Equal(0.1))
		})
	})

	Describe("ApplySpringForces", func() {
		It("pulls a stretched pair together with equal and opposite forces", func() {
			points := []dynamo.Point{
				dynamo.NewPoint(0, 0, 0, 0.1),
				dynamo.NewPoint(0.2, 0, 0, 0.1),
			}
			springs := []dynamo.Spring{{K: 100, P1: 0, P2: 1, L0: 0.1}}

			physics.ApplySpringForces(points, springs, 1)

			Expect(points[0].FX).To(BeNumerically("~", 10, 1e-12))
			Expect(points[1].FX).To(BeNumerically("~", -10, 1e-12))
			Expect(points[0].FY).To(BeZero())
			Expect(points[0].FZ).To(BeZero())
			Expect(points[0].FX + points[1].FX).To(BeNumerically("~", 0, 1e-15))
		})

		It("pushes a compressed pair apart", func() {
			points := []dynamo.Point{
				dynamo.NewPoint(0, 0, 0, 0.1),
				dynamo.NewPoint(0, 0.05, 0, 0.1),
			}
			springs := []dynamo.Spring{{K: 100, P1: 0, P2: 1, L0: 0.1}}

			physics.ApplySpringForces(points, springs, 1)

			Expect(points[0].FY).To(BeNumerically("~", -5, 1e-12))
			Expect(points[1].FY).To(BeNumerically("~", 5, 1e-12))
		})

		It("distributes force along the separation vector", func() {
			points := []dynamo.Point{
				dynamo.NewPoint(0, 0, 0, 0.1),
				dynamo.NewPoint(0.3, 0, 0.4, 0.1),
			}
			springs := []dynamo.Spring{{K: 10, P1: 0, P2: 1, L0: 0.25}}

			physics.ApplySpringForces(points, springs, 1)

			// f = 10 * (0.5 - 0.25) = 2.5 along (0.6, 0, 0.8)
			Expect(points[0].FX).To(BeNumerically("~", 1.5, 1e-12))
			Expect(points[0].FZ).To(BeNumerically("~", 2.0, 1e-12))
			Expect(points[1].FX).To(BeNumerically("~", -1.5, 1e-12))
			Expect(points[1].FZ).To(BeNumerically("~", -2.0, 1e-12))
		})

		It("exerts nothing at rest length", func() {
			points := []dynamo.Point{
				dynamo.NewPoint(0, 0, 0, 0.1),
				dynamo.NewPoint(0, 0, 0.1, 0.1),
			}
			springs := []dynamo.Spring{{K: 1e4, P1: 0, P2: 1, L0: 0.1}}

			physics.ApplySpringForces(points, springs, 1)

			Expect(points[0].FZ).To(BeNumerically("~", 0, 1e-12))
			Expect(points[1].FZ).To(BeNumerically("~", 0, 1e-12))
		})

		It("contributes zero force when endpoints coincide", func() {
			points := []dynamo.Point{
				dynamo.NewPoint(0.1, 0.1, 0.1, 0.1),
				dynamo.NewPoint(0.1, 0.1, 0.1, 0.1),
			}
			springs := []dynamo.Spring{{K: 1e4, P1: 0, P2: 1, L0: 0.1}}

			physics.ApplySpringForces(points, springs, params.Adjust(0.3))

			for _, p := range points {
				Expect(math.IsNaN(p.FX) || math.IsNaN(p.FY) || math.IsNaN(p.FZ)).To(BeFalse())
				Expect(p.FX).To(BeZero())
				Expect(p.FY).To(BeZero())
				Expect(p.FZ).To(BeZero())
			}
			Expect(params.SpringForce(&dynamo.Body{Points: points, Springs: springs}, 0, 0.3)).To(BeZero())
		})
	})

	Describe("UpdateLengths", func() {
		It("caches the current endpoint distance", func() {
			points := []dynamo.Point{
				dynamo.NewPoint(0, 0, 0, 0.1),
				dynamo.NewPoint(0, 0.3, 0.4, 0.1),
			}
			springs := []dynamo.Spring{{K: 1, P1: 0, P2: 1, L0: 0.1, Length: 0.1}}

			physics.UpdateLengths(points, springs)

			Expect(springs[0].Length).To(BeNumerically("~", 0.5, 1e-12))
			Expect(springs[0].L0).To(Equal(0.1))
		})
	})
})
