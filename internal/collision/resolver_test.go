package collision_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/collision"
	"github.com/san-kum/particles/internal/dynamo"
)

const tol = 1e-9

var _ = Describe("Resolver", func() {
	var (
		w   *dynamo.World
		det *collision.Detector
		res *collision.Resolver
	)

	pass := func() int {
		return res.Resolve(w, det.Detect(w))
	}

	BeforeEach(func() {
		w = dynamo.NewWorld()
		det = collision.NewDetector()
		res = collision.NewResolver(nil)
	})

	It("defaults to the reflect policy", func() {
		Expect(res.Policy().Name()).To(Equal("reflect"))
	})

	It("leaves separated particles untouched", func() {
		w.Spawn(1, dynamo.Vec3(0, 0, 0), dynamo.Vec3(1, 0, 0))
		w.Spawn(1, dynamo.Vec3(2.5, 0, 0), dynamo.Vec3(-1, 0, 0))
		before := w.Clone()

		Expect(pass()).To(Equal(0))
		Expect(w.Particles()).To(Equal(before.Particles()))
	})

	It("splits the overlap in inverse proportion to mass", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 4, dynamo.Vec3(0.5, 0, 0))

		Expect(pass()).To(Equal(1))

		a, b := w.Particle(0).Position, w.Particle(1).Position
		// overlap 2.5: A takes 4/5 of it, B takes 1/5
		Expect(a.X).To(BeNumerically("~", -2.0, tol))
		Expect(b.X).To(BeNumerically("~", 1.0, tol))
		Expect(a.Y).To(BeZero())
		Expect(b.Sub(a).Length()).To(BeNumerically("~", 3.0, tol))
	})

	It("is a fixed point once the pair sits at the radius sum", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 4, dynamo.Vec3(3, 0, 0))
		before := w.Clone()

		Expect(pass()).To(Equal(0))
		Expect(w.Particles()).To(Equal(before.Particles()))
	})

	It("separates along an oblique normal", func() {
		spawn(w, 2, dynamo.Vec3(0, 0, 0))
		spawn(w, 2, dynamo.Vec3(0.3, 0.4, 0))

		pass()

		d := w.Particle(1).Position.Sub(w.Particle(0).Position)
		Expect(d.Length()).To(BeNumerically("~", 2*1.4142135623730951, tol))
		Expect(d.X / d.Y).To(BeNumerically("~", 0.75, tol))
	})

	It("reflects each particle's own normal velocity component", func() {
		w.Spawn(1, dynamo.Vec3(0, 0, 0), dynamo.Vec3(1, 2, 0))
		w.Spawn(1, dynamo.Vec3(1, 0, 0), dynamo.Vec3(-3, 0, 5))

		pass()

		Expect(w.Particle(0).Velocity).To(Equal(dynamo.Vec3(-1, 2, 0)))
		Expect(w.Particle(1).Velocity).To(Equal(dynamo.Vec3(3, 0, 5)))
	})

	It("stays finite for coincident particles", func() {
		spawn(w, 1, dynamo.Vec3(2, 2, 2))
		spawn(w, 1, dynamo.Vec3(2, 2, 2))

		Expect(pass()).To(Equal(1))

		Expect(w.IsFinite()).To(BeTrue())
		Expect(w.Particle(0).Position).To(Equal(dynamo.Vec3(1, 2, 2)))
		Expect(w.Particle(1).Position).To(Equal(dynamo.Vec3(3, 2, 2)))
	})

	It("applies pairs sequentially so later pairs see earlier corrections", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 1, dynamo.Vec3(1.5, 0, 0))
		spawn(w, 1, dynamo.Vec3(-1.5, 0, 0))

		pairs := det.Detect(w)
		Expect(pairs).To(Equal([]collision.Pair{{0, 1}, {0, 2}}))
		res.Resolve(w, pairs)

		Expect(w.Particle(0).Position.X).To(BeNumerically("~", 0.125, tol))
		Expect(w.Particle(1).Position.X).To(BeNumerically("~", 1.75, tol))
		Expect(w.Particle(2).Position.X).To(BeNumerically("~", -1.875, tol))
	})

	It("skips a detected pair that an earlier correction already separated", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 1, dynamo.Vec3(1.9, 0, 0))
		spawn(w, 1, dynamo.Vec3(0.2, 0, 0))

		// (0,2) goes first and pushes 0 to -0.9, out of reach of 1.
		resolved := res.Resolve(w, []collision.Pair{{0, 2}, {0, 1}})
		Expect(resolved).To(Equal(1))
	})

	Describe("Impulse policy", func() {
		BeforeEach(func() {
			p, err := collision.NewImpulse(1)
			Expect(err).NotTo(HaveOccurred())
			res = collision.NewResolver(p)
		})

		It("swaps velocities of equal masses in a head-on elastic hit", func() {
			w.Spawn(1, dynamo.Vec3(0, 0, 0), dynamo.Vec3(1, 0, 0))
			w.Spawn(1, dynamo.Vec3(1, 0, 0), dynamo.Vec3(-1, 0, 0))

			pass()

			Expect(w.Particle(0).Velocity.X).To(BeNumerically("~", -1, tol))
			Expect(w.Particle(1).Velocity.X).To(BeNumerically("~", 1, tol))
		})

		It("conserves momentum for unequal masses", func() {
			w.Spawn(1, dynamo.Vec3(0, 0, 0), dynamo.Vec3(2, 1, 0))
			w.Spawn(3, dynamo.Vec3(1, 0.5, 0), dynamo.Vec3(-1, 0, 0))
			momentum := func() dynamo.Vector3 {
				a, b := w.Particle(0), w.Particle(1)
				return a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))
			}
			before := momentum()

			pass()

			after := momentum()
			Expect(after.X).To(BeNumerically("~", before.X, tol))
			Expect(after.Y).To(BeNumerically("~", before.Y, tol))
		})

		It("leaves separating pairs' velocities alone", func() {
			w.Spawn(1, dynamo.Vec3(0, 0, 0), dynamo.Vec3(-1, 0, 0))
			w.Spawn(1, dynamo.Vec3(1, 0, 0), dynamo.Vec3(1, 0, 0))

			pass()

			Expect(w.Particle(0).Velocity).To(Equal(dynamo.Vec3(-1, 0, 0)))
			Expect(w.Particle(1).Velocity).To(Equal(dynamo.Vec3(1, 0, 0)))
		})

		It("rejects restitution outside [0,1]", func() {
			_, err := collision.NewImpulse(1.5)
			Expect(err).To(HaveOccurred())
			_, err = collision.NewImpulse(-0.1)
			Expect(err).To(HaveOccurred())
		})
	})
})
