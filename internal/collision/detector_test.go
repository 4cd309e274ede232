package collision_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/collision"
	"github.com/san-kum/particles/internal/dynamo"
)

func spawn(w *dynamo.World, mass float64, pos dynamo.Vector3) int {
	i, err := w.Spawn(mass, pos, dynamo.Vector3{})
	Expect(err).NotTo(HaveOccurred())
	return i
}

var _ = Describe("Detector", func() {
	var (
		w   *dynamo.World
		det *collision.Detector
	)

	BeforeEach(func() {
		w = dynamo.NewWorld()
		det = collision.NewDetector()
	})

	It("finds nothing in an empty or single-particle world", func() {
		Expect(det.Detect(w)).To(BeEmpty())
		spawn(w, 1, dynamo.Vector3{})
		Expect(det.Detect(w)).To(BeEmpty())
	})

	It("uses sqrt(mass) radii with a strict inequality", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 4, dynamo.Vec3(3, 0, 0))
		Expect(det.Detect(w)).To(BeEmpty(), "touching spheres do not collide")

		w.Particle(1).Position = dynamo.Vec3(2.999, 0, 0)
		Expect(det.Detect(w)).To(Equal([]collision.Pair{{A: 0, B: 1}}))
	})

	It("agrees with Overlapping for every pair", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 4, dynamo.Vec3(3, 0, 0))
		spawn(w, 1, dynamo.Vec3(0, 1.5, 0))
		ps := w.Particles()
		Expect(collision.Overlapping(&ps[0], &ps[1])).To(BeFalse())
		Expect(collision.Overlapping(&ps[0], &ps[2])).To(BeTrue())
		Expect(collision.Overlapping(&ps[2], &ps[0])).To(BeTrue())
		Expect(det.Detect(w)).To(Equal([]collision.Pair{{A: 0, B: 2}}))
	})

	It("enumerates pairs once, outer then inner index ascending", func() {
		for i := 0; i < 4; i++ {
			spawn(w, 1, dynamo.Vec3(float64(i)*0.1, 0, 0))
		}
		Expect(det.Detect(w)).To(Equal([]collision.Pair{
			{0, 1}, {0, 2}, {0, 3},
			{1, 2}, {1, 3},
			{2, 3},
		}))
	})

	It("does not mutate the world", func() {
		spawn(w, 1, dynamo.Vec3(0, 0, 0))
		spawn(w, 1, dynamo.Vec3(0.5, 0, 0))
		before := w.Clone()
		det.Detect(w)
		Expect(w.Particles()).To(Equal(before.Particles()))
	})

	It("reports coincident particles as colliding", func() {
		spawn(w, 1, dynamo.Vec3(1, 1, 1))
		spawn(w, 1, dynamo.Vec3(1, 1, 1))
		Expect(det.Detect(w)).To(HaveLen(1))
	})

	Context("with ExcludeIntraBody", func() {
		BeforeEach(func() {
			a := spawn(w, 1, dynamo.Vec3(0, 0, 0))
			b := spawn(w, 1, dynamo.Vec3(0.5, 0, 0))
			spawn(w, 1, dynamo.Vec3(1, 0, 0))
			_, err := w.AddBody("rod", a, b)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps intra-body pairs by default", func() {
			Expect(det.Detect(w)).To(ContainElement(collision.Pair{A: 0, B: 1}))
		})

		It("skips pairs that share a body when enabled", func() {
			det.ExcludeIntraBody = true
			Expect(det.Detect(w)).To(Equal([]collision.Pair{{0, 2}, {1, 2}}))
		})
	})
})
