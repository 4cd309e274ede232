package collision

import "github.com/san-kum/particles/internal/dynamo"

// Pair holds two particle handles with A < B.
type Pair struct {
	A, B int
}

type Detector struct {
	// ExcludeIntraBody skips pairs whose particles share a body.
	ExcludeIntraBody bool
}

func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns every overlapping pair, outer index ascending, inner index
// ascending. It does not mutate the world.
func (d *Detector) Detect(w *dynamo.World) []Pair {
	ps := w.Particles()
	n := len(ps)
	var pairs []Pair

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if !Overlapping(&ps[i], &ps[j]) {
				continue
			}
			if d.ExcludeIntraBody && w.SharesBody(i, j) {
				continue
			}
			pairs = append(pairs, Pair{A: i, B: j})
		}
	}

	return pairs
}

// Overlapping reports whether the collision spheres of a and b intersect.
// Touching spheres do not overlap.
func Overlapping(a, b *dynamo.Particle) bool {
	r := a.Radius() + b.Radius()
	return b.Position.Sub(a.Position).LengthSquared() < r*r
}
