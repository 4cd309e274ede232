package collision

import "github.com/san-kum/particles/internal/dynamo"

// DegenerateEpsilon is the center distance below which the contact normal is
// undefined and FallbackNormal is used instead.
const DegenerateEpsilon = 1e-12

// FallbackNormal separates coincident particles along +X.
var FallbackNormal = dynamo.Vector3{X: 1}

type Resolver struct {
	policy Policy
}

// NewResolver returns a resolver using policy, or Reflect when policy is nil.
func NewResolver(policy Policy) *Resolver {
	if policy == nil {
		policy = NewReflect()
	}
	return &Resolver{policy: policy}
}

func (r *Resolver) Policy() Policy { return r.policy }

// Resolve applies positional correction and velocity response to each pair
// in order and returns how many pairs were still overlapping when reached.
func (r *Resolver) Resolve(w *dynamo.World, pairs []Pair) int {
	resolved := 0
	for _, pr := range pairs {
		if r.ResolvePair(w.Particle(pr.A), w.Particle(pr.B)) {
			resolved++
		}
	}
	return resolved
}

// ResolvePair separates a and b along their contact normal, the lighter
// particle moving further, then hands the normal to the policy. A pair that
// an earlier correction already pulled apart is left untouched.
func (r *Resolver) ResolvePair(a, b *dynamo.Particle) bool {
	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSquared()
	radiusSum := a.Radius() + b.Radius()
	if distSq >= radiusSum*radiusSum {
		return false
	}

	dist := delta.Length()
	normal := FallbackNormal
	if dist > DegenerateEpsilon {
		normal = delta.Scale(1 / dist)
	}

	overlap := radiusSum - dist
	total := a.Mass + b.Mass
	a.Position = a.Position.Sub(normal.Scale(overlap * (b.Mass / total)))
	b.Position = b.Position.Add(normal.Scale(overlap * (a.Mass / total)))

	r.policy.Respond(a, b, normal)
	return true
}
