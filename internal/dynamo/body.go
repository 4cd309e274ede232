package dynamo

// Body groups particles for rendering as connected segments. It stores
// handles into the owning World, never particle copies, and has no effect
// on the physics.
type Body struct {
	Name    string
	members []int
}

// Members returns a copy of the particle handles in reference order.
func (b *Body) Members() []int {
	out := make([]int, len(b.members))
	copy(out, b.members)
	return out
}

func (b *Body) Len() int { return len(b.members) }

