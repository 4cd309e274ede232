package dynamo

import "math"

// Vector3 is an immutable 3-component vector.
type Vector3 struct {
	X, Y, Z float64
}

// Vec3 is shorthand for Vector3{x, y, z}.
func Vec3(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) Add(o Vector3) Vector3   { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3   { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Dot(o Vector3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) LengthSquared() float64  { return v.Dot(v) }
func (v Vector3) Length() float64         { return math.Sqrt(v.LengthSquared()) }
func (v Vector3) Slice() []float64        { return []float64{v.X, v.Y, v.Z} }

// IsFinite reports whether no component is NaN or Inf.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// VectorFromSlice builds a Vector3 from the first three elements of s.
// Missing components are zero.
func VectorFromSlice(s []float64) Vector3 {
	var v Vector3
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	if len(s) > 2 {
		v.Z = s[2]
	}
	return v
}
