package dynamo

import (
	"math"
	"testing"
)

func TestVector3_Arithmetic(t *testing.T) {
	a := Vec3(1, 2, 3)
	b := Vec3(4, 5, 6)

	if got := a.Add(b); got != Vec3(5, 7, 9) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != Vec3(3, 3, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != Vec3(2, 4, 6) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if a != Vec3(1, 2, 3) {
		t.Error("operations mutated the receiver")
	}
}

func TestVector3_Length(t *testing.T) {
	tests := []struct {
		v        Vector3
		expected float64
	}{
		{Vec3(3, 4, 0), 5.0},
		{Vec3(0, 0, 0), 0.0},
		{Vec3(1, 2, 2), 3.0},
		{Vec3(-2, 0, 0), 2.0},
	}

	for _, tt := range tests {
		if got := tt.v.Length(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Length(%v) = %v, want %v", tt.v, got, tt.expected)
		}
		if got := tt.v.LengthSquared(); math.Abs(got-tt.expected*tt.expected) > 1e-12 {
			t.Errorf("LengthSquared(%v) = %v, want %v", tt.v, got, tt.expected*tt.expected)
		}
	}
}

func TestVector3_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector3
		valid bool
	}{
		{"zero", Vector3{}, true},
		{"normal", Vec3(1, -2, 3), true},
		{"NaN", Vec3(math.NaN(), 0, 0), false},
		{"+Inf", Vec3(0, math.Inf(1), 0), false},
		{"-Inf", Vec3(0, 0, math.Inf(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.valid {
				t.Errorf("IsFinite() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVectorFromSlice(t *testing.T) {
	if got := VectorFromSlice([]float64{1, 2, 3}); got != Vec3(1, 2, 3) {
		t.Errorf("got %v", got)
	}
	if got := VectorFromSlice([]float64{7}); got != Vec3(7, 0, 0) {
		t.Errorf("short slice: got %v", got)
	}
	if got := VectorFromSlice(nil); got != (Vector3{}) {
		t.Errorf("nil slice: got %v", got)
	}
}

func TestVector3_SliceRoundTrip(t *testing.T) {
	v := Vec3(1.5, -2, 3)
	s := v.Slice()
	if len(s) != 3 || s[0] != 1.5 || s[1] != -2 || s[2] != 3 {
		t.Errorf("Slice() = %v", s)
	}
	s[0] = 99
	if v.X != 1.5 {
		t.Error("Slice aliases the vector")
	}
	if got := VectorFromSlice(v.Slice()); got != v {
		t.Errorf("round trip: got %v, want %v", got, v)
	}
}
