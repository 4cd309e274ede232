package collision

import (
	"math/rand"
	"testing"

	"github.com/san-kum/particles/internal/dynamo"
)

func BenchmarkDetect_500(b *testing.B) {
	rnd := rand.New(rand.NewSource(7))
	w := dynamo.NewWorld()
	for i := 0; i < 500; i++ {
		w.Spawn(0.5+rnd.Float64(), dynamo.Vec3(rnd.Float64()*60, rnd.Float64()*60, 0), dynamo.Vector3{})
	}
	det := NewDetector()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		det.Detect(w)
	}
}
