package images

import (
	"math/rand"
	"testing"
)

// BenchmarkIoU_NonOverlapping tests boxes that don't overlap.
// This returns early because the intersection is empty.
func BenchmarkIoU_NonOverlapping(b *testing.B) {
	rect1 := Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}
	rect2 := Rect{Left: 200, Top: 200, Right: 300, Bottom: 300}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(rect1, rect2, EdgesInclusive)
	}
}

// BenchmarkIoU_FullOverlap tests identical boxes (IoU = 1.0).
// This exercises the full calculation path with maximum intersection.
func BenchmarkIoU_FullOverlap(b *testing.B) {
	rect1 := Rect{Left: 50, Top: 50, Right: 150, Bottom: 150}
	rect2 := Rect{Left: 50, Top: 50, Right: 150, Bottom: 150}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(rect1, rect2, EdgesInclusive)
	}
}

// BenchmarkIoU_Random compares boxes drawn from a 416x416 frame, the shape of
// a typical suppression workload.
func BenchmarkIoU_Random(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	boxes := make([]Rect, 1024)
	for i := range boxes {
		x, y := rng.Float32()*380, rng.Float32()*380
		boxes[i] = Rect{Left: x, Top: y, Right: x + rng.Float32()*36, Bottom: y + rng.Float32()*36}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(boxes[i%len(boxes)], boxes[(i+1)%len(boxes)], EdgesInclusive)
	}
}
