package lyap

import (
	"fmt"
	"testing"
)

// The two strategy families differ asymptotically: the direct solve is
// O(m⁶), the bilinear path O(m³). The benchmarks document the crossover on
// a given machine; the Auto threshold exists because it does not generalize
// across hardware.

func sizeName(m int) string {
	return fmt.Sprintf("m=%d", m)
}

func BenchmarkDirect(b *testing.B) {
	for _, m := range []int{2, 5, 10, 20} {
		tm := stableMatrix(m)
		q := hermitianPSD(m)
		b.Run(sizeName(m), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := SolveDirect(tm, q); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBilinear2(b *testing.B) {
	for _, m := range []int{2, 5, 10, 20, 50} {
		tm := stableMatrix(m)
		q := hermitianPSD(m)
		b.Run(sizeName(m), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := SolveBilinear2(tm, q); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
