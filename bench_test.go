package gaugrid

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
)

func benchPoints(n int) [][3]float64 {
	rng := rand.New(rand.NewSource(7))
	points := make([][3]float64, n)
	for i := range points {
		points[i] = [3]float64{rng.Float64()*4 - 2, rng.Float64()*4 - 2, rng.Float64()*4 - 2}
	}
	return points
}

func BenchmarkCompute(b *testing.B) {
	points := benchPoints(1024)
	for _, L := range []int{0, 2, 4} {
		for deriv := 0; deriv <= MaxDerivativeOrder; deriv++ {
			b.Run(fmt.Sprintf("L=%d/deriv=%d", L, deriv), func(b *testing.B) {
				b.ReportAllocs()
				c := New()
				shell := Shell{L: L, Coeffs: []float64{0.4, 0.6}, Exponents: []float64{3.1, 0.7}}
				ctx := context.Background()

				// Warm the kernel cache so the loop measures evaluation only.
				if _, err := c.Compute(ctx, points, shell, WithDerivativeOrder(deriv)); err != nil {
					b.Fatal(err)
				}

				b.ResetTimer()
				for b.Loop() {
					if _, err := c.Compute(ctx, points, shell, WithDerivativeOrder(deriv)); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkKernelBuild(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		c := New()
		if _, err := c.KernelSource(3, "row"); err != nil {
			b.Fatal(err)
		}
	}
}
