package blocked

import (
	"context"
	"testing"

	"github.com/hupe1980/gaugrid/internal/codegen"
)

func BenchmarkGenerateAll(b *testing.B) {
	for _, d := range []codegen.Dialect{codegen.C, codegen.Go} {
		b.Run(d.String(), func(b *testing.B) {
			b.ReportAllocs()
			g := New(d)
			ctx := context.Background()
			for b.Loop() {
				if _, err := g.GenerateAll(ctx, 6, 0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
