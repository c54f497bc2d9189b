package blocked

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hupe1980/gaugrid/internal/codegen"
	"golang.org/x/sync/errgroup"
)

// HeaderDegree marks the artifact holding the C header.
const HeaderDegree = -1

// Artifact is one emitted source file.
type Artifact struct {
	Name   string
	L      int
	Source []byte
}

// Source renders the complete artifact for degree L.
func (g *Generator) Source(ctx context.Context, L, deriv int) (Artifact, error) {
	w := codegen.NewWriter(g.dialect)
	if err := g.file(w, L, deriv); err != nil {
		return Artifact{}, err
	}
	src, err := w.Render(ctx, g.formatter)
	if err != nil {
		return Artifact{}, fmt.Errorf("blocked: L=%d: %w", L, err)
	}
	return Artifact{Name: g.FileName(L), L: L, Source: src}, nil
}

// HeaderSource renders the C header for degrees 0..maxL.
func (g *Generator) HeaderSource(ctx context.Context, maxL int) (Artifact, error) {
	if g.dialect != codegen.C {
		return Artifact{}, fmt.Errorf("blocked: %s output has no header", g.dialect)
	}
	w := codegen.NewWriter(codegen.C)
	g.Header(w, maxL)
	src, err := w.Render(ctx, g.formatter)
	if err != nil {
		return Artifact{}, fmt.Errorf("blocked: header: %w", err)
	}
	return Artifact{Name: HeaderName, L: HeaderDegree, Source: src}, nil
}

// GenerateAll renders the kernels for degrees 0..maxL concurrently. The
// result is ordered by degree, preceded by the header for C output.
func (g *Generator) GenerateAll(ctx context.Context, maxL, deriv int) ([]Artifact, error) {
	if maxL < 0 {
		return nil, fmt.Errorf("blocked: invalid maximum degree %d", maxL)
	}

	kernels := make([]Artifact, maxL+1)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for L := 0; L <= maxL; L++ {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := g.Source(gctx, L, deriv)
			if err != nil {
				return err
			}
			kernels[L] = a
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.dialect != codegen.C {
		return kernels, nil
	}
	header, err := g.HeaderSource(ctx, maxL)
	if err != nil {
		return nil, err
	}
	return append([]Artifact{header}, kernels...), nil
}
