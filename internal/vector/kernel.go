package vector

import (
	"fmt"

	"github.com/hupe1980/gaugrid/internal/assemble"
	"github.com/hupe1980/gaugrid/internal/interp"
	"github.com/hupe1980/gaugrid/order"
	"github.com/hupe1980/gaugrid/spherical"
)

// Input is one shell evaluation request over a point batch.
type Input struct {
	X, Y, Z   []float64
	Coeffs    []float64
	Exponents []float64
	Center    [3]float64
}

// NPoints returns the batch size.
func (in Input) NPoints() int { return len(in.X) }

func (in Input) validate() error {
	if len(in.Y) != len(in.X) || len(in.Z) != len(in.X) {
		return fmt.Errorf("vector: coordinate lengths differ (x=%d y=%d z=%d)", len(in.X), len(in.Y), len(in.Z))
	}
	if len(in.Coeffs) != len(in.Exponents) {
		return fmt.Errorf("vector: %d coefficients but %d exponents", len(in.Coeffs), len(in.Exponents))
	}
	return nil
}

// Kernel is a built whole-array kernel for one (L, convention) pair.
// It holds no per-call state and is safe for concurrent use.
type Kernel struct {
	L          int
	Convention order.Convention
	Source     string

	fn  Func
	sph *spherical.Transform
}

// Build generates, interprets and wraps the (L, c) kernel.
func Build(L int, c order.Convention) (*Kernel, error) {
	src, err := Generate(L, c)
	if err != nil {
		return nil, err
	}
	sph, err := spherical.Build(L, c)
	if err != nil {
		return nil, err
	}
	fn, err := interp.LoadFunc[Func](src, PackageName+"."+FuncName(L, c))
	if err != nil {
		return nil, fmt.Errorf("vector: build L=%d %s: %w", L, c, err)
	}
	return &Kernel{L: L, Convention: c, Source: src, fn: fn, sph: sph}, nil
}

// Compute evaluates the shell on in up to derivative order deriv. Every
// returned array is [ncart][npoints], or [2L+1][npoints] when sph is set.
func (k *Kernel) Compute(in Input, deriv int, sph bool) (map[assemble.Label][][]float64, error) {
	if err := assemble.CheckOrder(deriv, assemble.MaxOrder); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	center := []float64{in.Center[0], in.Center[1], in.Center[2]}
	raw := k.fn(in.X, in.Y, in.Z, in.Coeffs, in.Exponents, center, deriv)

	out := make(map[assemble.Label][][]float64, len(raw))
	for name, arr := range raw {
		l, ok := assemble.ParseLabel(name)
		if !ok {
			return nil, fmt.Errorf("vector: kernel returned unknown label %q", name)
		}
		if sph {
			arr = k.sph.Apply(arr)
		}
		out[l] = arr
	}
	return out, nil
}
