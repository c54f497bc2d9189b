// Package gaugrid evaluates Gaussian-type-orbital shells, and their
// gradients and Hessians, on batches of Cartesian grid points.
//
// Evaluation runs through kernels synthesized per angular momentum degree:
// the value, gradient and Hessian formulas of every Cartesian component are
// unrolled symbolically with the product rule and emitted as source. Two
// targets exist. Whole-array kernels back this package: they are generated
// on first use for a (degree, ordering convention) pair, interpreted, and
// cached for the life of the Collocator. Tiled kernels are emitted as
// static C or Go source for ahead-of-time compilation by the gaugrid-gen
// command.
//
// # Quick Start
//
//	c := gaugrid.New()
//	shell := gaugrid.Shell{
//	    L:         2,
//	    Coeffs:    []float64{0.43, 0.66},
//	    Exponents: []float64{3.42, 0.62},
//	    Center:    [3]float64{0, 0, 0.7},
//	}
//	bundle, _ := c.Compute(ctx, points, shell,
//	    gaugrid.WithDerivativeOrder(1),
//	    gaugrid.WithSpherical(true),
//	)
//	phi := bundle[gaugrid.Value]   // [5][len(points)]
//	dx := bundle[gaugrid.GradX]
//
// # Layout
//
// Every array in a Bundle is [rows][npoints]. Rows are the Cartesian
// components of the shell (ncart = (L+1)(L+2)/2) in the order of the chosen
// convention, or the real solid harmonics m = 0, +1, -1, ..., +L, -L
// (2L+1 rows) when spherical output is requested. Only the labels up to
// the requested derivative order are present.
//
// # Ordering conventions
//
//   - order.Row: lexical order, x powers descending, then y.
//   - order.Molden: the Molden file ordering, available for L <= 4.
//
// # Errors
//
// Derivative orders above two fail with ErrUnsupportedDerivativeOrder
// before any work is done. Unknown conventions surface
// ErrUnknownConvention, malformed shells ErrInvalidShell.
package gaugrid
