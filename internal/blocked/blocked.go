// Package blocked emits cache-blocked collocation kernels as static source.
//
// One kernel is emitted per angular momentum degree. It walks the points
// in fixed-size tiles, recentres each tile into scratch buffers, sums the
// contracted radial factor, builds the power tables and evaluates every
// Cartesian component into a tile-local buffer before scattering it into
// the caller's output. Only the value path is generated.
package blocked

import (
	"fmt"
	"strings"

	"github.com/hupe1980/gaugrid/internal/assemble"
	"github.com/hupe1980/gaugrid/internal/codegen"
	"github.com/hupe1980/gaugrid/internal/term"
	"github.com/hupe1980/gaugrid/order"
	"github.com/hupe1980/gaugrid/spherical"
)

// MaxOrder is the highest derivative order blocked kernels support.
const MaxOrder = 0

const (
	// DefaultTileSize is the number of points processed per tile.
	DefaultTileSize = 32
	// DefaultPackage is the package clause of Go dialect output.
	DefaultPackage = "collocation"
	// HeaderName is the C header declaring every emitted kernel.
	HeaderName = "gaugrid.h"
)

// Generator emits blocked kernels in one dialect.
type Generator struct {
	dialect    codegen.Dialect
	tileSize   int
	convention order.Convention
	pkg        string
	formatter  codegen.Formatter
}

// Option configures a Generator.
type Option func(*Generator)

// WithTileSize sets the tile size. Non-positive values keep the default.
func WithTileSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.tileSize = n
		}
	}
}

// WithConvention sets the Cartesian ordering convention of the output rows.
func WithConvention(c order.Convention) Option {
	return func(g *Generator) {
		g.convention = c
	}
}

// WithPackage sets the package clause for Go dialect output.
func WithPackage(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.pkg = name
		}
	}
}

// WithFormatter sets the formatter run over every emitted file. Passing
// nil disables formatting.
func WithFormatter(f codegen.Formatter) Option {
	return func(g *Generator) {
		g.formatter = f
	}
}

// New returns a Generator for dialect d. Go output is gofmt-formatted by
// default; C output is left as emitted unless a formatter is configured.
func New(d codegen.Dialect, opts ...Option) *Generator {
	g := &Generator{
		dialect:    d,
		tileSize:   DefaultTileSize,
		convention: order.Row,
		pkg:        DefaultPackage,
	}
	if d == codegen.Go {
		g.formatter = codegen.GoFormatter{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() codegen.Dialect { return g.dialect }

// TileSize returns the configured tile size.
func (g *Generator) TileSize() int { return g.tileSize }

// Package returns the package clause used for Go output.
func (g *Generator) Package() string { return g.pkg }

// FuncName returns the emitted kernel name for degree L.
func (g *Generator) FuncName(L int) string {
	if g.dialect == codegen.C {
		return fmt.Sprintf("gg_collocation_L%d", L)
	}
	return fmt.Sprintf("CollocationL%d", L)
}

// FileName returns the artifact name holding the kernel for degree L.
func (g *Generator) FileName(L int) string {
	if g.dialect == codegen.C {
		return fmt.Sprintf("gaugrid_collocation_L%d.c", L)
	}
	return fmt.Sprintf("collocation_l%d.go", L)
}

func (g *Generator) signature(L int) string {
	if g.dialect == codegen.C {
		return fmt.Sprintf("void %s(size_t npoints, const double* x, const double* y, const double* z, "+
			"int nprim, const double* coeffs, const double* exponents, const double* center, "+
			"bool spherical, double* out)", g.FuncName(L))
	}
	return fmt.Sprintf("func %s(npoints int, x, y, z []float64, nprim int, coeffs, exponents, center []float64, "+
		"spherical bool, out []float64)", g.FuncName(L))
}

// names holds the dialect's spelling of the kernel temporaries.
type names struct {
	phi string
	pow [3]string
}

func (g *Generator) names() names {
	if g.dialect == codegen.C {
		return names{phi: "phi_tmp", pow: [3]string{"xc_pow", "yc_pow", "zc_pow"}}
	}
	return names{phi: "phiTmp", pow: [3]string{"xcPow", "ycPow", "zcPow"}}
}

// offset renders "base + i", collapsing a zero base.
func offset(base int) string {
	if base == 0 {
		return "i"
	}
	return fmt.Sprintf("%d + i", base)
}

// tileTarget addresses tile-local buffers at point i of the tile.
type tileTarget struct {
	names
	tile int
}

func (t tileTarget) Output(_ assemble.Label, idx int) string {
	return fmt.Sprintf("%s[%s]", t.phi, offset(idx*t.tile))
}

func (t tileTarget) Radial(name string) string { return name + "[i]" }

func (t tileTarget) Power(a term.Axis, k int) string {
	return fmt.Sprintf("%s[%s]", t.pow[a], offset(k*t.tile))
}

func (g *Generator) loop(bound string) string {
	if g.dialect == codegen.C {
		return fmt.Sprintf("for (size_t i = 0; i < %s; i++)", bound)
	}
	return fmt.Sprintf("for i := 0; i < %s; i++", bound)
}

func (g *Generator) alloc(w *codegen.Writer, name string, n int) {
	if g.dialect == codegen.C {
		w.Linef("double* %s = (double*)malloc(sizeof(double) * %d)", name, n)
		return
	}
	w.Linef("%s := make([]float64, %d)", name, n)
}

// Kernel writes the definition of the degree L kernel to w. Derivative
// orders above zero are rejected before anything is written.
func (g *Generator) Kernel(w *codegen.Writer, L, deriv int) error {
	if err := assemble.CheckOrder(deriv, MaxOrder); err != nil {
		return err
	}
	comps, err := order.Enumerate(L, g.convention)
	if err != nil {
		return err
	}
	sph, err := spherical.Build(L, g.convention)
	if err != nil {
		return err
	}

	c := g.dialect == codegen.C
	T := g.tileSize
	ncart := order.NCart(L)
	n := g.names()

	w.Comment("%s evaluates an L=%d shell on npoints points in tiles of %d.", g.FuncName(L), L, T)
	w.Comment("out holds (spherical ? %d : %d) rows of npoints values.", order.NSpherical(L), ncart)
	w.Open("%s", g.signature(L))

	w.Comment("Sizing")
	if c {
		w.Linef("const size_t nblocks = (npoints + %d) / %d", T-1, T)
		w.Linef("const size_t ncart = %d", ncart)
	} else {
		w.Linef("nblocks := (npoints + %d) / %d", T-1, T)
		w.Linef("const ncart = %d", ncart)
	}
	w.Blank()

	w.Comment("Allocate S temps")
	for _, v := range []string{"xc", "yc", "zc", "R2", "S0"} {
		g.alloc(w, v, T)
	}
	if L > 0 {
		w.Comment("Power temps")
		for _, v := range n.pow {
			g.alloc(w, v, L*T)
		}
	}
	w.Comment("Output temps")
	g.alloc(w, n.phi, ncart*T)
	w.Blank()

	if c {
		w.Open("for (size_t block = 0; block < nblocks; block++)")
		w.Linef("const size_t start = block * %d", T)
		w.Linef("const size_t remain = ((start + %d) > npoints) ? (npoints - start) : %d", T, T)
	} else {
		w.Open("for block := 0; block < nblocks; block++")
		w.Linef("start := block * %d", T)
		w.Line("remain := npoints - start")
		w.Open("if remain > %d", T)
		w.Linef("remain = %d", T)
		w.Close()
	}
	w.Blank()

	w.Comment("Copy over blocks")
	w.Open("%s", g.loop("remain"))
	w.Line("xc[i] = x[start + i] - center[0]")
	w.Line("yc[i] = y[start + i] - center[1]")
	w.Line("zc[i] = z[start + i] - center[2]")
	w.Line("R2[i] = xc[i] * xc[i] + yc[i] * yc[i] + zc[i] * zc[i]")
	w.Close()
	w.Blank()

	w.Comment("Radial factor")
	w.Open("%s", g.loop("remain"))
	w.Line("S0[i] = 0.0")
	if c {
		w.Open("for (int K = 0; K < nprim; K++)")
		w.Line("S0[i] += coeffs[K] * exp(-exponents[K] * R2[i])")
	} else {
		w.Open("for K := 0; K < nprim; K++")
		w.Line("S0[i] += coeffs[K] * math.Exp(-exponents[K]*R2[i])")
	}
	w.Close()
	w.Close()
	w.Blank()

	if L > 0 {
		coords := [3]string{"xc", "yc", "zc"}
		w.Comment("Power tmps")
		w.Open("%s", g.loop("remain"))
		for a, v := range n.pow {
			w.Linef("%s[i] = %s[i]", v, coords[a])
		}
		for l := 1; l < L; l++ {
			for a, v := range n.pow {
				w.Linef("%s[%s] = %s[%s] * %s[i]", v, offset(l*T), v, offset((l-1)*T), coords[a])
			}
		}
		w.Close()
		w.Blank()
	}

	w.Comment("Combine blocks")
	as := assemble.New(w, tileTarget{names: n, tile: T}, L)
	w.Open("%s", g.loop("remain"))
	for _, comp := range comps {
		as.Value(comp)
	}
	w.Close()
	w.Blank()

	w.Comment("Copy data back into outer temps")
	if c {
		w.Open("if (spherical)")
	} else {
		w.Open("if spherical")
	}
	for s, row := range sph.Rows {
		w.Open("%s", g.loop("remain"))
		w.Linef("out[%s] = %s", outIndex(s), sphericalRHS(row, n.phi, T))
		w.Close()
	}
	w.Else()
	if c {
		w.Open("for (size_t n = 0; n < ncart; n++)")
	} else {
		w.Open("for n := 0; n < ncart; n++")
	}
	w.Open("%s", g.loop("remain"))
	w.Linef("out[n * npoints + start + i] = %s[n * %d + i]", n.phi, T)
	w.Close()
	w.Close()
	w.Close()

	w.Close() // tile loop

	if c {
		w.Blank()
		w.Comment("Free S temps")
		for _, v := range []string{"xc", "yc", "zc", "R2", "S0"} {
			w.Linef("free(%s)", v)
		}
		if L > 0 {
			for _, v := range n.pow {
				w.Linef("free(%s)", v)
			}
		}
		w.Linef("free(%s)", n.phi)
	}
	w.Close()
	return nil
}

func outIndex(row int) string {
	if row == 0 {
		return "start + i"
	}
	return fmt.Sprintf("%d * npoints + start + i", row)
}

// sphericalRHS renders the linear combination of tile rows forming one
// spherical component.
func sphericalRHS(row spherical.Row, phi string, tile int) string {
	var b strings.Builder
	for k, e := range row.Entries {
		coef := e.Coef
		switch {
		case k == 0 && coef < 0:
			b.WriteString("-")
			coef = -coef
		case k > 0 && coef < 0:
			b.WriteString(" - ")
			coef = -coef
		case k > 0:
			b.WriteString(" + ")
		}
		ref := fmt.Sprintf("%s[%s]", phi, offset(e.Cart*tile))
		if coef == 1 {
			b.WriteString(ref)
			continue
		}
		b.WriteString(term.FormatFloat(coef))
		b.WriteString(" * ")
		b.WriteString(ref)
	}
	if b.Len() == 0 {
		return "0.0"
	}
	return b.String()
}

// Header writes the C prototypes of the kernels for degrees 0..maxL.
func (g *Generator) Header(w *codegen.Writer, maxL int) {
	w.Comment("Code generated by gaugrid. DO NOT EDIT.")
	w.Raw("#pragma once")
	w.Blank()
	w.Raw("#include <stdbool.h>")
	w.Raw("#include <stddef.h>")
	w.Blank()
	w.Raw("#ifdef __cplusplus")
	w.Raw(`extern "C" {`)
	w.Raw("#endif")
	w.Blank()
	for L := 0; L <= maxL; L++ {
		w.Line(g.signature(L))
	}
	w.Blank()
	w.Raw("#ifdef __cplusplus")
	w.Raw("}")
	w.Raw("#endif")
}

// file writes the preamble and kernel of the degree L artifact.
func (g *Generator) file(w *codegen.Writer, L, deriv int) error {
	w.Comment("Code generated by gaugrid. DO NOT EDIT.")
	w.Blank()
	if g.dialect == codegen.C {
		w.Raw("#include <math.h>")
		w.Raw("#include <stdbool.h>")
		w.Raw("#include <stddef.h>")
		w.Raw("#include <stdlib.h>")
		w.Blank()
		w.Raw(fmt.Sprintf("#include %q", HeaderName))
	} else {
		w.Linef("package %s", g.pkg)
		w.Blank()
		w.Line(`import "math"`)
	}
	w.Blank()
	return g.Kernel(w, L, deriv)
}
