// Package vector builds whole-array collocation kernels.
//
// For one (L, convention) pair Generate emits a Go function that evaluates
// a shell and, on request, its gradient and Hessian over an entire point
// batch at once. The function is interpreted on first use and kept in a
// Cache for the life of the process.
package vector

import (
	"context"
	"fmt"
	"unicode"

	"github.com/hupe1980/gaugrid/internal/assemble"
	"github.com/hupe1980/gaugrid/internal/codegen"
	"github.com/hupe1980/gaugrid/internal/term"
	"github.com/hupe1980/gaugrid/order"
)

// PackageName is the package clause of generated kernel source.
const PackageName = "kernels"

// Func is the signature of a generated whole-array kernel. It returns one
// [ncart][npoints] array per populated label, keyed by label name.
type Func = func(x, y, z, coeffs, exponents, center []float64, grad int) map[string][][]float64

// FuncName returns the generated function name for (L, c).
func FuncName(L int, c order.Convention) string {
	conv := []rune(string(c))
	if len(conv) > 0 {
		conv[0] = unicode.ToUpper(conv[0])
	}
	return fmt.Sprintf("ComputeShell%d%s", L, string(conv))
}

var labelVars = map[assemble.Label]string{
	assemble.Value:  "phi",
	assemble.GradX:  "phiX",
	assemble.GradY:  "phiY",
	assemble.GradZ:  "phiZ",
	assemble.HessXX: "phiXX",
	assemble.HessYY: "phiYY",
	assemble.HessZZ: "phiZZ",
	assemble.HessXY: "phiXY",
	assemble.HessXZ: "phiXZ",
	assemble.HessYZ: "phiYZ",
}

var powVars = [3]string{"xcPow", "ycPow", "zcPow"}

// arrayTarget addresses whole-batch arrays at point i.
type arrayTarget struct{}

func (arrayTarget) Output(l assemble.Label, idx int) string {
	return fmt.Sprintf("%s[%d][i]", labelVars[l], idx)
}

func (arrayTarget) Radial(name string) string { return name + "[i]" }

func (arrayTarget) Power(a term.Axis, k int) string {
	return fmt.Sprintf("%s[%d][i]", powVars[a], k)
}

// Generate returns gofmt-formatted Go source for the (L, c) kernel.
// Errors from the orderer are returned unchanged.
func Generate(L int, c order.Convention) (string, error) {
	comps, err := order.Enumerate(L, c)
	if err != nil {
		return "", err
	}

	w := codegen.NewWriter(codegen.Go)
	w.Comment("Code generated by gaugrid. DO NOT EDIT.")
	w.Blank()
	w.Linef("package %s", PackageName)
	w.Blank()
	w.Line(`import "math"`)
	w.Blank()

	w.Comment("%s evaluates a contracted Gaussian shell of angular momentum %d", FuncName(L, c), L)
	w.Comment("(%s ordering) on every point at once.", c)
	w.Open("func %s(x, y, z, coeffs, exponents, center []float64, grad int) map[string][][]float64", FuncName(L, c))
	w.Line("npoints := len(x)")
	w.Line("nprim := len(coeffs)")
	w.Blank()

	writeDistances(w)
	writeRadial(w)
	if L > 0 {
		writePowers(w, L)
	}
	writeOutputs(w, order.NCart(L))

	w.Comment("Angular momentum loops")
	as := assemble.New(w, arrayTarget{}, L)
	for _, comp := range comps {
		w.Open("for i := 0; i < npoints; i++")
		as.Value(comp)
		w.Close()
		w.Open("if grad > 0")
		w.Open("for i := 0; i < npoints; i++")
		as.Gradient(comp)
		w.Close()
		w.Close()
		w.Open("if grad > 1")
		w.Open("for i := 0; i < npoints; i++")
		as.Hessian(comp)
		w.Close()
		w.Close()
		w.Blank()
	}

	w.Line("return out")
	w.Close()
	w.Blank()

	w.Open("func newRows(rows, n int) [][]float64")
	w.Line("out := make([][]float64, rows)")
	w.Open("for r := range out")
	w.Line("out[r] = make([]float64, n)")
	w.Close()
	w.Line("return out")
	w.Close()

	src, err := w.Render(context.Background(), codegen.GoFormatter{})
	if err != nil {
		return "", err
	}
	return string(src), nil
}

func writeDistances(w *codegen.Writer) {
	w.Comment("First compute the diff distance in each cartesian")
	for _, v := range []string{"xc", "yc", "zc", "R2"} {
		w.Linef("%s := make([]float64, npoints)", v)
	}
	w.Open("for i := 0; i < npoints; i++")
	w.Line("xc[i] = x[i] - center[0]")
	w.Line("yc[i] = y[i] - center[1]")
	w.Line("zc[i] = z[i] - center[2]")
	w.Line("R2[i] = xc[i]*xc[i] + yc[i]*yc[i] + zc[i]*zc[i]")
	w.Close()
	w.Blank()
}

func writeRadial(w *codegen.Writer) {
	w.Comment("Build up the derivatives in each direction")
	w.Line("V1 := make([]float64, npoints)")
	w.Line("var V2, V3 []float64")
	w.Open("if grad > 0")
	w.Line("V2 = make([]float64, npoints)")
	w.Close()
	w.Open("if grad > 1")
	w.Line("V3 = make([]float64, npoints)")
	w.Close()
	w.Open("for K := 0; K < nprim; K++")
	w.Open("for i := 0; i < npoints; i++")
	w.Line("T1 := coeffs[K] * math.Exp(-exponents[K]*R2[i])")
	w.Line("V1[i] += T1")
	w.Open("if grad > 0")
	w.Line("T2 := -2.0 * exponents[K] * T1")
	w.Line("V2[i] += T2")
	w.Open("if grad > 1")
	w.Line("V3[i] += -2.0 * exponents[K] * T2")
	w.Close()
	w.Close()
	w.Close()
	w.Close()
	w.Blank()

	w.Line("S0 := V1")
	w.Line("var SX, SY, SZ []float64")
	w.Open("if grad > 0")
	for _, v := range []string{"SX", "SY", "SZ"} {
		w.Linef("%s = make([]float64, npoints)", v)
	}
	w.Open("for i := 0; i < npoints; i++")
	w.Line("SX[i] = V2[i] * xc[i]")
	w.Line("SY[i] = V2[i] * yc[i]")
	w.Line("SZ[i] = V2[i] * zc[i]")
	w.Close()
	w.Close()
	w.Line("var SXX, SYY, SZZ, SXY, SXZ, SYZ []float64")
	w.Open("if grad > 1")
	for _, v := range []string{"SXX", "SYY", "SZZ", "SXY", "SXZ", "SYZ"} {
		w.Linef("%s = make([]float64, npoints)", v)
	}
	w.Open("for i := 0; i < npoints; i++")
	w.Line("SXY[i] = V3[i] * xc[i] * yc[i]")
	w.Line("SXZ[i] = V3[i] * xc[i] * zc[i]")
	w.Line("SYZ[i] = V3[i] * yc[i] * zc[i]")
	w.Line("SXX[i] = V3[i]*xc[i]*xc[i] + V2[i]")
	w.Line("SYY[i] = V3[i]*yc[i]*yc[i] + V2[i]")
	w.Line("SZZ[i] = V3[i]*zc[i]*zc[i] + V2[i]")
	w.Close()
	w.Close()
	w.Blank()
}

func writePowers(w *codegen.Writer, L int) {
	w.Comment("Power matrix for higher angular momenta")
	coords := [3]string{"xc", "yc", "zc"}
	for a, v := range powVars {
		w.Linef("%s := make([][]float64, %d)", v, L)
		w.Linef("%s[0] = %s", v, coords[a])
	}
	w.Open("for l := 1; l < %d; l++", L)
	for a, v := range powVars {
		w.Linef("%s[l] = make([]float64, npoints)", v)
		w.Open("for i := 0; i < npoints; i++")
		w.Linef("%s[l][i] = %s[l-1][i] * %s[i]", v, v, coords[a])
		w.Close()
	}
	w.Close()
	w.Blank()
}

func writeOutputs(w *codegen.Writer, ncart int) {
	w.Comment("Allocate data")
	w.Line("out := make(map[string][][]float64)")
	for _, l := range assemble.Labels(assemble.MaxOrder) {
		v := labelVars[l]
		if l == assemble.Value {
			w.Linef("%s := newRows(%d, npoints)", v, ncart)
			w.Linef("out[%q] = %s", l.String(), v)
			continue
		}
		w.Linef("var %s [][]float64", v)
		w.Open("if grad > %d", l.Order()-1)
		w.Linef("%s = newRows(%d, npoints)", v, ncart)
		w.Linef("out[%q] = %s", l.String(), v)
		w.Close()
	}
	w.Blank()
}
