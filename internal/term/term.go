// Package term synthesizes the monomial terms of Cartesian Gaussian
// derivatives.
//
// A Term is a scalar prefactor times a product of power-table references,
// one per Cartesian axis with a positive exponent. Terms are plain values:
// the same Term renders to any surface syntax through a PowerRef, so the
// blocked and vector backends share every formula verbatim.
package term

import (
	"strconv"
	"strings"
)

// Shift is the offset pre-applied to every exponent handed to Synthesize.
// Differentiating k times along an axis subtracts k from that axis before
// the shift is removed, so the arithmetic never branches on sign until the
// final presence check.
const Shift = 2

// Axis is a Cartesian axis.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Axes lists the three Cartesian axes in order.
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "?"
	}
}

// Factor references power-table entry Index of Axis, i.e. c^(Index+1)
// where c is the recentred coordinate along Axis.
type Factor struct {
	Axis  Axis
	Index int
}

// Term is Prefactor * Π Factors.
type Term struct {
	Name      string
	Prefactor float64
	Factors   []Factor
}

// PowerRef renders a power-table reference in a target syntax.
type PowerRef func(axis Axis, index int) string

// Synthesize builds the term name = prefactor * x^(px-2) y^(py-2) z^(pz-2).
// It reports false when the term vanishes identically: a non-positive
// prefactor or any negative exponent after removing the shift.
func Synthesize(name string, prefactor float64, px, py, pz int) (Term, bool) {
	pows := [3]int{px - Shift, py - Shift, pz - Shift}
	if prefactor <= 0 || pows[0] < 0 || pows[1] < 0 || pows[2] < 0 {
		return Term{}, false
	}

	t := Term{Name: name, Prefactor: prefactor}
	for _, a := range Axes {
		if pows[a] > 0 {
			t.Factors = append(t.Factors, Factor{Axis: a, Index: pows[a] - 1})
		}
	}
	return t, true
}

// IsConstant reports whether the term has no power-table factors.
func (t Term) IsConstant() bool { return len(t.Factors) == 0 }

// Render returns the right-hand side of the term, e.g. "2.0 * xc[0] * yc[1]".
func (t Term) Render(ref PowerRef) string {
	parts := make([]string, 0, len(t.Factors)+1)
	if t.Prefactor != 1 {
		parts = append(parts, FormatFloat(t.Prefactor))
	}
	for _, f := range t.Factors {
		parts = append(parts, ref(f.Axis, f.Index))
	}
	if len(parts) == 0 {
		return "1.0"
	}
	return strings.Join(parts, " * ")
}

// Group renders the term wrapped in parentheses when it is a product, so it
// can be used as a single operand.
func (t Term) Group(ref PowerRef) string {
	s := t.Render(ref)
	if strings.Contains(s, " * ") {
		return "(" + s + ")"
	}
	return s
}

// FormatFloat renders a prefactor as a floating point literal valid in both
// Go and C, always carrying a decimal point.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
