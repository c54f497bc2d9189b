// Package assemble unrolls the value, gradient and Hessian formulas of one
// Cartesian Gaussian component into statements.
//
// Every component is phi = S(r) * A(x, y, z) with S the radial factor
// shared by the shell and A = x^l y^m z^n the angular monomial. The product
// rule gives
//
//	d phi / da      = Sa * A + S0 * Aa
//	d2 phi / da db  = Sab * A + Sa * Ab + Sb * Aa + S0 * Aab
//
// The angular terms come from term.Synthesize; an absent term drops its
// contribution. Contributions are accumulated in a fixed order (radial,
// gradient cross terms, pure angular) shared by every backend.
package assemble

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gaugrid/internal/codegen"
	"github.com/hupe1980/gaugrid/internal/term"
	"github.com/hupe1980/gaugrid/order"
)

// MaxOrder is the highest derivative order the assembler can unroll.
const MaxOrder = 2

// ErrUnsupportedDerivativeOrder is the sentinel wrapped by UnsupportedOrderError.
var ErrUnsupportedDerivativeOrder = errors.New("unsupported derivative order")

// UnsupportedOrderError reports a derivative order above what a backend supports.
type UnsupportedOrderError struct {
	Order int
	Max   int
}

func (e *UnsupportedOrderError) Error() string {
	return fmt.Sprintf("derivative order %d is not supported (maximum %d)", e.Order, e.Max)
}

func (e *UnsupportedOrderError) Unwrap() error { return ErrUnsupportedDerivativeOrder }

// CheckOrder validates deriv against max (and against MaxOrder).
func CheckOrder(deriv, max int) error {
	if max > MaxOrder {
		max = MaxOrder
	}
	if deriv < 0 || deriv > max {
		return &UnsupportedOrderError{Order: deriv, Max: max}
	}
	return nil
}

// Label identifies one output array of a collocation bundle.
type Label int

const (
	Value Label = iota
	GradX
	GradY
	GradZ
	HessXX
	HessYY
	HessZZ
	HessXY
	HessXZ
	HessYZ
)

var labelNames = [...]string{"PHI", "PHI_X", "PHI_Y", "PHI_Z", "PHI_XX", "PHI_YY", "PHI_ZZ", "PHI_XY", "PHI_XZ", "PHI_YZ"}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Order returns the derivative order the label belongs to.
func (l Label) Order() int {
	switch {
	case l == Value:
		return 0
	case l <= GradZ:
		return 1
	default:
		return 2
	}
}

// Labels returns every label populated at derivative order deriv.
func Labels(deriv int) []Label {
	var out []Label
	for l := Value; l <= HessYZ; l++ {
		if l.Order() <= deriv {
			out = append(out, l)
		}
	}
	return out
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) (Label, bool) {
	for i, n := range labelNames {
		if n == s {
			return Label(i), true
		}
	}
	return 0, false
}

var gradLabels = [3]Label{GradX, GradY, GradZ}

// pair is one distinct second derivative.
type pair struct {
	label Label
	a, b  term.Axis
}

var hessPairs = [6]pair{
	{HessXX, term.X, term.X},
	{HessYY, term.Y, term.Y},
	{HessZZ, term.Z, term.Z},
	{HessXY, term.X, term.Y},
	{HessXZ, term.X, term.Z},
	{HessYZ, term.Y, term.Z},
}

// Target renders the references a backend's kernels use.
type Target interface {
	// Output is the assignable element of label's array for Cartesian row index.
	Output(label Label, index int) string
	// Radial is the current point's value of a radial factor
	// (S0, SX, SY, SZ, SXX, SYY, SZZ, SXY, SXZ, SYZ).
	Radial(name string) string
	// Power references power-table entry index (c^(index+1)) along axis.
	Power(axis term.Axis, index int) string
}

// Assembler emits component formulas for one shell degree.
type Assembler struct {
	w      *codegen.Writer
	target Target
	L      int
}

// New returns an Assembler writing to w with references rendered by target.
func New(w *codegen.Writer, target Target, L int) *Assembler {
	return &Assembler{w: w, target: target, L: L}
}

// Angular returns the angular factor of c differentiated derivs[a] times
// along each axis a. It reports false when that derivative vanishes.
func Angular(c order.Component, derivs [3]int) (term.Term, bool) {
	pows := [3]int{c.X, c.Y, c.Z}
	name := "A"
	prefactor := 1
	var shifted [3]int
	for _, a := range term.Axes {
		for k := 0; k < derivs[a]; k++ {
			prefactor *= pows[a] - k
			name += a.String()
		}
		shifted[a] = pows[a] + term.Shift - derivs[a]
	}
	return term.Synthesize(name, float64(prefactor), shifted[0], shifted[1], shifted[2])
}

func first(a term.Axis) [3]int {
	var d [3]int
	d[a] = 1
	return d
}

func second(a, b term.Axis) [3]int {
	var d [3]int
	d[a]++
	d[b]++
	return d
}

// product renders factor * t, eliding a unit constant term.
func (as *Assembler) product(factor string, t term.Term) string {
	if t.IsConstant() && t.Prefactor == 1 {
		return factor
	}
	return factor + " * " + t.Group(as.target.Power)
}

func (as *Assembler) set(label Label, idx int, rhs string) {
	as.w.Linef("%s = %s", as.target.Output(label, idx), rhs)
}

func (as *Assembler) add(label Label, idx int, rhs string) {
	as.w.Linef("%s += %s", as.target.Output(label, idx), rhs)
}

// Value emits phi = S0 * A.
func (as *Assembler) Value(c order.Component) {
	A, _ := Angular(c, [3]int{})
	as.w.Comment("Density AM=%d Component=%s", as.L, c.Name())
	as.set(Value, c.Index, as.product(as.target.Radial("S0"), A))
}

// Gradient emits the three first derivatives of c.
func (as *Assembler) Gradient(c order.Component) {
	A, _ := Angular(c, [3]int{})
	as.w.Comment("Gradient AM=%d Component=%s", as.L, c.Name())
	for _, a := range term.Axes {
		label := gradLabels[a]
		as.set(label, c.Index, as.product(as.target.Radial("S"+a.String()), A))
		if Aa, ok := Angular(c, first(a)); ok {
			as.add(label, c.Index, as.product(as.target.Radial("S0"), Aa))
		}
	}
}

// Hessian emits the six distinct second derivatives of c.
func (as *Assembler) Hessian(c order.Component) {
	A, _ := Angular(c, [3]int{})
	as.w.Comment("Hessian AM=%d Component=%s", as.L, c.Name())
	for _, p := range hessPairs {
		radial := "S" + p.a.String() + p.b.String()
		as.set(p.label, c.Index, as.product(as.target.Radial(radial), A))

		if p.a == p.b {
			// Sa * Aa appears twice in the product rule.
			if Aa, ok := Angular(c, first(p.a)); ok {
				rhs := as.product(as.target.Radial("S"+p.a.String()), Aa)
				as.add(p.label, c.Index, rhs)
				as.add(p.label, c.Index, rhs)
			}
		} else {
			if Ab, ok := Angular(c, first(p.b)); ok {
				as.add(p.label, c.Index, as.product(as.target.Radial("S"+p.a.String()), Ab))
			}
			if Aa, ok := Angular(c, first(p.a)); ok {
				as.add(p.label, c.Index, as.product(as.target.Radial("S"+p.b.String()), Aa))
			}
		}

		if Aab, ok := Angular(c, second(p.a, p.b)); ok {
			as.add(p.label, c.Index, as.product(as.target.Radial("S0"), Aab))
		}
	}
}

// Component emits every formula of c up to derivative order deriv.
func (as *Assembler) Component(c order.Component, deriv int) error {
	if err := CheckOrder(deriv, MaxOrder); err != nil {
		return err
	}
	as.Value(c)
	if deriv > 0 {
		as.Gradient(c)
	}
	if deriv > 1 {
		as.Hessian(c)
	}
	return nil
}
