package assemble

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/gaugrid/internal/codegen"
	"github.com/hupe1980/gaugrid/internal/term"
	"github.com/hupe1980/gaugrid/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainTarget struct{}

func (plainTarget) Output(l Label, idx int) string { return fmt.Sprintf("%s[%d]", l, idx) }
func (plainTarget) Radial(name string) string      { return name }
func (plainTarget) Power(a term.Axis, i int) string {
	return fmt.Sprintf("%cc[%d]", "xyz"[a], i)
}

func emit(t *testing.T, L int, c order.Component, deriv int) []string {
	t.Helper()
	w := codegen.NewWriter(codegen.Go)
	require.NoError(t, New(w, plainTarget{}, L).Component(c, deriv))
	return strings.Split(strings.TrimSpace(w.String()), "\n")
}

func TestComponent_PX(t *testing.T) {
	got := emit(t, 1, order.Component{Index: 0, X: 1}, 2)
	want := []string{
		"// Density AM=1 Component=X",
		"PHI[0] = S0 * xc[0]",
		"// Gradient AM=1 Component=X",
		"PHI_X[0] = SX * xc[0]",
		"PHI_X[0] += S0",
		"PHI_Y[0] = SY * xc[0]",
		"PHI_Z[0] = SZ * xc[0]",
		"// Hessian AM=1 Component=X",
		"PHI_XX[0] = SXX * xc[0]",
		"PHI_XX[0] += SX",
		"PHI_XX[0] += SX",
		"PHI_YY[0] = SYY * xc[0]",
		"PHI_ZZ[0] = SZZ * xc[0]",
		"PHI_XY[0] = SXY * xc[0]",
		"PHI_XY[0] += SY",
		"PHI_XZ[0] = SXZ * xc[0]",
		"PHI_XZ[0] += SZ",
		"PHI_YZ[0] = SYZ * xc[0]",
	}
	assert.Equal(t, want, got)
}

func TestComponent_S(t *testing.T) {
	got := emit(t, 0, order.Component{}, 1)
	want := []string{
		"// Density AM=0 Component=0",
		"PHI[0] = S0",
		"// Gradient AM=0 Component=0",
		"PHI_X[0] = SX",
		"PHI_Y[0] = SY",
		"PHI_Z[0] = SZ",
	}
	assert.Equal(t, want, got)
}

func TestComponent_DXY(t *testing.T) {
	got := emit(t, 2, order.Component{Index: 1, X: 1, Y: 1}, 2)
	assert.Contains(t, got, "PHI[1] = S0 * (xc[0] * yc[0])")
	assert.Contains(t, got, "PHI_X[1] += S0 * yc[0]")
	assert.Contains(t, got, "PHI_Y[1] += S0 * xc[0]")
	assert.Contains(t, got, "PHI_XY[1] += SX * xc[0]")
	assert.Contains(t, got, "PHI_XY[1] += SY * yc[0]")
	assert.Contains(t, got, "PHI_XY[1] += S0")
	assert.NotContains(t, got, "PHI_Z[1] += S0")
}

func TestComponent_HessianPrefactors(t *testing.T) {
	got := emit(t, 3, order.Component{Index: 0, X: 3}, 2)
	assert.Contains(t, got, "PHI_X[0] += S0 * (3.0 * xc[1])")
	assert.Contains(t, got, "PHI_XX[0] += S0 * (6.0 * xc[0])")
}

func TestComponent_ValueOnly(t *testing.T) {
	got := emit(t, 2, order.Component{Index: 5, Z: 2}, 0)
	assert.Equal(t, []string{"// Density AM=2 Component=ZZ", "PHI[5] = S0 * zc[1]"}, got)
}

func TestComponent_UnsupportedOrder(t *testing.T) {
	w := codegen.NewWriter(codegen.Go)
	err := New(w, plainTarget{}, 1).Component(order.Component{X: 1}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDerivativeOrder))

	var uo *UnsupportedOrderError
	require.True(t, errors.As(err, &uo))
	assert.Equal(t, 3, uo.Order)
	assert.Equal(t, 2, uo.Max)
	assert.Empty(t, w.String(), "nothing may be emitted before the order check")
}

// Angular must agree with differentiating x^l y^m z^n by hand.
func TestAngular_MatchesAnalyticDerivative(t *testing.T) {
	fall := func(p, k int) int {
		r := 1
		for i := 0; i < k; i++ {
			r *= p - i
		}
		return r
	}
	for L := 0; L <= 4; L++ {
		comps, err := order.Enumerate(L, order.Row)
		require.NoError(t, err)
		for _, c := range comps {
			pows := [3]int{c.X, c.Y, c.Z}
			for _, d := range [][3]int{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {1, 1, 0}, {1, 0, 1}, {0, 1, 1}} {
				tm, ok := Angular(c, d)

				coef := 1
				for a := 0; a < 3; a++ {
					coef *= fall(pows[a], d[a])
				}
				if coef == 0 {
					assert.False(t, ok, "%s %v should vanish", c.Name(), d)
					continue
				}
				require.True(t, ok, "%s %v", c.Name(), d)
				assert.Equal(t, float64(coef), tm.Prefactor)

				var got [3]int
				for _, f := range tm.Factors {
					got[f.Axis] = f.Index + 1
				}
				for a := 0; a < 3; a++ {
					assert.Equal(t, pows[a]-d[a], got[a], "%s %v axis %d", c.Name(), d, a)
				}
			}
		}
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []Label{Value}, Labels(0))
	assert.Len(t, Labels(1), 4)
	assert.Len(t, Labels(2), 10)
	assert.Equal(t, "PHI_XZ", HessXZ.String())

	l, ok := ParseLabel("PHI_YZ")
	assert.True(t, ok)
	assert.Equal(t, HessYZ, l)
	_, ok = ParseLabel("PHI_W")
	assert.False(t, ok)
}

func TestCheckOrder(t *testing.T) {
	assert.NoError(t, CheckOrder(0, 0))
	assert.Error(t, CheckOrder(1, 0))
	assert.Error(t, CheckOrder(-1, 2))
	assert.Error(t, CheckOrder(3, 5))
}
