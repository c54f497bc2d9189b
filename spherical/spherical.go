// Package spherical maps Cartesian Gaussian components onto real solid
// harmonics of the same degree.
//
// Coefficients follow the closed form for real solid harmonics
// S_lm expressed in Cartesian monomials (Helgaker, Jørgensen, Olsen,
// "Molecular Electronic-Structure Theory", eqs. 6.4.47-6.4.50), applied to
// unnormalized monomials x^a y^b z^c. Spherical rows are ordered
// m = 0, +1, -1, +2, -2, ..., +L, -L.
package spherical

import (
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/gaugrid/order"
)

// Entry is one non-zero coefficient of a spherical row.
type Entry struct {
	Cart int // Cartesian row under the transform's convention.
	Coef float64
}

// Row is the linear combination of Cartesian rows forming one spherical component.
type Row struct {
	M       int
	Entries []Entry
}

// Transform maps an [ncart][npoints] array into [2L+1][npoints].
type Transform struct {
	L          int
	Convention order.Convention
	Rows       []Row
}

// Build returns the Cartesian-to-spherical transform for degree L under
// the Cartesian ordering convention c. Errors from the orderer are returned
// unchanged.
func Build(L int, c order.Convention) (*Transform, error) {
	comps, err := order.Enumerate(L, c)
	if err != nil {
		return nil, err
	}
	index := make(map[[3]int]int, len(comps))
	for _, comp := range comps {
		index[[3]int{comp.X, comp.Y, comp.Z}] = comp.Index
	}

	t := &Transform{L: L, Convention: c, Rows: make([]Row, 0, order.NSpherical(L))}
	for _, m := range MOrder(L) {
		coefs := solidHarmonic(L, m)
		row := Row{M: m, Entries: make([]Entry, 0, len(coefs))}
		for pows, coef := range coefs {
			if coef == 0 {
				continue
			}
			row.Entries = append(row.Entries, Entry{Cart: index[pows], Coef: coef})
		}
		sort.Slice(row.Entries, func(i, j int) bool { return row.Entries[i].Cart < row.Entries[j].Cart })
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// MOrder returns the m quantum numbers in spherical row order.
func MOrder(L int) []int {
	ms := make([]int, 0, 2*L+1)
	ms = append(ms, 0)
	for m := 1; m <= L; m++ {
		ms = append(ms, m, -m)
	}
	return ms
}

// Apply transforms cart ([ncart][npoints]) into a new [2L+1][npoints] array.
func (t *Transform) Apply(cart [][]float64) [][]float64 {
	if len(cart) != order.NCart(t.L) {
		panic(fmt.Sprintf("spherical: expected %d cartesian rows, got %d", order.NCart(t.L), len(cart)))
	}
	npoints := 0
	if len(cart) > 0 {
		npoints = len(cart[0])
	}

	out := make([][]float64, len(t.Rows))
	for s, row := range t.Rows {
		dst := make([]float64, npoints)
		for _, e := range row.Entries {
			src := cart[e.Cart]
			for p := range dst {
				dst[p] += e.Coef * src[p]
			}
		}
		out[s] = dst
	}
	return out
}

// solidHarmonic returns the monomial coefficients of S_lm keyed by exponent triple.
func solidHarmonic(l, m int) map[[3]int]float64 {
	am := m
	if am < 0 {
		am = -am
	}
	// vv is twice the half-integer summation index of the closed form.
	vmin := 0
	if m < 0 {
		vmin = 1
	}

	norm := math.Sqrt(2*factorial(l+am)*factorial(l-am)) / (math.Pow(2, float64(am)) * factorial(l))
	if m == 0 {
		norm /= math.Sqrt2
	}

	coefs := make(map[[3]int]float64)
	for t := 0; t <= (l-am)/2; t++ {
		for u := 0; u <= t; u++ {
			for vv := vmin; vv <= am; vv += 2 {
				c := math.Pow(0.25, float64(t)) *
					binomial(l, t) * binomial(l-t, am+t) * binomial(t, u) * binomial(am, vv)
				if (t+(vv-vmin)/2)%2 == 1 {
					c = -c
				}
				pows := [3]int{2*t + am - 2*u - vv, 2*u + vv, l - 2*t - am}
				coefs[pows] += norm * c
			}
		}
	}
	return coefs
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	return factorial(n) / (factorial(k) * factorial(n-k))
}
