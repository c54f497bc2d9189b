package order

import (
	"errors"
	"fmt"
	"strings"
)

// Convention names a Cartesian component ordering.
type Convention string

const (
	// Row orders components lexically (xx, xy, xz, yy, yz, zz).
	Row Convention = "row"
	// Molden orders components as the Molden format does (xx, yy, zz, xy, xz, yz).
	Molden Convention = "molden"
)

// ErrUnknownConvention is returned for an ordering convention that is not supported.
var ErrUnknownConvention = errors.New("unknown cartesian ordering convention")

// ErrInvalidDegree is returned for a negative angular-momentum degree.
var ErrInvalidDegree = errors.New("invalid angular momentum degree")

// ErrUnsupportedDegree indicates that a convention has no table for the requested degree.
type ErrUnsupportedDegree struct {
	Convention Convention
	L          int
	Max        int
}

func (e *ErrUnsupportedDegree) Error() string {
	return fmt.Sprintf("%s ordering is only defined up to L=%d, got L=%d", e.Convention, e.Max, e.L)
}

func (e *ErrUnsupportedDegree) Unwrap() error { return ErrUnknownConvention }

// Component is one Cartesian monomial x^X y^Y z^Z of a shell together with
// the flat output row it occupies.
type Component struct {
	Index int
	X     int
	Y     int
	Z     int
}

// Degree returns X+Y+Z.
func (c Component) Degree() int { return c.X + c.Y + c.Z }

// Name returns the component label, e.g. "XXY", or "0" for the s function.
func (c Component) Name() string {
	name := strings.Repeat("X", c.X) + strings.Repeat("Y", c.Y) + strings.Repeat("Z", c.Z)
	if name == "" {
		return "0"
	}
	return name
}

// NCart returns the number of Cartesian components of degree L.
func NCart(L int) int { return (L + 1) * (L + 2) / 2 }

// NSpherical returns the number of real spherical components of degree L.
func NSpherical(L int) int { return 2*L + 1 }

// Parse converts a convention name into a Convention.
func Parse(name string) (Convention, error) {
	switch c := Convention(strings.ToLower(strings.TrimSpace(name))); c {
	case Row, Molden:
		return c, nil
	case "":
		return Row, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConvention, name)
	}
}

// moldenTables lists the Molden component sequence per degree as exponent triples.
var moldenTables = [][][3]int{
	{{0, 0, 0}},
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {1, 1, 0}, {1, 0, 1}, {0, 1, 1}},
	{
		{3, 0, 0}, {0, 3, 0}, {0, 0, 3}, {1, 2, 0}, {2, 1, 0},
		{2, 0, 1}, {1, 0, 2}, {0, 1, 2}, {0, 2, 1}, {1, 1, 1},
	},
	{
		{4, 0, 0}, {0, 4, 0}, {0, 0, 4}, {3, 1, 0}, {3, 0, 1},
		{1, 3, 0}, {0, 3, 1}, {1, 0, 3}, {0, 1, 3}, {2, 2, 0},
		{2, 0, 2}, {0, 2, 2}, {2, 1, 1}, {1, 2, 1}, {1, 1, 2},
	},
}

// Enumerate returns the ncart components of degree L in lexical order,
// each carrying its flat row index under convention c. The indices form a
// permutation of 0..ncart-1.
func Enumerate(L int, c Convention) ([]Component, error) {
	if L < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, L)
	}

	var rowOf func(x, y, z, lexical int) int
	switch c {
	case Row:
		rowOf = func(_, _, _, lexical int) int { return lexical }
	case Molden:
		if L >= len(moldenTables) {
			return nil, &ErrUnsupportedDegree{Convention: c, L: L, Max: len(moldenTables) - 1}
		}
		table := moldenTables[L]
		rowOf = func(x, y, z, _ int) int {
			for i, t := range table {
				if t == [3]int{x, y, z} {
					return i
				}
			}
			return -1
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConvention, string(c))
	}

	comps := make([]Component, 0, NCart(L))
	for x := L; x >= 0; x-- {
		for y := L - x; y >= 0; y-- {
			z := L - x - y
			comps = append(comps, Component{
				Index: rowOf(x, y, z, len(comps)),
				X:     x,
				Y:     y,
				Z:     z,
			})
		}
	}
	return comps, nil
}

// Rows returns the components of degree L sorted by output row.
func Rows(L int, c Convention) ([]Component, error) {
	comps, err := Enumerate(L, c)
	if err != nil {
		return nil, err
	}
	rows := make([]Component, len(comps))
	for _, comp := range comps {
		rows[comp.Index] = comp
	}
	return rows, nil
}
