package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerate_Permutation(t *testing.T) {
	for _, c := range []Convention{Row, Molden} {
		for L := 0; L <= 4; L++ {
			comps, err := Enumerate(L, c)
			require.NoError(t, err)
			require.Len(t, comps, NCart(L))

			seen := make(map[int]bool, len(comps))
			for _, comp := range comps {
				assert.Equal(t, L, comp.Degree())
				assert.GreaterOrEqual(t, comp.Index, 0)
				assert.Less(t, comp.Index, NCart(L))
				assert.False(t, seen[comp.Index], "duplicate index %d (%s, L=%d)", comp.Index, c, L)
				seen[comp.Index] = true
			}
		}
	}
}

func TestEnumerate_RowHigherDegrees(t *testing.T) {
	comps, err := Enumerate(8, Row)
	require.NoError(t, err)
	require.Len(t, comps, 45)
	for i, comp := range comps {
		assert.Equal(t, i, comp.Index)
	}
}

func TestRows_D(t *testing.T) {
	tests := []struct {
		convention Convention
		expected   []string
	}{
		{Row, []string{"XX", "XY", "XZ", "YY", "YZ", "ZZ"}},
		{Molden, []string{"XX", "YY", "ZZ", "XY", "XZ", "YZ"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.convention), func(t *testing.T) {
			rows, err := Rows(2, tc.convention)
			require.NoError(t, err)

			names := make([]string, len(rows))
			for i, r := range rows {
				names[i] = r.Name()
			}
			assert.Equal(t, tc.expected, names)
		})
	}
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "0", Component{}.Name())
	assert.Equal(t, "XYYZ", Component{X: 1, Y: 2, Z: 1}.Name())
}

func TestEnumerate_Errors(t *testing.T) {
	_, err := Enumerate(1, Convention("cca"))
	assert.ErrorIs(t, err, ErrUnknownConvention)

	_, err = Enumerate(-1, Row)
	assert.ErrorIs(t, err, ErrInvalidDegree)

	_, err = Enumerate(5, Molden)
	require.Error(t, err)
	var ud *ErrUnsupportedDegree
	require.True(t, errors.As(err, &ud))
	assert.Equal(t, 4, ud.Max)
	assert.ErrorIs(t, err, ErrUnknownConvention)
}

func TestParse(t *testing.T) {
	c, err := Parse(" Molden ")
	require.NoError(t, err)
	assert.Equal(t, Molden, c)

	c, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Row, c)

	_, err = Parse("gaussian")
	assert.ErrorIs(t, err, ErrUnknownConvention)
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 1, NCart(0))
	assert.Equal(t, 10, NCart(3))
	assert.Equal(t, 7, NSpherical(3))
}
