package gaugrid

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/gaugrid/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pShell() Shell {
	return Shell{L: 1, Coeffs: []float64{1}, Exponents: []float64{1}}
}

func TestCompute_PShell(t *testing.T) {
	c := New()
	b, err := c.Compute(context.Background(), [][3]float64{{1, 0, 0}}, pShell(), WithDerivativeOrder(1))
	require.NoError(t, err)
	assert.Equal(t, []Label{Value, GradX, GradY, GradZ}, b.Labels())

	e := math.Exp(-1)
	assert.InDelta(t, e, b[Value][0][0], 1e-15)
	assert.InDelta(t, 0, b[Value][1][0], 1e-15)
	assert.InDelta(t, 0, b[Value][2][0], 1e-15)
	assert.InDelta(t, e*(1-2*1*1), b[GradX][0][0], 1e-15)
}

func TestCompute_Shapes(t *testing.T) {
	c := New()
	points := [][3]float64{{0.1, 0.2, 0.3}, {-0.5, 0.4, 1.2}, {2, -1, 0}}
	shell := Shell{L: 3, Coeffs: []float64{0.5, 0.5}, Exponents: []float64{2, 0.3}, Center: [3]float64{0, 0, 0.5}}

	b, err := c.Compute(context.Background(), points, shell, WithDerivativeOrder(2))
	require.NoError(t, err)
	require.Len(t, b, 10)
	for _, l := range b.Labels() {
		require.Len(t, b[l], 10, l.String())
		assert.Len(t, b[l][0], 3)
	}

	b, err = c.Compute(context.Background(), points, shell, WithSpherical(true))
	require.NoError(t, err)
	require.Len(t, b, 1)
	assert.Len(t, b[Value], 7)
}

func TestCompute_MoldenPermutesRows(t *testing.T) {
	c := New()
	points := [][3]float64{{0.3, -0.2, 0.9}}
	shell := Shell{L: 2, Coeffs: []float64{1}, Exponents: []float64{0.8}}

	row, err := c.Compute(context.Background(), points, shell)
	require.NoError(t, err)
	molden, err := c.Compute(context.Background(), points, shell, WithCartesianOrder(order.Molden))
	require.NoError(t, err)

	rows, err := order.Rows(2, order.Row)
	require.NoError(t, err)
	mrows, err := order.Rows(2, order.Molden)
	require.NoError(t, err)
	for i, comp := range mrows {
		for j, rc := range rows {
			if rc.X == comp.X && rc.Y == comp.Y && rc.Z == comp.Z {
				assert.Equal(t, row[Value][j], molden[Value][i], comp.Name())
			}
		}
	}
}

func TestCompute_UnsupportedOrder(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := New(WithMetricsCollector(metrics))

	_, err := c.Compute(context.Background(), [][3]float64{{0, 0, 0}}, pShell(), WithDerivativeOrder(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDerivativeOrder))

	var uo *ErrUnsupportedOrder
	require.True(t, errors.As(err, &uo))
	assert.Equal(t, 3, uo.Order)
	assert.Equal(t, 2, uo.Max)

	// Nothing was built.
	assert.Equal(t, CacheStats{}, c.CacheStats())
	assert.Equal(t, int64(1), metrics.GetStats().ComputeErrors)
}

func TestCompute_InvalidShell(t *testing.T) {
	c := New()
	ctx := context.Background()
	pts := [][3]float64{{0, 0, 0}}

	for name, s := range map[string]Shell{
		"negative L":      {L: -1, Coeffs: []float64{1}, Exponents: []float64{1}},
		"no primitives":   {L: 0},
		"length":          {L: 0, Coeffs: []float64{1, 2}, Exponents: []float64{1}},
		"nan exponent":    {L: 0, Coeffs: []float64{1}, Exponents: []float64{math.NaN()}},
		"infinite center": {L: 0, Coeffs: []float64{1}, Exponents: []float64{1}, Center: [3]float64{0, math.Inf(1), 0}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Compute(ctx, pts, s)
			assert.ErrorIs(t, err, ErrInvalidShell)
		})
	}
}

func TestCompute_ConventionErrors(t *testing.T) {
	c := New()
	ctx := context.Background()
	pts := [][3]float64{{0, 0, 0}}

	_, err := c.Compute(ctx, pts, pShell(), WithCartesianOrder("bogus"))
	assert.ErrorIs(t, err, ErrUnknownConvention)

	shell := Shell{L: 5, Coeffs: []float64{1}, Exponents: []float64{1}}
	_, err = c.Compute(ctx, pts, shell, WithCartesianOrder(order.Molden))
	var ud *ErrUnsupportedDegree
	require.True(t, errors.As(err, &ud))
	assert.Equal(t, 5, ud.L)
	assert.Equal(t, 4, ud.Max)
}

func TestCompute_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Compute(ctx, [][3]float64{{0, 0, 0}}, pShell())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompute_SharedCache(t *testing.T) {
	kc := NewKernelCache(nil)
	a := New(WithCache(kc))
	b := New(WithCache(kc))

	ctx := context.Background()
	pts := [][3]float64{{0.2, 0.1, -0.3}}
	ra, err := a.Compute(ctx, pts, pShell(), WithDerivativeOrder(2))
	require.NoError(t, err)
	rb, err := b.Compute(ctx, pts, pShell(), WithDerivativeOrder(2))
	require.NoError(t, err)
	assert.Equal(t, ra, rb)

	stats := kc.Stats()
	assert.Equal(t, int64(1), stats.Builds)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Kernels)
	assert.Equal(t, stats, a.CacheStats())
}

func TestCompute_Metrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := New(WithMetricsCollector(metrics), WithLogger(nil))

	pts := make([][3]float64, 5)
	_, err := c.Compute(context.Background(), pts, pShell())
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ComputeCount)
	assert.Equal(t, int64(0), stats.ComputeErrors)
	assert.Equal(t, int64(5), stats.PointsEvaluated)
}

func TestKernelSource(t *testing.T) {
	src, err := New().KernelSource(2, order.Molden)
	require.NoError(t, err)
	assert.Contains(t, src, "func ComputeShell2Molden(")

	_, err = New().KernelSource(1, "bogus")
	assert.ErrorIs(t, err, ErrUnknownConvention)
}
