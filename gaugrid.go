package gaugrid

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hupe1980/gaugrid/internal/assemble"
	"github.com/hupe1980/gaugrid/internal/vector"
	"github.com/hupe1980/gaugrid/order"
)

// MaxDerivativeOrder is the highest derivative order Compute accepts.
const MaxDerivativeOrder = assemble.MaxOrder

// Label identifies one array of a Bundle.
type Label = assemble.Label

// Bundle labels.
const (
	Value  = assemble.Value
	GradX  = assemble.GradX
	GradY  = assemble.GradY
	GradZ  = assemble.GradZ
	HessXX = assemble.HessXX
	HessYY = assemble.HessYY
	HessZZ = assemble.HessZZ
	HessXY = assemble.HessXY
	HessXZ = assemble.HessXZ
	HessYZ = assemble.HessYZ
)

// Bundle maps each populated label to a [rows][npoints] array.
type Bundle map[Label][][]float64

// Labels returns the populated labels in canonical order.
func (b Bundle) Labels() []Label {
	out := make([]Label, 0, len(b))
	for l := range b {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Shell is one contracted Gaussian: primitives sharing a center and degree.
type Shell struct {
	L         int
	Coeffs    []float64
	Exponents []float64
	Center    [3]float64
}

// NPrimitives returns the contraction length.
func (s Shell) NPrimitives() int { return len(s.Coeffs) }

// Validate reports whether the shell can be evaluated.
func (s Shell) Validate() error {
	if s.L < 0 {
		return fmt.Errorf("%w: negative angular momentum %d", ErrInvalidShell, s.L)
	}
	if len(s.Coeffs) == 0 {
		return fmt.Errorf("%w: no primitives", ErrInvalidShell)
	}
	if len(s.Coeffs) != len(s.Exponents) {
		return fmt.Errorf("%w: %d coefficients but %d exponents", ErrInvalidShell, len(s.Coeffs), len(s.Exponents))
	}
	for k := range s.Coeffs {
		if !finite(s.Coeffs[k]) || !finite(s.Exponents[k]) {
			return fmt.Errorf("%w: primitive %d is not finite", ErrInvalidShell, k)
		}
	}
	for a, v := range s.Center {
		if !finite(v) {
			return fmt.Errorf("%w: center[%d] is not finite", ErrInvalidShell, a)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// CacheStats is a snapshot of kernel cache activity.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Builds  int64
	Kernels int
}

// KernelCache holds built whole-array kernels. Share one between
// Collocators with WithCache to build each kernel once per process.
type KernelCache struct {
	c *vector.Cache
}

// NewKernelCache returns an empty cache logging builds to logger.
func NewKernelCache(logger *Logger) *KernelCache {
	if logger == nil {
		logger = NoopLogger()
	}
	return &KernelCache{c: vector.NewCache(vector.WithLogger(logger.Logger))}
}

// Stats returns a snapshot of the cache counters.
func (kc *KernelCache) Stats() CacheStats {
	return cacheStats(kc.c)
}

func cacheStats(c *vector.Cache) CacheStats {
	hits, misses, builds := c.Stats()
	return CacheStats{Hits: hits, Misses: misses, Builds: builds, Kernels: c.Len()}
}

// Collocator evaluates shells on point batches. It is safe for concurrent use.
type Collocator struct {
	opts options
}

// New returns a Collocator.
func New(optFns ...Option) *Collocator {
	return &Collocator{opts: applyOptions(optFns)}
}

// Compute evaluates shell at points. The returned bundle holds the value
// and, depending on WithDerivativeOrder, the gradient and Hessian arrays.
func (c *Collocator) Compute(ctx context.Context, points [][3]float64, shell Shell, optFns ...ComputeOption) (Bundle, error) {
	o := applyComputeOptions(optFns)
	start := time.Now()

	bundle, err := c.compute(ctx, points, shell, o)
	err = translateError(err)

	elapsed := time.Since(start)
	c.opts.metricsCollector.RecordCompute(shell.L, len(points), elapsed, err)
	c.opts.logger.WithShell(shell.L, o.convention).LogCompute(ctx, len(points), o.deriv, o.spherical, elapsed, err)
	return bundle, err
}

func (c *Collocator) compute(ctx context.Context, points [][3]float64, shell Shell, o computeOptions) (Bundle, error) {
	if err := assemble.CheckOrder(o.deriv, MaxDerivativeOrder); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := shell.Validate(); err != nil {
		return nil, err
	}

	k, err := c.opts.cache.Get(shell.L, o.convention)
	if err != nil {
		return nil, err
	}

	in := vector.Input{
		X:         make([]float64, len(points)),
		Y:         make([]float64, len(points)),
		Z:         make([]float64, len(points)),
		Coeffs:    shell.Coeffs,
		Exponents: shell.Exponents,
		Center:    shell.Center,
	}
	for i, p := range points {
		in.X[i], in.Y[i], in.Z[i] = p[0], p[1], p[2]
	}

	out, err := k.Compute(in, o.deriv, o.spherical)
	if err != nil {
		return nil, err
	}
	return Bundle(out), nil
}

// KernelSource returns the generated Go source of the whole-array kernel
// for (L, conv), building and caching it if needed.
func (c *Collocator) KernelSource(L int, conv order.Convention) (string, error) {
	k, err := c.opts.cache.Get(L, conv)
	if err != nil {
		return "", translateError(err)
	}
	return k.Source, nil
}

// CacheStats returns a snapshot of the Collocator's kernel cache.
func (c *Collocator) CacheStats() CacheStats {
	return cacheStats(c.opts.cache)
}
