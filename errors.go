package gaugrid

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gaugrid/internal/assemble"
	"github.com/hupe1980/gaugrid/order"
)

var (
	// ErrUnsupportedDerivativeOrder is returned for derivative orders outside 0..2.
	ErrUnsupportedDerivativeOrder = assemble.ErrUnsupportedDerivativeOrder

	// ErrUnknownConvention is returned for an unrecognised Cartesian ordering.
	ErrUnknownConvention = order.ErrUnknownConvention

	// ErrInvalidShell is returned when a shell's parameters are inconsistent.
	ErrInvalidShell = errors.New("invalid shell")
)

// ErrUnsupportedOrder reports a derivative order the kernels cannot produce.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrUnsupportedOrder struct {
	Order int
	Max   int
	cause error
}

func (e *ErrUnsupportedOrder) Error() string {
	return fmt.Sprintf("unsupported derivative order %d (maximum %d)", e.Order, e.Max)
}

func (e *ErrUnsupportedOrder) Unwrap() error { return e.cause }

// ErrUnsupportedDegree reports an angular momentum beyond a convention's table.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrUnsupportedDegree struct {
	Convention order.Convention
	L          int
	Max        int
	cause      error
}

func (e *ErrUnsupportedDegree) Error() string {
	return fmt.Sprintf("convention %q supports L <= %d, got %d", e.Convention, e.Max, e.L)
}

func (e *ErrUnsupportedDegree) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var uo *assemble.UnsupportedOrderError
	if errors.As(err, &uo) {
		return &ErrUnsupportedOrder{Order: uo.Order, Max: uo.Max, cause: err}
	}
	var ud *order.ErrUnsupportedDegree
	if errors.As(err, &ud) {
		return &ErrUnsupportedDegree{Convention: ud.Convention, L: ud.L, Max: ud.Max, cause: err}
	}
	if errors.Is(err, order.ErrInvalidDegree) {
		return fmt.Errorf("%w: %w", ErrInvalidShell, err)
	}

	return err
}
