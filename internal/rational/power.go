package rational

import (
	"context"
	"fmt"

	"github.com/xgallom/brno-number/internal/positional"
)

// Power returns x raised to the integer e.
//
// Zero, NaN and Undefined are returned unchanged, even for e == 0. An
// ordinary x raised to 0 is One. A negative e raises the reciprocal:
// numerator and denominator swap roles and are raised to -e. The result is
// negative only for a negative base and an odd exponent.
func (x Number) Power(e int64) (Number, error) {
	return x.PowerContext(context.Background(), e)
}

// PowerContext is Power that gives up with ctx.Err() once ctx is done.
func (x Number) PowerContext(ctx context.Context, e int64) (Number, error) {
	if !x.IsOrdinary() {
		return x, nil
	}
	if e == 0 {
		return One(), nil
	}

	num, den := x.num, x.den
	var mag uint64
	if e < 0 {
		num, den = den, num
		mag = uint64(-(e + 1)) + 1
	} else {
		mag = uint64(e)
	}

	rn, err := positional.PowerContext(ctx, num, mag)
	if err != nil {
		return Number{}, fmt.Errorf("power %d: %w", e, err)
	}
	rd, err := positional.PowerContext(ctx, den, mag)
	if err != nil {
		return Number{}, fmt.Errorf("power %d: %w", e, err)
	}
	return build(x.neg && mag&1 == 1, rn, rd)
}

// Sqrt is reserved for a square root with the given number of fractional
// limbs. Zero, NaN and Undefined are returned unchanged; ordinary operands
// fail with ErrNotImplemented.
func (x Number) Sqrt(digits uint32) (Number, error) {
	if !x.IsOrdinary() {
		return x, nil
	}
	return Number{}, fmt.Errorf("sqrt to %d limbs: %w", digits, ErrNotImplemented)
}
