package rational

import (
	"context"
	"fmt"

	"github.com/xgallom/brno-number/internal/positional"
)

// ─────────────────────────────────────────────────────────────────────────────
// Addition and Subtraction
// ─────────────────────────────────────────────────────────────────────────────

// Add returns x + y.
//
// Undefined absorbs everything, Zero is the identity and NaN absorbs the
// remaining cases. Ordinary operands are combined by cross multiplication:
//
//	xn/xd + yn/yd = (xn·yd ± yn·xd) / (xd·yd)
//
// The error is non-nil only when a result exponent leaves the supported
// range or the aligned sum would be too wide.
func (x Number) Add(y Number) (Number, error) {
	return x.AddContext(context.Background(), y)
}

// AddContext is Add that gives up with ctx.Err() once ctx is done.
func (x Number) AddContext(ctx context.Context, y Number) (Number, error) {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return Undefined(), nil
	case x.IsZero():
		return y, nil
	case y.IsZero():
		return x, nil
	case x.IsNaN() || y.IsNaN():
		return NaN(), nil
	}
	return addOrdinary(ctx, x, y)
}

// Sub returns x - y. Zero minus y is -y; the rest follows Add.
func (x Number) Sub(y Number) (Number, error) {
	return x.SubContext(context.Background(), y)
}

// SubContext is Sub that gives up with ctx.Err() once ctx is done.
func (x Number) SubContext(ctx context.Context, y Number) (Number, error) {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return Undefined(), nil
	case x.IsZero():
		return y.Neg(), nil
	case y.IsZero():
		return x, nil
	case x.IsNaN() || y.IsNaN():
		return NaN(), nil
	}
	return addOrdinary(ctx, x, y.Neg())
}

func addOrdinary(ctx context.Context, x, y Number) (Number, error) {
	left, err := positional.MulContext(ctx, x.num, y.den)
	if err != nil {
		return Number{}, fmt.Errorf("add: %w", err)
	}
	right, err := positional.MulContext(ctx, y.num, x.den)
	if err != nil {
		return Number{}, fmt.Errorf("add: %w", err)
	}
	den, err := positional.MulContext(ctx, x.den, y.den)
	if err != nil {
		return Number{}, fmt.Errorf("add: %w", err)
	}

	var num positional.Vector
	neg := x.neg
	if x.neg == y.neg {
		num, err = positional.Add(left, right)
	} else {
		var flipped bool
		num, flipped, err = positional.Sub(left, right)
		neg = x.neg != flipped
	}
	if err != nil {
		return Number{}, fmt.Errorf("add: %w", err)
	}
	return build(neg, num, den)
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication and Division
// ─────────────────────────────────────────────────────────────────────────────

// Mul returns x * y.
//
// NaN times Zero is Undefined. Otherwise Zero absorbs NaN and NaN absorbs
// ordinary values. The sign of the product is the XOR of the signs.
func (x Number) Mul(y Number) (Number, error) {
	return x.MulContext(context.Background(), y)
}

// MulContext is Mul that gives up with ctx.Err() once ctx is done.
func (x Number) MulContext(ctx context.Context, y Number) (Number, error) {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return Undefined(), nil
	case (x.IsNaN() && y.IsZero()) || (x.IsZero() && y.IsNaN()):
		return Undefined(), nil
	case x.IsZero() || y.IsZero():
		return Zero(), nil
	case x.IsNaN() || y.IsNaN():
		return NaN(), nil
	}
	return product(ctx, x.neg != y.neg, x.num, y.num, x.den, y.den)
}

// Div returns x / y.
//
//	x \ y      Zero       NaN        ordinary
//	Zero       Undefined  Zero       Zero
//	NaN        NaN        Undefined  NaN
//	ordinary   NaN        Zero       x·yd / xd·yn
func (x Number) Div(y Number) (Number, error) {
	return x.DivContext(context.Background(), y)
}

// DivContext is Div that gives up with ctx.Err() once ctx is done.
func (x Number) DivContext(ctx context.Context, y Number) (Number, error) {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return Undefined(), nil
	case x.IsNaN() && y.IsNaN(), x.IsZero() && y.IsZero():
		return Undefined(), nil
	case x.IsZero() || y.IsNaN():
		return Zero(), nil
	case x.IsNaN() || y.IsZero():
		return NaN(), nil
	}
	return product(ctx, x.neg != y.neg, x.num, y.den, x.den, y.num)
}

// product returns (n1·n2)/(d1·d2) with the given sign.
func product(ctx context.Context, neg bool, n1, n2, d1, d2 positional.Vector) (Number, error) {
	num, err := positional.MulContext(ctx, n1, n2)
	if err != nil {
		return Number{}, fmt.Errorf("mul: %w", err)
	}
	den, err := positional.MulContext(ctx, d1, d2)
	if err != nil {
		return Number{}, fmt.Errorf("mul: %w", err)
	}
	return build(neg, num, den)
}
