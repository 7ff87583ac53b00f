package positional

import (
	"context"
	"fmt"

	"github.com/xgallom/brno-number/internal/limb"
)

// Add returns the normalized sum of two magnitudes.
func Add(a, b Vector) (Vector, error) {
	if a.IsZero() {
		return Truncate(b), nil
	}
	if b.IsZero() {
		return Truncate(a), nil
	}
	pa, pb, err := Align(a, b)
	if err != nil {
		return Vector{}, err
	}

	width := pa.Len()
	dst := make([]limb.Limb, width+1)
	carry, err := limb.Add(dst[1:], pa.Limbs, pb.Limbs, width, 0)
	if err != nil {
		return Vector{}, fmt.Errorf("vector add: %w", err)
	}
	if carry != 0 {
		dst[0] = carry
		return Truncate(Vector{Exp: pa.Exp + 1, Limbs: dst}), nil
	}
	return Truncate(Vector{Exp: pa.Exp, Limbs: dst[1:]}), nil
}

// Sub returns the normalized magnitude |a-b| and reports whether the sign
// flipped, that is whether b was larger than a.
func Sub(a, b Vector) (Vector, bool, error) {
	if b.IsZero() {
		return Truncate(a), false, nil
	}
	if a.IsZero() {
		return Truncate(b), true, nil
	}
	pa, pb, err := Align(a, b)
	if err != nil {
		return Vector{}, false, err
	}

	width := pa.Len()
	dst := make([]limb.Limb, width)
	borrow, err := limb.Sub(dst, pa.Limbs, pb.Limbs, width, 0)
	if err != nil {
		return Vector{}, false, fmt.Errorf("vector sub: %w", err)
	}
	flipped := borrow != 0
	if flipped {
		if err := limb.Negate(dst, width, 0); err != nil {
			return Vector{}, false, fmt.Errorf("vector sub: %w", err)
		}
	}
	return Truncate(Vector{Exp: pa.Exp, Limbs: dst}), flipped, nil
}

// Mul returns the normalized product of two magnitudes.
func Mul(a, b Vector) (Vector, error) {
	return MulContext(context.Background(), a, b)
}

// MulContext is Mul that gives up with ctx.Err() once ctx is done.
func MulContext(ctx context.Context, a, b Vector) (Vector, error) {
	var buf []limb.Limb
	return mulInto(ctx, &buf, a, b)
}

// Square returns the normalized square of a.
func Square(a Vector) (Vector, error) {
	var buf []limb.Limb
	return mulInto(context.Background(), &buf, a, a)
}

// mulInto multiplies a and b into *buf, growing it when it is too short.
// The result aliases *buf, which must not alias either operand.
//
// The product window holds len(a)+len(b)+1 limbs and its exponent is
// a.Exp+b.Exp+1 before truncation.
func mulInto(ctx context.Context, buf *[]limb.Limb, a, b Vector) (Vector, error) {
	if a.IsZero() || b.IsZero() {
		return Vector{}, nil
	}
	exp, err := addExp(a.Exp, b.Exp)
	if err != nil {
		return Vector{}, err
	}
	if exp, err = addExp(exp, 1); err != nil {
		return Vector{}, err
	}

	bigger, smaller := a.Limbs, b.Limbs
	if len(smaller) > len(bigger) {
		bigger, smaller = smaller, bigger
	}
	width := limb.ProductLen(len(bigger), len(smaller))
	if width > MaxWindow {
		return Vector{}, fmt.Errorf("mul %d limbs: %w", width, ErrWindowTooLarge)
	}
	if cap(*buf) < width {
		*buf = make([]limb.Limb, width)
	}
	dst := (*buf)[:width]
	if err := limb.MulBuffersContext(ctx, dst, bigger, smaller); err != nil {
		if ctx.Err() != nil {
			return Vector{}, err
		}
		return Vector{}, fmt.Errorf("vector mul: %w", err)
	}
	return Truncate(Vector{Exp: exp, Limbs: dst}), nil
}
