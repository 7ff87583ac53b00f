// Package positional implements arithmetic on exponent-tagged limb vectors.
//
// A Vector is a sequence of limbs, most significant first, together with
// the exponent (in limbs) just above its most significant limb:
//
//	value = Σ Limbs[i] · R^(Exp-1-i),  R = 2^32
//
// Zero runs at either end are folded into the exponent by Truncate, so a
// power of the radix such as R^1000000 occupies a single limb.
package positional

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xgallom/brno-number/internal/limb"
)

// MaxWindow caps the number of limbs an alignment, product or power may
// materialize.
const MaxWindow = 1 << 26

var (
	// ErrWindowTooLarge is returned when an operation would need more than
	// MaxWindow limbs.
	ErrWindowTooLarge = errors.New("positional window too large")
	// ErrExponentOverflow is returned when a result exponent does not fit
	// in an int64.
	ErrExponentOverflow = errors.New("positional exponent overflow")
)

// Vector is a positional limb sequence. The zero value is the canonical
// empty vector and represents 0.
type Vector struct {
	Exp   int64
	Limbs []limb.Limb
}

// FromUint64 returns the normalized vector holding x.
func FromUint64(x uint64) Vector {
	return Truncate(Vector{Exp: 2, Limbs: []limb.Limb{limb.Limb(x >> limb.Bits), limb.Limb(x)}})
}

// Len returns the number of stored limbs.
func (v Vector) Len() int { return len(v.Limbs) }

// IsZero reports whether v holds no limbs.
func (v Vector) IsZero() bool { return len(v.Limbs) == 0 }

// MinExp returns the exponent of the least significant stored limb.
func (v Vector) MinExp() int64 { return v.Exp - int64(len(v.Limbs)) }

// Clone returns a copy of v that shares no storage with it.
func (v Vector) Clone() Vector {
	if len(v.Limbs) == 0 {
		return Vector{Exp: v.Exp}
	}
	return Vector{Exp: v.Exp, Limbs: append([]limb.Limb(nil), v.Limbs...)}
}

// String renders v as hexadecimal limbs followed by its exponent.
func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, l := range v.Limbs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%x", l)
	}
	fmt.Fprintf(&sb, "]@%d", v.Exp)
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalization
// ─────────────────────────────────────────────────────────────────────────────

// Truncate strips leading and trailing zero limbs. The exponent drops by the
// number of leading limbs removed; an all-zero vector becomes the empty
// vector with exponent 0. The result shares storage with v.
func Truncate(v Vector) Vector {
	first, last := -1, -1
	for i, l := range v.Limbs {
		if l != 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return Vector{}
	}
	return Vector{
		Exp:   v.Exp - int64(first),
		Limbs: v.Limbs[first : last+1],
	}
}

// Align pads a and b onto a shared window. The window runs from the larger
// of the two exponents down to the smaller of the two minimum exponents;
// the operand with the smaller exponent gains leading zero limbs and the
// one with the larger minimum exponent gains trailing zero limbs. Empty
// operands do not widen the window.
func Align(a, b Vector) (Vector, Vector, error) {
	switch {
	case a.IsZero() && b.IsZero():
		return Vector{}, Vector{}, nil
	case a.IsZero():
		return Vector{Exp: b.Exp, Limbs: make([]limb.Limb, b.Len())}, b, nil
	case b.IsZero():
		return a, Vector{Exp: a.Exp, Limbs: make([]limb.Limb, a.Len())}, nil
	}

	upper := max(a.Exp, b.Exp)
	lower := min(a.MinExp(), b.MinExp())
	width := upper - lower
	if width > MaxWindow {
		return Vector{}, Vector{}, fmt.Errorf("align %d limbs: %w", width, ErrWindowTooLarge)
	}
	return pad(a, upper, int(width)), pad(b, upper, int(width)), nil
}

// pad copies v into a window of width limbs whose exponent is upper.
func pad(v Vector, upper int64, width int) Vector {
	if v.Exp == upper && v.Len() == width {
		return v
	}
	out := make([]limb.Limb, width)
	copy(out[upper-v.Exp:], v.Limbs)
	return Vector{Exp: upper, Limbs: out}
}

// addExp returns x+y or ErrExponentOverflow.
func addExp(x, y int64) (int64, error) {
	s := x + y
	if (y > 0 && s < x) || (y < 0 && s > x) {
		return 0, fmt.Errorf("%d + %d: %w", x, y, ErrExponentOverflow)
	}
	return s, nil
}
