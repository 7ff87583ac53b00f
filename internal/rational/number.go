package rational

import (
	"errors"
	"fmt"

	"github.com/xgallom/brno-number/internal/limb"
	"github.com/xgallom/brno-number/internal/positional"
)

// MaxExp bounds the exponent of every numerator and denominator vector.
// The sum of two bounded exponents always fits in an int64, so cross
// multiplication inside comparisons cannot overflow.
const MaxExp = 1 << 61

var (
	// ErrNotImplemented is returned by Sqrt for ordinary operands.
	ErrNotImplemented = errors.New("not implemented")
	// ErrExponentOverflow is returned when a result vector would leave the
	// [-MaxExp, MaxExp] exponent range.
	ErrExponentOverflow = positional.ErrExponentOverflow
)

// Kind discriminates ordinary numbers from the special values.
type Kind uint8

// Kinds of Number. KindUndefined is the zero Kind, so the zero Number is
// Undefined rather than a malformed ordinary value.
const (
	KindUndefined Kind = iota
	KindOrdinary
	KindZero
	KindNaN
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindZero:
		return "zero"
	case KindNaN:
		return "nan"
	case KindUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Sign is the sign of a Number.
type Sign int8

const (
	Positive Sign = 1
	Negative Sign = -1
)

// String returns "+" or "-".
func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

// Number is a signed fraction num/den of positional vectors.
//
// Zero keeps an empty numerator and the denominator 1, NaN keeps the
// numerator 1 and an empty denominator, and Undefined keeps both empty, so
// the accessors report the same vectors as the structural encoding even
// though the kind is stored explicitly. The zero value is Undefined.
type Number struct {
	kind Kind
	neg  bool
	num  positional.Vector
	den  positional.Vector
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// Zero returns the additive identity.
func Zero() Number {
	return Number{kind: KindZero, den: positional.One()}
}

// One returns the multiplicative identity.
func One() Number {
	return Number{kind: KindOrdinary, num: positional.One(), den: positional.One()}
}

// NaN returns the positive not-a-number value.
func NaN() Number {
	return Number{kind: KindNaN, num: positional.One()}
}

// Undefined returns the 0/0 value.
func Undefined() Number {
	return Number{kind: KindUndefined}
}

// FromInt64 converts a native signed integer.
func FromInt64(x int64) Number {
	if x == 0 {
		return Zero()
	}
	mag := uint64(x)
	if x < 0 {
		mag = -mag
	}
	n := FromUint64(mag)
	n.neg = x < 0
	return n
}

// FromUint64 converts a native unsigned integer.
func FromUint64(x uint64) Number {
	if x == 0 {
		return Zero()
	}
	return Number{kind: KindOrdinary, num: positional.FromUint64(x), den: positional.One()}
}

// New builds a Number from explicit components. Both limb sequences are
// copied and normalized; their emptiness after normalization selects the
// kind:
//
//	numerator  denominator  kind
//	empty      empty        Undefined
//	empty      non-empty    Zero
//	non-empty  empty        NaN
//	non-empty  non-empty    Ordinary
//
// Parameters:
//   - sign: Sign of the result; ignored for Zero and Undefined.
//   - numExp, num: Numerator exponent and limbs, most significant first.
//   - denExp, den: Denominator exponent and limbs, most significant first.
//
// Returns:
//   - Number: The constructed value.
//   - error: ErrExponentOverflow if a normalized exponent exceeds MaxExp.
func New(sign Sign, numExp int64, num []limb.Limb, denExp int64, den []limb.Limb) (Number, error) {
	n := positional.Truncate(positional.Vector{Exp: numExp, Limbs: num}).Clone()
	d := positional.Truncate(positional.Vector{Exp: denExp, Limbs: den}).Clone()
	return build(sign == Negative, n, d)
}

// build classifies a numerator and denominator pair. The vectors must be
// normalized and owned by the result.
func build(neg bool, num, den positional.Vector) (Number, error) {
	if err := checkExp(num); err != nil {
		return Number{}, err
	}
	if err := checkExp(den); err != nil {
		return Number{}, err
	}
	switch {
	case num.IsZero() && den.IsZero():
		return Undefined(), nil
	case num.IsZero():
		return Zero(), nil
	case den.IsZero():
		nan := NaN()
		nan.neg = neg
		return nan, nil
	}
	return Number{kind: KindOrdinary, neg: neg, num: num, den: den}, nil
}

func checkExp(v positional.Vector) error {
	if v.Exp > MaxExp || v.Exp < -MaxExp {
		return fmt.Errorf("vector exponent %d: %w", v.Exp, ErrExponentOverflow)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// Kind returns the kind of x.
func (x Number) Kind() Kind { return x.kind }

// Sign returns the sign of x. Zero and Undefined are always Positive.
func (x Number) Sign() Sign {
	if x.neg {
		return Negative
	}
	return Positive
}

// Num returns a copy of the numerator limbs.
func (x Number) Num() []limb.Limb { return x.num.Clone().Limbs }

// Den returns a copy of the denominator limbs.
func (x Number) Den() []limb.Limb { return x.den.Clone().Limbs }

// NumExp returns the numerator exponent.
func (x Number) NumExp() int64 { return x.num.Exp }

// DenExp returns the denominator exponent.
func (x Number) DenExp() int64 { return x.den.Exp }

// Exp returns the combined exponent, numerator minus denominator, of an
// ordinary x and 0 for the special values.
func (x Number) Exp() int64 {
	if x.kind != KindOrdinary {
		return 0
	}
	return x.num.Exp - x.den.Exp
}

// IsZero reports whether x is Zero.
func (x Number) IsZero() bool { return x.kind == KindZero }

// IsNonZero reports whether x has a numerator, which holds for NaN and for
// ordinary values.
func (x Number) IsNonZero() bool { return !x.num.IsZero() }

// IsNaN reports whether x is NaN.
func (x Number) IsNaN() bool { return x.kind == KindNaN }

// IsNotNaN reports whether x has a denominator.
func (x Number) IsNotNaN() bool { return !x.den.IsZero() }

// IsUndefined reports whether x is Undefined.
func (x Number) IsUndefined() bool { return x.kind == KindUndefined }

// IsOrdinary reports whether x is neither Zero, NaN nor Undefined.
func (x Number) IsOrdinary() bool { return x.kind == KindOrdinary }

// Bool is the truth value of x: false for Zero and Undefined.
func (x Number) Bool() bool { return x.IsNonZero() }

// Neg returns x with its sign flipped. Zero and Undefined are unsigned and
// returned unchanged.
func (x Number) Neg() Number {
	if x.kind == KindZero || x.kind == KindUndefined {
		return x
	}
	x.neg = !x.neg
	return x
}
