package expr

import (
	"fmt"

	"github.com/xgallom/brno-number/internal/rational"
)

// MaxDisplayBits bounds the size of values rendered in decimal. Larger
// values are summarized; their limbs remain available through Dump.
const MaxDisplayBits = 1 << 20

// Value is the result of evaluating a line: a Number, or a boolean when
// the outermost operator is a relation.
type Value struct {
	Number rational.Number
	Bool   bool
	IsBool bool
	// Dump is set when the line asked for the limb dump of its result.
	Dump bool
}

// NumberValue wraps n.
func NumberValue(n rational.Number) Value { return Value{Number: n} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{Bool: b, IsBool: true} }

// Kind names the value's type: a rational kind or "bool".
func (v Value) Kind() string {
	if v.IsBool {
		return "bool"
	}
	return v.Number.Kind().String()
}

// String renders the value for people.
func (v Value) String() string {
	if v.IsBool {
		return fmt.Sprint(v.Bool)
	}
	return FormatNumber(v.Number)
}

// FormatNumber renders n as a reduced decimal fraction, or by name for
// the special values. Values wider than MaxDisplayBits are summarized.
func FormatNumber(n rational.Number) string {
	switch n.Kind() {
	case rational.KindZero:
		return "0"
	case rational.KindUndefined:
		return "undefined"
	case rational.KindNaN:
		if n.Sign() == rational.Negative {
			return "-nan"
		}
		return "nan"
	}
	if bits := n.RatBits(); bits > MaxDisplayBits {
		return fmt.Sprintf("%snumber of ~%d bits (exponent %d)", signPrefix(n), bits, n.Exp())
	}
	r, _ := n.Rat()
	return r.RatString()
}

func signPrefix(n rational.Number) string {
	if n.Sign() == rational.Negative {
		return "-"
	}
	return ""
}
