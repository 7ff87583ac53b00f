package rational

import (
	"fmt"
	"io"
	"strings"

	"github.com/xgallom/brno-number/internal/positional"
)

// Dump writes a hexadecimal diagnostic view of x:
//
//	{
//	  kind: ordinary
//	  sign: +
//	  expo: 0
//	  num : size 1 expo 1 data [ 3 ]
//	  den : size 1 expo 1 data [ 1 ]
//	}
func (x Number) Dump(w io.Writer) error {
	_, err := fmt.Fprintf(w, "{\n  kind: %s\n  sign: %s\n  expo: %d\n  num : %s\n  den : %s\n}",
		x.kind, x.Sign(), x.Exp(), dumpVector(x.num), dumpVector(x.den))
	return err
}

// Format implements fmt.Formatter. %x writes the Dump view and %q quotes
// String; every other verb formats String as %s would, keeping flags and
// width.
func (x Number) Format(f fmt.State, verb rune) {
	switch verb {
	case 'x':
		_ = x.Dump(f)
	case 'q':
		fmt.Fprintf(f, "%q", x.String())
	default:
		fmt.Fprintf(f, fmt.FormatString(f, 's'), x.String())
	}
}

// DumpString returns the Dump output as a string.
func (x Number) DumpString() string {
	var sb strings.Builder
	_ = x.Dump(&sb)
	return sb.String()
}

func dumpVector(v positional.Vector) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "size %d expo %d data [ ", v.Len(), v.Exp)
	for _, l := range v.Limbs {
		fmt.Fprintf(&sb, "%x ", l)
	}
	sb.WriteByte(']')
	return sb.String()
}

// String renders x compactly for logs: the special value name, or the sign
// followed by numerator and denominator vectors.
func (x Number) String() string {
	switch x.kind {
	case KindZero, KindUndefined:
		return x.kind.String()
	case KindNaN:
		return x.Sign().String() + "nan"
	}
	return fmt.Sprintf("%s%s/%s", x.Sign(), x.num, x.den)
}
