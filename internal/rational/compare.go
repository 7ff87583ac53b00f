package rational

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/xgallom/brno-number/internal/positional"
)

// Relation names one of the six comparison operators.
type Relation uint8

const (
	RelEqual Relation = iota
	RelNotEqual
	RelLess
	RelLessEqual
	RelMore
	RelMoreEqual
)

var relationSymbols = [...]string{"==", "!=", "<", "<=", ">", ">="}

// String returns the operator symbol.
func (r Relation) String() string {
	if int(r) < len(relationSymbols) {
		return relationSymbols[r]
	}
	return fmt.Sprintf("Relation(%d)", uint8(r))
}

// verdict is the outcome of the special-value pre-check of a relation.
type verdict uint8

const (
	fail verdict = iota
	pass
	mustCompare
)

func verdictOf(ok bool) verdict {
	if ok {
		return pass
	}
	return fail
}

// Relate reports x r y. Ordinary operands are compared by cross
// multiplication, which gives up with ctx.Err() once ctx is done.
func Relate(ctx context.Context, r Relation, x, y Number) (bool, error) {
	switch r {
	case RelEqual:
		return equal(ctx, x, y)
	case RelNotEqual:
		eq, err := equal(ctx, x, y)
		return !eq && err == nil, err
	case RelLess:
		return less(ctx, x, y)
	case RelMore:
		return more(ctx, x, y)
	case RelLessEqual, RelMoreEqual:
		if x.IsUndefined() || y.IsUndefined() {
			return false, nil
		}
		strict := more
		if r == RelMoreEqual {
			strict = less
		}
		ok, err := strict(ctx, x, y)
		return !ok && err == nil, err
	}
	return false, fmt.Errorf("unknown relation %s", r)
}

// decide evaluates a relation without a deadline.
func decide(r Relation, x, y Number) bool {
	ok, err := Relate(context.Background(), r, x, y)
	if err != nil {
		// Published exponents are bounded by MaxExp, so the products fit.
		panic(err)
	}
	return ok
}

// Equal reports x == y. Undefined equals nothing, not even itself.
func Equal(x, y Number) bool { return decide(RelEqual, x, y) }

// NotEqual reports x != y, the negation of Equal.
func NotEqual(x, y Number) bool { return decide(RelNotEqual, x, y) }

// Less reports x < y.
func Less(x, y Number) bool { return decide(RelLess, x, y) }

// More reports x > y.
func More(x, y Number) bool { return decide(RelMore, x, y) }

// LessEqual reports x <= y, defined as not x > y for comparable operands.
func LessEqual(x, y Number) bool { return decide(RelLessEqual, x, y) }

// MoreEqual reports x >= y, defined as not x < y for comparable operands.
func MoreEqual(x, y Number) bool { return decide(RelMoreEqual, x, y) }

// Cmp returns -1, 0 or +1 ordering x against y, and false when either
// operand is Undefined.
func Cmp(x, y Number) (int, bool) {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return 0, false
	case Less(x, y):
		return -1, true
	case More(x, y):
		return 1, true
	}
	return 0, true
}

func equal(ctx context.Context, x, y Number) (bool, error) {
	switch precheckEqual(x, y) {
	case pass:
		return true, nil
	case fail:
		return false, nil
	}
	c, err := cmpMagnitude(ctx, x, y)
	return c == 0 && err == nil, err
}

func less(ctx context.Context, x, y Number) (bool, error) {
	switch precheckOrder(x, y, x.neg) {
	case pass:
		return true, nil
	case fail:
		return false, nil
	}
	c, err := cmpMagnitude(ctx, x, y)
	return signed(x, c) < 0 && err == nil, err
}

func more(ctx context.Context, x, y Number) (bool, error) {
	switch precheckOrder(x, y, !x.neg) {
	case pass:
		return true, nil
	case fail:
		return false, nil
	}
	c, err := cmpMagnitude(ctx, x, y)
	return signed(x, c) > 0 && err == nil, err
}

// precheckEqual resolves equality for special values and differing signs.
func precheckEqual(x, y Number) verdict {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return fail
	case x.IsZero() && y.IsZero(), x.IsNaN() && y.IsNaN():
		return pass
	case x.neg != y.neg:
		return fail
	}
	return mustCompare
}

// precheckOrder resolves a strict relation for special values and differing
// signs. leftWins is the answer when the signs differ.
func precheckOrder(x, y Number, leftWins bool) verdict {
	switch {
	case x.IsUndefined() || y.IsUndefined():
		return fail
	case x.IsZero() && y.IsZero(), x.IsNaN() && y.IsNaN():
		return fail
	case x.neg != y.neg:
		return verdictOf(leftWins)
	}
	return mustCompare
}

// signed turns a magnitude comparison into a value comparison; operands
// that reach it share the sign of x.
func signed(x Number, c int) int {
	if x.neg {
		return -c
	}
	return c
}

// cmpMagnitude compares |x| and |y| by cross multiplication. NaN has an
// empty denominator and therefore orders above every finite magnitude.
// Cross products wider than positional.MaxWindow are compared through
// math/big instead.
func cmpMagnitude(ctx context.Context, x, y Number) (int, error) {
	left, err := positional.MulContext(ctx, x.num, y.den)
	var right positional.Vector
	if err == nil {
		right, err = positional.MulContext(ctx, y.num, x.den)
	}
	switch {
	case errors.Is(err, positional.ErrWindowTooLarge):
		return cmpMagnitudeRat(x, y), nil
	case err != nil:
		return 0, err
	}
	return positional.Compare(left, right), nil
}

// cmpMagnitudeRat compares two ordinary magnitudes exactly.
func cmpMagnitudeRat(x, y Number) int {
	left := new(big.Rat).Mul(vectorToRat(x.num), vectorToRat(y.den))
	right := new(big.Rat).Mul(vectorToRat(y.num), vectorToRat(x.den))
	return left.Cmp(right)
}
