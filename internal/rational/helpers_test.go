package rational

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/xgallom/brno-number/internal/limb"
)

// must fails the test on an arithmetic error: must(t)(x.Add(y)).
func must(t *testing.T) func(Number, error) Number {
	return func(n Number, err error) Number {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return n
	}
}

// radixPower returns R^k as a Number.
func radixPower(k int64) Number {
	n, err := New(Positive, k+1, []limb.Limb{1}, 1, []limb.Limb{1})
	if err != nil {
		panic(err)
	}
	return n
}

// genOrdinary generates ordinary numbers a/b·R^k with small k, so the
// vectors carry fractional limbs and non-trivial exponents.
func genOrdinary() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(-1<<40, 1<<40),
		gen.Int64Range(1, 1<<30),
		gen.Int64Range(-3, 3),
	).Map(func(vals []any) Number {
		a, b, k := vals[0].(int64), vals[1].(int64), vals[2].(int64)
		if a == 0 {
			a = 1
		}
		n, err := FromRat(big.NewRat(a, b)).Mul(radixPower(k))
		if err != nil {
			panic(err)
		}
		return n
	})
}

// specials lists every special value plus a negative NaN.
func specials() []Number {
	return []Number{Zero(), NaN(), NaN().Neg(), Undefined()}
}
