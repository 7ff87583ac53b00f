package rational

import (
	"math"
	"math/big"

	"github.com/xgallom/brno-number/internal/limb"
	"github.com/xgallom/brno-number/internal/positional"
)

// Conversions to and from math/big. The engine itself has no text format;
// callers that need decimal output go through Rat.

// FromBigInt converts an integer of any size.
func FromBigInt(z *big.Int) Number {
	if z.Sign() == 0 {
		return Zero()
	}
	return Number{
		kind: KindOrdinary,
		neg:  z.Sign() < 0,
		num:  vectorFromBig(z),
		den:  positional.One(),
	}
}

// FromRat converts a fraction. The result keeps the reduced numerator and
// denominator of r.
func FromRat(r *big.Rat) Number {
	if r.Sign() == 0 {
		return Zero()
	}
	return Number{
		kind: KindOrdinary,
		neg:  r.Sign() < 0,
		num:  vectorFromBig(r.Num()),
		den:  vectorFromBig(r.Denom()),
	}
}

// Rat returns the exact value of x. It reports false for NaN and Undefined,
// which have no rational value.
func (x Number) Rat() (*big.Rat, bool) {
	switch x.kind {
	case KindZero:
		return new(big.Rat), true
	case KindNaN, KindUndefined:
		return nil, false
	}
	r := new(big.Rat).Quo(vectorToRat(x.num), vectorToRat(x.den))
	if x.neg {
		r.Neg(r)
	}
	return r, true
}

// vectorFromBig packs |z| into 32-bit limbs, most significant first.
func vectorFromBig(z *big.Int) positional.Vector {
	b := new(big.Int).Abs(z).Bytes()
	n := (len(b) + 3) / 4
	limbs := make([]limb.Limb, n)
	for i := 0; i < len(b); i++ {
		pos := len(b) - 1 - i // byte index from the least significant end
		limbs[n-1-i/4] |= limb.Limb(b[pos]) << (8 * (i % 4))
	}
	return positional.Truncate(positional.Vector{Exp: int64(n), Limbs: limbs})
}

// vectorToRat returns the exact value of v.
func vectorToRat(v positional.Vector) *big.Rat {
	m := new(big.Int)
	for _, l := range v.Limbs {
		m.Lsh(m, limb.Bits)
		m.Or(m, new(big.Int).SetUint64(uint64(l)))
	}
	r := new(big.Rat).SetInt(m)
	shift := v.MinExp() * limb.Bits
	switch {
	case shift > 0:
		r.Mul(r, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(shift))))
	case shift < 0:
		r.Quo(r, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(-shift))))
	}
	return r
}

// RatBits estimates the size in bits of the math/big representation Rat
// would build. Front-ends use it to avoid expanding sparse values such as
// R^1000000 into millions of bits.
func (x Number) RatBits() int64 {
	return vectorSpan(x.num) + vectorSpan(x.den)
}

func vectorSpan(v positional.Vector) int64 {
	if v.IsZero() {
		return 0
	}
	hi, lo := v.Exp, v.MinExp()
	if hi < 0 {
		hi = -hi
	}
	if lo < 0 {
		lo = -lo
	}
	m := max(hi, lo)
	if m > math.MaxInt64/(2*limb.Bits) {
		return math.MaxInt64 / 2
	}
	return m * limb.Bits
}
