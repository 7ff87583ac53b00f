package positional

import (
	"math/big"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/xgallom/brno-number/internal/limb"
)

// toRat returns the exact value of v.
func toRat(v Vector) *big.Rat {
	m := new(big.Int)
	for _, l := range v.Limbs {
		m.Lsh(m, limb.Bits)
		m.Or(m, new(big.Int).SetUint64(uint64(l)))
	}
	shift := v.MinExp() * limb.Bits
	r := new(big.Rat).SetInt(m)
	scale := new(big.Int).Lsh(big.NewInt(1), uint(absInt64(shift)))
	if shift >= 0 {
		return r.Mul(r, new(big.Rat).SetInt(scale))
	}
	return r.Quo(r, new(big.Rat).SetInt(scale))
}

func absInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// genVector generates short, possibly unnormalized vectors with small
// exponents. The mask zeroes limbs so truncation has work to do.
func genVector() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(-4, 6),
		gen.SliceOfN(5, gen.UInt32()),
		gen.UInt8(),
	).Map(func(vals []any) Vector {
		src := vals[1].([]uint32)
		mask := vals[2].(uint8)
		limbs := make([]limb.Limb, len(src))
		for i, l := range src {
			if mask&(1<<i) == 0 {
				limbs[i] = l
			}
		}
		return Vector{Exp: vals[0].(int64), Limbs: limbs}
	})
}

// genNormalized generates truncated vectors.
func genNormalized() gopter.Gen {
	return genVector().Map(func(v Vector) Vector { return Truncate(v) })
}
