package positional

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/xgallom/brno-number/internal/limb"
)

// One is the normalized vector holding 1.
func One() Vector {
	return Vector{Exp: 1, Limbs: []limb.Limb{1}}
}

// slot indices into the power buffer rotation.
const (
	baseA = iota
	baseB
	accA
	accB
	numSlots
)

// Power raises v to the non-negative integer e by repeated squaring.
//
// Four owned buffers rotate through the loop: one pair alternately holds
// the running square of v and the other pair alternately holds the
// accumulated product. Each step writes into the idle buffer of its pair
// and then flips the pair's index, so no buffer is copied or reallocated
// once it has grown to size. The final accumulator is returned as is.
//
// A power whose significant limbs would exceed MaxWindow fails with
// ErrWindowTooLarge before any multiplication.
func Power(v Vector, e uint64) (Vector, error) {
	return PowerContext(context.Background(), v, e)
}

// PowerContext is Power that gives up with ctx.Err() once ctx is done. It
// checks ctx between multiplications and inside long ones.
func PowerContext(ctx context.Context, v Vector, e uint64) (Vector, error) {
	if e == 0 {
		return One(), nil
	}
	if v.IsZero() {
		return Vector{}, nil
	}
	if n := powerLen(v, e); n > MaxWindow {
		return Vector{}, fmt.Errorf("power %d of %d limbs needs %d limbs: %w", e, v.Len(), n, ErrWindowTooLarge)
	}

	var bufs [numSlots][]limb.Limb
	base, acc := v, One()
	baseIdx, accIdx := baseA, accA

	for {
		if e&1 == 1 {
			next := flip(accIdx, accA, accB)
			prod, err := mulInto(ctx, &bufs[next], acc, base)
			if err != nil {
				return Vector{}, err
			}
			acc, accIdx = prod, next
		}
		e >>= 1
		if e == 0 {
			return acc, nil
		}
		next := flip(baseIdx, baseA, baseB)
		sq, err := mulInto(ctx, &bufs[next], base, base)
		if err != nil {
			return Vector{}, err
		}
		base, baseIdx = sq, next
	}
}

// flip returns the member of the pair {x, y} that is not cur.
func flip(cur, x, y int) int {
	if cur == x {
		return y
	}
	return x
}

// powerLen bounds the significant limbs of v^e from the bit length of v,
// saturating at MaxWindow+1. A single power-of-two limb grows by exactly
// bitLen-1 bits per factor.
func powerLen(v Vector, e uint64) uint64 {
	lead := v.Limbs[0]
	bitLen := uint64(v.Len()-1)*limb.Bits + uint64(bits.Len32(lead))
	if v.Len() == 1 && lead&(lead-1) == 0 {
		bitLen--
	}
	hi, lo := bits.Mul64(bitLen, e)
	if hi != 0 || lo/limb.Bits >= MaxWindow {
		return MaxWindow + 1
	}
	return lo/limb.Bits + 1
}
