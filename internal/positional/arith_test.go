package positional

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgallom/brno-number/internal/limb"
)

func TestAddCarryPrependsLimb(t *testing.T) {
	t.Parallel()
	a := Vector{Exp: 1, Limbs: []limb.Limb{0xFFFFFFFF}}
	b := FromUint64(1)

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, "[1]@2", sum.String())
}

func TestAddDisjointWindows(t *testing.T) {
	t.Parallel()
	a := Vector{Exp: 3, Limbs: []limb.Limb{1}}
	b := Vector{Exp: -1, Limbs: []limb.Limb{2}}

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, "[1 0 0 0 2]@3", sum.String())
}

func TestSubReportsFlip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		a, b     uint64
		want     string
		wantFlip bool
	}{
		{"positive", 9, 4, "[5]@1", false},
		{"flipped", 4, 9, "[5]@1", true},
		{"cancels", 7, 7, "[]@0", false},
		{"borrow across limbs", 1 << 32, 1, "[ffffffff]@1", false},
		{"zero minus b", 0, 3, "[3]@1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			diff, flipped, err := Sub(FromUint64(tt.a), FromUint64(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, diff.String())
			assert.Equal(t, tt.wantFlip, flipped)
		})
	}
}

func TestMulSmall(t *testing.T) {
	t.Parallel()
	p, err := Mul(FromUint64(3), FromUint64(5))
	require.NoError(t, err)
	assert.Equal(t, "[f]@1", p.String())

	p, err = Mul(FromUint64(0), FromUint64(5))
	require.NoError(t, err)
	assert.True(t, p.IsZero())
}

// TestSquareSparse checks that radix powers stay a single limb. The window
// exponent before truncation is 200001; two leading zero limbs are folded
// into the exponent.
func TestSquareSparse(t *testing.T) {
	t.Parallel()
	v := Vector{Exp: 100000, Limbs: []limb.Limb{1}}

	sq, err := Square(v)
	require.NoError(t, err)
	assert.Equal(t, 1, sq.Len())
	assert.Equal(t, limb.Limb(1), sq.Limbs[0])
	assert.Equal(t, int64(199999), sq.Exp)

	p, err := Mul(v, v)
	require.NoError(t, err)
	assert.True(t, Equal(sq, p))
}

func TestMulExponentOverflow(t *testing.T) {
	t.Parallel()
	v := Vector{Exp: 1 << 62, Limbs: []limb.Limb{1}}
	_, err := Mul(v, v)
	assert.ErrorIs(t, err, ErrExponentOverflow)
}

func TestArithmeticProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Add matches exact addition", prop.ForAll(
		func(a, b Vector) bool {
			sum, err := Add(a, b)
			if err != nil {
				return false
			}
			return toRat(sum).Cmp(new(big.Rat).Add(toRat(a), toRat(b))) == 0
		},
		genVector(), genVector(),
	))

	properties.Property("Sub returns |a-b| and the flip", prop.ForAll(
		func(a, b Vector) bool {
			diff, flipped, err := Sub(a, b)
			if err != nil {
				return false
			}
			want := new(big.Rat).Sub(toRat(a), toRat(b))
			if flipped != (want.Sign() < 0) {
				return false
			}
			return toRat(diff).Cmp(want.Abs(want)) == 0
		},
		genVector(), genVector(),
	))

	properties.Property("Mul matches exact multiplication", prop.ForAll(
		func(a, b Vector) bool {
			p, err := Mul(a, b)
			if err != nil {
				return false
			}
			return toRat(p).Cmp(new(big.Rat).Mul(toRat(a), toRat(b))) == 0
		},
		genVector(), genVector(),
	))

	properties.Property("Mul is commutative", prop.ForAll(
		func(a, b Vector) bool {
			ab, err1 := Mul(a, b)
			ba, err2 := Mul(b, a)
			return err1 == nil && err2 == nil && Equal(ab, ba)
		},
		genVector(), genVector(),
	))

	properties.Property("results are normalized", prop.ForAll(
		func(a, b Vector) bool {
			sum, _ := Add(a, b)
			diff, _, _ := Sub(a, b)
			p, _ := Mul(a, b)
			for _, v := range []Vector{sum, diff, p} {
				if v.IsZero() {
					if v.Exp != 0 {
						return false
					}
					continue
				}
				if v.Limbs[0] == 0 || v.Limbs[v.Len()-1] == 0 {
					return false
				}
			}
			return true
		},
		genVector(), genVector(),
	))

	properties.TestingRun(t)
}
