package positional

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgallom/brno-number/internal/limb"
)

func TestPower(t *testing.T) {
	t.Parallel()
	bases := []Vector{
		FromUint64(3),
		FromUint64(0xFFFFFFFF),
		{Exp: 0, Limbs: []limb.Limb{0x80000000}}, // 1/2
		{Exp: 2, Limbs: []limb.Limb{1, 7}},
	}
	for _, base := range bases {
		for _, e := range []uint64{0, 1, 2, 3, 5, 8, 13} {
			t.Run(fmt.Sprintf("%s^%d", base, e), func(t *testing.T) {
				t.Parallel()
				got, err := Power(base, e)
				require.NoError(t, err)

				want := big.NewRat(1, 1)
				for i := uint64(0); i < e; i++ {
					want.Mul(want, toRat(base))
				}
				assert.Zero(t, want.Cmp(toRat(got)), "got %s", toRat(got).String())
			})
		}
	}
}

func TestPowerMatchesRepeatedMul(t *testing.T) {
	t.Parallel()
	base := Vector{Exp: 1, Limbs: []limb.Limb{0x12345678, 0x9abcdef0}}
	acc := One()
	for e := uint64(1); e <= 9; e++ {
		var err error
		acc, err = Mul(acc, base)
		require.NoError(t, err)

		got, err := Power(base, e)
		require.NoError(t, err)
		assert.True(t, Equal(acc, got), "exponent %d: %s != %s", e, acc, got)
	}
}

func TestPowerSparse(t *testing.T) {
	t.Parallel()
	v := Vector{Exp: 100000, Limbs: []limb.Limb{1}}
	got, err := Power(v, 10)
	require.NoError(t, err)
	assert.Equal(t, "[1]@999991", got.String())
}

func TestPowerDoesNotMutateBase(t *testing.T) {
	t.Parallel()
	base := FromUint64(0xFFFFFFFF)
	before := base.Clone()
	_, err := Power(base, 7)
	require.NoError(t, err)
	assert.Equal(t, before, base)
}

func TestPowerZeroBase(t *testing.T) {
	t.Parallel()
	got, err := Power(Vector{}, 3)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Power(Vector{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "[1]@1", got.String())
}

func TestPowerWindowTooLarge(t *testing.T) {
	t.Parallel()
	base, err := Power(FromUint64(3), 100000)
	require.NoError(t, err)

	_, err = Power(base, 100000)
	assert.ErrorIs(t, err, ErrWindowTooLarge)

	_, err = Power(FromUint64(3), 1<<40)
	assert.ErrorIs(t, err, ErrWindowTooLarge)
	_, err = Power(FromUint64(0xFFFFFFFF), 1<<62)
	assert.ErrorIs(t, err, ErrWindowTooLarge, "bit length times exponent must not wrap")

	one, err := Power(Vector{Exp: 4, Limbs: []limb.Limb{1}}, 1<<40)
	require.NoError(t, err, "radix powers stay one limb wide")
	assert.Equal(t, 1, one.Len())
}

func TestPowerLenBoundsResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v Vector
		e uint64
	}{
		{FromUint64(2), 64},
		{FromUint64(3), 1000},
		{FromUint64(0xFFFFFFFF), 7},
		{FromUint64(1<<40 + 1), 33},
		{Vector{Exp: 9, Limbs: []limb.Limb{1}}, 500},
		{FromUint64(1 << 31), 40},
		{FromUint64(1<<32 + 1<<31), 9},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s^%d", tt.v, tt.e), func(t *testing.T) {
			t.Parallel()
			got, err := Power(tt.v, tt.e)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, powerLen(tt.v, tt.e), uint64(got.Len()))
		})
	}
}

func TestPowerContextCanceled(t *testing.T) {
	t.Parallel()
	base, err := Power(FromUint64(3), 100000)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = PowerContext(ctx, base, 1000)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = MulContext(ctx, base, base)
	assert.ErrorIs(t, err, context.Canceled)

	got, err := PowerContext(ctx, FromUint64(7), 3)
	require.NoError(t, err, "small powers never reach a check")
	assert.Equal(t, "[343]@1", got.String())
}
