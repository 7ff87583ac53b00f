package rational

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgallom/brno-number/internal/limb"
)

func TestNewSelectsKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		num, den []limb.Limb
		want     Kind
	}{
		{"both empty", nil, nil, KindUndefined},
		{"empty numerator", nil, []limb.Limb{1}, KindZero},
		{"zero limbs numerator", []limb.Limb{0, 0}, []limb.Limb{4}, KindZero},
		{"empty denominator", []limb.Limb{1}, nil, KindNaN},
		{"both present", []limb.Limb{2, 1}, []limb.Limb{4}, KindOrdinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := New(Negative, 2, tt.num, 0, tt.den)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Kind())
		})
	}
}

func TestNewCopiesAndNormalizes(t *testing.T) {
	t.Parallel()
	num := []limb.Limb{0, 7, 0}
	n, err := New(Positive, 3, num, 1, []limb.Limb{1})
	require.NoError(t, err)
	num[1] = 9

	assert.Equal(t, []limb.Limb{7}, n.Num())
	assert.Equal(t, int64(2), n.NumExp())
	assert.Equal(t, int64(1), n.DenExp())
	assert.Equal(t, int64(1), n.Exp())
}

func TestNewExponentRange(t *testing.T) {
	t.Parallel()
	_, err := New(Positive, MaxExp+1, []limb.Limb{1}, 1, []limb.Limb{1})
	assert.ErrorIs(t, err, ErrExponentOverflow)
}

func TestSpecialValueEncoding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		n              Number
		numLen, denLen int
		kind           Kind
	}{
		{"zero", Zero(), 0, 1, KindZero},
		{"nan", NaN(), 1, 0, KindNaN},
		{"undefined", Undefined(), 0, 0, KindUndefined},
		{"one", One(), 1, 1, KindOrdinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, tt.n.Num(), tt.numLen)
			assert.Len(t, tt.n.Den(), tt.denLen)
			assert.Equal(t, tt.kind, tt.n.Kind())
		})
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                                   string
		n                                      Number
		zero, nonZero, nan, notNaN, undef, ord bool
	}{
		{"zero", Zero(), true, false, false, true, false, false},
		{"nan", NaN(), false, true, true, false, false, false},
		{"undefined", Undefined(), false, false, false, false, true, false},
		{"ordinary", FromInt64(-3), false, true, false, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.zero, tt.n.IsZero(), "IsZero")
			assert.Equal(t, tt.nonZero, tt.n.IsNonZero(), "IsNonZero")
			assert.Equal(t, tt.nan, tt.n.IsNaN(), "IsNaN")
			assert.Equal(t, tt.notNaN, tt.n.IsNotNaN(), "IsNotNaN")
			assert.Equal(t, tt.undef, tt.n.IsUndefined(), "IsUndefined")
			assert.Equal(t, tt.ord, tt.n.IsOrdinary(), "IsOrdinary")
			assert.Equal(t, tt.nonZero, tt.n.Bool(), "Bool")
		})
	}
}

func TestFromInt64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   int64
		want string
	}{
		{0, "zero"},
		{3, "+[3]@1/[1]@1"},
		{-3, "-[3]@1/[1]@1"},
		{1 << 40, "+[100]@2/[1]@1"},
		{-1 << 63, "-[80000000]@2/[1]@1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromInt64(tt.in).String())
		})
	}
}

func TestNeg(t *testing.T) {
	t.Parallel()
	x := FromInt64(5)
	y := x.Neg()

	assert.Equal(t, Positive, x.Sign(), "Neg must not modify its receiver")
	assert.Equal(t, Negative, y.Sign())
	assert.Equal(t, Positive, y.Neg().Sign())

	assert.Equal(t, Positive, Zero().Neg().Sign())
	assert.True(t, Undefined().Neg().IsUndefined())
	assert.Equal(t, Negative, NaN().Neg().Sign())
}

func TestDump(t *testing.T) {
	t.Parallel()
	n, err := New(Negative, 2, []limb.Limb{2, 1}, 0, []limb.Limb{4})
	require.NoError(t, err)

	want := "{\n" +
		"  kind: ordinary\n" +
		"  sign: -\n" +
		"  expo: 2\n" +
		"  num : size 2 expo 2 data [ 2 1 ]\n" +
		"  den : size 1 expo 0 data [ 4 ]\n" +
		"}"
	assert.Equal(t, want, n.DumpString())
	assert.Equal(t, want, fmt.Sprintf("%x", n))
	assert.Contains(t, NaN().DumpString(), "kind: nan")
	assert.Contains(t, Zero().DumpString(), "expo: 0")
}

func TestFormatVerbs(t *testing.T) {
	t.Parallel()
	three := FromInt64(-3)
	tests := []struct {
		format string
		n      Number
		want   string
	}{
		{"%v", three, three.String()},
		{"%s", Zero(), "zero"},
		{"%8s|", Undefined(), "undefined|"},
		{"%-6v|", Zero(), "zero  |"},
		{"%q", NaN(), `"+nan"`},
		{"%x", Zero(), Zero().DumpString()},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fmt.Sprintf(tt.format, tt.n))
		})
	}
}

func TestZeroValueIsUndefined(t *testing.T) {
	t.Parallel()
	var n Number
	assert.True(t, n.IsUndefined())
	assert.False(t, n.IsOrdinary())
	assert.Equal(t, KindUndefined, n.Kind())
	assert.False(t, Equal(n, Zero()))
	assert.False(t, Equal(n, n))

	sum, err := n.Add(One())
	require.NoError(t, err)
	assert.True(t, sum.IsUndefined())
	assert.Equal(t, Undefined().DumpString(), n.DumpString())
}

func TestExpOfSpecialValues(t *testing.T) {
	t.Parallel()
	for _, n := range []Number{Zero(), NaN(), NaN().Neg(), Undefined()} {
		assert.Zero(t, n.Exp(), n.Kind().String())
	}
	assert.Equal(t, int64(-1), FromRat(big.NewRat(1, 1<<40)).Exp())
}
