package expr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/positional"
	"github.com/xgallom/brno-number/internal/rational"
)

func TestEval(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
		kind string
	}{
		{"3 + 5", "8", "ordinary"},
		{"3 * 5", "15", "ordinary"},
		{"3 ^ 2", "9", "ordinary"},
		{"3 < 5", "true", "bool"},
		{"3 + 5 == 8", "true", "bool"},
		{"1/3 + 1/6", "1/2", "ordinary"},
		{"(1/3 + 2^-4) * 7", "133/48", "ordinary"},
		{"-2 ^ 2", "-4", "ordinary"},
		{"(-2) ^ 3", "-8", "ordinary"},
		{"2 ^ -2", "1/4", "ordinary"},
		{"5 - 5", "0", "zero"},
		{"1 / 0", "nan", "nan"},
		{"0 / 0", "undefined", "undefined"},
		{"zero ^ 0", "0", "zero"},
		{"7 ^ 0", "1", "ordinary"},
		{"nan * 0", "undefined", "undefined"},
		{"-nan", "-nan", "nan"},
		{"neg(zero)", "0", "zero"},
		{"undefined == undefined", "false", "bool"},
		{"undefined != undefined", "true", "bool"},
		{"nan == -nan", "true", "bool"},
		{"0x10 * 0x10", "256", "ordinary"},
		{"sqrt(nan)", "nan", "nan"},
		{"2 / 4 == 1 / 2", "true", "bool"},
		{"-1/2 <= -1/3", "true", "bool"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			v, err := Eval(context.Background(), tt.src, NewEnv())
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestEvalVariables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := NewEnv()

	v, err := Eval(ctx, "x = 1/3", env)
	require.NoError(t, err)
	assert.Equal(t, "1/3", v.String())

	v, err = Eval(ctx, "x * 3", env)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	v, err = Eval(ctx, "ans + x", env)
	require.NoError(t, err)
	assert.Equal(t, "4/3", v.String())

	// Relations do not replace ans.
	_, err = Eval(ctx, "ans > 1", env)
	require.NoError(t, err)
	ans, ok := env.Get(AnsName)
	require.True(t, ok)
	assert.Equal(t, "4/3", FormatNumber(ans))

	assert.Equal(t, []string{"ans", "x"}, env.Names())
	env.Clear()
	assert.Empty(t, env.Names())
}

func TestEvalKeepsFractionsUnreduced(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	v, err := Eval(context.Background(), "2 / 4", env)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, v.Number.Num())
	assert.Equal(t, []uint32{4}, v.Number.Den())
	assert.Equal(t, "1/2", v.String())
}

func TestEvalDump(t *testing.T) {
	t.Parallel()
	v, err := Eval(context.Background(), "dump(3/5)", NewEnv())
	require.NoError(t, err)
	assert.True(t, v.Dump)
	assert.Contains(t, v.Number.DumpString(), "num : size 1 expo 1 data [ 3 ]")
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src    string
		target error
	}{
		{"y + 1", ErrUnknownIdentifier},
		{"2 ^ (1/2)", ErrNonIntegerExponent},
		{"2 ^ nan", ErrNonIntegerExponent},
		{"sqrt(2)", rational.ErrNotImplemented},
		{"(1 < 2) + 1", ErrBooleanOperand},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			_, err := Eval(context.Background(), tt.src, NewEnv())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			var evalErr apperrors.EvalError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, tt.src, evalErr.Expr)
			assert.Equal(t, apperrors.ExitErrorEval, apperrors.ExitCodeFor(err))
		})
	}
}

func TestEvalExponentLimit(t *testing.T) {
	t.Parallel()
	env := NewEnv(WithMaxPowerExp(100))
	assert.Equal(t, int64(100), env.MaxPowerExp())

	_, err := Eval(context.Background(), "2 ^ 100", env)
	require.NoError(t, err)

	for _, src := range []string{"2 ^ 101", "2 ^ -101", "2 ^ (2 ^ 70)"} {
		_, err = Eval(context.Background(), src, env)
		var limitErr apperrors.LimitError
		require.ErrorAs(t, err, &limitErr, src)
		assert.Equal(t, int64(100), limitErr.Limit)
	}
}

func TestEvalSyntaxErrorIsNotWrapped(t *testing.T) {
	t.Parallel()
	_, err := Eval(context.Background(), "1 +", NewEnv())
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Pos)
}

func TestEvalCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Eval(ctx, "1 + 1", NewEnv())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, apperrors.ExitErrorCanceled, apperrors.ExitCodeFor(err))
}

func TestEvalWindowLimit(t *testing.T) {
	t.Parallel()
	_, err := Eval(context.Background(), "(3^100000)^100000", NewEnv())
	require.ErrorIs(t, err, positional.ErrWindowTooLarge)
	assert.Equal(t, apperrors.ExitErrorEval, apperrors.ExitCodeFor(err))
}

func TestEvalDeadlineStopsEngine(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Eval(ctx, "(3^1000000)^1000", NewEnv())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second, "power observes the deadline between and inside products")
	assert.Equal(t, apperrors.ExitErrorTimeout, apperrors.ExitCodeFor(err))
}

func TestEvalSparsePower(t *testing.T) {
	t.Parallel()
	v, err := Eval(context.Background(), "0x100000000 ^ 100000", NewEnv())
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, v.Number.Num())
	assert.Equal(t, int64(100001), v.Number.NumExp())
	assert.Contains(t, v.String(), "bits")
}

func TestObserver(t *testing.T) {
	t.Parallel()
	var (
		mu     sync.Mutex
		events []OpEvent
	)
	env := NewEnv(WithObserver(ObserverFunc(func(ev OpEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})))

	_, err := Eval(context.Background(), "(1 + 2) * 3 / 0 < 4", env)
	require.NoError(t, err)
	_, err = Eval(context.Background(), "sqrt(2)", env)
	require.Error(t, err)

	var ops, results []string
	for _, ev := range events {
		ops = append(ops, ev.Op)
		results = append(results, ev.Result)
		assert.GreaterOrEqual(t, int64(ev.Duration), int64(0))
	}
	assert.Equal(t, []string{"add", "mul", "div", "compare", "sqrt"}, ops)
	assert.Equal(t, []string{"ordinary", "ordinary", "nan", "bool", "error"}, results)
	assert.ErrorIs(t, events[4].Err, rational.ErrNotImplemented)
}

func TestFork(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	base := NewEnv(WithMaxPowerExp(7))
	_, err := Eval(ctx, "x = 2", base)
	require.NoError(t, err)

	fork := base.Fork()
	assert.Equal(t, int64(7), fork.MaxPowerExp())
	_, err = Eval(ctx, "x = x * 10", fork)
	require.NoError(t, err)

	x, _ := base.Get("x")
	assert.Equal(t, "2", FormatNumber(x))
	x, _ = fork.Get("x")
	assert.Equal(t, "20", FormatNumber(x))
}
