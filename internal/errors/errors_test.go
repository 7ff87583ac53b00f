package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("invalid value %d for flag %s", 42, "--workers")
	assert.EqualError(t, err, "invalid value 42 for flag --workers")

	var configErr ConfigError
	require.ErrorAs(t, fmt.Errorf("parse: %w", err), &configErr)
	assert.Equal(t, "invalid value 42 for flag --workers", configErr.Message)
}

func TestEvalError(t *testing.T) {
	t.Parallel()
	errRange := errors.New("exponent out of range")
	tests := []struct {
		name string
		err  EvalError
		want string
	}{
		{"with expression", EvalError{Expr: "2^x", Cause: errors.New("unknown identifier x")}, "2^x: unknown identifier x"},
		{"without expression", EvalError{Cause: errRange}, "exponent out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.EqualError(t, tt.err, tt.want)
			assert.ErrorIs(t, tt.err, tt.err.Cause)
			assert.Equal(t, tt.err.Cause, errors.Unwrap(tt.err))
		})
	}
}

func TestLimitError(t *testing.T) {
	t.Parallel()
	err := LimitError{Name: "power exponent", Value: 5000000, Limit: 1000000}
	assert.EqualError(t, err, "power exponent 5000000 exceeds limit 1000000")

	var limitErr LimitError
	require.ErrorAs(t, EvalError{Expr: "2^5000000", Cause: err}, &limitErr)
	assert.Equal(t, int64(1000000), limitErr.Limit)
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	assert.True(t, IsContextError(context.Canceled))
	assert.True(t, IsContextError(fmt.Errorf("line 4: %w", context.DeadlineExceeded)))
	assert.False(t, IsContextError(errors.New("division")))
	assert.False(t, IsContextError(nil))
}

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitErrorGeneric},
		{"canceled", fmt.Errorf("repl: %w", context.Canceled), ExitErrorCanceled},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"eval", EvalError{Expr: "1/", Cause: errors.New("unexpected end")}, ExitErrorEval},
		{"limit", LimitError{Name: "expression length"}, ExitErrorEval},
		{"canceled eval", EvalError{Expr: "2^9", Cause: context.Canceled}, ExitErrorCanceled},
		{"self classified", fmt.Errorf("line 3: %w", codedError{code: ExitErrorEval}), ExitErrorEval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	codes := []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorEval, ExitErrorConfig, ExitErrorCanceled}
	seen := map[int]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
	assert.Zero(t, ExitSuccess)
	assert.Equal(t, 130, ExitErrorCanceled)
}
