package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/metrics"
	"github.com/xgallom/brno-number/internal/orchestration"
)

func TestPresentResult(t *testing.T) {
	t.Parallel()
	p := CLIResultPresenter{}

	t.Run("value", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		p.PresentResult(orchestration.Result{Expr: "1/2 + 1/2", Value: eval(t, "1/2 + 1/2")}, orchestration.PresentationOptions{}, &buf)
		assert.Equal(t, "1\n", buf.String())
	})

	t.Run("syntax error shows caret", func(t *testing.T) {
		t.Parallel()
		_, err := expr.Eval(context.Background(), "1 + * 2", expr.NewEnv())
		var buf bytes.Buffer
		p.PresentResult(orchestration.Result{Expr: "1 + * 2", Err: err}, orchestration.PresentationOptions{}, &buf)
		lines := strings.Split(buf.String(), "\n")
		assert.Equal(t, "1 + * 2", lines[0])
		assert.Equal(t, "    ^", lines[1])
		assert.Contains(t, lines[2], "Error: syntax error at 4")
	})

	t.Run("eval error", func(t *testing.T) {
		t.Parallel()
		_, err := expr.Eval(context.Background(), "y + 1", expr.NewEnv())
		var buf bytes.Buffer
		p.PresentResult(orchestration.Result{Expr: "y + 1", Err: err}, orchestration.PresentationOptions{}, &buf)
		assert.Contains(t, buf.String(), "unknown identifier")
		assert.NotContains(t, buf.String(), "^")
	})
}

func TestPresentSummary(t *testing.T) {
	t.Parallel()
	_, syntaxErr := expr.Eval(context.Background(), "(", expr.NewEnv())
	results := []orchestration.Result{
		{Index: 0, Expr: "1/3", Value: eval(t, "1/3"), Duration: time.Millisecond},
		{Index: 1, Expr: "1 < 2", Value: eval(t, "1 < 2")},
		{Index: 2, Expr: "(", Err: syntaxErr},
		{Index: 3, Expr: "2^2", Err: context.DeadlineExceeded},
	}

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSummary(results, &buf)
	output := buf.String()

	for _, s := range []string{
		"Batch Summary", "Expression", "Duration", "Status",
		"✅ ordinary", "✅ bool", "< 1µs", "❌ syntax error", "❌ timeout",
		"4 lines, 2 failed",
	} {
		assert.Contains(t, output, s)
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"nil", nil, apperrors.ExitSuccess, ""},
		{"timeout", fmt.Errorf("run: %w", context.DeadlineExceeded), apperrors.ExitErrorTimeout, "Timed out after 1s"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, "Canceled"},
		{"config", apperrors.NewConfigError("bad flag"), apperrors.ExitErrorConfig, "Error: bad flag"},
		{"eval", apperrors.EvalError{Expr: "x", Cause: expr.ErrUnknownIdentifier}, apperrors.ExitErrorEval, "unknown identifier"},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric, "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := CLIResultPresenter{}.HandleError(tt.err, time.Second, &buf)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	p := CLIResultPresenter{}
	assert.Equal(t, "< 1µs", p.FormatDuration(0))
	assert.Equal(t, "500µs", p.FormatDuration(500*time.Microsecond))
	assert.Equal(t, "12ms", p.FormatDuration(12*time.Millisecond))
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	before := metrics.MemorySnapshot{TotalAlloc: 1024, NumGC: 1}
	after := metrics.MemorySnapshot{HeapAlloc: 2048, TotalAlloc: 1024 + 1536, NumGC: 3, PauseTotalNs: 2_500_000}

	var buf bytes.Buffer
	DisplayMemoryStats(before, after, &buf)
	output := buf.String()
	assert.Contains(t, output, "Heap in use:     2.0 KiB")
	assert.Contains(t, output, "Allocated:       1.5 KiB")
	assert.Contains(t, output, "GC cycles:       2")
	assert.Contains(t, output, "2.50ms")
}

func TestAnalyzeResultsWithCLIPresenter(t *testing.T) {
	t.Parallel()
	results := []orchestration.Result{
		{Expr: "1", Value: eval(t, "1")},
		{Expr: "z", Err: apperrors.EvalError{Expr: "z", Cause: expr.ErrUnknownIdentifier}},
	}
	var buf bytes.Buffer
	code := orchestration.AnalyzeResults(results, orchestration.PresentationOptions{}, CLIResultPresenter{}, &buf)
	assert.Equal(t, apperrors.ExitErrorEval, code)
	assert.Contains(t, buf.String(), "Batch Summary")
}
