package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorEval     = 3 // parse, arithmetic or limit failure
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130 // SIGINT convention
)

// ConfigError is an invalid flag, environment value or flag combination.
// The program cannot start when one is returned.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvalError ties an evaluation failure to the expression that caused it.
// The cause is preserved so callers can still match engine sentinels such as
// rational.ErrNotImplemented with errors.Is.
type EvalError struct {
	// Expr is the source text of the failing expression.
	Expr string
	// Cause is the underlying parse or arithmetic error.
	Cause error
}

func (e EvalError) Error() string {
	if e.Expr == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Expr, e.Cause)
}

func (e EvalError) Unwrap() error { return e.Cause }

// LimitError reports an input that exceeds a configured bound, such as an
// expression that is too long or a power exponent that is too large.
type LimitError struct {
	// Name identifies the bounded quantity.
	Name string
	// Value is the offending value.
	Value int64
	// Limit is the configured maximum.
	Limit int64
}

func (e LimitError) Error() string {
	return fmt.Sprintf("%s %d exceeds limit %d", e.Name, e.Value, e.Limit)
}

// ExitCodeFor maps err to the exit status that reports it. Errors outside
// this package can choose their own status by implementing ExitCode() int.
func ExitCodeFor(err error) int {
	var (
		configErr ConfigError
		evalErr   EvalError
		limitErr  LimitError
		coder     interface{ ExitCode() int }
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &evalErr), errors.As(err, &limitErr):
		return ExitErrorEval
	case errors.As(err, &coder):
		return coder.ExitCode()
	}
	return ExitErrorGeneric
}

// IsContextError reports whether err stems from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
