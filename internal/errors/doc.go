// Package apperrors defines the error classes the front ends report and the
// exit status each maps to. Wrapping uses fmt.Errorf with %w throughout, so
// ExitCodeFor finds a class anywhere in the chain.
package apperrors
