// Package engine implements the financial calculations for property
// analysis: fixed-rate amortization, the four-pillars return breakdown,
// and the common return ratios. Every function is a pure function of its
// inputs and is safe to call concurrently.
//
// The engine never substitutes a default or returns zero for an undefined
// ratio; a zero denominator is reported as ErrDivisionUndefined so that
// data-entry errors upstream stay visible.
package engine

import "errors"

var (
	// ErrInvalidInput marks malformed or out-of-range loan or property
	// parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionUndefined marks a ratio whose denominator is zero.
	ErrDivisionUndefined = errors.New("division undefined")
)
