// SPDX-License-Identifier: MIT
// Package plf: sentinel error set.
// Every message is prefixed with "plf: ...". Callers branch with errors.Is;
// context is attached with fmt.Errorf("...: %w", ErrX) at outer boundaries.

package plf

import "errors"

var (
	// ErrValidation is the class of all malformed-input errors. Every specific
	// validation sentinel below matches it via errors.Is.
	ErrValidation = errors.New("plf: invalid piecewise-linear function")

	// ErrTooFewBreakpoints indicates fewer than two breakpoints.
	ErrTooFewBreakpoints error = &validationError{msg: "plf: at least two breakpoints required"}

	// ErrNotIncreasing indicates breakpoints that are not strictly increasing.
	ErrNotIncreasing error = &validationError{msg: "plf: breakpoints must be strictly increasing"}

	// ErrLengthMismatch indicates len(V) != len(B).
	ErrLengthMismatch error = &validationError{msg: "plf: values and breakpoints differ in length"}

	// ErrNonFinite indicates a NaN or ±Inf breakpoint or value.
	ErrNonFinite error = &validationError{msg: "plf: NaN or Inf encountered"}

	// ErrDomain is returned when a point outside [B[0], B[len-1]] is evaluated.
	ErrDomain = errors.New("plf: point outside function domain")
)

// validationError is a sentinel that also matches ErrValidation.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

// Is reports membership in the ErrValidation class.
func (e *validationError) Is(target error) bool { return target == ErrValidation }
