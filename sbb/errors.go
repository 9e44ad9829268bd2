// SPDX-License-Identifier: MIT

// Package sbb — sentinel errors.
//
// Every message is prefixed "sbb: ..."; callers branch with errors.Is.
package sbb

import "errors"

// Sentinel errors. Validation failures of the PLFs and of the constraint are
// returned as the plf / relax sentinels, wrapped with the dimension context.
var (
	// ErrEmptyProblem indicates a problem without dimensions.
	ErrEmptyProblem = errors.New("sbb: problem has no dimensions")

	// ErrInvalidOptions indicates a negative epsilon, time limit, node budget
	// or minimal width.
	ErrInvalidOptions = errors.New("sbb: invalid options")

	// ErrUnknownRule is returned by ParseRule for an unrecognized name.
	ErrUnknownRule = errors.New("sbb: unknown branching rule")

	// ErrBadSplit indicates a split value that is not strictly inside the
	// interval of the chosen dimension, or a dimension out of range.
	ErrBadSplit = errors.New("sbb: split not strictly inside the box")
)
