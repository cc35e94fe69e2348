// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so --json consumers and the
// exit path can tell input mistakes from host problems without parsing
// message text.
type ErrorCategory string

const (
	// CategoryValidation indicates bad input: unknown command, missing
	// argument, bad flag. The user should fix the command line.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced file or repository does
	// not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryPrecondition indicates the host does not meet Saltbox's
	// requirements (OS release, architecture, virtualization).
	CategoryPrecondition ErrorCategory = "precondition"

	// CategoryExternal indicates an external command (git, the playbook
	// runner, the editor) failed.
	CategoryExternal ErrorCategory = "external"

	// CategoryMalformed indicates external data sb depends on is
	// malformed: release marker, tag listing, downloaded artifact.
	CategoryMalformed ErrorCategory = "malformed"

	// CategoryInternal indicates an unexpected failure: bugs, I/O
	// errors on files sb owns.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps an inner error,
// preserving the chain for errors.Is and errors.As. An optional Hint
// is appended to the message after a blank line.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is actionable guidance shown after the message.
	Hint string
}

// Error returns the underlying message followed by the hint, if any.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Precondition creates a host precondition error.
func Precondition(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryPrecondition, Err: fmt.Errorf(format, args...)}
}

// External creates an external command error.
func External(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryExternal, Err: fmt.Errorf(format, args...)}
}

// Malformed creates a malformed external data error.
func Malformed(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryMalformed, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
