// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/saltyorg/sb/lib/tags"
)

// Failure records one target that did not complete.
type Failure struct {
	Target tags.TargetID `json:"target"`
	Code   int           `json:"exit_code"`
	Err    error         `json:"-"`
}

// Error aggregates the failures of one dispatch, in dispatch order.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s (exit %d): %v", failure.Target, failure.Code, failure.Err))
	}
	return "playbook failures: " + strings.Join(parts, "; ")
}

// ExitCode returns the first failing target's exit code.
func (e *Error) ExitCode() int {
	if len(e.Failures) == 0 {
		return 0
	}
	return e.Failures[0].Code
}

// Unwrap exposes every target's error to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure.Err)
	}
	return errs
}

// Failed reports whether target is among the failures.
func (e *Error) Failed(target tags.TargetID) bool {
	for _, failure := range e.Failures {
		if failure.Target == target {
			return true
		}
	}
	return false
}

// collector accumulates failures during a dispatch.
type collector struct {
	failures []Failure
}

func (c *collector) add(target tags.TargetID, err error) {
	code := 1
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) && coder.ExitCode() > 0 {
		code = coder.ExitCode()
	}
	c.failures = append(c.failures, Failure{Target: target, Code: code, Err: err})
}

// err returns nil when nothing failed. The nil check matters: a nil
// *Error stored in an error interface is not a nil error.
func (c *collector) err() error {
	if len(c.failures) == 0 {
		return nil
	}
	return &Error{Failures: c.failures}
}
