// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package workdir scopes changes to the process working directory. The
// directory is a process-wide resource; [Run] acquires it for the
// duration of one function call and always restores the previous value,
// including when the function fails or panics.
package workdir

import (
	"fmt"
	"os"
)

// Run changes into dir, calls fn, and changes back to the directory that
// was current before the call. A failure to restore is returned only
// when fn itself succeeded; otherwise fn's error wins.
func Run(dir string, fn func() error) (err error) {
	previous, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("reading working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("entering %s: %w", dir, err)
	}
	defer func() {
		if restoreErr := os.Chdir(previous); restoreErr != nil && err == nil {
			err = fmt.Errorf("restoring working directory %s: %w", previous, restoreErr)
		}
	}()

	return fn()
}
