// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor provides the checklist workflow behind "sb doctor".
//
// Each check produces a [Result]. Fixable failures carry fix closures
// that run in --fix mode. The package provides:
//
//   - [Result] type with status, message, and optional fix action
//   - Constructors: [Pass], [Fail], [FailWithFix], [FailElevated], [Warn], [Skip]
//   - [ExecuteFixes] for running fix closures with elevation awareness
//   - [PrintChecklist] for human-readable output
//   - [BuildJSON] for machine-readable output
//   - [MarkRepaired] for re-check repair tracking
//
// What to check and how to fix it lives in the doctor command.
package doctor
