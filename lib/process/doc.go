// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for sb:
//
//   - Fatal error reporting to stderr when the logger may not be
//     initialized (pre-logger).
//   - Privilege elevation: [Elevate] re-executes the whole command
//     under sudo when the effective UID is not 0. It runs once at
//     startup and every later operation inherits the privilege level.
//   - [Relaunch] runs a fresh copy of the command as a child process
//     with inherited stdio and reports the child's exit status. The
//     self-update uses it after replacing the installed binary.
package process
