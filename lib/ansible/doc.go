// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package ansible invokes the external playbook runner. It knows how to
// build a playbook command line, how to stream a run's output to the
// operator, how to reset a playbook's log file between runs, and how to
// enumerate a playbook's tags. It knows nothing about tag routing or
// about which playbooks exist; callers pass a [Playbook] descriptor.
//
// Playbook runs inherit stdin, stdout and stderr so operators see live
// progress. A non-zero exit is reported as an [*ExitError] carrying the
// runner's exit code. Runs are not wrapped in a timeout: a hung runner
// hangs the caller until the process is signalled.
//
// Before each run the previous log is compressed to "<log>.1.zst" with
// zstd and the log is truncated, so a failed run's log survives exactly
// one subsequent run.
package ansible
