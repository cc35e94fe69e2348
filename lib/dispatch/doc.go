// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch runs playbooks across the three Saltbox targets.
//
// A [Dispatcher] holds the three [Target] descriptors, the playbook
// runner and a logger. It is constructed per command invocation and
// carries no package-level state. Every operation visits targets in the
// fixed order primary, community, sandbox, one at a time:
//
//   - [Dispatcher.Install] routes a tag request into per-target buckets
//     and runs each target whose bucket is non-empty with
//     "--tags <bucket> [extra...]".
//   - [Dispatcher.Update] syncs each repository and then converges its
//     settings with "--tags settings --skip-tags sanity_check,pre-tasks".
//   - [Dispatcher.List] enumerates every target's tags.
//
// A failing target never stops the targets after it. Failures are
// collected into an [*Error] whose ExitCode is the first failing
// target's exit code, so the process status reflects any failure.
package dispatch
