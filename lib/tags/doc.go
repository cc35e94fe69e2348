// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package tags turns the free-form text that follows "sb install" into a
// normalized tag set and routes each tag to exactly one playbook target.
//
// Splitting and routing are pure functions with no process or filesystem
// access, so every rule here is unit-testable in isolation:
//
//   - [Parse] and [ParseArgs] produce a [Request]: the de-duplicated
//     [Set] plus the pass-through extra arguments that begin at the
//     first standalone "-flag" token.
//   - [Classify] maps one tag to its [TargetID] and strips the routing
//     prefix ("cm-" for community, "sandbox-" for sandbox).
//   - [Route] partitions a [Set] into [Buckets], one ordered sequence per
//     target. Every tag lands in exactly one bucket.
package tags
