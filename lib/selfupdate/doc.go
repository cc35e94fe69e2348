// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package selfupdate keeps sb's control repository and binary current
// before a command runs.
//
// [Gate.Check] fetches the control repository and compares HEAD with
// the branch's upstream. A stale repository is hard-synced and the
// release binary it pins is refreshed. [Gate.Run] bounds the gate to
// one extra pass when the binary did not change; the caller relaunches
// itself when it did.
package selfupdate
