// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package app holds what every sb command shares: the loaded
// configuration, standard streams, and constructors for the
// dispatcher, tag lister, repository sync, self-update gate and host
// preflight. Tests replace the hooks on [App] to run commands against
// fakes.
package app
