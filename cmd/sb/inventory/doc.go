// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package inventory implements "sb inventory", which opens the Saltbox
// host inventory in an editor or prints it.
package inventory
