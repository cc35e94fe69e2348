// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is sb's command framework: a tree of [Command] values
// dispatched by the first positional argument, pflag-based flag
// parsing with struct-tag binding ([FlagsFromParams]), typo
// suggestions for unknown commands and flags, categorized errors
// ([ToolError]) and the structured command logger.
//
// Commands that hand their arguments to another program verbatim set
// [Command.RawArgs]; the framework then skips flag parsing entirely.
package cli
