// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import "fmt"

// TargetID identifies one of the three fixed playbook targets. The set
// is closed: there is no way to construct a valid TargetID outside the
// constants below.
type TargetID int

const (
	// Primary is the main Saltbox repository. Tags without a
	// recognized prefix route here.
	Primary TargetID = iota

	// Community is the community repository, addressed with "cm-".
	Community

	// Sandbox is the sandbox repository, addressed with "sandbox-".
	Sandbox
)

// Order is the fixed dispatch order. Primary infrastructure converges
// before the optional add-ons.
var Order = [...]TargetID{Primary, Community, Sandbox}

// String returns the lower-case target name used in config files, log
// attributes and JSON output.
func (id TargetID) String() string {
	switch id {
	case Primary:
		return "primary"
	case Community:
		return "community"
	case Sandbox:
		return "sandbox"
	default:
		return fmt.Sprintf("unknown(%d)", int(id))
	}
}

// Prefix returns the routing prefix users type to address this target.
// Primary has no prefix.
func (id TargetID) Prefix() string {
	switch id {
	case Community:
		return CommunityPrefix
	case Sandbox:
		return SandboxPrefix
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so target IDs serialize
// by name in JSON output.
func (id TargetID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
