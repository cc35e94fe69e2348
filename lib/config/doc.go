// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for sb.
//
// Configuration is loaded from a single file named by the SB_CONFIG
// environment variable (via [Load]) or a --config flag (via [LoadFile]).
// When neither is given, [Default] describes a standard Saltbox host:
// the control repository at /srv/git/sb, the primary repository at
// /srv/git/saltbox, the community repository at /opt/community and the
// sandbox repository at /opt/sandbox. A file only needs the keys it
// overrides.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${SB_CONTROL} (the control repository) and ${VAR:-default}
// patterns are expanded. No other environment variables override
// config values.
//
// [LoadAccounts] parses the Saltbox accounts.yml, which names the
// unprivileged user that owns the repositories.
//
// This package depends on no other sb packages.
package config
