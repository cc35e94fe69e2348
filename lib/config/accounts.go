// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Accounts is the subset of the Saltbox accounts.yml that sb reads.
// Everything else in the file belongs to the playbooks.
type Accounts struct {
	User AccountUser `yaml:"user"`
}

// AccountUser identifies the unprivileged Saltbox user.
type AccountUser struct {
	Name string `yaml:"name"`
}

// LoadAccounts parses the accounts file at path. A file without a
// user name is an error: repository ownership cannot be restored
// without it.
func LoadAccounts(path string) (*Accounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	var accounts Accounts
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing accounts file %s: %w", path, err)
	}
	if accounts.User.Name == "" {
		return nil, fmt.Errorf("accounts file %s has no user.name", path)
	}
	return &accounts, nil
}
