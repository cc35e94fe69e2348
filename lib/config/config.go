// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Release URL placeholders substituted by the release fetcher.
const (
	VersionPlaceholder = "{version}"
	ArchPlaceholder    = "{arch}"
)

// Config is the master configuration for sb.
type Config struct {
	// SelfUpdate enables the control repository check that runs before
	// every command. Default: true.
	SelfUpdate bool `yaml:"self_update"`

	// Paths configures the control repository and its files.
	Paths PathsConfig `yaml:"paths"`

	// Release configures the companion binary download.
	Release ReleaseConfig `yaml:"release"`

	// Runner configures the external playbook runner.
	Runner RunnerConfig `yaml:"runner"`

	// Targets configures the three playbook repositories.
	Targets TargetsConfig `yaml:"targets"`
}

// PathsConfig configures file locations outside the playbook repositories.
type PathsConfig struct {
	// Control is the sb control repository checkout.
	// Default: /srv/git/sb
	Control string `yaml:"control"`

	// ControlBranch is the branch the control repository tracks.
	// Default: master
	ControlBranch string `yaml:"control_branch"`

	// Binary is the installed sb binary replaced by release downloads.
	// Default: ${SB_CONTROL}/sb
	Binary string `yaml:"binary"`

	// Cache is the tag cache file used by "sb list".
	// Default: ${SB_CONTROL}/cache.json
	Cache string `yaml:"cache"`

	// Accounts is the Saltbox accounts file naming the owning user.
	// Default: /srv/git/saltbox/accounts.yml
	Accounts string `yaml:"accounts"`
}

// ReleaseConfig configures release resolution.
type ReleaseConfig struct {
	// Marker is the one-line file holding "refs/tags/<version>".
	// Default: ${SB_CONTROL}/release.txt
	Marker string `yaml:"marker"`

	// URLTemplate is the artifact URL with {version} and {arch}
	// placeholders.
	URLTemplate string `yaml:"url_template"`
}

// RunnerConfig configures the playbook runner.
type RunnerConfig struct {
	// Binary is the ansible-playbook executable.
	// Default: /usr/local/bin/ansible-playbook
	Binary string `yaml:"binary"`
}

// TargetsConfig holds one entry per playbook repository.
type TargetsConfig struct {
	Primary   TargetConfig `yaml:"primary"`
	Community TargetConfig `yaml:"community"`
	Sandbox   TargetConfig `yaml:"sandbox"`
}

// TargetConfig configures one playbook repository.
type TargetConfig struct {
	// Repository is the repository root and the working directory for
	// playbook runs.
	Repository string `yaml:"repository"`

	// Playbook is the playbook file. Relative paths resolve against
	// Repository.
	Playbook string `yaml:"playbook"`

	// Log is the log file reset before each run. Relative paths resolve
	// against Repository.
	Log string `yaml:"log"`

	// Branch is the branch "sb update" keeps the repository on when it
	// is not already on another one. Default: master
	Branch string `yaml:"branch"`

	// Optional marks a repository that may be absent. Missing optional
	// repositories are skipped by "sb update" and "sb list".
	Optional bool `yaml:"optional"`

	// ListSkipTags are skipped, along with "always", when "sb list"
	// enumerates the playbook's tags.
	ListSkipTags []string `yaml:"list_skip_tags"`
}

// PlaybookPath returns the absolute playbook path.
func (t TargetConfig) PlaybookPath() string {
	return resolve(t.Repository, t.Playbook)
}

// LogPath returns the absolute log path, or "" when logging is disabled.
func (t TargetConfig) LogPath() string {
	if t.Log == "" {
		return ""
	}
	return resolve(t.Repository, t.Log)
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// DefaultReleaseURL is the public download location of sb releases.
const DefaultReleaseURL = "https://github.com/saltyorg/sb/releases/download/" +
	VersionPlaceholder + "/sb_" + ArchPlaceholder

// Default returns the configuration of a standard Saltbox host.
// Configuration files are merged over it.
func Default() *Config {
	return &Config{
		SelfUpdate: true,
		Paths: PathsConfig{
			Control:       "/srv/git/sb",
			ControlBranch: "master",
			Binary:        "${SB_CONTROL}/sb",
			Cache:         "${SB_CONTROL}/cache.json",
			Accounts:      "/srv/git/saltbox/accounts.yml",
		},
		Release: ReleaseConfig{
			Marker:      "${SB_CONTROL}/release.txt",
			URLTemplate: DefaultReleaseURL,
		},
		Runner: RunnerConfig{
			Binary: "/usr/local/bin/ansible-playbook",
		},
		Targets: TargetsConfig{
			Primary: TargetConfig{
				Repository: "/srv/git/saltbox",
				Playbook:   "saltbox.yml",
				Log:        "saltbox.log",
				Branch:     "master",
			},
			Community: TargetConfig{
				Repository:   "/opt/community",
				Playbook:     "community.yml",
				Log:          "community.log",
				Branch:       "master",
				Optional:     true,
				ListSkipTags: []string{"sanity_check"},
			},
			Sandbox: TargetConfig{
				Repository:   "/opt/sandbox",
				Playbook:     "sandbox.yml",
				Log:          "sandbox.log",
				Branch:       "master",
				ListSkipTags: []string{"sanity_check"},
			},
		},
	}
}

// Load loads configuration from the file named by SB_CONFIG, or returns
// [Default] with variables expanded when SB_CONFIG is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("SB_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"SB_CONTROL": c.Paths.Control,
		"HOME":       os.Getenv("HOME"),
	}

	c.Paths.Control = expandVars(c.Paths.Control, vars)
	vars["SB_CONTROL"] = c.Paths.Control // Update for dependent paths.

	c.Paths.Binary = expandVars(c.Paths.Binary, vars)
	c.Paths.Cache = expandVars(c.Paths.Cache, vars)
	c.Paths.Accounts = expandVars(c.Paths.Accounts, vars)
	c.Release.Marker = expandVars(c.Release.Marker, vars)
	c.Runner.Binary = expandVars(c.Runner.Binary, vars)

	for _, target := range c.Targets.all() {
		target.Repository = expandVars(target.Repository, vars)
		target.Playbook = expandVars(target.Playbook, vars)
		target.Log = expandVars(target.Log, vars)
	}
}

// all returns pointers to the targets in dispatch order.
func (t *TargetsConfig) all() []*TargetConfig {
	return []*TargetConfig{&t.Primary, &t.Community, &t.Sandbox}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Control == "" {
		errs = append(errs, fmt.Errorf("paths.control is required"))
	}
	if c.Paths.ControlBranch == "" {
		errs = append(errs, fmt.Errorf("paths.control_branch is required"))
	}
	if c.Paths.Binary == "" {
		errs = append(errs, fmt.Errorf("paths.binary is required"))
	}
	if c.Runner.Binary == "" {
		errs = append(errs, fmt.Errorf("runner.binary is required"))
	}

	if c.Release.URLTemplate != "" && !strings.Contains(c.Release.URLTemplate, VersionPlaceholder) {
		errs = append(errs, fmt.Errorf("release.url_template must contain %s", VersionPlaceholder))
	}

	names := []string{"primary", "community", "sandbox"}
	for i, target := range c.Targets.all() {
		if target.Repository == "" {
			errs = append(errs, fmt.Errorf("targets.%s.repository is required", names[i]))
		}
		if target.Playbook == "" {
			errs = append(errs, fmt.Errorf("targets.%s.playbook is required", names[i]))
		}
		if target.Branch == "" {
			errs = append(errs, fmt.Errorf("targets.%s.branch is required", names[i]))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
