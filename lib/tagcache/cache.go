// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tagcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/tidwall/jsonc"
)

// Entry is the cached tag list of one repository.
type Entry struct {
	Commit string   `json:"commit"`
	Tags   []string `json:"tags"`
}

// Cache is the on-disk tag cache. It is not safe for concurrent use;
// sb runs one command at a time.
type Cache struct {
	path    string
	entries map[string]Entry
}

// New returns an empty cache that saves to path, replacing whatever
// is there.
func New(path string) *Cache {
	return &Cache{path: path, entries: map[string]Entry{}}
}

// Open loads the cache at path. A missing file yields an empty cache.
func Open(path string) (*Cache, error) {
	cache := New(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tag cache: %w", err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), &cache.entries); err != nil {
		return nil, fmt.Errorf("parsing tag cache %s: %w", path, err)
	}
	if cache.entries == nil {
		cache.entries = map[string]Entry{}
	}
	return cache, nil
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the tags cached for repository when they were recorded
// at commit.
func (c *Cache) Lookup(repository, commit string) ([]string, bool) {
	entry, ok := c.entries[repository]
	if !ok || commit == "" || entry.Commit != commit {
		return nil, false
	}
	return slices.Clone(entry.Tags), true
}

// Put records tags for repository at commit. Call [Cache.Save] to
// persist.
func (c *Cache) Put(repository, commit string, tags []string) {
	c.entries[repository] = Entry{Commit: commit, Tags: slices.Clone(tags)}
}

// Save writes the cache atomically.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tag cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating tag cache directory: %w", err)
	}

	temporaryPath := c.path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temporary tag cache: %w", err)
	}

	// Write, sync, close. If any step fails, remove the temporary file.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary tag cache: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary tag cache: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary tag cache: %w", err)
	}

	if err := os.Rename(temporaryPath, c.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming tag cache into place: %w", err)
	}
	return nil
}
