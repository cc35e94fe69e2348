// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tagcache

import (
	"context"
	"io"
	"log/slog"

	"github.com/saltyorg/sb/lib/ansible"
)

// Source enumerates a playbook's tags the slow way. [*ansible.Runner]
// satisfies it.
type Source interface {
	ListTags(ctx context.Context, playbook ansible.Playbook, skipTags []string) ([]string, error)
}

// CommitFunc returns the HEAD commit of the repository at dir.
type CommitFunc func(ctx context.Context, dir string) (string, error)

// Lister serves tags from the cache when the repository's HEAD matches
// the cached commit and from Source otherwise, updating the cache.
type Lister struct {
	Cache  *Cache
	Source Source
	Commit CommitFunc
	Logger *slog.Logger
}

// Tags returns playbook's tags and whether they came from the cache.
// A repository whose commit cannot be read is listed uncached and not
// recorded.
func (l *Lister) Tags(ctx context.Context, playbook ansible.Playbook, skipTags []string) ([]string, bool, error) {
	commit, err := l.Commit(ctx, playbook.Dir)
	if err != nil {
		l.logger().Warn("cannot read repository commit, bypassing tag cache", "dir", playbook.Dir, "error", err)
		commit = ""
	}

	if tags, ok := l.Cache.Lookup(playbook.Dir, commit); ok {
		return tags, true, nil
	}

	tags, err := l.Source.ListTags(ctx, playbook, skipTags)
	if err != nil {
		return nil, false, err
	}
	if commit != "" {
		l.record(playbook.Dir, commit, tags)
	}
	return tags, false, nil
}

// Refresh re-enumerates playbook's tags regardless of the cache and
// records them at the repository's current commit.
func (l *Lister) Refresh(ctx context.Context, playbook ansible.Playbook, skipTags []string) error {
	commit, err := l.Commit(ctx, playbook.Dir)
	if err != nil {
		return err
	}
	tags, err := l.Source.ListTags(ctx, playbook, skipTags)
	if err != nil {
		return err
	}
	l.record(playbook.Dir, commit, tags)
	return nil
}

// record stores tags and persists the cache. Save failures are logged,
// not returned.
func (l *Lister) record(dir, commit string, tags []string) {
	l.Cache.Put(dir, commit, tags)
	if err := l.Cache.Save(); err != nil {
		l.logger().Warn("saving tag cache failed", "path", l.Cache.Path(), "error", err)
	}
}

func (l *Lister) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}
