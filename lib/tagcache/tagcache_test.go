// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tagcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/saltyorg/sb/lib/ansible"
)

func TestCache_RoundTripAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sb", "cache.json")

	cache, err := Open(path)
	if err != nil {
		t.Fatalf("Open on a missing file: %v", err)
	}
	cache.Put("/srv/git/saltbox", "abc", []string{"plex", "sonarr"})
	if err := cache.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	tags, ok := reopened.Lookup("/srv/git/saltbox", "abc")
	if !ok || !slices.Equal(tags, []string{"plex", "sonarr"}) {
		t.Errorf("Lookup = %v, %v", tags, ok)
	}
	if _, ok := reopened.Lookup("/srv/git/saltbox", "def"); ok {
		t.Error("Lookup at a different commit should miss")
	}
	if _, ok := reopened.Lookup("/opt/sandbox", "abc"); ok {
		t.Error("Lookup of an unknown repository should miss")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestOpen_Tolerant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	content := `{
  // written by hand
  "/opt/sandbox": {"commit": "123", "tags": ["a", "b",],},
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cache, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tags, ok := cache.Lookup("/opt/sandbox", "123"); !ok || !slices.Equal(tags, []string{"a", "b"}) {
		t.Errorf("Lookup = %v, %v", tags, ok)
	}
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("Open should reject a cache that is not an object")
	}

	// A fresh cache replaces the corrupt file on save.
	cache := New(path)
	cache.Put("/srv/git/saltbox", "abc", []string{"plex"})
	if err := cache.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Open(path); err != nil {
		t.Errorf("Open after rebuild: %v", err)
	}
}

type countingSource struct {
	calls int
	tags  []string
	err   error
}

func (s *countingSource) ListTags(context.Context, ansible.Playbook, []string) ([]string, error) {
	s.calls++
	return s.tags, s.err
}

func newLister(t *testing.T, source Source, commit *string) *Lister {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatal(err)
	}
	return &Lister{
		Cache:  cache,
		Source: source,
		Commit: func(context.Context, string) (string, error) {
			if *commit == "" {
				return "", errors.New("not a git repository")
			}
			return *commit, nil
		},
	}
}

func TestLister_Tags(t *testing.T) {
	source := &countingSource{tags: []string{"plex"}}
	commit := "c1"
	lister := newLister(t, source, &commit)
	playbook := ansible.Playbook{Dir: "/srv/git/saltbox", Path: "saltbox.yml"}
	ctx := context.Background()

	tags, cached, err := lister.Tags(ctx, playbook, nil)
	if err != nil || cached || !slices.Equal(tags, []string{"plex"}) {
		t.Fatalf("first Tags = %v, %v, %v", tags, cached, err)
	}

	tags, cached, err = lister.Tags(ctx, playbook, nil)
	if err != nil || !cached || !slices.Equal(tags, []string{"plex"}) {
		t.Errorf("second Tags = %v, %v, %v; want cached", tags, cached, err)
	}
	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}

	// A new commit invalidates the entry.
	commit = "c2"
	source.tags = []string{"plex", "emby"}
	tags, cached, _ = lister.Tags(ctx, playbook, nil)
	if cached || !slices.Equal(tags, []string{"plex", "emby"}) || source.calls != 2 {
		t.Errorf("after commit change Tags = %v, cached %v, calls %d", tags, cached, source.calls)
	}
}

func TestLister_Tags_NoCommit(t *testing.T) {
	source := &countingSource{tags: []string{"x"}}
	commit := ""
	lister := newLister(t, source, &commit)
	playbook := ansible.Playbook{Dir: "/opt/community", Path: "community.yml"}

	for range 2 {
		if _, cached, err := lister.Tags(context.Background(), playbook, nil); err != nil || cached {
			t.Fatalf("Tags = cached %v, err %v; want uncached", cached, err)
		}
	}
	if source.calls != 2 {
		t.Errorf("source called %d times, want every listing to enumerate", source.calls)
	}
}

func TestLister_Tags_SourceError(t *testing.T) {
	source := &countingSource{err: ansible.ErrNoTaskTags}
	commit := "c1"
	lister := newLister(t, source, &commit)

	_, _, err := lister.Tags(context.Background(), ansible.Playbook{Dir: "/opt/sandbox"}, nil)
	if !errors.Is(err, ansible.ErrNoTaskTags) {
		t.Fatalf("Tags error = %v, want ErrNoTaskTags", err)
	}
	if _, ok := lister.Cache.Lookup("/opt/sandbox", "c1"); ok {
		t.Error("failed enumeration must not be cached")
	}
}

func TestLister_Refresh(t *testing.T) {
	source := &countingSource{tags: []string{"a"}}
	commit := "c1"
	lister := newLister(t, source, &commit)
	playbook := ansible.Playbook{Dir: "/opt/sandbox", Path: "sandbox.yml"}

	if err := lister.Refresh(context.Background(), playbook, nil); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := lister.Refresh(context.Background(), playbook, nil); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("Refresh should always enumerate, calls = %d", source.calls)
	}
	if tags, ok := lister.Cache.Lookup("/opt/sandbox", "c1"); !ok || !slices.Equal(tags, []string{"a"}) {
		t.Errorf("Lookup after Refresh = %v, %v", tags, ok)
	}
}
