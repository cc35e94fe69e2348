// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package selfupdate

import (
	"context"
	"errors"
	"testing"

	"github.com/saltyorg/sb/lib/git"
	"github.com/saltyorg/sb/lib/release"
	"github.com/saltyorg/sb/lib/testutil"
)

// fakeRepository has a local head and an upstream; Sync moves head to
// upstream. pending queues upstream values returned by later fetches.
type fakeRepository struct {
	head     string
	upstream string
	pending  []string
	fetches  int
	syncs    []git.SyncOptions
	fetchErr error
	syncErr  error
}

func (r *fakeRepository) Fetch(context.Context) error {
	r.fetches++
	if r.fetchErr != nil {
		return r.fetchErr
	}
	if len(r.pending) > 0 {
		r.upstream, r.pending = r.pending[0], r.pending[1:]
	}
	return nil
}

func (r *fakeRepository) Head(context.Context) (string, error) { return r.head, nil }

func (r *fakeRepository) Upstream(context.Context, string) (string, error) {
	return r.upstream, nil
}

func (r *fakeRepository) Sync(_ context.Context, opts git.SyncOptions) (git.SyncResult, error) {
	r.syncs = append(r.syncs, opts)
	if r.syncErr != nil {
		return git.SyncResult{}, r.syncErr
	}
	result := git.SyncResult{Before: r.head, After: r.upstream}
	r.head = r.upstream
	return result, nil
}

func refresher(replaced bool, calls *int) RefreshFunc {
	return func(context.Context) (release.Outcome, error) {
		*calls++
		return release.Outcome{Replaced: replaced}, nil
	}
}

func TestCheck_UpToDate(t *testing.T) {
	repository := &fakeRepository{head: "a", upstream: "a"}
	refreshes := 0
	gate := &Gate{Repository: repository, Branch: "master", Refresh: refresher(true, &refreshes)}

	result, err := gate.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Updated || result.BinaryReplaced {
		t.Errorf("result = %+v, want no update", result)
	}
	if len(repository.syncs) != 0 || refreshes != 0 {
		t.Errorf("up-to-date gate synced %d times, refreshed %d times", len(repository.syncs), refreshes)
	}
	if repository.fetches != 1 {
		t.Errorf("fetches = %d, want 1", repository.fetches)
	}
}

func TestCheck_Stale(t *testing.T) {
	repository := &fakeRepository{head: "a", upstream: "b"}
	refreshes := 0
	gate := &Gate{Repository: repository, Branch: "develop", Owner: "seed", Refresh: refresher(true, &refreshes)}

	result, err := gate.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Updated || !result.BinaryReplaced || result.Before != "a" || result.After != "b" {
		t.Errorf("result = %+v", result)
	}
	if len(repository.syncs) != 1 || repository.syncs[0] != (git.SyncOptions{Branch: "develop", Owner: "seed"}) {
		t.Errorf("syncs = %+v", repository.syncs)
	}
	if refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes)
	}
}

func TestCheck_Errors(t *testing.T) {
	fetchFailure := errors.New("network down")
	gate := &Gate{Repository: &fakeRepository{fetchErr: fetchFailure}, Branch: "master"}
	if _, err := gate.Check(context.Background()); !errors.Is(err, fetchFailure) {
		t.Errorf("fetch failure: Check error = %v", err)
	}

	syncFailure := errors.New("reset failed")
	gate = &Gate{Repository: &fakeRepository{head: "a", upstream: "b", syncErr: syncFailure}, Branch: "master"}
	if _, err := gate.Check(context.Background()); !errors.Is(err, syncFailure) {
		t.Errorf("sync failure: Check error = %v", err)
	}

	gate = &Gate{
		Repository: &fakeRepository{head: "a", upstream: "b"},
		Branch:     "master",
		Refresh: func(context.Context) (release.Outcome, error) {
			return release.Outcome{}, release.ErrMalformedMarker
		},
	}
	result, err := gate.Check(context.Background())
	if !errors.Is(err, release.ErrMalformedMarker) {
		t.Errorf("refresh failure: Check error = %v", err)
	}
	if !result.Updated || result.BinaryReplaced {
		t.Errorf("refresh failure: result = %+v", result)
	}
}

func TestRun_SecondPassWhenBinaryUnchanged(t *testing.T) {
	// The first fetch sees b; by the second pass upstream moved to c.
	repository := &fakeRepository{head: "a", upstream: "a", pending: []string{"b", "c"}}
	refreshes := 0
	gate := &Gate{Repository: repository, Branch: "master", Refresh: refresher(false, &refreshes)}

	result, err := gate.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repository.fetches != 2 || len(repository.syncs) != 2 {
		t.Errorf("fetches = %d, syncs = %d; want 2 and 2", repository.fetches, len(repository.syncs))
	}
	if !result.Updated || result.Before != "a" || result.After != "c" || result.BinaryReplaced {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_SinglePass(t *testing.T) {
	tests := []struct {
		name     string
		upstream string
		replaced bool
	}{
		{name: "up to date", upstream: "a"},
		{name: "binary replaced", upstream: "b", replaced: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repository := &fakeRepository{head: "a", upstream: test.upstream}
			refreshes := 0
			gate := &Gate{Repository: repository, Branch: "master", Refresh: refresher(test.replaced, &refreshes)}
			result, err := gate.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if repository.fetches != 1 {
				t.Errorf("fetches = %d, want 1", repository.fetches)
			}
			if result.BinaryReplaced != test.replaced {
				t.Errorf("BinaryReplaced = %v, want %v", result.BinaryReplaced, test.replaced)
			}
		})
	}
}

func TestCheck_RealRepository(t *testing.T) {
	testutil.RequireGit(t)
	origin, clone := testutil.GitRepository(t)
	repository := git.NewRepository(clone)
	gate := &Gate{Repository: repository, Branch: "master"}
	ctx := context.Background()

	result, err := gate.Check(ctx)
	if err != nil || result.Updated {
		t.Fatalf("fresh clone: %+v, %v", result, err)
	}

	pushed := testutil.GitPushCommit(t, origin, "master", "release.txt", "refs/tags/v2\n")
	result, err = gate.Check(ctx)
	if err != nil {
		t.Fatalf("Check after push: %v", err)
	}
	if !result.Updated || result.After != pushed {
		t.Errorf("result = %+v, want update to %s", result, pushed)
	}
}
