// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"

	"github.com/saltyorg/sb/lib/ansible"
	"github.com/saltyorg/sb/lib/tags"
)

// TagLister enumerates a playbook's tags, possibly from a cache.
type TagLister interface {
	Tags(ctx context.Context, playbook ansible.Playbook, skipTags []string) (list []string, cached bool, err error)
}

// Listing is one target's tag enumeration.
type Listing struct {
	Target tags.TargetID `json:"target"`
	Prefix string        `json:"prefix,omitempty"`
	Tags   []string      `json:"tags"`
	Cached bool          `json:"cached"`
	Err    error         `json:"-"`
	Error  string        `json:"error,omitempty"`
}

// List enumerates every installed target's tags in fixed order. Missing
// optional repositories are omitted. Enumeration errors are reported
// per listing rather than aborting the rest.
func (d *Dispatcher) List(ctx context.Context, lister TagLister) []Listing {
	var listings []Listing
	for _, id := range tags.Order {
		target := d.targets[id]
		if target.Optional && !target.Installed() {
			d.logger.Debug("repository not installed, not listing", "target", id.String())
			continue
		}

		listing := Listing{Target: id, Prefix: id.Prefix()}
		listing.Tags, listing.Cached, listing.Err = lister.Tags(ctx, target.Playbook, target.ListSkipTags)
		if listing.Err != nil {
			listing.Error = listing.Err.Error()
			d.logger.Warn("listing tags failed", "target", id.String(), "error", listing.Err)
		}
		listings = append(listings, listing)
	}
	return listings
}
