// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantTags  Set
		wantExtra []string
	}{
		{
			name:     "dedup preserves first occurrence",
			input:    "a, b, a, cm-b",
			wantTags: Set{"a", "b", "cm-b"},
		},
		{
			name:      "prefixed tags with trailing flags",
			input:     "plex, cm-tautulli, sandbox-test -vv",
			wantTags:  Set{"plex", "cm-tautulli", "sandbox-test"},
			wantExtra: []string{"-vv"},
		},
		{
			name:      "flags only",
			input:     "-vv",
			wantTags:  nil,
			wantExtra: []string{"-vv"},
		},
		{
			name:     "no spaces after commas",
			input:    "plex,sonarr",
			wantTags: Set{"plex", "sonarr"},
		},
		{
			name:     "empty tokens discarded",
			input:    "plex,,sonarr,",
			wantTags: Set{"plex", "sonarr"},
		},
		{
			name:     "space separated block",
			input:    "plex sonarr plex",
			wantTags: Set{"plex", "sonarr"},
		},
		{
			name:     "space before comma",
			input:    "plex , sonarr",
			wantTags: Set{"plex", "sonarr"},
		},
		{
			name:      "everything after the first flag passes through",
			input:     "plex --skip-tags settings radarr",
			wantTags:  Set{"plex"},
			wantExtra: []string{"--skip-tags", "settings", "radarr"},
		},
		{
			name:     "empty input",
			input:    "",
			wantTags: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			request := Parse(test.input)
			if !slices.Equal(request.Tags, test.wantTags) {
				t.Errorf("Parse(%q).Tags = %q, want %q", test.input, request.Tags, test.wantTags)
			}
			if !slices.Equal(request.Extra, test.wantExtra) {
				t.Errorf("Parse(%q).Extra = %q, want %q", test.input, request.Extra, test.wantExtra)
			}
		})
	}
}

func TestParse_NoDuplicates(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"a,a,a",
		"a, b, a, b, c -v",
		"cm-a, a, sandbox-a, a, cm-a",
	}
	for _, input := range inputs {
		request := Parse(input)
		seen := make(map[string]bool)
		for _, tag := range request.Tags {
			if seen[tag] {
				t.Errorf("Parse(%q) returned duplicate tag %q in %q", input, tag, request.Tags)
			}
			seen[tag] = true
		}
	}
}

func TestParseArgs_KeepsQuotedExtraArguments(t *testing.T) {
	t.Parallel()

	request := ParseArgs([]string{"plex,", "cm-tautulli", "-e", "greeting=hello world", "-vv"})

	if want := (Set{"plex", "cm-tautulli"}); !slices.Equal(request.Tags, want) {
		t.Errorf("Tags = %q, want %q", request.Tags, want)
	}
	wantExtra := []string{"-e", "greeting=hello world", "-vv"}
	if !slices.Equal(request.Extra, wantExtra) {
		t.Errorf("Extra = %q, want %q", request.Extra, wantExtra)
	}
	if got := request.ExtraString(); got != "-e greeting=hello world -vv" {
		t.Errorf("ExtraString() = %q", got)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag          string
		wantTarget   TargetID
		wantStripped string
	}{
		{"plex", Primary, "plex"},
		{"cm-tautulli", Community, "tautulli"},
		{"sandbox-test", Sandbox, "test"},
		{"cm-sandbox-x", Community, "sandbox-x"},
		{"sandbox-cm-x", Sandbox, "cm-x"},
		{"cmx", Primary, "cmx"},
		{"sandbox", Primary, "sandbox"},
		{"cm-", Community, ""},
		{"sandbox-", Sandbox, ""},
	}

	for _, test := range tests {
		target, stripped := Classify(test.tag)
		if target != test.wantTarget || stripped != test.wantStripped {
			t.Errorf("Classify(%q) = (%v, %q), want (%v, %q)",
				test.tag, target, stripped, test.wantTarget, test.wantStripped)
		}
	}
}

func TestRoute_TotalPartition(t *testing.T) {
	t.Parallel()

	set := Set{"plex", "cm-tautulli", "sandbox-test", "sonarr", "cm-overseerr"}
	buckets := Route(set)

	routed := 0
	for _, id := range Order {
		routed += len(buckets.For(id))
	}
	if routed != len(set) {
		t.Fatalf("routed %d tags, want %d", routed, len(set))
	}

	want := map[TargetID][]string{
		Primary:   {"plex", "sonarr"},
		Community: {"tautulli", "overseerr"},
		Sandbox:   {"test"},
	}
	for _, id := range Order {
		if got := buckets.For(id); !slices.Equal(got, want[id]) {
			t.Errorf("bucket %v = %q, want %q", id, got, want[id])
		}
		for _, stripped := range buckets.For(id) {
			if prefixed, _ := Classify(stripped); id != Primary && prefixed == id {
				t.Errorf("bucket %v still carries its prefix: %q", id, stripped)
			}
		}
	}
}

func TestRoute_Empty(t *testing.T) {
	t.Parallel()

	if !Route(nil).Empty() {
		t.Error("Route(nil) should be empty")
	}
	if Route(Set{"plex"}).Empty() {
		t.Error("Route([plex]) should not be empty")
	}
	if got := Route(Set{"plex"}).For(TargetID(42)); got != nil {
		t.Errorf("For(out of range) = %q, want nil", got)
	}

	bare := Route(Set{"cm-", "sandbox-"})
	if !bare.Empty() {
		t.Errorf("bare prefixes routed tags: community=%q sandbox=%q",
			bare.For(Community), bare.For(Sandbox))
	}
	mixed := Route(Set{"cm-", "cm-tautulli"})
	if got := mixed.For(Community); !slices.Equal(got, []string{"tautulli"}) {
		t.Errorf("community bucket = %q, want [tautulli]", got)
	}
}

func TestTargetID(t *testing.T) {
	t.Parallel()

	names := map[TargetID]string{Primary: "primary", Community: "community", Sandbox: "sandbox"}
	for _, id := range Order {
		if id.String() != names[id] {
			t.Errorf("String() = %q, want %q", id.String(), names[id])
		}
		text, err := id.MarshalText()
		if err != nil || string(text) != names[id] {
			t.Errorf("MarshalText() = %q, %v, want %q", text, err, names[id])
		}
	}

	if Primary.Prefix() != "" || Community.Prefix() != "cm-" || Sandbox.Prefix() != "sandbox-" {
		t.Errorf("unexpected prefixes: %q %q %q", Primary.Prefix(), Community.Prefix(), Sandbox.Prefix())
	}
	if got := TargetID(7).String(); got != "unknown(7)" {
		t.Errorf("String() of invalid id = %q", got)
	}
}
