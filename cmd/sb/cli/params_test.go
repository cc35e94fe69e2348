// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string        `flag:"name" desc:"the name"`
		Print    bool          `flag:"print,p" desc:"print output"`
		Count    int           `flag:"count" desc:"number of items"`
		Timeout  time.Duration `flag:"timeout" desc:"request timeout"`
		Targets  []string      `flag:"targets" desc:"target list"`
		Untagged string        // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--name", "seed",
		"-p",
		"--count", "42",
		"--timeout", "30s",
		"--targets", "primary,sandbox",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "seed" {
		t.Errorf("Name = %q, want %q", p.Name, "seed")
	}
	if !p.Print {
		t.Error("Print = false, want true")
	}
	if p.Count != 42 {
		t.Errorf("Count = %d, want 42", p.Count)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", p.Timeout)
	}
	if len(p.Targets) != 2 || p.Targets[0] != "primary" || p.Targets[1] != "sandbox" {
		t.Errorf("Targets = %v, want [primary sandbox]", p.Targets)
	}
	if p.Untagged != "" {
		t.Errorf("Untagged = %q, want empty", p.Untagged)
	}
}

func TestBindFlags_Count(t *testing.T) {
	type params struct {
		Verbosity Count `flag:"verbosity,v" desc:"verbosity"`
	}

	tests := []struct {
		args []string
		want Count
	}{
		{nil, 0},
		{[]string{"-v"}, 1},
		{[]string{"-vvv"}, 3},
		{[]string{"-v", "--verbosity"}, 2},
	}
	for _, test := range tests {
		var p params
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		if err := BindFlags(&p, flagSet); err != nil {
			t.Fatalf("BindFlags: %v", err)
		}
		if err := flagSet.Parse(test.args); err != nil {
			t.Fatalf("Parse(%q): %v", test.args, err)
		}
		if p.Verbosity != test.want {
			t.Errorf("Parse(%q): Verbosity = %d, want %d", test.args, p.Verbosity, test.want)
		}
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Branch  string        `flag:"branch" desc:"branch" default:"master"`
		Count   int           `flag:"count" desc:"count" default:"3"`
		Timeout time.Duration `flag:"timeout" desc:"timeout" default:"10s"`
		Check   bool          `flag:"check" desc:"check" default:"true"`
		Skip    []string      `flag:"skip" desc:"skip" default:"x,y"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Branch != "master" || p.Count != 3 || p.Timeout != 10*time.Second || !p.Check {
		t.Errorf("defaults = %+v", p)
	}
	if len(p.Skip) != 2 || p.Skip[0] != "x" || p.Skip[1] != "y" {
		t.Errorf("Skip = %v, want [x y]", p.Skip)
	}
}

func TestBindFlags_EmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		Fix bool `flag:"fix" desc:"apply fixes"`
	}

	var p params
	flagSet := FlagsFromParams("doctor", &p)
	if err := flagSet.Parse([]string{"--json", "--fix"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON || !p.Fix {
		t.Errorf("params = %+v", p)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	if err := BindFlags(struct{}{}, flagSet); err == nil {
		t.Error("BindFlags(non-pointer) should fail")
	}
	value := 1
	if err := BindFlags(&value, flagSet); err == nil {
		t.Error("BindFlags(pointer to int) should fail")
	}

	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault{}, flagSet); err == nil {
		t.Error("BindFlags with unparseable default should fail")
	}

	type unsupported struct {
		Rate float32 `flag:"rate"`
	}
	if err := BindFlags(&unsupported{}, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags with unsupported type should fail")
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil input, got none")
		}
	}()
	FlagsFromParams("test", nil)
}

func TestBindFlags_PositionalArgsRemain(t *testing.T) {
	type params struct {
		Print bool `flag:"print" desc:"print"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--print", "develop"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	remaining := flagSet.Args()
	if len(remaining) != 1 || remaining[0] != "develop" {
		t.Errorf("remaining args = %v, want [develop]", remaining)
	}
}
