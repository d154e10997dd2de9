package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/config"
	dombatch "github.com/kailas-cloud/talentmatch/internal/domain/batch"
)

const dataset = `
profiles:
  - id: p1
    name: Ada
    skills: [Go]
jobs:
  - id: j1
    employer_id: e1
    title: Go Engineer
    status: published
    skills: [Go]
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedCmd_Flags(t *testing.T) {
	cmd := newSeedCmd()
	tests := []struct {
		name string
		def  string
	}{
		{"file", ""},
		{"batch-size", "5"},
		{"delay", "200ms"},
		{"dry-run", "false"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.name)
		if f == nil {
			t.Errorf("--%s flag not found", tt.name)
			continue
		}
		if f.DefValue != tt.def {
			t.Errorf("--%s default = %q, want %q", tt.name, f.DefValue, tt.def)
		}
	}
}

func TestSeedCmd_RequiresFile(t *testing.T) {
	if _, err := execute(t, "seed"); err == nil {
		t.Fatal("expected an error without --file")
	}
}

func TestSeedCmd_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte(dataset), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "seed", "--file", path, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "Dataset: 1 profiles, 1 jobs") {
		t.Errorf("output = %q", out)
	}
}

func TestSeedCmd_BadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte("profiles:\n  - id: p1\n    unknown_field: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "seed", "--file", path, "--dry-run"); err == nil {
		t.Error("expected unknown fields to be rejected")
	}
}

func TestSeedConfig_FlagsOverride(t *testing.T) {
	sc := config.SeedConfig{BatchSize: 3, BatchDelayMs: 50, CacheSize: 10}

	cmd := newSeedCmd()
	opts := &seedOptions{batchSize: 5, delay: 200 * time.Millisecond}
	got := seedConfig(cmd, opts, sc)
	if got.BatchSize != 3 || got.BatchDelay != 50*time.Millisecond || got.CacheSize != 10 {
		t.Errorf("config defaults = %+v", got)
	}

	if err := cmd.Flags().Set("batch-size", "8"); err != nil {
		t.Fatal(err)
	}
	opts.batchSize = 8
	got = seedConfig(cmd, opts, sc)
	if got.BatchSize != 8 || got.BatchDelay != 50*time.Millisecond {
		t.Errorf("flag override = %+v", got)
	}
}

func TestPrintReport(t *testing.T) {
	var rep dombatch.Report
	rep.Add(dombatch.NewOK(dombatch.Item{Kind: "profile", ID: "p1"}, true))
	rep.Add(dombatch.NewFailed(dombatch.Item{Kind: "job", ID: "j1"}, errors.New("embedding unavailable")))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	printReport(cmd, &rep)

	for _, want := range []string{"Processed: 1", "Failed:    1", "Cache hits: 1", "job j1: embedding unavailable"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q missing %q", out.String(), want)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "talentmatch-seed ") {
		t.Errorf("output = %q", out)
	}
}
