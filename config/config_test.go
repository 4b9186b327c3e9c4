package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmptyReturnsDocumentedDefaults(t *testing.T) {
	p := Empty()

	if got := p.SyncContextFactory(); got != "file-lock" {
		t.Errorf("SyncContextFactory: got %q, want %q", got, "file-lock")
	}
	if got := p.SyncContextNameMapper(); got != "file-gaecv" {
		t.Errorf("SyncContextNameMapper: got %q, want %q", got, "file-gaecv")
	}
	if got := p.SyncContextLocksDirName(); got != ".locks" {
		t.Errorf("SyncContextLocksDirName: got %q, want %q", got, ".locks")
	}
	if got := p.SyncContextTimeout(); got != 30*time.Second {
		t.Errorf("SyncContextTimeout: got %v, want %v", got, 30*time.Second)
	}
	if got := p.DependencyCollectorImpl(); got != "bf" {
		t.Errorf("DependencyCollectorImpl: got %q, want %q", got, "bf")
	}
	if got := p.MaxExceptions(); got != 50 {
		t.Errorf("MaxExceptions: got %d, want %d", got, 50)
	}
	if got := p.MaxCycles(); got != 10 {
		t.Errorf("MaxCycles: got %d, want %d", got, 10)
	}
	if got := p.ConflictVerbosity(); got != "NONE" {
		t.Errorf("ConflictVerbosity: got %q, want %q", got, "NONE")
	}
}

func TestNilPropertiesReturnsDefaults(t *testing.T) {
	var p *Properties
	if got := p.SyncContextFactory(); got != "file-lock" {
		t.Errorf("got %q, want %q", got, "file-lock")
	}
	if got := p.MaxExceptions(); got != 50 {
		t.Errorf("got %d, want %d", got, 50)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aether.toml")
	contents := `
[aether.syncContext.named]
factory = "noop"
nameMapper = "gav"

[aether.syncContext.named.time]
unit = "MINUTES"

[aether.dependencyCollector]
impl = "df"
maxExceptions = 5
maxCycles = -1

[aether.conflictResolver]
verbose = "FULL"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.SyncContextFactory(); got != "noop" {
		t.Errorf("SyncContextFactory: got %q, want %q", got, "noop")
	}
	if got := p.SyncContextNameMapper(); got != "gav" {
		t.Errorf("SyncContextNameMapper: got %q, want %q", got, "gav")
	}
	if got := p.DependencyCollectorImpl(); got != "df" {
		t.Errorf("DependencyCollectorImpl: got %q, want %q", got, "df")
	}
	if got := p.MaxExceptions(); got != 5 {
		t.Errorf("MaxExceptions: got %d, want %d", got, 5)
	}
	if got := p.MaxCycles(); got != -1 {
		t.Errorf("MaxCycles: got %d, want %d", got, -1)
	}
	if got := p.ConflictVerbosity(); got != "FULL" {
		t.Errorf("ConflictVerbosity: got %q, want %q", got, "FULL")
	}
}

func TestSyncContextTimeoutUsesConfiguredUnit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aether.toml")
	contents := `
[aether.syncContext.named.time]
unit = "MINUTES"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// No explicit amount is set, so the documented default of 30 applies,
	// scaled by the configured unit instead of the default SECONDS.
	if got := p.SyncContextTimeout(); got != 30*time.Minute {
		t.Errorf("got %v, want %v", got, 30*time.Minute)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
