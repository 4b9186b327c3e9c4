package namedlock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBackupLocksDirCopiesContentsRecursively(t *testing.T) {
	src := filepath.Join(t.TempDir(), "locks")
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.lock"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "b.lock"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "locks-backup")
	if err := BackupLocksDir(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "a.lock"))
	if err != nil {
		t.Fatalf("expected a.lock to be copied: %v", err)
	}
	if string(got) != "a" {
		t.Errorf("expected copied content %q, got %q", "a", got)
	}
	if _, err := os.Stat(filepath.Join(dst, "sub", "b.lock")); err != nil {
		t.Errorf("expected nested file to be copied: %v", err)
	}
}

func TestBackupLocksDirMissingSourceFails(t *testing.T) {
	if err := BackupLocksDir(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "dst")); err == nil {
		t.Error("expected an error when the source directory does not exist")
	}
}
