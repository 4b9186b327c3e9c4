package namemapper

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewBasedirMapperRejectsNonFileSystemFriendlyStrategy(t *testing.T) {
	if _, err := NewBasedirMapper(New(gavStrategy{}), "/repo", ".locks"); err == nil {
		t.Error("expected gav (not filesystem-friendly) to be rejected")
	}
}

func TestNewBasedirMapperDefaultsLocksDirName(t *testing.T) {
	b, err := NewBasedirMapper(New(fileStrategy{inner: gavStrategy{}}), "/repo", "")
	if err != nil {
		t.Fatal(err)
	}
	base, err := b.basedir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(base, filepath.Join("repo", ".locks")) {
		t.Errorf("expected default locks dir name .locks, got %q", base)
	}
}

func TestBasedirMapperPathsAreAbsoluteAndSorted(t *testing.T) {
	b, err := NewBasedirMapper(New(fileStrategy{inner: gavStrategy{}}), "/repo", "locks")
	if err != nil {
		t.Fatal(err)
	}
	paths, err := b.Paths([]ArtifactCoord{
		{GroupID: "com.zeta", ArtifactID: "z", BaseVersion: "1.0"},
		{GroupID: "com.alpha", ArtifactID: "a", BaseVersion: "1.0"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			t.Errorf("expected an absolute path, got %q", p)
		}
	}
	if !strings.Contains(paths[0], "com.alpha") {
		t.Errorf("expected alpha to sort before zeta, got %v", paths)
	}
}

func TestBasedirMapperCanonicalizesOnce(t *testing.T) {
	b, err := NewBasedirMapper(New(fileStrategy{inner: gavStrategy{}}), "repo", "locks")
	if err != nil {
		t.Fatal(err)
	}
	base1, err := b.basedir()
	if err != nil {
		t.Fatal(err)
	}
	base2, err := b.basedir()
	if err != nil {
		t.Fatal(err)
	}
	if base1 != base2 {
		t.Errorf("expected the canonicalized basedir to be stable across calls, got %q then %q", base1, base2)
	}
}
