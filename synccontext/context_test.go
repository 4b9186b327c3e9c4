package synccontext

import (
	"context"
	"testing"
	"time"

	"github.com/go-aether/resolver/namedlock"
	"github.com/go-aether/resolver/namemapper"
)

func newTestContext(t *testing.T, mode namedlock.Mode) (*Context, *namedlock.Registry) {
	t.Helper()
	registry := namedlock.NewRegistry(namedlock.NewLocalBackend)
	mapper := namemapper.New(mustStrategy(t, "gav"))
	return New(registry, mapper, "owner", mode, time.Second), registry
}

func mustStrategy(t *testing.T, name string) namemapper.Strategy {
	t.Helper()
	s, err := namemapper.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestContextAcquireSkipsAlreadyHeldKeys(t *testing.T) {
	c, registry := newTestContext(t, namedlock.Exclusive)
	defer c.Close()

	coords := []namemapper.ArtifactCoord{{GroupID: "com.example", ArtifactID: "a", BaseVersion: "1.0"}}
	if err := c.Acquire(context.Background(), coords, nil); err != nil {
		t.Fatal(err)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 registered key, got %d", registry.Len())
	}
	// Re-acquiring the same coordinate must not double the refcount.
	if err := c.Acquire(context.Background(), coords, nil); err != nil {
		t.Fatal(err)
	}
	if len(c.held) != 1 {
		t.Errorf("expected the second Acquire to skip an already-held key, got %d held", len(c.held))
	}
}

func TestContextCloseReleasesEveryHeldKey(t *testing.T) {
	c, registry := newTestContext(t, namedlock.Exclusive)

	coords := []namemapper.ArtifactCoord{
		{GroupID: "com.example", ArtifactID: "a", BaseVersion: "1.0"},
		{GroupID: "com.example", ArtifactID: "b", BaseVersion: "1.0"},
	}
	if err := c.Acquire(context.Background(), coords, nil); err != nil {
		t.Fatal(err)
	}
	if registry.Len() != 2 {
		t.Fatalf("expected 2 registered keys, got %d", registry.Len())
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if registry.Len() != 0 {
		t.Errorf("expected Close to release every held key, registry still has %d", registry.Len())
	}
	if len(c.held) != 0 {
		t.Errorf("expected Close to clear held, got %d entries", len(c.held))
	}
}

func TestContextAcquireRollsBackOnConflict(t *testing.T) {
	registry := namedlock.NewRegistry(namedlock.NewLocalBackend)
	mapper := namemapper.New(mustStrategy(t, "gav"))

	holder := New(registry, mapper, "holder", namedlock.Exclusive, time.Second)
	defer holder.Close()
	blocked := New(registry, mapper, "blocked", namedlock.Exclusive, 20*time.Millisecond)

	coordA := []namemapper.ArtifactCoord{{GroupID: "com.example", ArtifactID: "a", BaseVersion: "1.0"}}
	coordB := []namemapper.ArtifactCoord{{GroupID: "com.example", ArtifactID: "b", BaseVersion: "1.0"}}

	if err := holder.Acquire(context.Background(), coordB, nil); err != nil {
		t.Fatal(err)
	}

	both := append(append([]namemapper.ArtifactCoord{}, coordB...), coordA...)
	err := blocked.Acquire(context.Background(), both, nil)
	if err == nil {
		t.Fatal("expected blocked's acquire of b's already-exclusively-held key to fail")
	}
	if len(blocked.held) != 0 {
		t.Errorf("expected a failed Acquire to roll back everything it grabbed this call, got %d held", len(blocked.held))
	}
	// Keys are acquired in sorted order, so a's key was taken before b's
	// timed out; it must have been released by the rollback, not leaked.
	if registry.Len() != 1 {
		t.Errorf("expected only b's key to remain registered after rollback, got %d", registry.Len())
	}
}

func TestContextWithBasedirResolvesToAbsolutePaths(t *testing.T) {
	registry := namedlock.NewRegistry(namedlock.NewLocalBackend)
	mapper := namemapper.New(mustStrategy(t, "file-gav"))
	basedir, err := namemapper.NewBasedirMapper(mapper, t.TempDir(), "locks")
	if err != nil {
		t.Fatal(err)
	}
	c := New(registry, mapper, "owner", namedlock.Exclusive, time.Second).WithBasedir(basedir)
	defer c.Close()

	coords := []namemapper.ArtifactCoord{{GroupID: "com.example", ArtifactID: "a", BaseVersion: "1.0"}}
	if err := c.Acquire(context.Background(), coords, nil); err != nil {
		t.Fatal(err)
	}
	if len(c.held) != 1 {
		t.Fatalf("expected 1 held key, got %d", len(c.held))
	}
}
