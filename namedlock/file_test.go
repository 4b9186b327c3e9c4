package namedlock

import (
	"context"
	"testing"
	"time"
)

func TestFileBackendExclusiveAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	factory := NewFileBackendFactory(dir)
	b, err := factory("lock-a")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	ok, err := b.Acquire(context.Background(), "owner", Exclusive, time.Second)
	if err != nil || !ok {
		t.Fatalf("Acquire: ok=%v err=%v", ok, err)
	}
	if err := b.Release("owner"); err != nil {
		t.Fatal(err)
	}
}

func TestFileBackendSharedHoldersAreConcurrent(t *testing.T) {
	dir := t.TempDir()
	factory := NewFileBackendFactory(dir)
	b, err := factory("lock-shared")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	ok1, err := b.Acquire(context.Background(), "r1", Shared, time.Second)
	if err != nil || !ok1 {
		t.Fatalf("r1 acquire: ok=%v err=%v", ok1, err)
	}
	ok2, err := b.Acquire(context.Background(), "r2", Shared, time.Second)
	if err != nil || !ok2 {
		t.Fatalf("r2 acquire: ok=%v err=%v", ok2, err)
	}
	if err := b.Release("r1"); err != nil {
		t.Fatal(err)
	}
	if err := b.Release("r2"); err != nil {
		t.Fatal(err)
	}
}

func TestFileBackendCloseIsIdempotentWhenUnheld(t *testing.T) {
	dir := t.TempDir()
	factory := NewFileBackendFactory(dir)
	b, err := factory("lock-unused")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("expected closing an unheld backend to be a no-op, got %v", err)
	}
}
