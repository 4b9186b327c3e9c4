package namedlock

import (
	"context"
	"sync"
	"time"
)

// LocalBackend is the in-process shared/exclusive Backend (spec §4.A
// "In-process shared/exclusive lock"). Grounded on golang-dep's
// SourceMgr, which guards its own state with a plain sync.Mutex/RWMutex
// rather than anything from the ecosystem — there is no third-party
// in-process-lock library anywhere in the retrieved pack, so this stays
// stdlib `sync` by design.
type LocalBackend struct {
	mu    sync.Mutex
	state *modeState
}

// NewLocalBackend returns a fresh, unheld LocalBackend.
func NewLocalBackend(string) (Backend, error) {
	return &LocalBackend{state: newModeState()}, nil
}

// Acquire implements Backend.
func (b *LocalBackend) Acquire(ctx context.Context, owner string, mode Mode, timeout time.Duration) (bool, error) {
	return b.state.acquire(ctx, &b.mu, owner, mode, timeout)
}

// Release implements Backend.
func (b *LocalBackend) Release(owner string) error {
	return b.state.release(&b.mu, owner)
}

// Close implements Backend; a LocalBackend owns no OS resource.
func (b *LocalBackend) Close() error { return nil }
