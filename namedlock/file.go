package namedlock

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// flockRetryDelay is how often TryLockContext/TryRLockContext polls the
// OS primitive while waiting, matching zUZWqEHF-cocoon's lock/flock
// polling interval.
const flockRetryDelay = 100 * time.Millisecond

// FileBackend is the inter-process Backend: a sentinel file under a
// configurable lock directory, with shared/exclusive mapped onto the OS
// file-lock primitive (spec §4.A "Inter-process file lock").
//
// Grounded on zUZWqEHF-cocoon's lock/flock/flock.go, which layers a
// single OS-level flock(2) hold under an in-process channel token; we
// generalize the token to the full multi-owner/shared-exclusive
// bookkeeping of modeState; the flock.Flock handle is taken exactly once
// per "unheld -> held" transition and released exactly once per "held ->
// unheld" transition, using github.com/gofrs/flock (in place of the
// teacher's own vendored github.com/theckman/go-flock — see DESIGN.md for
// why).
type FileBackend struct {
	path string

	mu    sync.Mutex
	state *modeState

	fl *flock.Flock
}

// NewFileBackendFactory returns a BackendFactory creating a FileBackend
// for each key at <dir>/<key> (the key is expected to already be a
// filesystem-safe name; see namemapper for the mapping that guarantees
// this), or at key itself when key is already an absolute path, as the
// basedir mapper produces.
func NewFileBackendFactory(dir string) BackendFactory {
	return func(key string) (Backend, error) {
		p := key
		if key == "" || key[0] != pathSeparator {
			p = dir + string(pathSeparator) + key
		}
		b := &FileBackend{path: p}
		b.state = newModeState()
		b.state.onFirstHolder = b.lockOS
		b.state.onLastHolder = b.unlockOS
		return b, nil
	}
}

const pathSeparator = '/'

// Acquire implements Backend.
func (b *FileBackend) Acquire(ctx context.Context, owner string, mode Mode, timeout time.Duration) (bool, error) {
	return b.state.acquire(ctx, &b.mu, owner, mode, timeout)
}

// Release implements Backend.
func (b *FileBackend) Release(owner string) error {
	return b.state.release(&b.mu, owner)
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fl == nil {
		return nil
	}
	err := b.fl.Unlock()
	b.fl = nil
	if err != nil {
		return errors.Wrapf(err, "namedlock: close file lock %s", b.path)
	}
	return nil
}

// lockOS takes the OS-level hold matching mode, called once when the
// in-process bookkeeping transitions from unheld to held.
func (b *FileBackend) lockOS(mode Mode) error {
	fl := flock.New(b.path)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var ok bool
	var err error
	if mode == Exclusive {
		ok, err = fl.TryLockContext(ctx, flockRetryDelay)
	} else {
		ok, err = fl.TryRLockContext(ctx, flockRetryDelay)
	}
	if err != nil {
		return errors.Wrapf(err, "namedlock: acquire file lock %s", b.path)
	}
	if !ok {
		return &TimeoutError{Key: b.path, Timeout: 30 * time.Second}
	}

	b.mu.Lock()
	b.fl = fl
	b.mu.Unlock()
	return nil
}

// unlockOS releases the OS-level hold, called once when the in-process
// bookkeeping transitions from held back to unheld.
func (b *FileBackend) unlockOS() error {
	b.mu.Lock()
	fl := b.fl
	b.fl = nil
	b.mu.Unlock()

	if fl == nil {
		return nil
	}
	if err := fl.Unlock(); err != nil {
		return errors.Wrapf(err, "namedlock: release file lock %s", b.path)
	}
	return nil
}
