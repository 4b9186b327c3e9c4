// Package namedlock implements component A: a reference-counted registry
// of named lock instances, with in-process and inter-process (file-based)
// backends. The registry itself only ever does bookkeeping — acquiring
// the actual primitive is the backend's job.
//
// Grounded on golang-dep's SourceMgr (source_manager.go), a process-wide,
// mutex-guarded registry of handles keyed by string, and on
// zUZWqEHF-cocoon's lock.Locker interface for the acquire/release shape.
package namedlock

import (
	"context"
	"sync"
	"time"
)

// Mode is a lock's shared/exclusive discriminant.
type Mode uint8

const (
	Shared Mode = iota
	Exclusive
)

// Backend is the primitive a Registry entry wraps. Implementations are
// not required to be safe for concurrent Acquire/Release calls from
// multiple owners beyond what their own semantics promise — the Registry
// serializes entry creation/eviction, not backend internals.
type Backend interface {
	// Acquire blocks until the lock is held in mode by owner, ctx is
	// done, or timeout elapses, whichever comes first. On a timeout ok is
	// false and err is a *TimeoutError; any other failure is also
	// reported through err.
	Acquire(ctx context.Context, owner string, mode Mode, timeout time.Duration) (ok bool, err error)
	// Release gives up owner's hold on the lock. Releasing a lock the
	// owner does not hold is a no-op.
	Release(owner string) error
	// Close releases any OS resources the backend holds (file
	// descriptors, etc.) once the registry has evicted it.
	Close() error
}

// BackendFactory constructs the Backend for a freshly inserted registry
// key.
type BackendFactory func(key string) (Backend, error)

// Registry is the process-wide map of key -> (backend, refcount),
// protected by a short critical section (spec §4.A, §5 "mutation of its
// map uses a short critical section").
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	factory BackendFactory
}

type entry struct {
	backend  Backend
	refcount int
}

// NewRegistry returns an empty Registry whose entries are constructed by
// factory on first reference.
func NewRegistry(factory BackendFactory) *Registry {
	return &Registry{entries: make(map[string]*entry), factory: factory}
}

// Handle is a reference-counted handle on one registry entry, returned by
// Acquire and given back to Release once the holder is done with the key
// (not to be confused with the backend-level Lock/Unlock on the handle's
// underlying primitive).
type Handle struct {
	key      string
	registry *Registry
	backend  Backend
}

// Key returns the handle's lock key.
func (h *Handle) Key() string { return h.key }

// Lock acquires the underlying primitive in mode on behalf of owner.
func (h *Handle) Lock(ctx context.Context, owner string, mode Mode, timeout time.Duration) (bool, error) {
	return h.backend.Acquire(ctx, owner, mode, timeout)
}

// Unlock releases the underlying primitive held by owner. It does not
// return the Handle itself to the registry; call Registry.Release for
// that once the key is no longer needed at all.
func (h *Handle) Unlock(owner string) error {
	return h.backend.Release(owner)
}

// Acquire returns the Handle for key, creating and inserting a fresh
// backend on first reference and bumping the entry's refcount (spec §4.A
// "incrementing an existing entry or inserting a fresh one").
func (r *Registry) Acquire(key string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		backend, err := r.factory(key)
		if err != nil {
			return nil, err
		}
		e = &entry{backend: backend}
		r.entries[key] = e
	}
	e.refcount++
	return &Handle{key: key, registry: r, backend: e.backend}, nil
}

// Release decrements key's refcount and, if it drops to zero, evicts and
// closes the entry. Eviction is an optimization, never a correctness
// requirement: a stale empty slot left behind by a concurrent re-Acquire
// race is harmless, it is simply never cleaned up until the next Release
// observes refcount<=0 again (spec §4.A "eviction is an optimization,
// never a correctness requirement").
func (r *Registry) Release(key string) error {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	e.refcount--
	evict := e.refcount <= 0
	if evict {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	if evict {
		return e.backend.Close()
	}
	return nil
}

// Len reports the number of distinct keys currently registered, exposed
// for tests and diagnostics.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close releases every remaining entry regardless of refcount, tearing
// the whole registry down; it fits RepositorySystem.RegisterCloser.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	var first error
	for _, e := range entries {
		if err := e.backend.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ConflictingLockKindError is returned when a caller tries to upgrade a
// hold it already has from Shared to Exclusive within the same owner
// (spec §4.A "Read upgrade to write is NOT supported").
type ConflictingLockKindError struct {
	Key   string
	Owner string
}

func (e *ConflictingLockKindError) Error() string {
	return "namedlock: " + e.Owner + " cannot upgrade shared hold on " + e.Key + " to exclusive"
}

// TimeoutError is returned when Acquire could not obtain the lock before
// its timeout elapsed (spec §4.A "Acquisition MUST accept a timeout").
type TimeoutError struct {
	Key     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "namedlock: timed out after " + e.Timeout.String() + " acquiring " + e.Key
}
