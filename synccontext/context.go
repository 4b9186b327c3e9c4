// Package synccontext implements component C: scoped, ordered,
// multi-key lock acquisition over the named-lock registry (A), with keys
// supplied by the name mapper (B).
//
// Grounded on zUZWqEHF-cocoon's lock.Locker interface for the
// acquire/release shape, and on golang-dep's SourceMgr for the
// opcount-style bookkeeping of "what's currently held, so it can be
// released on interrupt."
package synccontext

import (
	"context"
	"time"

	"github.com/go-aether/resolver/namedlock"
	"github.com/go-aether/resolver/namemapper"
)

// Context is a scoped resource: Acquire adds keys incrementally (already
// held keys are skipped), and Close releases every still-held handle in
// reverse acquisition order (spec §4.C).
type Context struct {
	registry *namedlock.Registry
	mapper   *namemapper.Mapper
	basedir  *namemapper.BasedirMapper // non-nil when the strategy is filesystem-friendly and basedir-wrapped

	mode    namedlock.Mode
	owner   string
	timeout time.Duration

	held []heldKey
}

type heldKey struct {
	key    string
	handle *namedlock.Handle
}

// New returns a Context fixed to mode, identified to the registry as
// owner (spec §4.A re-entrancy is scoped to "the same logical owner";
// owner should be a value stable for the lifetime of one Context and
// unique across concurrently open ones, e.g. a goroutine id or a
// generated token).
func New(registry *namedlock.Registry, mapper *namemapper.Mapper, owner string, mode namedlock.Mode, timeout time.Duration) *Context {
	return &Context{registry: registry, mapper: mapper, owner: owner, mode: mode, timeout: timeout}
}

// WithBasedir attaches a BasedirMapper so Acquire resolves keys to
// absolute lock-file paths before acquiring, used with the file backend.
func (c *Context) WithBasedir(b *namemapper.BasedirMapper) *Context {
	c.basedir = b
	return c
}

// InterruptedError wraps ctx.Err() when acquisition is aborted by
// cancellation (spec §7 "Interrupted").
type InterruptedError struct {
	Cause error
}

func (e *InterruptedError) Error() string { return "synccontext: interrupted: " + e.Cause.Error() }
func (e *InterruptedError) Unwrap() error { return e.Cause }

// LockTimeoutError is returned when a key could not be acquired before
// the context's configured timeout elapsed (spec §7 "LockTimeout").
type LockTimeoutError struct {
	Key string
}

func (e *LockTimeoutError) Error() string { return "synccontext: timed out acquiring " + e.Key }

// Acquire resolves artifacts/metadata to keys via the name mapper and
// acquires each, in the mapper's sorted order, skipping any already held
// by this Context (spec §4.C "acquire"). On timeout or cancellation,
// every handle acquired during *this* call is released in reverse order
// before the error is returned — keys already held from a previous
// Acquire call on this same Context are left untouched.
func (c *Context) Acquire(ctx context.Context, artifacts []namemapper.ArtifactCoord, metadata []namemapper.MetadataCoord) error {
	keys, err := c.resolveKeys(artifacts, metadata)
	if err != nil {
		return err
	}

	already := make(map[string]bool, len(c.held))
	for _, h := range c.held {
		already[h.key] = true
	}

	var acquiredThisCall []heldKey
	for _, key := range keys {
		if already[key] {
			continue
		}

		handle, err := c.registry.Acquire(key)
		if err != nil {
			c.rollback(acquiredThisCall)
			return err
		}

		ok, err := handle.Lock(ctx, c.owner, c.mode, c.timeout)
		if err != nil {
			c.registry.Release(key)
			c.rollback(acquiredThisCall)
			if ctx.Err() != nil {
				return &InterruptedError{Cause: ctx.Err()}
			}
			if _, isConflict := err.(*namedlock.ConflictingLockKindError); isConflict {
				return err
			}
			if _, isTimeout := err.(*namedlock.TimeoutError); isTimeout {
				return &LockTimeoutError{Key: key}
			}
			return err
		}
		if !ok {
			c.registry.Release(key)
			c.rollback(acquiredThisCall)
			return &LockTimeoutError{Key: key}
		}

		acquiredThisCall = append(acquiredThisCall, heldKey{key: key, handle: handle})
	}

	c.held = append(c.held, acquiredThisCall...)
	return nil
}

// rollback releases, in reverse order, every handle acquired during one
// failed Acquire call (spec §4.C.3 "release everything already acquired
// in this call in reverse order").
func (c *Context) rollback(acquired []heldKey) {
	for i := len(acquired) - 1; i >= 0; i-- {
		acquired[i].handle.Unlock(c.owner)
		c.registry.Release(acquired[i].key)
	}
}

// resolveKeys renders coordinates to keys, via the basedir mapper when
// one is attached, otherwise the plain name mapper.
func (c *Context) resolveKeys(artifacts []namemapper.ArtifactCoord, metadata []namemapper.MetadataCoord) ([]string, error) {
	if c.basedir != nil {
		return c.basedir.Paths(artifacts, metadata)
	}
	return c.mapper.Keys(artifacts, metadata), nil
}

// Close releases every handle still held by this Context, in reverse
// acquisition order, and must be called on every exit path including
// panics (spec §4.C "Close-on-scope-exit MUST release every handle even
// on panic/exception paths") — callers are expected to `defer c.Close()`
// immediately after a successful New/Acquire.
func (c *Context) Close() error {
	var first error
	for i := len(c.held) - 1; i >= 0; i-- {
		h := c.held[i]
		if err := h.handle.Unlock(c.owner); err != nil && first == nil {
			first = err
		}
		if err := c.registry.Release(h.key); err != nil && first == nil {
			first = err
		}
	}
	c.held = nil
	return first
}
