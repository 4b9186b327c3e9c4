package synccontext

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-aether/resolver/namedlock"
	"github.com/go-aether/resolver/namemapper"
)

// Factory builds Contexts sharing one Registry and Mapper, configured
// once from session properties (spec §6 "aether.syncContext.named.*").
type Factory struct {
	registry     *namedlock.Registry
	mapper       *namemapper.Mapper
	basedir      *namemapper.BasedirMapper
	timeout      time.Duration
}

// Options mirrors the session configuration keys in spec §6, already
// parsed out of whatever config.Properties source produced them.
type Options struct {
	// Backend selects the registry's BackendFactory: "file-lock",
	// "rwlock-local", "semaphore-local", or "noop". Default "file-lock".
	Backend string
	// NameMapper selects the key strategy by name (namemapper.Lookup).
	// Default "file-gaecv".
	NameMapper string
	// LocalRepository and LocksDirName are only consulted for the
	// "file-lock" backend. LocksDirName defaults to ".locks".
	LocalRepository string
	LocksDirName    string
	// Timeout is the per-key acquisition timeout. Default 30s.
	Timeout time.Duration
}

// NewFactory builds a Factory from opts, resolving defaults exactly as
// spec §6 specifies them.
func NewFactory(opts Options) (*Factory, error) {
	backend := opts.Backend
	if backend == "" {
		backend = "file-lock"
	}
	mapperName := opts.NameMapper
	if mapperName == "" {
		mapperName = "file-gaecv"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	strategy, err := namemapper.Lookup(mapperName)
	if err != nil {
		return nil, err
	}
	mapper := namemapper.New(strategy)

	var registry *namedlock.Registry
	var basedir *namemapper.BasedirMapper

	switch backend {
	case "file-lock":
		if opts.LocalRepository == "" {
			return nil, fmt.Errorf("synccontext: file-lock backend requires LocalRepository")
		}
		locksDirName := opts.LocksDirName
		if locksDirName == "" {
			locksDirName = ".locks"
		}
		basedir, err = namemapper.NewBasedirMapper(mapper, opts.LocalRepository, locksDirName)
		if err != nil {
			return nil, err
		}
		dir, derr := joinAbs(opts.LocalRepository, locksDirName)
		if derr != nil {
			return nil, derr
		}
		registry = namedlock.NewRegistry(namedlock.NewFileBackendFactory(dir))
	case "rwlock-local", "semaphore-local":
		registry = namedlock.NewRegistry(namedlock.NewLocalBackend)
	case "noop":
		registry = namedlock.NewRegistry(noopBackendFactory)
	default:
		return nil, fmt.Errorf("synccontext: unknown sync-context backend %q", backend)
	}

	return &Factory{registry: registry, mapper: mapper, basedir: basedir, timeout: timeout}, nil
}

// New returns a fresh Context in mode, identified as owner.
func (f *Factory) New(owner string, mode namedlock.Mode) *Context {
	c := New(f.registry, f.mapper, owner, mode, f.timeout)
	if f.basedir != nil {
		c.WithBasedir(f.basedir)
	}
	return c
}

// Shutdown releases every entry in the factory's registry regardless of
// refcount.
func (f *Factory) Shutdown() error {
	return f.registry.Close()
}

func joinAbs(localRepo, locksDirName string) (string, error) {
	return filepath.Abs(filepath.Join(localRepo, locksDirName))
}

// noopBackend satisfies namedlock.Backend by granting every acquisition
// immediately, used for the "noop" backend selector (tests, or callers
// that have already serialized access another way).
type noopBackend struct{}

func noopBackendFactory(string) (namedlock.Backend, error) { return noopBackend{}, nil }

func (noopBackend) Acquire(_ context.Context, _ string, _ namedlock.Mode, _ time.Duration) (bool, error) {
	return true, nil
}
func (noopBackend) Release(string) error { return nil }
func (noopBackend) Close() error         { return nil }
