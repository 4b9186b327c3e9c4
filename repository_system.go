package aether

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RepositorySystem is the process-level owner of the resources backing a
// local cache directory that must be released on shutdown (for example a
// named-lock registry's Close), attached through RegisterCloser.
// Its Shutdown lifecycle is grounded on golang-dep's SourceMgr
// (source_manager.go): a sync.Once-guarded release, an operation counter
// that lets an in-flight signal-driven shutdown report how much work it's
// waiting on, and a three-second escalation window after which a second
// interrupt is allowed through uninhibited.
type RepositorySystem struct {
	LocalRepository string

	glock     sync.RWMutex
	opcount   int32
	releasing int32
	relonce   sync.Once

	sigmut sync.Mutex
	qch    chan struct{}

	closers []func() error
}

// NewRepositorySystem returns a RepositorySystem rooted at localRepo.
func NewRepositorySystem(localRepo string) *RepositorySystem {
	return &RepositorySystem{LocalRepository: localRepo}
}

// RegisterCloser adds fn to the set of functions run once, in registration
// order, when Shutdown is first called — used to attach a namedlock
// registry's Close method, a backup directory handle, and similar
// per-run resources.
func (rs *RepositorySystem) RegisterCloser(fn func() error) {
	rs.glock.Lock()
	rs.closers = append(rs.closers, fn)
	rs.glock.Unlock()
}

// beginOp and endOp bracket an operation that should block Shutdown from
// tearing down resources out from under it.
func (rs *RepositorySystem) beginOp() {
	rs.glock.RLock()
	atomic.AddInt32(&rs.opcount, 1)
}
func (rs *RepositorySystem) endOp() {
	atomic.AddInt32(&rs.opcount, -1)
	rs.glock.RUnlock()
}

// Shutdown releases every registered closer exactly once, regardless of
// how many times or from how many goroutines it is called.
func (rs *RepositorySystem) Shutdown(ctx context.Context) error {
	atomic.CompareAndSwapInt32(&rs.releasing, 0, 1)

	var err error
	rs.relonce.Do(func() { err = rs.doShutdown(ctx) })
	return err
}

func (rs *RepositorySystem) doShutdown(ctx context.Context) error {
	rs.glock.Lock()
	defer rs.glock.Unlock()

	var first error
	for _, closer := range rs.closers {
		if cerr := closer(); cerr != nil && first == nil {
			first = cerr
		}
	}
	return first
}

// UseDefaultSignalHandling installs an os.Interrupt handler that calls
// Shutdown on the first interrupt; the handler is removed once that
// shutdown returns or three seconds after the first interrupt, whichever
// comes first, so a later interrupt terminates the process uninhibited.
func (rs *RepositorySystem) UseDefaultSignalHandling() {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)
	rs.HandleSignals(sigch)
}

// HandleSignals sets up shutdown-on-interrupt using a caller-provided,
// caller-registered signal channel. Successive calls deregister the
// previous handler and install a fresh one.
func (rs *RepositorySystem) HandleSignals(sigch chan os.Signal) {
	rs.sigmut.Lock()
	if rs.qch != nil {
		close(rs.qch)
	}
	rs.qch = make(chan struct{})

	go func(sch chan os.Signal, qch <-chan struct{}) {
		defer signal.Stop(sch)
		for {
			select {
			case <-sch:
				go func(c <-chan time.Time) {
					<-c
					signal.Stop(sch)
				}(time.After(3 * time.Second))

				if !atomic.CompareAndSwapInt32(&rs.releasing, 0, 1) {
					return
				}

				if opc := atomic.LoadInt32(&rs.opcount); opc > 0 {
					fmt.Fprintf(os.Stderr, "aether: signal received, waiting for %d operation(s) to complete...\n", opc)
				}

				rs.relonce.Do(func() { rs.doShutdown(context.Background()) })
				return
			case <-qch:
				return
			}
		}
	}(sigch, rs.qch)

	runtime.Gosched()
	rs.sigmut.Unlock()
}

// StopSignalHandling deregisters any signal handler previously installed
// by HandleSignals/UseDefaultSignalHandling.
func (rs *RepositorySystem) StopSignalHandling() {
	rs.sigmut.Lock()
	if rs.qch != nil {
		close(rs.qch)
		rs.qch = nil
		runtime.Gosched()
	}
	rs.sigmut.Unlock()
}
