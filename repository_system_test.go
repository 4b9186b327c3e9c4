package aether

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestRepositorySystemShutdownRunsClosersInOrder(t *testing.T) {
	rs := NewRepositorySystem("/repo")
	var order []int
	rs.RegisterCloser(func() error { order = append(order, 1); return nil })
	rs.RegisterCloser(func() error { order = append(order, 2); return nil })

	if err := rs.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected closers to run in registration order, got %v", order)
	}
}

func TestRepositorySystemShutdownIsIdempotent(t *testing.T) {
	rs := NewRepositorySystem("/repo")
	calls := 0
	rs.RegisterCloser(func() error { calls++; return nil })

	if err := rs.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := rs.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected closers to run exactly once across repeated Shutdown calls, got %d", calls)
	}
}

func TestRepositorySystemShutdownReturnsFirstError(t *testing.T) {
	rs := NewRepositorySystem("/repo")
	wantErr := errors.New("close failed")
	rs.RegisterCloser(func() error { return wantErr })
	rs.RegisterCloser(func() error { return errors.New("second failure") })

	if err := rs.Shutdown(context.Background()); err != wantErr {
		t.Errorf("expected the first closer's error to be returned, got %v", err)
	}
}

func TestRepositorySystemBeginEndOpTracksOpcount(t *testing.T) {
	rs := NewRepositorySystem("/repo")
	rs.beginOp()
	rs.beginOp()
	if rs.opcount != 2 {
		t.Fatalf("expected opcount 2, got %d", rs.opcount)
	}
	rs.endOp()
	if rs.opcount != 1 {
		t.Errorf("expected opcount 1 after one endOp, got %d", rs.opcount)
	}
}

func TestRepositorySystemHandleSignalsRunsShutdownOnce(t *testing.T) {
	rs := NewRepositorySystem("/repo")
	closed := make(chan struct{})
	rs.RegisterCloser(func() error { close(closed); return nil })

	sigch := make(chan os.Signal, 1)
	rs.HandleSignals(sigch)
	sigch <- os.Interrupt

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("expected the signal handler to run Shutdown")
	}
}

func TestRepositorySystemStopSignalHandlingDeregisters(t *testing.T) {
	rs := NewRepositorySystem("/repo")
	calls := 0
	rs.RegisterCloser(func() error { calls++; return nil })

	sigch := make(chan os.Signal, 1)
	rs.HandleSignals(sigch)
	rs.StopSignalHandling()
	sigch <- os.Interrupt

	time.Sleep(50 * time.Millisecond)
	if calls != 0 {
		t.Errorf("expected no closer to run after StopSignalHandling, got %d calls", calls)
	}
}
