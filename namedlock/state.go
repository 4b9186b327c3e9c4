package namedlock

import (
	"context"
	"time"
)

// modeState is the shared/exclusive, multi-owner, re-entrant bookkeeping
// both backends build on (spec §4.A: "unlimited concurrent shared
// holders; exclusive excludes all. Re-entrant for the same logical
// owner... Read upgrade to write is NOT supported"). It owns no OS
// resource itself; onFirstHolder/onLastHolder let a backend hook into the
// transition from "unheld" to "held" and back, which is exactly the
// moment a file backend needs to take or release the underlying flock.
type modeState struct {
	exclusiveOwner string
	exclusiveCount int
	sharedOwners   map[string]int

	waitCh chan struct{}

	onFirstHolder func(mode Mode) error
	onLastHolder  func() error
}

func newModeState() *modeState {
	return &modeState{sharedOwners: make(map[string]int), waitCh: make(chan struct{})}
}

func (s *modeState) broadcast() {
	close(s.waitCh)
	s.waitCh = make(chan struct{})
}

func (s *modeState) holderCount() int {
	if s.exclusiveOwner != "" {
		return s.exclusiveCount
	}
	return len(s.sharedOwners)
}

func (s *modeState) acquire(ctx context.Context, mu lockable, owner string, mode Mode, timeout time.Duration) (bool, error) {
	var timerC <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timerC = t.C
	}

	for {
		mu.Lock()
		if s.exclusiveOwner == owner {
			s.exclusiveCount++
			mu.Unlock()
			return true, nil
		}
		if n, ok := s.sharedOwners[owner]; ok && n > 0 {
			if mode == Shared {
				s.sharedOwners[owner]++
				mu.Unlock()
				return true, nil
			}
			mu.Unlock()
			return false, &ConflictingLockKindError{Owner: owner}
		}

		wasUnheld := s.holderCount() == 0
		switch mode {
		case Shared:
			if s.exclusiveOwner == "" {
				s.sharedOwners[owner] = 1
				mu.Unlock()
				if wasUnheld && s.onFirstHolder != nil {
					if err := s.onFirstHolder(Shared); err != nil {
						mu.Lock()
						delete(s.sharedOwners, owner)
						mu.Unlock()
						return false, err
					}
				}
				return true, nil
			}
		case Exclusive:
			if s.exclusiveOwner == "" && len(s.sharedOwners) == 0 {
				s.exclusiveOwner = owner
				s.exclusiveCount = 1
				mu.Unlock()
				if wasUnheld && s.onFirstHolder != nil {
					if err := s.onFirstHolder(Exclusive); err != nil {
						mu.Lock()
						s.exclusiveOwner = ""
						s.exclusiveCount = 0
						mu.Unlock()
						return false, err
					}
				}
				return true, nil
			}
		}

		wait := s.waitCh
		mu.Unlock()

		select {
		case <-wait:
			continue
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timerC:
			return false, &TimeoutError{Timeout: timeout}
		}
	}
}

func (s *modeState) release(mu lockable, owner string) error {
	mu.Lock()
	becameUnheld := false
	if s.exclusiveOwner == owner {
		s.exclusiveCount--
		if s.exclusiveCount <= 0 {
			s.exclusiveOwner = ""
			becameUnheld = true
		}
	} else if n, ok := s.sharedOwners[owner]; ok {
		n--
		if n <= 0 {
			delete(s.sharedOwners, owner)
		} else {
			s.sharedOwners[owner] = n
		}
		becameUnheld = s.holderCount() == 0
	}
	s.broadcast()
	mu.Unlock()

	if becameUnheld && s.onLastHolder != nil {
		return s.onLastHolder()
	}
	return nil
}

// lockable is the subset of sync.Mutex used by modeState, factored out so
// tests can substitute a no-op.
type lockable interface {
	Lock()
	Unlock()
}
