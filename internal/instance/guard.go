package instance

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrAlreadyRunning indicates acquisition lost to another live instance.
// The host must treat this exactly like a positive detection, even if a
// detection pass moments earlier said nothing was running: detect and
// acquire are not atomic, and two starting processes can both observe
// "not running" before one of them wins here.
var ErrAlreadyRunning = errors.New("another instance is already running")

type guardState int

const (
	stateUnacquired guardState = iota
	stateAcquired
	stateReleased
)

// Guard owns the authoritative instance claim for the lifetime of the
// process. Acquire is the single compare-and-swap-like operation the
// whole design leans on: the OS lets exactly one non-blocking exclusive
// lock request on the same resource succeed. A guard is single-use; once
// released it stays released, and retrying means building a new one.
type Guard struct {
	lockPath string
	tag      string
	strat    Strategy
	log      *zap.Logger

	state  guardState
	handle *Handle
}

// NewGuard builds an unacquired guard for the canonical lock file, using
// the byte-range strategy.
func NewGuard(lockPath, tag string) *Guard {
	return NewGuardWith(RangeLock{}, lockPath, tag)
}

// NewGuardWith builds a guard on an explicit strategy, for platforms or
// filesystems where the byte-range primitive is unreliable and the
// PID-liveness fallback has to carry the claim.
func NewGuardWith(strat Strategy, lockPath, tag string) *Guard {
	return &Guard{
		lockPath: lockPath,
		tag:      tag,
		strat:    strat,
		log:      zap.L(),
	}
}

// Acquire takes the claim and keeps the handle open until Release. A
// fresh record is written under the held lock; for the byte-range
// strategy the record is a debugging aid only, the open handle is the
// source of truth. On the fallback strategy the record write is the
// claim itself.
func (g *Guard) Acquire() error {
	if g.state != stateUnacquired {
		return fmt.Errorf("instance guard is not reusable (state %d)", g.state)
	}

	h, err := g.strat.TryLock(g.lockPath)
	if errors.Is(err, ErrHeldByOther) {
		return ErrAlreadyRunning
	}
	if err != nil {
		return fmt.Errorf("acquire instance claim: %w", err)
	}

	rec := NewRecord(g.tag)
	if werr := h.Write(rec); werr != nil {
		g.log.Warn("write lock record", zap.String("path", g.lockPath), zap.Error(werr))
	}

	g.handle = h
	g.state = stateAcquired
	g.log.Info("instance claim acquired", zap.Int("pid", rec.OwnerPID), zap.String("path", g.lockPath))
	return nil
}

// Release drops the claim and deletes the backing file. It is idempotent:
// a second call, or a call on a guard that never acquired, is a no-op and
// never an error.
func (g *Guard) Release() error {
	if g.state != stateAcquired {
		return nil
	}

	err := multierr.Append(g.handle.Unlock(), g.handle.Remove())
	g.handle = nil
	g.state = stateReleased

	if err != nil {
		return fmt.Errorf("release instance claim: %w", err)
	}
	g.log.Info("instance claim released", zap.String("path", g.lockPath))
	return nil
}

// Acquired reports whether this guard currently holds the claim.
func (g *Guard) Acquired() bool {
	return g.state == stateAcquired
}
