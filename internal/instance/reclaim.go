package instance

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// ErrStaleCleanup indicates a dead claim could not be removed. This is
// surfaced distinctly rather than swallowed: a stale record left in place
// on a fallback platform would block every future startup.
var ErrStaleCleanup = errors.New("stale claim cleanup failed")

// Reclaimer removes a lock record whose claimed owner is provably dead,
// so a fresh instance can proceed.
type Reclaimer struct {
	lockPath string
	tag      string
	log      *zap.Logger
}

func NewReclaimer(lockPath, tag string) *Reclaimer {
	return &Reclaimer{lockPath: lockPath, tag: tag, log: zap.L()}
}

// Reclaim deletes the record at the lock path unless its owner is alive.
// Liveness is re-verified here, immediately before deletion, in case the
// caller's own check happened much earlier in a slow startup sequence.
// Reports whether anything was removed.
func (r *Reclaimer) Reclaim() (bool, error) {
	rec, err := readRecord(r.lockPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case errors.Is(err, ErrMalformedRecord):
		// content nobody can own; fall through to removal
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrStaleCleanup, err)
	default:
		if processAlive(rec.OwnerPID) {
			// A live owner is never reclaimed, whatever its tag: an
			// unrelated program's claim does not block us, and its file
			// is not ours to destroy while it runs.
			return false, nil
		}
	}

	if err := os.Remove(r.lockPath); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: %v", ErrStaleCleanup, err)
	}

	r.log.Info("removed stale instance claim",
		zap.String("path", r.lockPath), zap.Int("pid", rec.OwnerPID))
	return true, nil
}
