package instance

import (
	"errors"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// Detector answers "is another instance alive right now?" with read-only,
// best-effort checks. It never retains a claim: every lock taken while
// probing is released before Detect returns. Detection exists to give the
// host a reason it can show the user and to skip pointless startup work;
// the exclusivity guarantee itself comes from Guard.Acquire alone, and a
// caller that skips detection entirely still gets a correct answer there.
type Detector struct {
	lockPath string
	logPath  string
	tag      string
	strat    Strategy
	log      *zap.Logger
}

// NewDetector builds a detector probing the canonical lock file and,
// when logPath is non-empty, the application's activity log.
func NewDetector(lockPath, logPath, tag string) *Detector {
	return NewDetectorWith(RangeLock{}, lockPath, logPath, tag)
}

// NewDetectorWith builds a detector on an explicit strategy, matching the
// strategy the guard will acquire with.
func NewDetectorWith(strat Strategy, lockPath, logPath, tag string) *Detector {
	return &Detector{
		lockPath: lockPath,
		logPath:  logPath,
		tag:      tag,
		strat:    strat,
		log:      zap.L(),
	}
}

// Detect runs the probes in fixed priority order, short-circuiting on the
// first positive signal. Probe failures unrelated to instance presence
// log a warning and fail open.
func (d *Detector) Detect() Result {
	if res, found := d.probeActivityLog(); found {
		return res
	}
	return d.probeLockFile()
}

// probeActivityLog checks whether some process holds the activity log
// locked; a running instance keeps it locked for the life of its file
// sink. The probe is skipped when the file does not exist so that
// detection never creates files.
func (d *Detector) probeActivityLog() (Result, bool) {
	if d.logPath == "" {
		return Result{}, false
	}
	if _, err := os.Stat(d.logPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.log.Warn("cannot stat activity log, skipping probe", zap.String("path", d.logPath), zap.Error(err))
		}
		return Result{}, false
	}

	fl := flock.New(d.logPath)
	defer fl.Close()

	locked, err := fl.TryLock()
	if err != nil {
		d.log.Warn("activity log probe failed, skipping", zap.String("path", d.logPath), zap.Error(err))
		return Result{}, false
	}
	if !locked {
		return Result{Status: StatusRunning, Method: MethodHandleExclusivity}, true
	}
	if err := fl.Unlock(); err != nil {
		d.log.Warn("release activity log probe", zap.Error(err))
	}
	return Result{}, false
}

// probeLockFile speculatively locks the canonical lock file. A refusal
// means a live instance holds it; success means no live OS lock exists
// and any record left on disk has to be judged by process liveness.
func (d *Detector) probeLockFile() Result {
	_, statErr := os.Stat(d.lockPath)
	preExisted := statErr == nil

	h, err := d.strat.TryLock(d.lockPath)
	if errors.Is(err, ErrHeldByOther) {
		res := Result{Status: StatusRunning, Method: d.strat.Method()}
		if rec, rerr := readRecord(d.lockPath); rerr == nil {
			res.Record = &rec
		}
		return res
	}
	if err != nil {
		d.log.Warn("lock file probe failed, assuming not running", zap.String("path", d.lockPath), zap.Error(err))
		return Result{Status: StatusIndeterminate, Reason: err}
	}

	rec, rerr := readRecord(d.lockPath)

	// Release the probe before acting on what was read; detection must
	// never hold the real claim, and removal below needs the descriptor
	// closed on Windows.
	if uerr := h.Unlock(); uerr != nil {
		d.log.Warn("release lock file probe", zap.Error(uerr))
	}

	switch {
	case errors.Is(rerr, fs.ErrNotExist):
		d.removeProbeArtifact(preExisted)
		return Result{Status: StatusNotRunning}
	case errors.Is(rerr, ErrMalformedRecord):
		if preExisted {
			d.log.Debug("ignoring malformed lock record", zap.String("path", d.lockPath))
		} else {
			d.removeProbeArtifact(preExisted)
		}
		return Result{Status: StatusNotRunning}
	case rerr != nil:
		d.log.Warn("cannot read lock record, assuming not running", zap.Error(rerr))
		return Result{Status: StatusIndeterminate, Reason: rerr}
	}

	if rec.AppTag != d.tag {
		d.log.Debug("ignoring lock record from unrelated application",
			zap.String("tag", rec.AppTag), zap.Int("pid", rec.OwnerPID))
		return Result{Status: StatusNotRunning}
	}

	if processAlive(rec.OwnerPID) {
		return Result{Status: StatusRunning, Method: MethodPIDLiveness, Record: &rec}
	}

	// The claimed owner is provably dead; clear the leftover so the
	// upcoming acquisition does not trip over it.
	if _, err := NewReclaimer(d.lockPath, d.tag).Reclaim(); err != nil {
		d.log.Warn("stale claim cleanup failed", zap.Error(err))
		return Result{Status: StatusIndeterminate, Reason: err}
	}
	return Result{Status: StatusNotRunning}
}

// removeProbeArtifact deletes the lock file when the probe itself created
// it, so a check on a clean machine leaves the disk clean. Best effort:
// the size check skips files where a concurrent acquirer already wrote
// its record.
func (d *Detector) removeProbeArtifact(preExisted bool) {
	if preExisted {
		return
	}
	if st, err := os.Stat(d.lockPath); err != nil || st.Size() != 0 {
		return
	}
	if err := os.Remove(d.lockPath); err != nil && !os.IsNotExist(err) {
		d.log.Debug("cannot remove empty lock file left by probe", zap.Error(err))
	}
}
