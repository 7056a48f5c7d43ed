package instance

import (
	"errors"
	"os"

	"go.uber.org/multierr"
)

// ErrHeldByOther indicates the claim is currently held by another process.
// It is an expected condition, not a failure; any other error from a
// strategy means the resource could not be checked at all.
var ErrHeldByOther = errors.New("lock held by another process")

// Strategy is the platform primitive behind a claim: attempt to gain
// exclusive control of the resource at a path without blocking, and hand
// back a releasable handle on success.
type Strategy interface {
	TryLock(path string) (*Handle, error)
	// Method names the detection signal a refused TryLock represents.
	Method() Method
}

// Handle is an acquired claim. For the byte-range strategy the open
// descriptor is what actually holds the OS lock, so the handle must stay
// open for as long as the claim is meant to last.
type Handle struct {
	path    string
	file    *os.File
	release func(*os.File) error
}

// Path returns the backing file path.
func (h *Handle) Path() string {
	return h.path
}

// Write replaces the backing file content with the record, through the
// already-locked descriptor.
func (h *Handle) Write(rec Record) error {
	if err := h.file.Truncate(0); err != nil {
		return err
	}
	if _, err := h.file.Seek(0, 0); err != nil {
		return err
	}
	if _, err := h.file.WriteString(rec.String() + "\n"); err != nil {
		return err
	}
	return h.file.Sync()
}

// Unlock releases the OS lock and closes the descriptor. The backing file
// is deliberately left in place: detection probes unlock too, and they
// must never destroy a record that may belong to a live fallback-platform
// instance. Removal is a separate step (Remove).
func (h *Handle) Unlock() error {
	if h.file == nil {
		return nil
	}
	err := multierr.Append(h.release(h.file), h.file.Close())
	h.file = nil
	return err
}

// Remove deletes the backing file. Callers unlock first; on Windows a
// file with a locked open handle cannot be unlinked.
func (h *Handle) Remove() error {
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
