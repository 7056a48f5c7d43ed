//go:build !windows

package instance

import (
	"errors"
	"os"
	"syscall"
)

// lockRange attempts a non-blocking exclusive fcntl lock on byte 0. Note
// the fcntl caveat: a process does not conflict with its own locks, so
// exclusion only holds between distinct processes.
func lockRange(f *os.File) error {
	err := syscall.FcntlFlock(f.Fd(), syscall.F_SETLK, &syscall.Flock_t{
		Type:   syscall.F_WRLCK,
		Whence: 0, // SEEK_SET
		Start:  0,
		Len:    1,
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EACCES) {
		return ErrHeldByOther
	}
	return err
}

func unlockRange(f *os.File) error {
	return syscall.FcntlFlock(f.Fd(), syscall.F_SETLK, &syscall.Flock_t{
		Type:   syscall.F_UNLCK,
		Whence: 0,
		Start:  0,
		Len:    1,
	})
}

// processAlive reports whether a process with the given pid exists.
// Signal 0 probes without delivering anything; EPERM still proves the
// process is there, we just cannot signal it.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errors.Is(err, os.ErrProcessDone) {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.EPERM {
		return true
	}
	return false
}
