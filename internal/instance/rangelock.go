package instance

import (
	"errors"
	"fmt"
	"os"
)

// RangeLock takes a non-blocking exclusive OS lock on the first byte of
// the file (fcntl on unix, LockFileEx on windows). The lock is tied to
// the open descriptor, so the kernel drops it when the process exits for
// any reason, including a crash. That property is what makes recovery
// work without any process having to run cleanup code.
type RangeLock struct{}

func (RangeLock) TryLock(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := lockRange(f); err != nil {
		f.Close()
		if errors.Is(err, ErrHeldByOther) {
			return nil, ErrHeldByOther
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	return &Handle{path: path, file: f, release: unlockRange}, nil
}

func (RangeLock) Method() Method {
	return MethodByteRangeLock
}
