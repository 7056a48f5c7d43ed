package instance

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// PIDLock emulates exclusivity on platforms or filesystems where the
// byte-range primitive is unavailable: the record in the file is the only
// evidence of a claim, and "held" means the recorded owner still exists.
// There is an inherent window between checking liveness and writing a new
// record during which two processes can both conclude the path is free.
// The OS never cleans up after a crashed owner either, so staleness must
// be checked every time before the record is trusted.
type PIDLock struct {
	// Tag scopes the liveness check. A record carrying a different tag
	// belongs to some unrelated program and does not count as held.
	Tag string
}

func (p PIDLock) TryLock(path string) (*Handle, error) {
	rec, err := readRecord(path)
	switch {
	case err == nil:
		if rec.AppTag == p.Tag && processAlive(rec.OwnerPID) {
			return nil, ErrHeldByOther
		}
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrMalformedRecord):
		// no claim, or content nobody can own
	default:
		return nil, fmt.Errorf("read lock record %s: %w", path, err)
	}

	// No truncation here: detection probes TryLock too, and the old
	// content must survive until Write replaces it with a real claim.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	// Nothing to undo at the OS level; the claim is only the record.
	return &Handle{path: path, file: f, release: func(*os.File) error { return nil }}, nil
}

func (PIDLock) Method() Method {
	return MethodPIDLiveness
}
