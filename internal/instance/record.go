package instance

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord indicates lock file content that does not parse as a
// record. Malformed content cannot name a live owner, so callers treat it
// like an absent claim.
var ErrMalformedRecord = errors.New("malformed lock record")

// Record is the persisted claim of instance ownership. It is advisory by
// nature: the process it names may have died without cleaning up, so a
// record on disk must always be corroborated by a liveness check or by a
// held OS lock before it is believed.
type Record struct {
	OwnerPID  int
	ClaimedAt time.Time
	AppTag    string
}

// NewRecord builds a claim for the current process.
func NewRecord(tag string) Record {
	return Record{
		OwnerPID:  os.Getpid(),
		ClaimedAt: time.Now(),
		AppTag:    tag,
	}
}

// String renders the wire format "<pid>|<unix seconds>|<tag>".
func (r Record) String() string {
	return fmt.Sprintf("%d|%d|%s", r.OwnerPID, r.ClaimedAt.Unix(), r.AppTag)
}

// Age reports how long ago the claim was written.
func (r Record) Age() time.Duration {
	return time.Since(r.ClaimedAt)
}

// ParseRecord parses the wire format produced by String.
func ParseRecord(data []byte) (Record, error) {
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 3)
	if len(parts) != 3 {
		return Record{}, ErrMalformedRecord
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Record{}, ErrMalformedRecord
	}

	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Record{}, ErrMalformedRecord
	}

	return Record{
		OwnerPID:  pid,
		ClaimedAt: time.Unix(ts, 0),
		AppTag:    parts[2],
	}, nil
}

// readRecord loads and parses the record at path. Absence is surfaced as
// fs.ErrNotExist via the underlying read.
func readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	return ParseRecord(data)
}
