package instance

// Method names the strategy that confirmed another instance.
type Method string

const (
	// MethodHandleExclusivity means the activity log is held open and
	// locked by some other process.
	MethodHandleExclusivity Method = "handle-exclusivity"
	// MethodByteRangeLock means a live OS lock is held on the lock file.
	MethodByteRangeLock Method = "byte-range-lock"
	// MethodPIDLiveness means a lock record names a process that exists.
	MethodPIDLiveness Method = "pid-liveness"
)

// Status classifies the outcome of a detection pass.
type Status int

const (
	StatusNotRunning Status = iota
	StatusRunning
	// StatusIndeterminate means a detection step failed for reasons
	// unrelated to instance presence. Policy is fail-open: the host
	// proceeds as if not running and lets Guard.Acquire be the judge.
	StatusIndeterminate
)

func (s Status) String() string {
	switch s {
	case StatusNotRunning:
		return "not-running"
	case StatusRunning:
		return "running"
	case StatusIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Result is what a detection pass hands back to the host. Method and
// Record are populated only for StatusRunning (Record when one could be
// read), Reason only for StatusIndeterminate.
type Result struct {
	Status Status
	Method Method
	Record *Record
	Reason error
}

// Running reports whether another instance was confirmed alive.
func (r Result) Running() bool {
	return r.Status == StatusRunning
}
