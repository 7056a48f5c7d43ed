package defaults

const (
	AppName string = "ghostman"
	// AppTag marks lock records as belonging to the ghostman family. A
	// record carrying a different tag was left behind by some unrelated
	// program and is never evidence that ghostman is running.
	AppTag          string = "ghostman"
	LockFileName    string = "ghostman.lock"
	ActivityLogName string = "ghostman.log"
)
