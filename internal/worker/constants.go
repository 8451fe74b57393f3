package worker

// Pool defaults used by the application wiring
const (
	DefaultWorkerCount = 2
	DefaultQueueSize   = 16
)

// Log message constants
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgJobQueueFull    = "Job queue full, dropping scheduled run"
)
