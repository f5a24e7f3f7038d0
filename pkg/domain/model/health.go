package model

// HealthStatus represents the health check status
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// RunStatus is the body returned to schedulers that trigger a run
type RunStatus struct {
	Status    string `json:"status"`
	HadCommit bool   `json:"had_commit"`
	Date      string `json:"date,omitempty"`
	Pushes    int    `json:"pushes"`
	Notified  bool   `json:"notified"`
	Error     string `json:"error,omitempty"`
	Category  string `json:"category,omitempty"`
}

// NewRunStatus builds a successful RunStatus from a result
func NewRunStatus(r *CheckResult) *RunStatus {
	return &RunStatus{
		Status:    "success",
		HadCommit: r.HadCommitInWindow,
		Date:      r.Date,
		Pushes:    len(r.Pushes),
		Notified:  r.Notified,
	}
}

// NewFailedRunStatus builds an error RunStatus. r may be nil when the run failed
// before the window was evaluated.
func NewFailedRunStatus(r *CheckResult, err error, category string) *RunStatus {
	status := &RunStatus{
		Status:   "error",
		Error:    err.Error(),
		Category: category,
	}
	if r != nil {
		status.HadCommit = r.HadCommitInWindow
		status.Date = r.Date
		status.Pushes = len(r.Pushes)
	}
	return status
}
