package model

import "time"

// RunStatus represents the outcome of an extraction run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunResult is the summary delivered at the end of every run, including
// failed ones.
type RunResult struct {
	UniqueCount int           `json:"unique_count"`
	CodeCount   int           `json:"code_count"`
	Elapsed     time.Duration `json:"elapsed"`
	Encoding    string        `json:"encoding"`
}

// ElapsedSeconds returns the wall-clock duration in seconds.
func (r RunResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Run is a finished extraction run as recorded in the history store.
type Run struct {
	ID        string    `json:"id"`
	Pattern   string    `json:"pattern"`
	Status    RunStatus `json:"status"`
	Files     int       `json:"files"`
	Result    RunResult `json:"result"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Failed reports whether the run stopped on a fatal error.
func (r *Run) Failed() bool {
	return r.Status == RunStatusFailed
}
