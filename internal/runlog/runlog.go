package runlog

import "time"

// RunLog records one project traversed during a countdown run.
type RunLog struct {
	ID          int64
	ProjectID   string
	ProjectName string
	StartedAt   time.Time
	EndedAt     time.Time
	Planned     time.Duration
	Completed   bool
}
