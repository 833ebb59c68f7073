package domain

import "time"

// AnalyticsDaily stores aggregated generation metrics for a specific day.
type AnalyticsDaily struct {
	Day             time.Time
	JobsQueued      int
	JobsCompleted   int
	CreativesPassed int
	BestEffort      int
	JobsFailed      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
