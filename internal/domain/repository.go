package domain

import "context"

// JobRepository defines persistence for creative generation jobs.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	UpdateStatus(ctx context.Context, jobID string, status JobStatus, errMsg *string, resultJSON []byte) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
}

// AssetRepository handles persistence for stored artifacts.
type AssetRepository interface {
	ListByJobID(ctx context.Context, jobID string) ([]Asset, error)
	Save(ctx context.Context, asset *Asset) error
}

// AnalyticsRepository updates metrics counters.
type AnalyticsRepository interface {
	IncrementCounters(ctx context.Context, day string, counters map[string]int) error
	GetSummary(ctx context.Context) (*AnalyticsDaily, error)
}
