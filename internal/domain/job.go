package domain

import "time"

// JobType enumerates supported generation job categories.
type JobType string

const (
	JobTypeCreativeGenerate JobType = "CREATIVE_GEN"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Job encapsulates the lifecycle of one queued creative generation request.
// StrategyJSON carries the serialized CreativeStrategy; ResultJSON holds the
// outcome metadata (status, attempts, final score) once the worker finishes.
type Job struct {
	ID           string
	TaskType     JobType
	Status       JobStatus
	StrategyJSON []byte
	ProductKey   string
	ResultJSON   []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
