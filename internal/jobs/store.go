package jobs

import "context"

// Store persists job states for queue restart recovery.
type Store interface {
	LoadJobs(ctx context.Context) ([]*DubbingJob, error)
	UpsertJob(ctx context.Context, job *DubbingJob) error
	DeleteJob(ctx context.Context, jobID string) error
	// DeleteJobData removes auxiliary data (progress events) for a job.
	DeleteJobData(ctx context.Context, jobID string) error
}
