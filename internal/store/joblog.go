package store

import (
	"context"
	"fmt"
)

// jobsFile is the shared append-only job audit log. It is written on every
// enqueue and never read by the system.
const jobsFile = "jobs"

// JobLog records submitted jobs for audit.
type JobLog interface {
	// Append appends one audit row, creating the log on first use.
	Append(ctx context.Context, record JobRecord) error
}

// JobLogRepo implements JobLog over a RecordStore.
type JobLogRepo struct {
	records RecordStore
}

// NewJobLogRepo creates a new JobLogRepo.
func NewJobLogRepo(records RecordStore) *JobLogRepo {
	return &JobLogRepo{records: records}
}

// Append appends one audit row.
func (r *JobLogRepo) Append(ctx context.Context, record JobRecord) error {
	if record.ID == "" {
		return fmt.Errorf("job id is required")
	}
	if err := r.records.Create(ctx, DirJobs, jobsFile, JobRecordHeaders); err != nil {
		return fmt.Errorf("failed to create job log: %w", err)
	}
	if err := r.records.Append(ctx, DirJobs, jobsFile, [][]string{record.row()}); err != nil {
		return fmt.Errorf("failed to append job record %s: %w", record.ID, err)
	}
	return nil
}

var _ JobLog = (*JobLogRepo)(nil)
