package scheduler

import (
	"context"

	"github.com/aristath/bourseiq/internal/work"
)

// IngestionJob adapts a work.Processor sweep into the scheduler's Job
// interface: each cron tick runs every registered work type once.
type IngestionJob struct {
	processor *work.Processor
}

// NewIngestionJob wraps processor as a cron-schedulable Job.
func NewIngestionJob(processor *work.Processor) *IngestionJob {
	return &IngestionJob{processor: processor}
}

func (j *IngestionJob) Name() string { return "ingestion:sweep" }

func (j *IngestionJob) Run() error {
	_, err := j.processor.Tick(context.Background())
	return err
}
