package services

import (
	"github.com/teadealer/teadealer-api/internal/jobs"
)

// JobService exposes the background worker to the API layer
type JobService struct {
	worker *jobs.Worker
}

// NewJobService creates a new job service
func NewJobService(worker *jobs.Worker) *JobService {
	return &JobService{worker: worker}
}

// Stats returns the worker's current counters.
func (s *JobService) Stats() jobs.WorkerStats {
	return s.worker.GetStats()
}

// EnqueueAsync runs a job in the background, bounded by the worker's semaphore.
func (s *JobService) EnqueueAsync(job jobs.Job) {
	s.worker.EnqueueAsync(job)
}
