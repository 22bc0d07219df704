package capture

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"aircheck/internal/catalog"
)

// JobStatus tracks a capture invocation through its lifetime.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobRunning    JobStatus = "running"
	JobValidating JobStatus = "validating"
	JobSucceeded  JobStatus = "succeeded"
	JobFailed     JobStatus = "failed"
)

// Job is the transient state of one Record invocation. Jobs live in
// memory for the duration of the call and are observable through
// ActiveJobs; only validated recordings ever reach the catalog.
type Job struct {
	ID         string
	StationID  int64
	ShowID     int64
	SourceType catalog.SourceType
	// Tool is the binary currently attempting the capture; it settles on
	// the winning tool once an attempt validates.
	Tool      catalog.ToolName
	Status    JobStatus
	StartedAt time.Time
}

func (e *Executor) beginJob(station *catalog.Station, show *catalog.Show, sourceType catalog.SourceType) Job {
	job := Job{
		ID:         uuid.NewString(),
		StationID:  station.ID,
		ShowID:     show.ID,
		SourceType: sourceType,
		Status:     JobPending,
		StartedAt:  e.now(),
	}
	e.jobMu.Lock()
	e.jobs[job.ID] = job
	e.jobMu.Unlock()
	return job
}

func (e *Executor) setJobStatus(jobID string, status JobStatus, tool catalog.ToolName) {
	e.jobMu.Lock()
	defer e.jobMu.Unlock()
	job, ok := e.jobs[jobID]
	if !ok {
		return
	}
	job.Status = status
	if tool != catalog.ToolUnset {
		job.Tool = tool
	}
	e.jobs[jobID] = job
}

// finishJob drops the job from the active set once Record returns.
func (e *Executor) finishJob(jobID string) {
	e.jobMu.Lock()
	defer e.jobMu.Unlock()
	delete(e.jobs, jobID)
}

// ActiveJobs snapshots in-flight captures, oldest first, for status
// output.
func (e *Executor) ActiveJobs() []Job {
	e.jobMu.Lock()
	defer e.jobMu.Unlock()
	jobs := make([]Job, 0, len(e.jobs))
	for _, job := range e.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].StartedAt.Before(jobs[j].StartedAt) })
	return jobs
}
