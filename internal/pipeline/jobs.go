package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/docslice/internal/document"
	"github.com/dgallion1/docslice/internal/splitter"
	"github.com/google/uuid"
)

// JobStatus represents the state of an asynchronous chunking job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks a single document's trip through the pipeline when submitted
// via the asynchronous HTTP entry point.
type Job struct {
	mu sync.Mutex

	ID        string
	URL       string
	SplitCfg  splitter.Config
	Status    JobStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time

	chunks []document.Chunk
}

// NewJob creates a queued job for a document URL.
func NewJob(url string, splitCfg splitter.Config) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		URL:       url,
		SplitCfg:  splitCfg,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Complete records the pipeline output and marks the job done.
func (j *Job) Complete(chunks []document.Chunk) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.chunks = chunks
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// Fail records the pipeline error and marks the job failed.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Error = err.Error()
	j.Status = StatusFailed
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state. Chunks are
// present only once the job has completed.
type JobSnapshot struct {
	ID         string           `json:"job_id"`
	URL        string           `json:"url"`
	Status     JobStatus        `json:"status"`
	Error      string           `json:"error,omitempty"`
	ChunkCount int              `json:"chunk_count"`
	Chunks     []document.Chunk `json:"chunks,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Snapshot returns a consistent copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:         j.ID,
		URL:        j.URL,
		Status:     j.Status,
		Error:      j.Error,
		ChunkCount: len(j.chunks),
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
	if j.Status == StatusCompleted {
		snap.Chunks = j.chunks
	}
	return snap
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes jobs idle for longer than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		idle := now.Sub(job.UpdatedAt)
		job.mu.Unlock()
		if idle > s.ttl {
			delete(s.jobs, id)
		}
	}
}
