package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator serves asynchronous chunking jobs with a bounded queue and a
// fixed worker pool. Synchronous callers use the Processor directly.
type Orchestrator struct {
	processor *Processor
	jobs      *JobStore
	queue     chan *Job
	log       *slog.Logger
	workers   int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the job runner. queueSize bounds how many jobs may
// wait; Submit fails fast once the queue is full.
func NewOrchestrator(processor *Processor, workers, queueSize int, jobTTL time.Duration, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		processor: processor,
		jobs:      NewJobStore(jobTTL),
		queue:     make(chan *Job, queueSize),
		log:       log,
		workers:   workers,
	}
}

// Start launches worker goroutines and the job-store janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.run(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop drains the workers.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "url", job.URL)
	job.SetStatus(StatusRunning)

	chunks, err := o.processor.LoadAndChunkWith(ctx, job.URL, job.SplitCfg)
	if err != nil {
		log.Error("job failed", "error", err)
		job.Fail(err)
		return
	}
	job.Complete(chunks)
	log.Info("job completed", "chunks", len(chunks))
}

// Submit queues a job. Fails fast when the queue is full.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		err := fmt.Errorf("job queue is full (%d)", cap(o.queue))
		job.Fail(err)
		return err
	}
}

// GetJob returns a job by ID, or nil when unknown or evicted.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
