package automation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Well-known ids seeded into every registry so that clients have stable
// fixtures to exercise status, cancel and definition lookups against.
const (
	SeededQueuedJobID     = "598f5e27-4a62-4ecc-bb05-2a27a0f13289"
	SeededInProgressJobID = "d2c5f5e2-4a62-4ecc-bb05-2a27a0f13289"
	SeededDefinitionID    = "4ef5354f-5e6b-48ea-b4b7-1e527466df9b"
	SeededDefinitionPath  = "/test/job_definition"
)

// DefaultFinishAfter is how long a job stays InProgress before a status
// query observes it as Finished.
const DefaultFinishAfter = time.Second

// Registry owns job records and saved job definitions. Jobs accumulate for
// the process lifetime; there is no deletion or reset.
type Registry struct {
	mu          sync.Mutex
	now         func() time.Time
	finishAfter time.Duration
	jobs        map[uuid.UUID]*Job
	definitions []JobDefinition

	extraDefinitions []JobDefinition
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the registry clock. Used by tests to drive the lazy
// status transition deterministically.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithFinishAfter overrides the auto-completion threshold.
func WithFinishAfter(d time.Duration) Option {
	return func(r *Registry) {
		r.finishAfter = d
	}
}

// WithDefinitions adds saved job definitions on top of the default seed.
// Definitions are construction-time only; nothing creates them at runtime.
func WithDefinitions(defs ...JobDefinition) Option {
	return func(r *Registry) {
		r.extraDefinitions = append(r.extraDefinitions, defs...)
	}
}

// NewRegistry creates a registry seeded with one Queued job, one InProgress
// job and one saved job definition.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		now:         time.Now,
		finishAfter: DefaultFinishAfter,
		jobs:        make(map[uuid.UUID]*Job),
	}
	for _, opt := range opts {
		opt(r)
	}

	queuedID := uuid.MustParse(SeededQueuedJobID)
	inProgressID := uuid.MustParse(SeededInProgressJobID)
	r.jobs[queuedID] = &Job{ID: queuedID, Status: StatusQueued, CreatedAt: r.now()}
	r.jobs[inProgressID] = &Job{ID: inProgressID, Status: StatusInProgress, CreatedAt: r.now()}
	r.definitions = []JobDefinition{
		{ID: uuid.MustParse(SeededDefinitionID), LibraryPath: SeededDefinitionPath},
	}
	r.definitions = append(r.definitions, r.extraDefinitions...)
	return r
}

// StartJob registers a new job in InProgress and returns it.
func (r *Registry) StartJob(ctx context.Context) *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	job := &Job{
		ID:        uuid.New(),
		Status:    StatusInProgress,
		CreatedAt: r.now(),
	}
	r.jobs[job.ID] = job
	jobCopy := *job
	return &jobCopy
}

// JobStatus returns a job by id, applying the lazy auto-completion rule: an
// InProgress job older than the threshold is mutated in place to Finished
// before being returned. There is no background scheduler; the transition
// becomes visible on the next query after the threshold and is idempotent.
func (r *Registry) JobStatus(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.Status == StatusInProgress && r.now().Sub(job.CreatedAt) > r.finishAfter {
		job.Status = StatusFinished
	}
	jobCopy := *job
	return &jobCopy, nil
}

// CancelJob sets a job's status to Canceled regardless of its current state.
// There is deliberately no guard against cancelling an already-terminal job;
// the emulated service is just as permissive.
func (r *Registry) CancelJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	job.Status = StatusCanceled
	jobCopy := *job
	return &jobCopy, nil
}

// SetJobStatus is a test hook that replaces a job's status outright,
// bypassing all transition rules. Invalid status strings fail closed without
// mutating state.
func (r *Registry) SetJobStatus(ctx context.Context, jobID uuid.UUID, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	status, err := ParseExecutionStatus(value)
	if err != nil {
		return err
	}
	job.Status = status
	return nil
}
