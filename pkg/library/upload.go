package library

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ChunkResult is the outcome of appending a chunk to an upload job. While
// the job stays open it carries the echoed advisory chunk index; on the
// finishing chunk it carries the resolved item id instead.
type ChunkResult struct {
	Finished   bool
	ChunkIndex int
	ItemID     uuid.UUID
}

// UploadManager owns pending upload jobs until they finalize, at which point
// ownership of the resulting item transfers to the content store. It is the
// only engine that depends on another one, and only at finalize time.
type UploadManager struct {
	mu    sync.Mutex
	store *Store
	jobs  map[uuid.UUID]*UploadJob
}

// NewUploadManager creates an upload manager resolving against the given store.
func NewUploadManager(store *Store) *UploadManager {
	return &UploadManager{
		store: store,
		jobs:  make(map[uuid.UUID]*UploadJob),
	}
}

// BeginUpload opens a new upload job holding a pending item and an empty
// chunk sequence. The pending item is not visible in the store until the
// finishing chunk resolves it.
func (m *UploadManager) BeginUpload(ctx context.Context, req BeginUploadRequest) (uuid.UUID, error) {
	if req.Title == "" || req.Type == "" || req.ParentID == uuid.Nil {
		return uuid.Nil, ErrMissingFields
	}
	if !m.store.hasItem(req.ParentID) {
		return uuid.Nil, &ItemError{ItemID: req.ParentID, Op: "upload", Err: ErrItemNotFound}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	job := &UploadJob{
		JobID: uuid.New(),
		Item: &Item{
			ID:          uuid.New(),
			Title:       req.Title,
			Type:        req.Type,
			ParentID:    req.ParentID,
			Description: req.Description,
		},
		OverwriteIfExists: req.OverwriteIfExists,
	}
	m.jobs[job.JobID] = job
	return job.JobID, nil
}

// Job returns a copy of the open upload job with the given id.
func (m *UploadManager) Job(ctx context.Context, jobID uuid.UUID) (*UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrUploadJobNotFound
	}
	jobCopy := *job
	itemCopy := *job.Item
	jobCopy.Item = &itemCopy
	jobCopy.Chunks = make([][]byte, len(job.Chunks))
	copy(jobCopy.Chunks, job.Chunks)
	return &jobCopy, nil
}

// AppendChunk appends data to the job's chunk sequence in call order. The
// chunk index is an advisory echo value only; the protocol never reorders by
// it. With finish unset the job stays open and the index is acknowledged.
// With finish set the job finalizes: the target path is resolved from the
// pending item's parent and title, the conflict policy is applied, and the
// job is consumed on every outcome except a conflict, which leaves it open
// so the caller may retry with overwrite.
func (m *UploadManager) AppendChunk(ctx context.Context, jobID uuid.UUID, chunkIndex int, data []byte, finish bool) (*ChunkResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrUploadJobNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	job.Chunks = append(job.Chunks, buf)
	job.Item.Size = int64(len(job.Data()))

	if !finish {
		return &ChunkResult{ChunkIndex: chunkIndex}, nil
	}

	itemID, err := m.store.resolveUpload(job.Item, job.OverwriteIfExists)
	if err != nil {
		if errors.Is(err, ErrItemExists) {
			return nil, &UploadError{JobID: jobID, Op: "finalize", Err: ErrItemExists}
		}
		delete(m.jobs, jobID)
		return nil, &UploadError{JobID: jobID, Op: "finalize", Err: err}
	}
	delete(m.jobs, jobID)
	return &ChunkResult{Finished: true, ItemID: itemID}, nil
}
