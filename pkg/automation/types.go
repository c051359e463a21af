package automation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus is the status of an Automation Services job.
type ExecutionStatus string

// Execution status constants (typed). These are wire values and must match
// the Spotfire enumeration exactly.
const (
	StatusNotSet     ExecutionStatus = "NotSet"
	StatusQueued     ExecutionStatus = "Queued"
	StatusInProgress ExecutionStatus = "InProgress"
	StatusFinished   ExecutionStatus = "Finished"
	StatusFailed     ExecutionStatus = "Failed"
	StatusMissing    ExecutionStatus = "Missing"
	StatusBusy       ExecutionStatus = "Busy"
	StatusCanceled   ExecutionStatus = "Canceled"
)

var validStatuses = map[ExecutionStatus]bool{
	StatusNotSet:     true,
	StatusQueued:     true,
	StatusInProgress: true,
	StatusFinished:   true,
	StatusFailed:     true,
	StatusMissing:    true,
	StatusBusy:       true,
	StatusCanceled:   true,
}

// IsValid reports whether the status is one of the enumerated variants.
func (s ExecutionStatus) IsValid() bool {
	return validStatuses[s]
}

// ParseExecutionStatus parses a status string against the enumerated
// variants. Invalid strings fail closed.
func ParseExecutionStatus(value string) (ExecutionStatus, error) {
	status := ExecutionStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// Job is one simulated asynchronous execution and its status. CreatedAt is
// taken from the registry clock and carries Go's monotonic reading.
type Job struct {
	ID        uuid.UUID
	Status    ExecutionStatus
	CreatedAt time.Time
}

// JobDefinition is an immutable saved job template addressed by id or by
// library path. Definitions are pre-seeded and never created at runtime.
type JobDefinition struct {
	ID          uuid.UUID
	LibraryPath string
}
