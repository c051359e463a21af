package library

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrItemNotFound indicates an item, parent or path was not found
	ErrItemNotFound = errors.New("item not found")

	// ErrItemExists indicates the target path is already occupied
	ErrItemExists = errors.New("item exists")

	// ErrRootForbidden indicates an attempt to delete the root folder
	ErrRootForbidden = errors.New("cannot delete root")

	// ErrMissingFields indicates required item fields were absent or empty
	ErrMissingFields = errors.New("missing required fields")

	// ErrUploadJobNotFound indicates an unknown upload job id
	ErrUploadJobNotFound = errors.New("upload job not found")
)

// ItemError represents an error related to a library item operation
type ItemError struct {
	ItemID uuid.UUID
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("library operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// UploadError represents an error related to an upload job operation
type UploadError struct {
	JobID uuid.UUID
	Op    string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload operation %s failed for job %s: %v", e.Op, e.JobID, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
