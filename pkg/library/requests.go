package library

import "github.com/google/uuid"

// CreateItemRequest contains the fields for creating a library item under an
// existing parent folder.
type CreateItemRequest struct {
	Title       string
	Type        string
	ParentID    uuid.UUID
	Description string
}

// ListItemsRequest defines filtering options for listing items. A nil
// MaxResults means no truncation; negative values are clamped to zero.
type ListItemsRequest struct {
	Type       string
	MaxResults *int
}

// BeginUploadRequest contains the fields for opening an upload job. The
// target item stays pending until the finishing chunk arrives.
type BeginUploadRequest struct {
	Title             string
	Type              string
	ParentID          uuid.UUID
	Description       string
	OverwriteIfExists bool
}
