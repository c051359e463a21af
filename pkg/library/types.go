package library

import (
	"github.com/google/uuid"
)

// Item type constants matching the Spotfire library item types.
const (
	ItemTypeFolder = "spotfire.folder"
	ItemTypeDXP    = "spotfire.dxp"
)

// PrincipalType distinguishes user and group principals in ACL entries.
type PrincipalType string

// Principal type constants (typed).
const (
	PrincipalTypeUser  PrincipalType = "user"
	PrincipalTypeGroup PrincipalType = "group"
)

// Permission is a single library permission granted by an ACL entry.
type Permission string

// Permission constants (typed).
const (
	PermissionRead    Permission = "read"
	PermissionWrite   Permission = "write"
	PermissionOwner   Permission = "owner"
	PermissionExecute Permission = "execute"
)

// UserPrincipal identifies the user recorded on created/modified metadata.
type UserPrincipal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DomainName  string `json:"domainName"`
	DisplayName string `json:"displayName"`
}

// Property is a key/values pair attached to a library item.
type Property struct {
	Key       string   `json:"key"`
	Values    []string `json:"values,omitempty"`
	Versioned bool     `json:"versioned,omitempty"`
}

// AclEntry grants permissions on an item to a principal.
type AclEntry struct {
	PrincipalID     string        `json:"principalId,omitempty"`
	PrincipalName   string        `json:"principalName,omitempty"`
	DomainName      string        `json:"domainName,omitempty"`
	PrincipalType   PrincipalType `json:"principalType,omitempty"`
	Permissions     []Permission  `json:"permissions,omitempty"`
	InheritedFromID string        `json:"inheritedFromId,omitempty"`
}

// Item is a node (folder or content) in the library tree. The root item has
// ParentID == uuid.Nil and is the only item without a path index entry of its
// own beyond "/". Paths are not stored on the item; they are derived by
// walking parent links.
type Item struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	ParentID    uuid.UUID      `json:"parentId"`
	Description string         `json:"description,omitempty"`
	CreatedBy   *UserPrincipal `json:"createdBy,omitempty"`
	ModifiedBy  *UserPrincipal `json:"modifiedBy,omitempty"`
	Size        int64          `json:"size,omitempty"`
	Properties  []Property     `json:"properties,omitempty"`
	Permissions []AclEntry     `json:"permissions,omitempty"`
}

// UploadJob accumulates chunks for a pending item until the finishing chunk
// resolves it into the store. The pending item is not visible in the store
// until then.
type UploadJob struct {
	JobID             uuid.UUID
	Item              *Item
	OverwriteIfExists bool
	Chunks            [][]byte
}

// Data returns the concatenated chunk payload in append order.
func (j *UploadJob) Data() []byte {
	var n int
	for _, c := range j.Chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range j.Chunks {
		out = append(out, c...)
	}
	return out
}
