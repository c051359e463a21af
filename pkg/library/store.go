package library

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store owns library items and the path index. It is seeded with a single
// root folder at "/" whose id never changes and which cannot be deleted.
//
// The store assumes sequential invocation from a test harness; the coarse
// mutex only serializes access to the shared maps when the store is exposed
// over a concurrent listener. Concurrent mutation of the same path keeps
// last-writer-wins semantics.
type Store struct {
	mu        sync.RWMutex
	rootID    uuid.UUID
	items     map[uuid.UUID]*Item
	order     []uuid.UUID
	pathIndex map[string]uuid.UUID
}

// NewStore creates a store holding only the root folder.
func NewStore() *Store {
	rootID := uuid.New()
	root := &Item{
		ID:       rootID,
		Title:    "/",
		Type:     ItemTypeFolder,
		ParentID: uuid.Nil,
	}
	return &Store{
		rootID:    rootID,
		items:     map[uuid.UUID]*Item{rootID: root},
		order:     []uuid.UUID{rootID},
		pathIndex: map[string]uuid.UUID{"/": rootID},
	}
}

// RootID returns the id of the reserved root folder.
func (s *Store) RootID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootID
}

// CreateItem creates a new item under an existing parent. It fails with
// ErrItemNotFound if the parent does not exist and ErrItemExists if the
// materialized path is already occupied. The insert is atomic from the
// caller's perspective.
func (s *Store) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Title == "" || req.Type == "" || req.ParentID == uuid.Nil {
		return nil, ErrMissingFields
	}
	if _, ok := s.items[req.ParentID]; !ok {
		return nil, &ItemError{ItemID: req.ParentID, Op: "create", Err: ErrItemNotFound}
	}

	path := joinPath(s.pathOfLocked(req.ParentID), req.Title)
	if _, ok := s.pathIndex[path]; ok {
		return nil, &ItemError{ItemID: req.ParentID, Op: "create", Err: ErrItemExists}
	}

	item := &Item{
		ID:          uuid.New(),
		Title:       req.Title,
		Type:        req.Type,
		ParentID:    req.ParentID,
		Description: req.Description,
	}
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	s.pathIndex[path] = item.ID

	itemCopy := *item
	return &itemCopy, nil
}

// GetItem returns an item by id.
func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	itemCopy := *item
	return &itemCopy, nil
}

// GetByPath returns the item stored at the given normalized path. Lookup is
// an exact, case-sensitive match against the path index; there is no prefix
// or wildcard matching.
func (s *Store) GetByPath(ctx context.Context, path string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.pathIndex[path]
	if !ok {
		return nil, ErrItemNotFound
	}
	itemCopy := *s.items[id]
	return &itemCopy, nil
}

// ListItems returns item copies in store insertion order, optionally
// filtered by exact type match and truncated to MaxResults from the front.
func (s *Store) ListItems(ctx context.Context, req ListItemsRequest) []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Item
	for _, id := range s.order {
		item := s.items[id]
		if req.Type != "" && item.Type != req.Type {
			continue
		}
		itemCopy := *item
		result = append(result, &itemCopy)
	}
	if req.MaxResults != nil {
		limit := *req.MaxResults
		if limit < 0 {
			limit = 0
		}
		if limit < len(result) {
			result = result[:limit]
		}
	}
	return result
}

// DeleteSubtree removes an item and every descendant, along with their path
// index entries. Deleting the root is forbidden. The whole subtree vanishes
// in one logical call.
//
// The descendant closure is computed by walking every stored item's ancestor
// chain up to root. O(items x depth), which is fine at mock scale.
func (s *Store) DeleteSubtree(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return &ItemError{ItemID: id, Op: "delete", Err: ErrItemNotFound}
	}
	if id == s.rootID {
		return &ItemError{ItemID: id, Op: "delete", Err: ErrRootForbidden}
	}

	doomed := map[uuid.UUID]bool{id: true}
	for candidate, item := range s.items {
		cur := item
		for cur.ParentID != uuid.Nil {
			if cur.ParentID == id {
				doomed[candidate] = true
				break
			}
			parent, ok := s.items[cur.ParentID]
			if !ok {
				break
			}
			cur = parent
		}
	}

	for path, pid := range s.pathIndex {
		if doomed[pid] {
			delete(s.pathIndex, path)
		}
	}
	for did := range doomed {
		delete(s.items, did)
	}
	remaining := s.order[:0]
	for _, oid := range s.order {
		if !doomed[oid] {
			remaining = append(remaining, oid)
		}
	}
	s.order = remaining
	return nil
}

// PathOf recomputes the materialized path of an item by walking parent
// links up to the root.
func (s *Store) PathOf(ctx context.Context, id uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pathOfLockedErr(id)
}

// resolveUpload places a finished upload into the store under the conflict
// policy. When the target path is occupied and overwrite is allowed, the
// new content replaces the stored item under the pre-existing id so callers
// holding a reference keep a stable one; the path entry already points at
// that id. Otherwise the pending item's own id is inserted together with a
// new path entry.
func (s *Store) resolveUpload(pending *Item, overwrite bool) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parentPath, err := s.pathOfLockedErr(pending.ParentID)
	if err != nil {
		return uuid.Nil, err
	}
	path := joinPath(parentPath, pending.Title)

	if existingID, ok := s.pathIndex[path]; ok {
		if !overwrite {
			return uuid.Nil, ErrItemExists
		}
		replacement := *pending
		replacement.ID = existingID
		s.items[existingID] = &replacement
		return existingID, nil
	}

	itemCopy := *pending
	s.items[itemCopy.ID] = &itemCopy
	s.order = append(s.order, itemCopy.ID)
	s.pathIndex[path] = itemCopy.ID
	return itemCopy.ID, nil
}

func (s *Store) hasItem(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

func (s *Store) pathOfLockedErr(id uuid.UUID) (string, error) {
	if _, ok := s.items[id]; !ok {
		return "", ErrItemNotFound
	}
	return s.pathOfLocked(id), nil
}

// pathOfLocked walks parent links to materialize the path of a known item.
// Callers must hold the mutex.
func (s *Store) pathOfLocked(id uuid.UUID) string {
	if id == s.rootID {
		return "/"
	}
	var segments []string
	cur := s.items[id]
	for cur != nil && cur.ID != s.rootID {
		segments = append(segments, cur.Title)
		cur = s.items[cur.ParentID]
	}
	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(segments[i])
	}
	return b.String()
}

// joinPath appends a title to a parent path: "/" for root, single leading
// slash, no trailing slash.
func joinPath(parentPath, title string) string {
	return strings.TrimSuffix(parentPath, "/") + "/" + title
}
