package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/scrankin/spotfire-community/pkg/library"
)

// Magic title/path value that makes an endpoint fail with a 500, used by
// client tests to exercise unexpected-error paths.
const trigger500 = "return-500"

// LibraryHandler handles HTTP requests for the mock Library v2 API.
type LibraryHandler struct {
	store   *library.Store
	uploads *library.UploadManager
}

// NewLibraryHandler creates a new library handler.
func NewLibraryHandler(store *library.Store, uploads *library.UploadManager) *LibraryHandler {
	return &LibraryHandler{
		store:   store,
		uploads: uploads,
	}
}

// Routes returns the routes for the mock Library v2 API.
func (h *LibraryHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Delete("/items/{itemID}", h.DeleteItem)

	r.Post("/upload", h.BeginUpload)
	r.Post("/upload/{jobID}", h.UploadChunk)

	return r
}

// ItemSummary is the wire representation of an item in list responses.
type ItemSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ItemListResponse is the response body for item listings.
type ItemListResponse struct {
	Items []ItemSummary `json:"items"`
}

// ListItems lists items by exact path or by type. A path query performs an
// exact path index lookup; everything else returns the store in insertion
// order, optionally filtered and truncated.
func (h *LibraryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("path") {
		path := q.Get("path")
		if path == trigger500 {
			renderDetail(w, r, http.StatusInternalServerError, "Fake Internal Server Error")
			return
		}
		item, err := h.store.GetByPath(r.Context(), path)
		if err != nil {
			renderDetail(w, r, http.StatusNotFound, "Item not found")
			return
		}
		render.JSON(w, r, ItemListResponse{Items: []ItemSummary{summarize(item)}})
		return
	}

	req := library.ListItemsRequest{Type: q.Get("type")}
	if raw := q.Get("maxResults"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			renderDetail(w, r, http.StatusBadRequest, "Invalid maxResults")
			return
		}
		req.MaxResults = &limit
	}

	items := h.store.ListItems(r.Context(), req)
	summaries := make([]ItemSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, summarize(item))
	}
	render.JSON(w, r, ItemListResponse{Items: summaries})
}

// CreateItemRequest is the request body for creating a library item.
type CreateItemRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	ParentID    string `json:"parentId"`
	Description string `json:"description"`
}

// CreateItem creates a new library item under a parent folder.
func (h *LibraryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderDetail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Title == trigger500 {
		renderDetail(w, r, http.StatusInternalServerError, "Fake Internal Server Error")
		return
	}
	if req.Title == "" || req.Type == "" || req.ParentID == "" {
		renderDetail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	parentID, err := uuid.Parse(req.ParentID)
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Parent not found")
		return
	}

	item, err := h.store.CreateItem(r.Context(), library.CreateItemRequest{
		Title:       req.Title,
		Type:        req.Type,
		ParentID:    parentID,
		Description: req.Description,
	})
	switch {
	case errors.Is(err, library.ErrItemExists):
		renderAPIError(w, r, http.StatusConflict, errorCodeConflict, "Item exists")
		return
	case errors.Is(err, library.ErrItemNotFound):
		renderDetail(w, r, http.StatusNotFound, "Parent not found")
		return
	case errors.Is(err, library.ErrMissingFields):
		renderDetail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	case err != nil:
		slog.Error("Failed to create item", "title", req.Title, "error", err)
		renderDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"id": item.ID.String()})
}

// DeleteItem deletes an item by id, including its whole subtree. The root
// folder is never deletable.
func (h *LibraryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Item not found")
		return
	}

	err = h.store.DeleteSubtree(r.Context(), itemID)
	switch {
	case errors.Is(err, library.ErrItemNotFound):
		renderDetail(w, r, http.StatusNotFound, "Item not found")
		return
	case errors.Is(err, library.ErrRootForbidden):
		renderDetail(w, r, http.StatusBadRequest, "Cannot delete root")
		return
	case err != nil:
		slog.Error("Failed to delete item", "item_id", itemID, "error", err)
		renderDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BeginUploadRequest is the request body for creating an upload job.
type BeginUploadRequest struct {
	OverwriteIfExists bool              `json:"overwriteIfExists"`
	Item              CreateItemRequest `json:"item"`
}

// BeginUpload creates an upload job to upload content in one or more chunks.
func (h *LibraryHandler) BeginUpload(w http.ResponseWriter, r *http.Request) {
	var req BeginUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderDetail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Item.Title == "" || req.Item.Type == "" || req.Item.ParentID == "" {
		renderDetail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	parentID, err := uuid.Parse(req.Item.ParentID)
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Parent not found")
		return
	}

	jobID, err := h.uploads.BeginUpload(r.Context(), library.BeginUploadRequest{
		Title:             req.Item.Title,
		Type:              req.Item.Type,
		ParentID:          parentID,
		Description:       req.Item.Description,
		OverwriteIfExists: req.OverwriteIfExists,
	})
	switch {
	case errors.Is(err, library.ErrMissingFields):
		renderDetail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	case errors.Is(err, library.ErrItemNotFound):
		renderDetail(w, r, http.StatusNotFound, "Parent not found")
		return
	case err != nil:
		slog.Error("Failed to create upload job", "title", req.Item.Title, "error", err)
		renderDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"jobId": jobID.String()})
}

// ChunkAckResponse acknowledges a non-finishing chunk.
type ChunkAckResponse struct {
	Status string `json:"status"`
	Chunk  int    `json:"chunk"`
}

// FinalizeResponse carries the resolved item id of a finished upload.
type FinalizeResponse struct {
	Item ItemSummaryID `json:"item"`
}

// ItemSummaryID wraps a bare item id.
type ItemSummaryID struct {
	ID string `json:"id"`
}

// UploadChunk appends a chunk to an upload job and finalizes the job when
// the finish flag is set. The chunk index is advisory and only echoed back.
func (h *LibraryHandler) UploadChunk(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Job not found")
		return
	}

	q := r.URL.Query()
	chunkIndex := 1
	if raw := q.Get("chunk"); raw != "" {
		if chunkIndex, err = strconv.Atoi(raw); err != nil {
			renderDetail(w, r, http.StatusBadRequest, "Invalid chunk index")
			return
		}
	}
	finish := false
	if raw := q.Get("finish"); raw != "" {
		if finish, err = strconv.ParseBool(raw); err != nil {
			renderDetail(w, r, http.StatusBadRequest, "Invalid finish flag")
			return
		}
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		renderDetail(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	result, err := h.uploads.AppendChunk(r.Context(), jobID, chunkIndex, data, finish)
	switch {
	case errors.Is(err, library.ErrUploadJobNotFound):
		renderDetail(w, r, http.StatusNotFound, "Job not found")
		return
	case errors.Is(err, library.ErrItemExists):
		renderDetail(w, r, http.StatusConflict, "Item exists and overwrite=false")
		return
	case err != nil:
		slog.Error("Failed to append chunk", "job_id", jobID, "error", err)
		renderDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if result.Finished {
		render.JSON(w, r, FinalizeResponse{Item: ItemSummaryID{ID: result.ItemID.String()}})
		return
	}
	render.JSON(w, r, ChunkAckResponse{Status: "chunk received", Chunk: result.ChunkIndex})
}

func summarize(item *library.Item) ItemSummary {
	return ItemSummary{
		ID:    item.ID.String(),
		Title: item.Title,
		Type:  item.Type,
	}
}
