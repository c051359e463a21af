package spotfire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Library item type constants.
const (
	ItemTypeFolder = "spotfire.folder"
	ItemTypeDXP    = "spotfire.dxp"
)

// LibraryClient manages folders and files in the Spotfire library.
type LibraryClient struct {
	baseURL string
	session *session
}

// NewLibraryClient creates a library client and authenticates against the
// server with the library read/write scopes.
func NewLibraryClient(ctx context.Context, spotfireURL, clientID, clientSecret string, opts ...ClientOption) (*LibraryClient, error) {
	o := buildOptions(opts)
	base := strings.TrimRight(spotfireURL, "/") + "/spotfire"

	token, err := authenticate(ctx, o.httpClient, base,
		[]Scope{ScopeLibraryRead, ScopeLibraryWrite}, clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotfire server: %w", err)
	}

	return &LibraryClient{
		baseURL: base,
		session: &session{hc: o.httpClient, token: token},
	}, nil
}

type itemSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type itemListResponse struct {
	Items []itemSummary `json:"items"`
}

// FolderID returns the id of the folder at the given library path.
func (c *LibraryClient) FolderID(ctx context.Context, path string) (string, error) {
	q := url.Values{}
	q.Set("path", path)
	q.Set("type", ItemTypeFolder)
	q.Set("maxResults", "1")

	resp, err := c.session.do(ctx, http.MethodGet, c.baseURL+"/api/rest/library/v2/items", q, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: folder %s", ErrItemNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error fetching folder ID: %d - %s", resp.StatusCode, drain(resp))
	}

	var list itemListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", err
	}
	if len(list.Items) == 0 {
		return "", fmt.Errorf("%w: folder %s", ErrItemNotFound, path)
	}
	return list.Items[0].ID, nil
}

// CreateFolder creates a folder under the given parent and returns its id.
func (c *LibraryClient) CreateFolder(ctx context.Context, title, parentID, description string) (string, error) {
	resp, err := c.session.doJSON(ctx, http.MethodPost, c.baseURL+"/api/rest/library/v2/items", map[string]string{
		"title":       title,
		"type":        ItemTypeFolder,
		"parentId":    parentID,
		"description": description,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("failed to create folder %q: %d - %s", title, resp.StatusCode, drain(resp))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// EnsureFolder returns the folder id for the given path, creating the folder
// and any missing parents along the way.
func (c *LibraryClient) EnsureFolder(ctx context.Context, path string) (string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return c.FolderID(ctx, "/")
	}

	var folderID string
	currentPath := ""
	for _, part := range strings.Split(trimmed, "/") {
		currentPath = currentPath + "/" + part

		id, err := c.FolderID(ctx, currentPath)
		switch {
		case err == nil:
			folderID = id
			continue
		case !errors.Is(err, ErrItemNotFound):
			return "", err
		}

		slog.Info("Folder not found, creating it", "path", currentPath)
		parentID := folderID
		if parentID == "" {
			if parentID, err = c.FolderID(ctx, "/"); err != nil {
				return "", err
			}
		}
		folderID, err = c.CreateFolder(ctx, part, parentID,
			fmt.Sprintf("Created by the Spotfire client for path %q.", currentPath))
		if err != nil {
			return "", err
		}
	}
	return folderID, nil
}

// UploadFileRequest contains the fields for uploading a file to the library.
type UploadFileRequest struct {
	Data        []byte
	Path        string
	Type        string
	Description string
	Overwrite   bool
}

// UploadFile uploads a file to the library at the given path, creating
// parent folders as needed, and returns the id of the stored item.
func (c *LibraryClient) UploadFile(ctx context.Context, req UploadFileRequest) (string, error) {
	parts := strings.Split(strings.Trim(req.Path, "/"), "/")
	parentPath := strings.Join(parts[:len(parts)-1], "/")

	parentID, err := c.EnsureFolder(ctx, parentPath)
	if err != nil {
		return "", err
	}

	jobID, err := c.createUploadJob(ctx, parts[len(parts)-1], req.Type, parentID, req.Description, req.Overwrite)
	if err != nil {
		return "", err
	}
	slog.Info("Upload job created", "job_id", jobID)

	itemID, err := c.finishUploadJob(ctx, jobID, req.Data)
	if err != nil {
		return "", err
	}
	slog.Info("File uploaded", "path", req.Path, "item_id", itemID)
	return itemID, nil
}

// DeleteFolder deletes the folder at the given path, including its subtree.
// When ignoreMissing is set, a missing folder is not an error.
func (c *LibraryClient) DeleteFolder(ctx context.Context, path string, ignoreMissing bool) error {
	folderID, err := c.FolderID(ctx, path)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) && ignoreMissing {
			slog.Info("Folder not found, no action taken", "path", path)
			return nil
		}
		return err
	}
	return c.DeleteItem(ctx, folderID)
}

// DeleteItem deletes an item by id, including its subtree.
func (c *LibraryClient) DeleteItem(ctx context.Context, itemID string) error {
	resp, err := c.session.do(ctx, http.MethodDelete, c.baseURL+"/api/rest/library/v2/items/"+itemID, nil, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: item %s", ErrItemNotFound, itemID)
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("failed to delete item: %d - %s", resp.StatusCode, drain(resp))
	}
	return nil
}

func (c *LibraryClient) createUploadJob(ctx context.Context, title, itemType, parentID, description string, overwrite bool) (string, error) {
	resp, err := c.session.doJSON(ctx, http.MethodPost, c.baseURL+"/api/rest/library/v2/upload", map[string]any{
		"overwriteIfExists": overwrite,
		"item": map[string]string{
			"title":       title,
			"type":        itemType,
			"parentId":    parentID,
			"description": description,
		},
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("failed to create upload job: %d - %s", resp.StatusCode, drain(resp))
	}

	var created struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.JobID, nil
}

func (c *LibraryClient) finishUploadJob(ctx context.Context, jobID string, data []byte) (string, error) {
	q := url.Values{}
	q.Set("chunk", "1")
	q.Set("finish", "true")

	resp, err := c.session.do(ctx, http.MethodPost, c.baseURL+"/api/rest/library/v2/upload/"+jobID,
		q, bytes.NewReader(data), "application/octet-stream")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to upload file: %d - %s", resp.StatusCode, drain(resp))
	}

	var finished struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&finished); err != nil {
		return "", err
	}
	return finished.Item.ID, nil
}
