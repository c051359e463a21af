package spotfire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scrankin/spotfire-community/internal/validation"
	"github.com/scrankin/spotfire-community/pkg/automation"
	"github.com/scrankin/spotfire-community/pkg/spotfire/jobxml"
)

// definitionNotFoundMessage is the fixed message the server attaches to the
// structured Failed response for a missed definition lookup.
const definitionNotFoundMessage = "Job file not found or no access."

// JobResult is the response payload returned by status and start endpoints.
type JobResult struct {
	StatusCode automation.ExecutionStatus `json:"statusCode"`
	Message    string                     `json:"message"`
	JobID      string                     `json:"jobId"`
}

// terminalStatuses are the statuses WaitForJob resolves on.
var terminalStatuses = map[automation.ExecutionStatus]bool{
	automation.StatusFinished: true,
	automation.StatusFailed:   true,
	automation.StatusCanceled: true,
}

// AutomationClient starts and monitors Automation Services jobs.
type AutomationClient struct {
	baseURL string
	session *session
}

// NewAutomationClient creates an automation client and authenticates against
// the server with the job-execute scope.
func NewAutomationClient(ctx context.Context, spotfireURL, clientID, clientSecret string, opts ...ClientOption) (*AutomationClient, error) {
	o := buildOptions(opts)
	root := strings.TrimRight(spotfireURL, "/")

	token, err := authenticate(ctx, o.httpClient, root+"/spotfire",
		[]Scope{ScopeAutomationExecute}, clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotfire server: %w", err)
	}

	return &AutomationClient{
		baseURL: root + "/spotfire/api/rest/as",
		session: &session{hc: o.httpClient, token: token},
	}, nil
}

// JobStatus fetches the current status of a job by id.
func (c *AutomationClient) JobStatus(ctx context.Context, jobID string) (automation.ExecutionStatus, error) {
	if !validation.IsUUIDv4(jobID) {
		return "", fmt.Errorf("%w: %s", ErrInvalidJobID, jobID)
	}
	resp, err := c.session.do(ctx, http.MethodGet, c.baseURL+"/job/status/"+jobID, nil, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	result, err := decodeJobResult(resp)
	if err != nil {
		return "", err
	}
	return result.StatusCode, nil
}

// CancelJob cancels an in-progress job and returns its resulting status.
func (c *AutomationClient) CancelJob(ctx context.Context, jobID string) (automation.ExecutionStatus, error) {
	if !validation.IsUUIDv4(jobID) {
		return "", fmt.Errorf("%w: %s", ErrInvalidJobID, jobID)
	}
	resp, err := c.session.do(ctx, http.MethodPost, c.baseURL+"/job/abort/"+jobID, nil, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	result, err := decodeJobResult(resp)
	if err != nil {
		return "", err
	}
	return result.StatusCode, nil
}

// StartLibraryJob starts a job from a saved job definition addressed by id
// and/or library path. Either argument may be empty, not both.
func (c *AutomationClient) StartLibraryJob(ctx context.Context, definitionID, libraryPath string) (*JobResult, error) {
	if definitionID != "" && !validation.IsUUIDv4(definitionID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDefinitionID, definitionID)
	}

	q := url.Values{}
	if definitionID != "" {
		q.Set("id", definitionID)
	}
	if libraryPath != "" {
		q.Set("path", libraryPath)
	}

	resp, err := c.session.do(ctx, http.MethodPost, c.baseURL+"/job/start-library", q, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result, err := decodeJobResult(resp)
	if err != nil {
		return nil, err
	}
	if result.StatusCode == automation.StatusFailed && result.Message == definitionNotFoundMessage {
		return nil, fmt.Errorf("%w: id=%q path=%q", ErrDefinitionNotFound, definitionID, libraryPath)
	}
	return result, nil
}

// StartJob starts a job from an XML job definition.
func (c *AutomationClient) StartJob(ctx context.Context, definition *jobxml.JobDefinition) (*JobResult, error) {
	payload, err := definition.Bytes()
	if err != nil {
		return nil, err
	}

	resp, err := c.session.do(ctx, http.MethodPost, c.baseURL+"/job/start-content",
		nil, bytes.NewReader(payload), "application/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrInvalidJobXML
	}
	return decodeJobResult(resp)
}

// WaitForJob polls the job status until it reaches a terminal status
// (Finished, Failed or Canceled) or the timeout elapses.
func (c *AutomationClient) WaitForJob(ctx context.Context, jobID string, pollInterval, timeout time.Duration) (automation.ExecutionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return "", err
		}
		if terminalStatuses[status] {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("job %s did not reach a terminal status in time: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// StartJobAndWait starts a job from an XML definition and polls until it
// reaches a terminal status.
func (c *AutomationClient) StartJobAndWait(ctx context.Context, definition *jobxml.JobDefinition, pollInterval, timeout time.Duration) (automation.ExecutionStatus, error) {
	result, err := c.StartJob(ctx, definition)
	if err != nil {
		return "", err
	}
	return c.WaitForJob(ctx, result.JobID, pollInterval, timeout)
}

// StartLibraryJobAndWait starts a job from a saved definition and polls
// until it reaches a terminal status.
func (c *AutomationClient) StartLibraryJobAndWait(ctx context.Context, definitionID, libraryPath string, pollInterval, timeout time.Duration) (automation.ExecutionStatus, error) {
	result, err := c.StartLibraryJob(ctx, definitionID, libraryPath)
	if err != nil {
		return "", err
	}
	return c.WaitForJob(ctx, result.JobID, pollInterval, timeout)
}

func decodeJobResult(resp *http.Response) (*JobResult, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response: %d - %s", resp.StatusCode, drain(resp))
	}
	var result JobResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
