package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/scrankin/spotfire-community/internal/validation"
	"github.com/scrankin/spotfire-community/pkg/automation"
)

// invalidMarker is a literal token that makes an otherwise well-formed job
// definition semantically invalid, so clients can test the failure path
// deterministically.
const invalidMarker = "return-invalid"

// DefinitionNotFoundMessage is the message of the structured failure
// response returned when a saved job definition cannot be resolved.
const DefinitionNotFoundMessage = "Job file not found or no access."

// DefinitionNotFoundPolicy selects how a missed job definition lookup is
// reported. The emulated service was observed doing both, so the choice
// lives here at the boundary rather than inside the resolver.
type DefinitionNotFoundPolicy int

const (
	// DefinitionNotFoundFailedResponse returns 200 with a Failed status,
	// an all-zero job id and a fixed message. This is the default.
	DefinitionNotFoundFailedResponse DefinitionNotFoundPolicy = iota

	// DefinitionNotFoundError returns a 404 error instead.
	DefinitionNotFoundError
)

// ExecutionStatusResponse is the body returned by status and start endpoints.
type ExecutionStatusResponse struct {
	StatusCode automation.ExecutionStatus `json:"statusCode"`
	Message    string                     `json:"message"`
	JobID      string                     `json:"jobId"`
}

// AutomationHandler handles HTTP requests for the mock Automation Services API.
type AutomationHandler struct {
	registry       *automation.Registry
	notFoundPolicy DefinitionNotFoundPolicy
}

// AutomationOption configures an AutomationHandler.
type AutomationOption func(*AutomationHandler)

// WithDefinitionNotFoundPolicy overrides the definition-not-found policy.
func WithDefinitionNotFoundPolicy(policy DefinitionNotFoundPolicy) AutomationOption {
	return func(h *AutomationHandler) {
		h.notFoundPolicy = policy
	}
}

// NewAutomationHandler creates a new automation handler.
func NewAutomationHandler(registry *automation.Registry, opts ...AutomationOption) *AutomationHandler {
	h := &AutomationHandler{
		registry:       registry,
		notFoundPolicy: DefinitionNotFoundFailedResponse,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the routes for the mock Automation Services API.
func (h *AutomationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/job/status/{jobID}", h.JobStatus)
	r.Post("/job/abort/{jobID}", h.AbortJob)
	r.Post("/job/start-content", h.StartContentJob)
	r.Post("/job/start-library", h.StartLibraryJob)
	r.Post("/job/_set_job_status", h.SetJobStatus)

	return r
}

// JobStatus returns the execution status of a job, applying the lazy
// auto-completion rule on read.
func (h *AutomationHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.parseJobID(w, r, chi.URLParam(r, "jobID"))
	if !ok {
		return
	}
	job, err := h.registry.JobStatus(r.Context(), jobID)
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Job not Found")
		return
	}
	render.JSON(w, r, statusResponse(job))
}

// AbortJob cancels a job by id and returns the new status.
func (h *AutomationHandler) AbortJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.parseJobID(w, r, chi.URLParam(r, "jobID"))
	if !ok {
		return
	}
	job, err := h.registry.CancelJob(r.Context(), jobID)
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Job not Found")
		return
	}
	render.JSON(w, r, statusResponse(job))
}

// StartContentJob starts a job from an XML job definition posted as the
// request body. The content type is enforced before the body is read.
func (h *AutomationHandler) StartContentJob(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "application/xml" {
		renderDetail(w, r, http.StatusUnsupportedMediaType,
			fmt.Sprintf("Content-Type should be application/xml, received %s", ct))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		renderDetail(w, r, http.StatusBadRequest, "Invalid job definition XML")
		return
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil || doc.Root() == nil {
		renderDetail(w, r, http.StatusBadRequest, "Invalid job definition XML")
		return
	}
	if strings.Contains(string(body), invalidMarker) {
		renderDetail(w, r, http.StatusBadRequest, "Invalid job definition XML")
		return
	}

	job := h.registry.StartJob(r.Context())
	render.JSON(w, r, statusResponse(job))
}

// StartLibraryJob starts a job from a saved job definition addressed by id
// and/or library path. When both are supplied the id wins and the path is
// ignored, matching the observed precedence of the emulated service.
func (h *AutomationHandler) StartLibraryJob(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	definitionID := q.Get("id")
	libraryPath := q.Get("path")

	def, err := h.registry.ResolveDefinition(r.Context(), definitionID, libraryPath)
	if errors.Is(err, automation.ErrMissingArguments) {
		renderDetail(w, r, http.StatusBadRequest, "Invalid job definition")
		return
	}
	if err != nil {
		slog.Error("Failed to resolve job definition", "id", definitionID, "path", libraryPath, "error", err)
		renderDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if def == nil {
		if h.notFoundPolicy == DefinitionNotFoundError {
			renderDetail(w, r, http.StatusNotFound, "Job definition not found")
			return
		}
		render.JSON(w, r, ExecutionStatusResponse{
			StatusCode: automation.StatusFailed,
			Message:    DefinitionNotFoundMessage,
			JobID:      uuid.Nil.String(),
		})
		return
	}

	job := h.registry.StartJob(r.Context())
	render.JSON(w, r, statusResponse(job))
}

// SetJobStatus is the test hook that mutates a job's status directly.
func (h *AutomationHandler) SetJobStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobID, err := uuid.Parse(q.Get("job_id"))
	if err != nil {
		renderDetail(w, r, http.StatusNotFound, "Job not Found")
		return
	}

	err = h.registry.SetJobStatus(r.Context(), jobID, q.Get("status"))
	switch {
	case errors.Is(err, automation.ErrJobNotFound):
		renderDetail(w, r, http.StatusNotFound, "Job not Found")
		return
	case errors.Is(err, automation.ErrInvalidStatus):
		renderDetail(w, r, http.StatusBadRequest, "Invalid job status")
		return
	case err != nil:
		renderDetail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *AutomationHandler) parseJobID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	if !validation.IsUUIDv4(raw) {
		renderDetail(w, r, http.StatusBadRequest,
			fmt.Sprintf("Invalid job ID: %s. Should be a UUID", raw))
		return uuid.Nil, false
	}
	return uuid.MustParse(raw), true
}

func statusResponse(job *automation.Job) ExecutionStatusResponse {
	return ExecutionStatusResponse{
		StatusCode: job.Status,
		Message:    "placeholder",
		JobID:      job.ID.String(),
	}
}
