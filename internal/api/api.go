// Package api contains the HTTP handlers exposing the mock Spotfire engines.
// Response and error shapes mirror the emulated server bit for bit so that
// client error handling can be exercised against them.
package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// detailResponse is the plain error body used by most mock endpoints.
type detailResponse struct {
	Detail string `json:"detail"`
}

// apiError is the structured error body used by the library item endpoints.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

// Error codes used in structured library error payloads.
const errorCodeConflict = "conflict"

func renderDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, detailResponse{Detail: detail})
}

func renderAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, apiErrorResponse{Error: apiError{Code: code, Message: message}})
}
