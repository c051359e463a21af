package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// Basic-auth header values that trigger canned failure responses. Clients
// use these to exercise their own error handling, so the values and the
// resulting status codes must not change.
const (
	authTrigger500 = "Basic cmV0dXJuLTUwMDpyZXR1cm4tNTAw"
	authTrigger202 = "Basic cmV0dXJuLTIwMjpyZXR1cm4tMjAy"
)

// TokenResponse is the body of a successful token request.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthHandler serves the mock OAuth2 token endpoint.
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Token issues the fixed mock bearer token, or one of the canned trigger
// responses when the matching Basic authorization header is presented.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	switch r.Header.Get("Authorization") {
	case authTrigger500:
		renderDetail(w, r, http.StatusInternalServerError,
			"This is a test for triggering an internal server error.")
		return
	case authTrigger202:
		renderDetail(w, r, http.StatusAccepted,
			"This is a test for triggering a successful response.")
		return
	}

	render.JSON(w, r, TokenResponse{
		AccessToken: "mock-token",
		TokenType:   "bearer",
	})
}
