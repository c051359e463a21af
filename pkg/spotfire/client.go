// Package spotfire provides REST clients for the Spotfire Library and
// Automation Services APIs. Both clients authenticate with OAuth2 client
// credentials and speak to the same endpoints the mock server exposes.
package spotfire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Scope is an OAuth2 scope requested during authentication.
type Scope string

// Scope constants for the Spotfire REST APIs.
const (
	ScopeLibraryRead       Scope = "api.library.read"
	ScopeLibraryWrite      Scope = "api.library.write"
	ScopeAutomationExecute Scope = "api.rest.automation-services-job.execute"
)

// DefaultTimeout applies to every request unless overridden.
const DefaultTimeout = 30 * time.Second

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption configures a client.
type ClientOption func(*clientOptions)

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// point the client at an httptest server transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

func buildOptions(opts []ClientOption) clientOptions {
	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}
	if o.httpClient.Timeout == 0 {
		// Copy before applying the timeout so an injected client is
		// never mutated.
		hc := *o.httpClient
		hc.Timeout = o.timeout
		o.httpClient = &hc
	}
	return o
}

// tokenResponse is the body of the oauth2/token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// authenticate performs the client-credentials handshake against
// {base}/oauth2/token and returns the bearer token to attach to requests.
func authenticate(ctx context.Context, hc *http.Client, base string, scopes []Scope, clientID, clientSecret string) (string, error) {
	scopeValues := make([]string, 0, len(scopes))
	for _, s := range scopes {
		scopeValues = append(scopeValues, string(s))
	}
	q := url.Values{}
	q.Set("grant_type", "client_credentials")
	q.Set("scope", strings.Join(scopeValues, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/oauth2/token?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(clientID, clientSecret)

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to connect to Spotfire server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to authenticate with Spotfire server: %d - %s", resp.StatusCode, body)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("no access token found in response")
	}
	return token.AccessToken, nil
}

// session issues authenticated requests against a base URL.
type session struct {
	hc    *http.Client
	token string
}

func (s *session) do(ctx context.Context, method, rawURL string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return s.hc.Do(req)
}

func (s *session) doJSON(ctx context.Context, method, rawURL string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, method, rawURL, nil, strings.NewReader(string(body)), "application/json")
}

// drain reads the remaining body so the error message can include it.
func drain(resp *http.Response) string {
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}
