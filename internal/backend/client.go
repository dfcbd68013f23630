// Package backend is a typed HTTP client for the remote AI generation,
// artifact and compiler endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/config"
)

// Client handles communication with the AI backend
type Client struct {
	baseURL     string
	compilerURL string
	cookieName  string
	httpClient  *http.Client

	mu     sync.RWMutex
	cookie string
}

// NewClient creates a new backend client
func NewClient(cfg *config.BackendConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		compilerURL: cfg.CompilerURL,
		cookieName:  cfg.SessionCookieName,
		cookie:      cfg.SessionCookie,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// SetSessionCookie replaces the session cookie sent with every request
func (c *Client) SetSessionCookie(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookie = value
}

// SessionCookie returns the current session cookie value
func (c *Client) SessionCookie() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookie
}

// LoginURL returns the backend page that starts a browser login
func (c *Client) LoginURL() string {
	return c.baseURL + "/login"
}

// LogoutURL returns the backend page that ends the browser session
func (c *Client) LogoutURL() string {
	return c.baseURL + "/logout"
}

// Generate asks the backend to generate a project from an idea
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var result GenerateResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/ai/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Modify asks the backend to apply a follow-up prompt to an artifact
func (c *Client) Modify(ctx context.Context, req ModifyRequest) (*ModifyResponse, error) {
	var result ModifyResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/ai/modify", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetArtifact fetches the full snapshot of an artifact
func (c *Client) GetArtifact(ctx context.Context, artifactID string) (*ArtifactResponse, error) {
	var result ArtifactResponse
	endpoint := c.baseURL + "/api/ai/artifacts/" + url.PathEscape(artifactID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddFile creates a file inside a remote artifact
func (c *Client) AddFile(ctx context.Context, req AddFileRequest) (*AddFileResponse, error) {
	var result AddFileResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/ai/add-file", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Compile sends sources to the remote Solidity compiler
func (c *Client) Compile(ctx context.Context, req CompileRequest) (*CompileResponse, error) {
	var result CompileResponse
	if err := c.do(ctx, http.MethodPost, c.compilerURL, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser returns the session's user as the backend sees it
func (c *Client) CurrentUser(ctx context.Context) (*UserResponse, error) {
	var result UserResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/auth/api/user", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if cookie := c.SessionCookie(); cookie != "" {
		httpReq.AddCookie(&http.Cookie{Name: c.cookieName, Value: cookie})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperr.Wrap(apperr.CodeNetworkOrServer, err, "request to %s failed", httpReq.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return apperr.New(apperr.CodeNotAuthenticated, "Not authenticated")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.New(apperr.CodeNetworkOrServer, "%s", errorMessage(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.CodeMalformedResponse, err, "failed to decode response from %s", httpReq.URL.Path)
	}

	return nil
}

// errorMessage extracts the backend's {"error": "..."} message, falling
// back to the HTTP status.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	if payload.Error == "" {
		return "An unknown API error occurred"
	}
	return payload.Error
}
