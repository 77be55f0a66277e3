// Package client talks to the project API over HTTP and keeps a short-lived
// cache of the projects it has seen.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
)

const DefaultTimeout = 15 * time.Second

// ErrMissingID is returned before any network call when an id is required
// but empty.
var ErrMissingID = errors.New("project id is required")

// APIError is a failed call: a non-2xx status or a response that is not a
// well-formed envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("project api returned status %d: %s", e.StatusCode, e.Message)
}

type CreateFields struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateFields is a partial update; nil fields are left unchanged.
type UpdateFields struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Client handles communication with the project API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	cookieName string
	cookie     string
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default client and its timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithBearerToken authenticates every call with an Authorization header.
func WithBearerToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithSessionCookie authenticates every call with a session cookie.
func WithSessionCookie(name, value string) ClientOption {
	return func(c *Client) {
		c.cookieName = name
		c.cookie = value
	}
}

// New creates a new project API client
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCurrent fetches the caller's most recently created project.
func (c *Client) GetCurrent(ctx context.Context) (*domain.Project, error) {
	return c.project(ctx, http.MethodGet, "/api/projects", nil, http.StatusOK)
}

func (c *Client) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return c.project(ctx, http.MethodGet, projectPath(id), nil, http.StatusOK)
}

func (c *Client) Create(ctx context.Context, fields CreateFields) (*domain.Project, error) {
	return c.project(ctx, http.MethodPost, "/api/projects", fields, http.StatusCreated)
}

func (c *Client) Update(ctx context.Context, id string, fields UpdateFields) (*domain.Project, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return c.project(ctx, http.MethodPatch, projectPath(id), fields, http.StatusOK)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	status, body, err := c.do(ctx, http.MethodDelete, projectPath(id), nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return errorFromBody(status, body)
	}
	return nil
}

func (c *Client) project(ctx context.Context, method, path string, in any, want int) (*domain.Project, error) {
	status, body, err := c.do(ctx, method, path, in)
	if err != nil {
		return nil, err
	}
	if status != want {
		return nil, errorFromBody(status, body)
	}

	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &APIError{StatusCode: status, Message: "malformed response"}
	}
	if !env.Success || env.Project == nil {
		msg := env.Error
		if msg == "" {
			msg = "malformed response"
		}
		return nil, &APIError{StatusCode: status, Message: msg}
	}
	return env.Project, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) (int, []byte, error) {
	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookieName != "" && c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.cookie})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call project api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func projectPath(id string) string {
	return "/api/projects/" + url.PathEscape(id)
}

// errorFromBody prefers the envelope's error message over the raw body.
func errorFromBody(status int, body []byte) *APIError {
	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		return &APIError{StatusCode: status, Message: env.Error}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
