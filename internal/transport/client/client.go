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

	"github.com/joshdurbin/minilink/internal/domain"
)

// APIError is a non-success reply from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client represents an HTTP client for the minilink API
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

// NewClient creates a new client; token may be empty for anonymous access
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		token:     token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateLink creates a short link
func (c *Client) CreateLink(ctx context.Context, req domain.CreateLinkRequest) (*domain.Link, error) {
	var link domain.Link
	if err := c.do(ctx, http.MethodPost, "/links", req, http.StatusCreated, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLink retrieves a link
func (c *Client) GetLink(ctx context.Context, shortCode string) (*domain.Link, error) {
	var link domain.Link
	if err := c.do(ctx, http.MethodGet, "/links/"+url.PathEscape(shortCode), nil, http.StatusOK, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinks retrieves the caller's links; sort may be empty, "created" or "clicks"
func (c *Client) ListLinks(ctx context.Context, sort string) ([]*domain.Link, error) {
	path := "/links"
	if sort != "" {
		path += "?sort=" + url.QueryEscape(sort)
	}

	var links []*domain.Link
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// UpdateLink applies a partial update to a link
func (c *Client) UpdateLink(ctx context.Context, shortCode string, req domain.UpdateLinkRequest) (*domain.Link, error) {
	var link domain.Link
	if err := c.do(ctx, http.MethodPatch, "/links/"+url.PathEscape(shortCode), req, http.StatusOK, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteLink deletes a link
func (c *Client) DeleteLink(ctx context.Context, shortCode string) error {
	return c.do(ctx, http.MethodDelete, "/links/"+url.PathEscape(shortCode), nil, http.StatusNoContent, nil)
}

// Stats retrieves the analytics of a link
func (c *Client) Stats(ctx context.Context, shortCode string) (*domain.Stats, error) {
	var stats domain.Stats
	if err := c.do(ctx, http.MethodGet, "/links/"+url.PathEscape(shortCode)+"/stats", nil, http.StatusOK, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Signup registers an account and returns its session
func (c *Client) Signup(ctx context.Context, creds domain.CredentialsRequest) (*domain.SessionResponse, error) {
	var session domain.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", creds, http.StatusCreated, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Login starts a session
func (c *Client) Login(ctx context.Context, creds domain.CredentialsRequest) (*domain.SessionResponse, error) {
	var session domain.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, http.StatusOK, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, wantStatus int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
