// Package naming is the HTTP client for the external intelligent-naming
// collaborator. The collaborator inspects file content and proposes a
// human-readable display name plus a page count.
package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

// DefaultTimeout bounds a naming request; the upload path treats a slow
// collaborator the same as an unavailable one.
const DefaultTimeout = 15 * time.Second

// Client implements services.NamingService against the naming HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a naming client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithTimeout creates a naming client with a custom timeout
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type suggestResponse struct {
	DisplayName string `json:"display_name"`
	PageCount   *int   `json:"page_count,omitempty"`
}

// SuggestName posts the file to the collaborator and returns its suggestion.
func (c *Client) SuggestName(ctx context.Context, fileBytes []byte, originalName, ownerToken string) (*services.NameSuggestion, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", originalName)
	if err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/suggest-name", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if ownerToken != "" {
		req.Header.Set("Authorization", "Bearer "+ownerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naming request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naming service error (status %d): %s", resp.StatusCode, string(body))
	}

	var suggestion suggestResponse
	if err := json.Unmarshal(body, &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if suggestion.DisplayName == "" {
		return nil, fmt.Errorf("naming service returned an empty name")
	}

	return &services.NameSuggestion{
		DisplayName: suggestion.DisplayName,
		PageCount:   suggestion.PageCount,
	}, nil
}
