package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
)

// DefaultAnalysisTimeout bounds a single analysis call.
const DefaultAnalysisTimeout = 300 * time.Second

var (
	// ErrRequestFailed wraps transport failures: timeouts, refused
	// connections, DNS errors.
	ErrRequestFailed = errors.New("API request failed")
	// ErrInvalidResponse means a 2xx body was empty, null or could not be
	// decoded.
	ErrInvalidResponse = errors.New("could not process analysis response")
)

// APIError is a non-2xx answer from the analysis API.
type APIError struct {
	StatusCode int
	// Body is indented JSON when the body parsed as JSON, else raw text.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis API returned status %d", e.StatusCode)
}

// AnalysisClient posts JSON payloads to one analysis API base URL.
type AnalysisClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAnalysisClient(baseURL string, timeout time.Duration) *AnalysisClient {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	return &AnalysisClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the endpoint for route.
func (c *AnalysisClient) URL(route string) string {
	return c.baseURL + "/" + strings.TrimLeft(route, "/")
}

// Post sends body to route once and decodes a 2xx answer into out. It never
// retries.
func (c *AnalysisClient) Post(ctx context.Context, route string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.URL(route)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(ctx, "analysis request failed", "url", url, "error", err)
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrRequestFailed, err)
	}

	logger.Info(ctx, "analysis response received",
		"url", url,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: formatErrorBody(respBody)}
	}

	if out == nil {
		return nil
	}
	if trimmed := bytes.TrimSpace(respBody); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: empty response body", ErrInvalidResponse)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func formatErrorBody(body []byte) string {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		if pretty, err := json.MarshalIndent(parsed, "", "  "); err == nil {
			return string(pretty)
		}
	}
	return string(body)
}
