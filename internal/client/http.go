package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gatherhq/gather/internal/model"
)

// HTTPClient implements EventsClient using the gather HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	caller     string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request. caller is the identity sent with every
// request; the server trusts it as given.
func NewHTTPClient(baseURL, token, caller string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		caller:     caller,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func eventPath(id uint64) string {
	return "/v1/events/" + strconv.FormatUint(id, 10)
}

func (c *HTTPClient) CreateEvent(ctx context.Context, payload model.EventPayload) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodPost, "/v1/events", payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) GetEvent(ctx context.Context, id uint64) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodGet, eventPath(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, id uint64, payload model.EventPayload) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodPatch, eventPath(id), payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) AttendEvent(ctx context.Context, id uint64) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodPost, eventPath(id)+"/attend", nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id uint64) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodDelete, eventPath(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.caller != "" {
		req.Header.Set("X-Gather-Caller", c.caller)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
