package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var endpointPaths = map[TestType]string{
	TestBloodDraw: "/schedule/blooddraw",
	TestXRay:      "/schedule/xray",
	TestMRI:       "/schedule/mri",
}

// StatusError is a non-success response from the scheduling API.
type StatusError struct {
	StatusCode int
	Status     string
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scheduling API returned %d %s for %s: %s", e.StatusCode, e.Status, e.Path, e.Body)
}

// Client posts ScheduleRequests to the stub scheduling API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// Schedule books one test. Any non-2xx response is returned as a
// *StatusError carrying status, path, and body.
func (c *Client) Schedule(ctx context.Context, testType TestType, req Request) (*Confirmation, error) {
	path, ok := endpointPaths[testType]
	if !ok {
		return nil, fmt.Errorf("unknown test type %q", testType)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Path:       path,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var conf Confirmation
	if err := json.Unmarshal(respBody, &conf); err != nil {
		return nil, fmt.Errorf("decode confirmation from %s: %w", path, err)
	}

	return &conf, nil
}
