// Package remote fetches the seed task list from the todos endpoint.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/acrane/todo/internal/models"
)

// DefaultEndpoint is the public todos endpoint the app seeds from.
const DefaultEndpoint = "https://dummyjson.com/todos"

// Client fetches tasks over HTTP. It performs a single unauthenticated GET;
// there is no retry or backoff, a failed fetch is reported to the caller.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the given endpoint. An empty endpoint selects
// DefaultEndpoint; a nil httpClient selects a client with a 30s timeout.
func New(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// GetTodos fetches and decodes the remote task list.
func (c *Client) GetTodos(ctx context.Context) ([]models.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build todos request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch todos: unexpected status %s", resp.Status)
	}

	var body models.TodosResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode todos response: %w", err)
	}
	return body.Todos, nil
}
