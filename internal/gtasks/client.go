// Package gtasks is a thin client for the Google Tasks REST API
// (tasks.googleapis.com/tasks/v1). It carries no retry logic beyond a single
// token refresh and retry when a request comes back 401.
package gtasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://tasks.googleapis.com/tasks/v1"

// TokenSource supplies bearer tokens. Implemented by oauth.Google.
type TokenSource interface {
	AccessToken() (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Tasklist is one Google Tasks task list.
type Tasklist struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Task is one task within a task list.
type Task struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status,omitempty"`
}

// Client calls the Google Tasks API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	tokens     TokenSource
}

// NewClient creates a tasks client using the given token source.
func NewClient(tokens TokenSource) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// Ready returns nil when a token is available, or an error saying why not.
func (c *Client) Ready() error {
	_, err := c.tokens.AccessToken()
	return err
}

// ListTasklists returns all task lists of the authenticated user.
func (c *Client) ListTasklists(ctx context.Context) ([]Tasklist, error) {
	var out struct {
		Items []Tasklist `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/@me/lists", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetTasks returns all tasks in a task list.
func (c *Client) GetTasks(ctx context.Context, tasklistID string) ([]Task, error) {
	var out struct {
		Items []Task `json:"items"`
	}
	endpoint := fmt.Sprintf("/lists/%s/tasks", tasklistID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// AddTask creates a new open task and returns its id.
func (c *Client) AddTask(ctx context.Context, tasklistID, title, notes string) (string, error) {
	body := Task{Title: title, Notes: notes, Status: "needsAction"}
	var created Task
	endpoint := fmt.Sprintf("/lists/%s/tasks", tasklistID)
	if err := c.do(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateTask rewrites the title and notes of an existing task. The API
// expects a full task resource on PUT, so the current one is fetched and
// merged first.
func (c *Client) UpdateTask(ctx context.Context, tasklistID, taskID, title, notes string) error {
	endpoint := fmt.Sprintf("/lists/%s/tasks/%s", tasklistID, taskID)

	var existing map[string]any
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &existing); err != nil {
		return err
	}
	existing["title"] = title
	existing["notes"] = notes

	return c.do(ctx, http.MethodPut, endpoint, existing, nil)
}

// do performs one authenticated request. A 401 response triggers one token
// refresh followed by one retry.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	token, err := c.tokens.AccessToken()
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, endpoint, payload, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		log.Println("Access token expired, attempting to refresh")
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("access token expired and could not be refreshed: %w", err)
		}
		resp, err = c.send(ctx, method, endpoint, payload, token)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tasks api: %s %s: %s: %s", method, endpoint, resp.Status, bytes.TrimSpace(detail))
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return c.HTTPClient.Do(req)
}
