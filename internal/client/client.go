// Package client is a small HTTP client for the vault API, used by the
// terminal frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mindvault/internal/domain"
)

// Client talks to a running vault server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:3000".
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SignIn exchanges credentials for a token and stores it on the client.
// The login may be an email address or a username.
func (c *Client) SignIn(ctx context.Context, login, password string) error {
	body := map[string]string{"password": password}
	if strings.Contains(login, "@") {
		body["email"] = login
	} else {
		body["username"] = login
	}
	var resp struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v1/signin", body, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Search runs a server-side semantic search for the query text.
func (c *Client) Search(ctx context.Context, query string) ([]domain.ScoredItem, error) {
	var resp struct {
		Results []domain.ScoredItem `json:"results"`
	}
	path := "/api/v1/search?q=" + url.QueryEscape(query)
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// List returns all of the caller's items, newest first.
func (c *Client) List(ctx context.Context) ([]domain.Item, error) {
	var resp struct {
		Content []domain.Item `json:"content"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/content", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Content, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
