// Package client is a typed Go client for the estimator API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/api/httpclient"
	"github.com/duit-aim/vcz-estimator/pkg/common/models"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(timeout),
	}
}

// WithToken attaches a bearer token to every request.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

func (c *Client) Estimate(ctx context.Context, req models.EstimationRequest) (*models.EstimationResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp models.EstimationResponse
	var permanent error
	err = httpclient.Retry(ctx, 3, 200*time.Millisecond, func() error {
		callErr := c.post(ctx, "/api/v1/estimations", payload, &resp)
		if callErr != nil && !httpclient.IsRetriable(callErr) {
			// A rejected request will not succeed on retry.
			permanent = callErr
			return nil
		}
		return callErr
	})
	if err == nil {
		err = permanent
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListModels(ctx context.Context) ([]models.ModelDescriptor, error) {
	var resp struct {
		Models []models.ModelDescriptor `json:"models"`
	}
	if err := c.get(ctx, "/api/v1/models", &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("estimator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}
