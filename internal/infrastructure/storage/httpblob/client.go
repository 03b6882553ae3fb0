package httpblob

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

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

var ErrMissingEndpoint = errors.New("blob endpoint is not configured")

// Client talks to a managed object store over HTTP.
//
//	PUT  {endpoint}/{key}  body = file, response {"url": "..."}
//	POST {endpoint}/delete body = {"urls": ["..."]}
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type putResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type deleteRequest struct {
	URLs []string `json:"urls"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func New(endpoint, token string, logger *zap.Logger) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

func (c *Client) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint+"/"+strings.TrimPrefix(key, "/"), body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("x-content-type", contentType)
	req.Header.Set("x-add-random-suffix", "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.statusError("upload", resp)
	}

	var out putResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("upload response carried no url")
	}

	c.logger.Debug("blob uploaded",
		zap.String("key", key),
		zap.String("url", out.URL),
	)

	return out.URL, nil
}

func (c *Client) Delete(ctx context.Context, url string) error {
	payload, err := json.Marshal(deleteRequest{URLs: []string{url}})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/delete", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrBlobNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError("delete", resp)
	}

	c.logger.Debug("blob deleted", zap.String("url", url))
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) statusError(op string, resp *http.Response) error {
	var body errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &body) == nil && body.Error.Message != "" {
		return fmt.Errorf("blob %s failed: %d %s", op, resp.StatusCode, body.Error.Message)
	}
	return fmt.Errorf("blob %s failed: %d", op, resp.StatusCode)
}
