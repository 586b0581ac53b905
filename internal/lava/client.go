package lava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ClientConfig holds the LAVA scheduler API connection settings.
type ClientConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client submits job definitions through the LAVA REST API.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a LAVA API client.
func NewClient(config *ClientConfig, logger *slog.Logger) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("lava API URL is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type submitRequest struct {
	Definition string `json:"definition"`
}

type submitResponse struct {
	JobIDs []json.Number `json:"job_ids"`
}

// Submit posts a job definition to the scheduler and returns the job
// identifier it assigned. Scheduler errors (auth, validation) are
// reported with the response body and not retried.
func (c *Client) Submit(ctx context.Context, definition string) (string, error) {
	body, err := json.Marshal(submitRequest{Definition: definition})
	if err != nil {
		return "", fmt.Errorf("failed to encode submit request: %w", err)
	}

	url := strings.TrimSuffix(c.config.URL, "/") + "/api/v0.2/jobs/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit job: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read submit response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("job submission rejected: %s: %s",
			resp.Status, strings.TrimSpace(string(respBody)))
	}

	var result submitResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if len(result.JobIDs) == 0 {
		return "", fmt.Errorf("scheduler returned no job id")
	}

	jobID := result.JobIDs[0].String()
	c.logger.Info("Job submitted to scheduler",
		slog.String("lava_job_id", jobID),
	)

	return jobID, nil
}
