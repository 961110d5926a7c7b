package rendi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/tools/media"
)

const apiKeyHeader = "X-API-KEY"

// Client is the low level HTTP binding to the cloud ffmpeg service.
// Pure request/response mapping; retry policy lives in the Poller.
type Client struct {
	cfg  *config.Config
	log  logger.Logger
	http *http.Client
}

// NewClient - returns the client for the cloud ffmpeg service.
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	return &Client{
		cfg:  cfg,
		log:  log,
		http: &http.Client{},
	}
}

// SubmitCommand - serializes the command and submits it for execution,
// returning the server issued command id.
func (c *Client) SubmitCommand(ctx context.Context, cmd *media.Command) (string, error) {
	c.log.Info(
		"Submitting ffmpeg command",
		logger.Int("inputs", len(cmd.InputFiles)),
		logger.Int("outputs", len(cmd.OutputFiles)),
	)

	if cmd.VCPUCount == 0 {
		cmd.VCPUCount = c.cfg.RendiVCPUCount
	}
	if cmd.MaxRunSeconds == 0 {
		cmd.MaxRunSeconds = c.cfg.RendiMaxRunSecs
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RendiBaseURL+"/v1/run-ffmpeg-command", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.cfg.RendiAPIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		c.log.Error("Command submission rejected", logger.Int("status", resp.StatusCode))
		return "", &errs.SubmissionError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", fmt.Errorf("error while decoding submit response: %w", err)
	}

	c.log.Info("Command is submitted", logger.String("command_id", submitted.CommandId))
	return submitted.CommandId, nil
}

// GetStatus - single point-in-time status read for the given command.
func (c *Client) GetStatus(ctx context.Context, commandId string) (*CommandStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.RendiBaseURL+"/v1/commands/"+commandId, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, c.cfg.RendiAPIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &errs.QueryError{CommandID: commandId, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var status CommandStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("error while decoding status response: %w", err)
	}

	return &status, nil
}

// DownloadArtifact - fetches a storage URL directly. The storage host
// serves pre-signed URLs, so no API key is attached. When localPath is
// non-empty the bytes are also persisted to disk.
func (c *Client) DownloadArtifact(ctx context.Context, url, localPath string) ([]byte, error) {
	c.log.Info("Downloading artifact", logger.String("url", url), logger.String("path", localPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errs.DownloadError{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errs.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.DownloadError{URL: url, Reason: err.Error()}
	}

	if localPath != "" {
		if err := os.WriteFile(localPath, data, 0644); err != nil {
			return nil, &errs.DownloadError{URL: url, Reason: err.Error()}
		}
	}

	return data, nil
}
