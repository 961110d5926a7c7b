package rendi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/tools/media"
)

func testClient(baseURL string) *Client {
	cfg := config.Load()
	cfg.RendiBaseURL = baseURL
	cfg.RendiAPIKey = "test-key"
	cfg.RendiVCPUCount = 4
	cfg.RendiMaxRunSecs = 300
	return NewClient(&cfg, logger.NewNop())
}

func TestSubmitCommand(t *testing.T) {
	var received media.Command
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/run-ffmpeg-command", r.URL.Path)
		gotKey = r.Header.Get("X-API-KEY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"command_id": "cmd-42"})
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	cmd := &media.Command{
		FFmpegCommand: "-i {{in_broll}} {{out_segment}}",
		InputFiles:    map[string]string{"in_broll": "https://example.com/b.mp4"},
		OutputFiles:   map[string]string{"out_segment": "segment.mp4"},
	}

	id, err := client.SubmitCommand(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "cmd-42", id)
	assert.Equal(t, "test-key", gotKey)

	// configured defaults are filled in before submission
	assert.Equal(t, 4, received.VCPUCount)
	assert.Equal(t, 300, received.MaxRunSeconds)
	assert.Equal(t, "segment.mp4", received.OutputFiles["out_segment"])
}

func TestSubmitCommandRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	_, err := client.SubmitCommand(context.Background(), &media.Command{})
	require.Error(t, err)

	var submitErr *errs.SubmissionError
	require.True(t, errors.As(err, &submitErr))
	assert.Equal(t, http.StatusUnauthorized, submitErr.StatusCode)
	assert.Contains(t, submitErr.Body, "invalid api key")
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/commands/cmd-42", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"command_id":       "cmd-42",
			"status":           "SUCCESS",
			"processing_stage": "done",
			"output_files": map[string]interface{}{
				"out_final": map[string]interface{}{
					"storage_url": "https://storage.rendi.dev/final.mp4",
					"file_id":     "f-1",
					"size_mbytes": 2.5,
				},
			},
		})
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	status, err := client.GetStatus(context.Background(), "cmd-42")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status.Status)
	require.Contains(t, status.OutputFiles, "out_final")
	assert.Equal(t, "https://storage.rendi.dev/final.mp4", status.OutputFiles["out_final"].StorageURL)
	assert.Equal(t, 2.5, status.OutputFiles["out_final"].SizeMBytes)
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	_, err := client.GetStatus(context.Background(), "missing")
	var queryErr *errs.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "missing", queryErr.CommandID)
	assert.Equal(t, http.StatusNotFound, queryErr.StatusCode)
}

func TestDownloadArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// storage URLs are pre-signed: the api key must not leak here
		require.Empty(t, r.Header.Get("X-API-KEY"))
		w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	t.Run("to memory", func(t *testing.T) {
		data, err := client.DownloadArtifact(context.Background(), srv.URL+"/final.mp4", "")
		require.NoError(t, err)
		assert.Equal(t, []byte("video-bytes"), data)
	})

	t.Run("to disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reel.mp4")
		_, err := client.DownloadArtifact(context.Background(), srv.URL+"/final.mp4", path)
		require.NoError(t, err)

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("video-bytes"), written)
	})
}

func TestDownloadArtifactError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	_, err := client.DownloadArtifact(context.Background(), srv.URL+"/expired.mp4", "")
	var downloadErr *errs.DownloadError
	require.True(t, errors.As(err, &downloadErr))
	assert.Equal(t, http.StatusForbidden, downloadErr.StatusCode)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(StatusQueued))
	assert.False(t, IsTerminal(StatusProcessing))
	assert.True(t, IsTerminal(StatusSuccess))
	assert.True(t, IsTerminal(StatusFailed))
	assert.True(t, IsTerminal(StatusTimeout))
}
