package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

func TestClassify(t *testing.T) {
	cfg := config.Load()
	h := &handlerObj{cfg: &cfg, log: logger.NewNop()}

	tests := []struct {
		name      string
		err       error
		wantStage string
		wantCode  string
	}{
		{
			"missing configuration",
			&errs.ConfigurationError{Variable: "RENDI_API_KEY"},
			cfg.Stages.Generate, InvalidRequest,
		},
		{
			"text generation exhausted",
			&errs.TextGenerationError{Attempts: []error{errors.New("bad json")}},
			cfg.Stages.Generate, InternalServerError,
		},
		{
			"submission rejected",
			&errs.SubmissionError{StatusCode: 401},
			cfg.Stages.Process, InternalServerError,
		},
		{
			"status query failed",
			&errs.QueryError{CommandID: "c", StatusCode: 500},
			cfg.Stages.Process, InternalServerError,
		},
		{
			"remote job failed",
			&errs.JobFailedError{CommandID: "c", Status: "FAILED"},
			cfg.Stages.Process, InternalServerError,
		},
		{
			"polling ceiling",
			&errs.PollTimeoutError{CommandID: "c", Attempts: 120},
			cfg.Stages.Process, InternalServerError,
		},
		{
			"upload failed",
			&errs.UploadError{Path: "/tmp/a.mp4", Err: errors.New("reset")},
			cfg.Stages.Process, InternalServerError,
		},
		{
			"artifact download failed",
			&errs.DownloadError{URL: "https://x/final.mp4", StatusCode: 403},
			cfg.Stages.Deliver, InternalServerError,
		},
		{
			"unknown error lands in process",
			errors.New("something else"),
			cfg.Stages.Process, InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, code := h.classify(tt.err)
			assert.Equal(t, tt.wantStage, stage)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
