package rendi

import (
	"context"
	"time"

	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

// StatusGetter is what the poller needs from the client.
type StatusGetter interface {
	GetStatus(ctx context.Context, commandId string) (*CommandStatus, error)
}

// Poller drives a submitted command to a terminal state with a fixed
// cadence and a bounded attempt count. The remote transcode duration is
// unpredictable, so the cadence bounds client resource usage without
// busy-waiting.
type Poller struct {
	client      StatusGetter
	log         logger.Logger
	interval    time.Duration
	maxAttempts int
}

// NewPoller - returns the poller with the given cadence and ceiling.
func NewPoller(client StatusGetter, log logger.Logger, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 120
	}

	return &Poller{
		client:      client,
		log:         log,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// PollUntilTerminal - queries the command status every interval until it
// reaches a terminal state or the attempt ceiling is hit. A server
// reported FAILED/TIMEOUT returns JobFailedError with the server message
// verbatim; exhausting the ceiling returns PollTimeoutError, a client
// side give-up that leaves the command running server side.
func (p *Poller) PollUntilTerminal(ctx context.Context, commandId string) (*CommandStatus, error) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		status, err := p.client.GetStatus(ctx, commandId)
		if err != nil {
			return nil, err
		}

		p.log.Debug(
			"Command status",
			logger.String("command_id", commandId),
			logger.String("status", status.Status),
			logger.String("stage", status.ProcessingStage),
			logger.Int("attempt", attempt),
		)

		switch status.Status {
		case StatusSuccess:
			p.log.Info(
				"Command completed",
				logger.String("command_id", commandId),
				logger.Float64("processing_seconds", status.ProcessingSeconds),
			)
			return status, nil
		case StatusFailed, StatusTimeout:
			p.log.Error(
				"Command reported terminal failure",
				logger.String("command_id", commandId),
				logger.String("status", status.Status),
				logger.String("error_message", status.ErrorMessage),
			)
			return nil, &errs.JobFailedError{
				CommandID: commandId,
				Status:    status.Status,
				Message:   status.ErrorMessage,
				Logs:      status.Logs,
			}
		}

		timer.Reset(p.interval)
	}

	p.log.Error("Polling ceiling reached", logger.String("command_id", commandId), logger.Int("attempts", p.maxAttempts))
	return nil, &errs.PollTimeoutError{CommandID: commandId, Attempts: p.maxAttempts}
}
