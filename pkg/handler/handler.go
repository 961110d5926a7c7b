package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/models"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/pkg/rabbitmq"
)

// Job is the structure which added to the queue
type Job struct {
	data amqp.Delivery
}

// ReelGeneratorI - the pipeline operations the handler drives.
type ReelGeneratorI interface {
	GenerateCodingChallenge(ctx context.Context, duration int) (*models.ReelResult, error)
	GenerateReadCaption(ctx context.Context, duration int) (*models.ReelResult, error)
}

// Options ...
type Options struct {
	Config    *config.Config
	Log       logger.Logger
	Generator ReelGeneratorI
	RabbitMQ  *rabbitmq.RabbitMQ
}

// MainI - interface containing main functions for handler
type MainI interface {
	ListenNotifications(ctx context.Context) error
}

type handlerObj struct {
	cfg       *config.Config
	log       logger.Logger
	generator ReelGeneratorI
	rabbitMQ  *rabbitmq.RabbitMQ
	reelQueue chan Job
}

// NewHandler - returns the handler object
func NewHandler(args Options) MainI {
	return &handlerObj{
		cfg:       args.Config,
		log:       args.Log,
		generator: args.Generator,
		rabbitMQ:  args.RabbitMQ,
		reelQueue: make(chan Job, args.Config.ReelWorkers),
	}
}

func (h *handlerObj) ListenNotifications(ctx context.Context) error {
	for i := 0; i < h.cfg.ReelWorkers; i++ {
		go h.ReelWorker(ctx, i)
	}

	h.log.Info("Started listening for notifications")

	for {
		msgs, err := h.rabbitMQ.Channel.Consume(
			h.rabbitMQ.Queues[h.cfg.ListenQueue].Name,
			"",
			false,
			false,
			false,
			false,
			nil,
		)

		if err != nil {
			h.log.Error("Error while consuming messages", logger.Error(err))
			err = h.rabbitMQ.Reconnect()
			if err != nil {
				panic("couldn't reconnect to rabbitmq")
			} else {
				time.Sleep(time.Second * 5)
				continue
			}
		}

		for data := range msgs {
			h.AddReelQueue(Job{data: data})
			data.Ack(false)
		}
		time.Sleep(time.Second * 5)
	}
}

func (h *handlerObj) AddReelQueue(job Job) {
	h.reelQueue <- job
}

func (h *handlerObj) ReelWorker(ctx context.Context, id int) {
	workerId := "worker[" + strconv.Itoa(id) + "] REEL"
	h.log.Info(workerId, logger.String("action", "[STARTING]"))

	for job := range h.reelQueue {
		msg := &models.ReelRequest{}
		err := json.Unmarshal(job.data.Body, &msg)
		if err != nil {
			h.log.Error("[-] UNMARSHAL", logger.Error(err))
			continue
		}

		h.log.Info("==================== Message is received ====================================")
		h.log.Info(workerId, logger.String("action", "[GET]"), logger.String("message[id]", msg.Id))

		h.Run(ctx, msg)
	}
}

// Run drives one reel request end to end and publishes a stage update
// for every transition: pending at start, then success or fail.
func (h *handlerObj) Run(ctx context.Context, req *models.ReelRequest) {
	if req.Id == "" {
		req.Id = uuid.NewString()
		h.log.Info("Request arrived without an id, assigned one", logger.String("id", req.Id))
	}

	update := &models.UpdateReelStage{
		Id:        req.Id,
		Kind:      req.Kind,
		Stage:     h.cfg.Stages.Generate,
		Status:    h.cfg.Status.Pending,
		ErrorCode: Success,
	}

	err := h.rabbitMQ.PublishReelStatus(update)
	if err != nil {
		h.log.Error("Error while publishing to rabbit mq.", logger.Error(err))
	}

	var result *models.ReelResult

	switch req.Kind {
	case models.KindCodingChallenge:
		result, err = h.generator.GenerateCodingChallenge(ctx, req.Duration)
	case models.KindReadCaption:
		result, err = h.generator.GenerateReadCaption(ctx, req.Duration)
	default:
		update.Status = h.cfg.Status.Fail
		update.ErrorCode = InvalidRequest
		update.FailDescription = fmt.Sprintf("unknown reel kind %q", req.Kind)
		err = h.rabbitMQ.PublishReelStatus(update)
		if err != nil {
			h.log.Error("Error while publishing to rabbit mq.", logger.Error(err))
		}
		h.log.Error("[-] REEL", logger.String("kind", req.Kind))
		return
	}

	if err != nil {
		update.Stage, update.ErrorCode = h.classify(err)
		update.Status = h.cfg.Status.Fail
		update.FailDescription = err.Error()
		pubErr := h.rabbitMQ.PublishReelStatus(update)
		if pubErr != nil {
			h.log.Error("Error while publishing to rabbit mq.", logger.Error(pubErr))
		}
		h.log.Error("[-] REEL", logger.Error(err), logger.String("id", req.Id))
		return
	}

	update.Stage = h.cfg.Stages.Deliver
	update.Status = h.cfg.Status.Success
	update.GenerateDuration = result.GenerateMs
	update.ProcessDuration = result.ProcessMs
	update.DeliverDuration = result.DeliverMs
	update.VideoPath = result.VideoPath

	err = h.rabbitMQ.PublishReelStatus(update)
	if err != nil {
		h.log.Error("Error while publishing to rabbit mq.", logger.Error(err))
	}

	h.log.Info("[+] REEL", logger.String("id", req.Id), logger.String("video", result.VideoPath))
}

// classify maps a run error to the stage it belongs to and the error
// code reported on the write queue.
func (h *handlerObj) classify(err error) (stage string, code string) {
	var (
		confErr   *errs.ConfigurationError
		textErr   *errs.TextGenerationError
		submitErr *errs.SubmissionError
		queryErr  *errs.QueryError
		jobErr    *errs.JobFailedError
		pollErr   *errs.PollTimeoutError
		uploadErr *errs.UploadError
		fetchErr  *errs.DownloadError
	)

	switch {
	case errors.As(err, &confErr):
		return h.cfg.Stages.Generate, InvalidRequest
	case errors.As(err, &textErr):
		return h.cfg.Stages.Generate, InternalServerError
	case errors.As(err, &submitErr), errors.As(err, &queryErr),
		errors.As(err, &jobErr), errors.As(err, &pollErr),
		errors.As(err, &uploadErr):
		return h.cfg.Stages.Process, InternalServerError
	case errors.As(err, &fetchErr):
		return h.cfg.Stages.Deliver, InternalServerError
	default:
		return h.cfg.Stages.Process, InternalServerError
	}
}
