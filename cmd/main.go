package main

import (
	"context"
	"time"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/handler"
	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/pkg/rabbitmq"
	"github.com/frontend-future/clip-jolt/tools/ffmpeg"
	"github.com/frontend-future/clip-jolt/tools/media"
	"github.com/frontend-future/clip-jolt/tools/reel"
	"github.com/frontend-future/clip-jolt/tools/rendi"
	"github.com/frontend-future/clip-jolt/tools/render"
	"github.com/frontend-future/clip-jolt/tools/storage"
	"github.com/frontend-future/clip-jolt/tools/textgen"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "reel_service")

	log.Info("new configuration and logger is setup...")

	rbMQ, err := rabbitmq.New(&cfg, log)
	if err != nil {
		log.Error("Error while creating rabbitMq object...", logger.Error(err))
		return
	}

	// We need to close the channel if we have opened it
	defer rbMQ.Channel.Close()

	fileStorage := storage.NewFileStorage(&cfg, log)
	log.Info("storage is created...")

	var backend media.Backend
	if cfg.UseCloud {
		uploader, err := storage.NewUploader(&cfg, log)
		if err != nil {
			log.Error("Error while creating cloud uploader...", logger.Error(err))
			return
		}

		client := rendi.NewClient(&cfg, log)
		poller := rendi.NewPoller(
			client,
			log,
			time.Duration(cfg.PollIntervalSecs)*time.Second,
			cfg.PollMaxAttempts,
		)
		backend = rendi.NewRemoteBackend(client, poller, uploader, log)
		log.Info("remote backend is created...")
	} else {
		backend = ffmpeg.NewLocalBackend(&cfg, log)
		log.Info("local backend is created...")
	}

	generator := reel.NewGenerator(reel.Options{
		Config:   &cfg,
		Log:      log,
		Backend:  backend,
		Files:    fileStorage,
		TextGen:  textgen.New(&cfg, log),
		Renderer: render.New(&cfg, log),
		Prober:   ffmpeg.NewProber(&cfg, log),
	})
	log.Info("reel generator is created...")

	handlerObj := handler.NewHandler(handler.Options{
		Config:    &cfg,
		Log:       log,
		Generator: generator,
		RabbitMQ:  rbMQ,
	})

	handlerObj.ListenNotifications(context.Background())
}
