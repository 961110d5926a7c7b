package rendi

import (
	"context"
	"fmt"

	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/tools/media"
	"github.com/frontend-future/clip-jolt/tools/storage"
)

// RemoteBackend executes composed commands on the cloud ffmpeg service.
// Local assets are staged into object storage to become fetchable by
// URL; command outputs come back as pre-signed storage URLs, so a
// further composition step reuses them directly without re-uploading.
type RemoteBackend struct {
	client   *Client
	poller   *Poller
	uploader storage.Uploader
	log      logger.Logger
}

func NewRemoteBackend(client *Client, poller *Poller, uploader storage.Uploader, log logger.Logger) *RemoteBackend {
	return &RemoteBackend{
		client:   client,
		poller:   poller,
		uploader: uploader,
		log:      log,
	}
}

func (b *RemoteBackend) Stage(ctx context.Context, localPath string) (string, error) {
	return b.uploader.Upload(ctx, localPath)
}

func (b *RemoteBackend) Execute(ctx context.Context, cmd *media.Command) (map[string]media.OutputFile, error) {
	commandId, err := b.client.SubmitCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}

	status, err := b.poller.PollUntilTerminal(ctx, commandId)
	if err != nil {
		return nil, err
	}

	if len(status.OutputFiles) == 0 {
		return nil, fmt.Errorf("command %s succeeded but returned no output files", commandId)
	}

	outputs := make(map[string]media.OutputFile, len(status.OutputFiles))
	for placeholder, info := range status.OutputFiles {
		outputs[placeholder] = media.OutputFile{
			FileId:   info.FileId,
			URL:      info.StorageURL,
			Filename: cmd.OutputFiles[placeholder],
			SizeMB:   info.SizeMBytes,
			Duration: info.Duration,
			Width:    info.Width,
			Height:   info.Height,
			MimeType: info.MimeType,
		}
	}

	return outputs, nil
}

func (b *RemoteBackend) Fetch(ctx context.Context, out media.OutputFile, localPath string) error {
	_, err := b.client.DownloadArtifact(ctx, out.URL, localPath)
	return err
}

func (b *RemoteBackend) Cleanup(ctx context.Context) {
	b.uploader.CleanupAll(ctx)
}
