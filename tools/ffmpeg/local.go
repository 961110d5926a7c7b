package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/tools/media"
)

// LocalBackend executes composed commands with the ffmpeg binary on
// this machine. Input references are local paths, so Stage is a
// passthrough and no object storage is involved.
type LocalBackend struct {
	cfg *config.Config
	log logger.Logger

	mu      sync.Mutex
	scratch []string
}

func NewLocalBackend(cfg *config.Config, log logger.Logger) *LocalBackend {
	return &LocalBackend{
		cfg: cfg,
		log: log,
	}
}

func (b *LocalBackend) Stage(ctx context.Context, localPath string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

func (b *LocalBackend) Execute(ctx context.Context, cmd *media.Command) (map[string]media.OutputFile, error) {
	workDir, err := os.MkdirTemp("", "clipjolt-*")
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.scratch = append(b.scratch, workDir)
	b.mu.Unlock()

	line := cmd.FFmpegCommand
	for placeholder, path := range cmd.InputFiles {
		line = strings.ReplaceAll(line, "{{"+placeholder+"}}", path)
	}

	outputs := make(map[string]media.OutputFile, len(cmd.OutputFiles))
	for placeholder, fileName := range cmd.OutputFiles {
		outPath := filepath.Join(workDir, fileName)
		line = strings.ReplaceAll(line, "{{"+placeholder+"}}", outPath)
		outputs[placeholder] = media.OutputFile{
			URL:      outPath,
			Filename: fileName,
		}
	}

	args := append([]string{"-y"}, splitArgs(line)...)
	b.log.Debug("Running ffmpeg", logger.Any("args", args))

	res, err := exec.CommandContext(ctx, b.cfg.FFmpeg, args...).CombinedOutput()
	if err != nil {
		b.log.Error("[-] FFMPEG run", logger.Error(err))
		return nil, fmt.Errorf("ffmpeg error: %w: %s", err, string(res))
	}

	return outputs, nil
}

func (b *LocalBackend) Fetch(ctx context.Context, out media.OutputFile, localPath string) error {
	src, err := os.Open(out.URL)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (b *LocalBackend) Cleanup(ctx context.Context) {
	b.mu.Lock()
	dirs := b.scratch
	b.scratch = nil
	b.mu.Unlock()

	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			b.log.Error("Error while removing scratch dir", logger.String("dir", dir), logger.Error(err))
		}
	}
}

// splitArgs - tokenizes a command line on spaces, keeping double-quoted
// segments (filter graphs) as single arguments.
func splitArgs(line string) []string {
	args := []string{}
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
