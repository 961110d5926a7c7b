package render

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/models"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

// Renderer turns a generated snippet into a raster image on local disk.
// The rendering internals (headless browser, syntax highlighting) live
// in an external command.
type Renderer interface {
	RenderSnippet(ctx context.Context, snippet *models.CodingSnippet, outputPath string) error
}

type execRenderer struct {
	cfg *config.Config
	log logger.Logger
}

func New(cfg *config.Config, log logger.Logger) Renderer {
	return &execRenderer{
		cfg: cfg,
		log: log,
	}
}

// RenderSnippet - hands the snippet to the configured renderer command
// as a JSON file and expects the image at outputPath afterwards.
func (r *execRenderer) RenderSnippet(ctx context.Context, snippet *models.CodingSnippet, outputPath string) error {
	specPath := filepath.Join(filepath.Dir(outputPath), "snippet.json")

	data, err := json.Marshal(snippet)
	if err != nil {
		return err
	}
	if err := os.WriteFile(specPath, data, 0644); err != nil {
		return err
	}
	defer os.Remove(specPath)

	res, err := exec.CommandContext(ctx, r.cfg.RenderCommand, specPath, outputPath).CombinedOutput()
	if err != nil {
		r.log.Error("[-] RENDER snippet", logger.Error(err))
		return fmt.Errorf("renderer error: %w: %s", err, string(res))
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("renderer produced no image at %s: %w", outputPath, err)
	}

	r.log.Info("[+] RENDER snippet", logger.String("output", outputPath))
	return nil
}
