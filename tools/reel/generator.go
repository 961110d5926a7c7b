package reel

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/models"
	"github.com/frontend-future/clip-jolt/pkg/logger"
	"github.com/frontend-future/clip-jolt/tools/ffmpeg"
	"github.com/frontend-future/clip-jolt/tools/media"
	"github.com/frontend-future/clip-jolt/tools/render"
	"github.com/frontend-future/clip-jolt/tools/storage"
	"github.com/frontend-future/clip-jolt/tools/textgen"
)

// DurationProber - what the generator needs from ffprobe.
type DurationProber interface {
	Duration(input string) (float64, error)
}

// Options ...
type Options struct {
	Config   *config.Config
	Log      logger.Logger
	Backend  media.Backend
	Files    storage.FileOperationsI
	TextGen  textgen.Generator
	Renderer render.Renderer
	Prober   DurationProber
}

// Generator sequences one reel run: stage assets, submit commands in
// dependency order, poll each to completion, download the final
// artifact, clean up. Steps are strictly sequential because each
// depends on the previous step's produced URL.
type Generator struct {
	cfg      *config.Config
	log      logger.Logger
	backend  media.Backend
	files    storage.FileOperationsI
	textGen  textgen.Generator
	renderer render.Renderer
	prober   DurationProber
}

// NewGenerator - returns the reel generator.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		cfg:      opts.Config,
		log:      opts.Log,
		backend:  opts.Backend,
		files:    opts.Files,
		textGen:  opts.TextGen,
		renderer: opts.Renderer,
		prober:   opts.Prober,
	}
}

// GenerateCodingChallenge - produces a coding challenge reel: an AI
// generated snippet rendered to an image, burned into a random b-roll
// segment with background audio and a difficulty label.
func (g *Generator) GenerateCodingChallenge(ctx context.Context, duration int) (result *models.ReelResult, err error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = g.cfg.VideoDuration
	}

	outputDir, err := g.files.CreateRunFolder("coding")
	if err != nil {
		return nil, err
	}

	// Cleanup always runs, success or failure, and never replaces the
	// primary error.
	defer g.backend.Cleanup(ctx)

	imagePath := filepath.Join(outputDir, "snippet.png")
	videoPath := filepath.Join(outputDir, "reel.mp4")
	captionPath := filepath.Join(outputDir, "caption.txt")

	start := time.Now()

	g.log.Info("Generating code snippet")
	snippet, err := g.textGen.CodingSnippet(ctx)
	if err != nil {
		return nil, err
	}

	g.log.Info("Rendering snippet image", logger.String("difficulty", snippet.Difficulty))
	if err := g.renderer.RenderSnippet(ctx, snippet, imagePath); err != nil {
		return nil, err
	}

	generateMs := int(time.Since(start).Milliseconds())
	start = time.Now()

	audioPath, err := g.files.PickRandomAudio()
	if err != nil {
		return nil, err
	}

	segmentURL, err := g.extractSegment(ctx, duration, "broll_segment.mp4")
	if err != nil {
		return nil, err
	}

	imageURL, err := g.backend.Stage(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	audioURL, err := g.backend.Stage(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	g.log.Info("Compositing overlay and audio")
	outputs, err := g.backend.Execute(ctx, ffmpeg.OverlayCompose(ffmpeg.OverlaySpec{
		VideoURL:   segmentURL,
		ImageURL:   imageURL,
		AudioURL:   audioURL,
		OutputName: "reel.mp4",
		Duration:   duration,
		Label:      snippet.Difficulty,
		LabelY:     840,
		AppearTime: g.cfg.LevelAppearTime,
		FadeWindow: 0.3,
		FontPath:   g.cfg.FontPath,
	}))
	if err != nil {
		return nil, err
	}

	processMs := int(time.Since(start).Milliseconds())
	start = time.Now()

	if err := g.backend.Fetch(ctx, outputs["out_final"], videoPath); err != nil {
		return nil, err
	}

	captionContent := fmt.Sprintf(
		"==================== REEL ====================\n"+
			"DIFFICULTY: %s\n\nCODE:\n%s\n\nCAPTION:\n%s\n\nAUDIO: %s\n",
		snippet.Difficulty, snippet.Code, snippet.Caption, filepath.Base(audioPath),
	)
	if err := g.files.WriteCaption(captionPath, captionContent); err != nil {
		return nil, err
	}

	g.log.Info("[+] REEL generated", logger.String("video", videoPath))

	return &models.ReelResult{
		OutputDir:   outputDir,
		VideoPath:   videoPath,
		CaptionPath: captionPath,
		ImagePath:   imagePath,
		AudioPath:   audioPath,
		Snippet:     snippet,
		GenerateMs:  generateMs,
		ProcessMs:   processMs,
		DeliverMs:   int(time.Since(start).Milliseconds()),
	}, nil
}

// GenerateReadCaption - produces a read-caption reel: a random b-roll
// segment with a wrapped hook headline, a delayed "(Read caption)"
// sub-caption and optional background music mixed in.
func (g *Generator) GenerateReadCaption(ctx context.Context, duration int) (result *models.ReelResult, err error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = g.cfg.VideoDuration
	}

	outputDir, err := g.files.CreateRunFolder("caption")
	if err != nil {
		return nil, err
	}

	defer g.backend.Cleanup(ctx)

	videoPath := filepath.Join(outputDir, "reel.mp4")
	captionPath := filepath.Join(outputDir, "caption.txt")

	start := time.Now()

	g.log.Info("Generating caption text")
	text, err := g.textGen.CaptionText(ctx)
	if err != nil {
		return nil, err
	}

	generateMs := int(time.Since(start).Milliseconds())
	start = time.Now()

	// Background music is optional for this reel kind.
	audioPath, err := g.files.PickRandomAudio()
	if err != nil {
		g.log.Warn("No audio track available, proceeding without music", logger.Error(err))
		audioPath = ""
	}

	segmentURL, err := g.extractSegment(ctx, duration, "resized.mp4")
	if err != nil {
		return nil, err
	}

	fontURL, err := g.backend.Stage(ctx, g.cfg.FontPath)
	if err != nil {
		return nil, err
	}

	audioURL := ""
	if audioPath != "" {
		audioURL, err = g.backend.Stage(ctx, audioPath)
		if err != nil {
			return nil, err
		}
	}

	g.log.Info("Compositing text overlays", logger.String("hook", text.Hook))
	outputs, err := g.backend.Execute(ctx, ffmpeg.CaptionOverlay(ffmpeg.CaptionSpec{
		VideoURL:   segmentURL,
		FontURL:    fontURL,
		AudioURL:   audioURL,
		OutputName: "reel.mp4",
		Hook:       text.Hook,
		SubCaption: "(Read caption)",
	}))
	if err != nil {
		return nil, err
	}

	processMs := int(time.Since(start).Milliseconds())
	start = time.Now()

	if err := g.backend.Fetch(ctx, outputs["out_final"], videoPath); err != nil {
		return nil, err
	}

	captionContent := fmt.Sprintf("%s\n\n%s\n\n%s", text.Hook, text.Caption, text.CTA)
	if err := g.files.WriteCaption(captionPath, captionContent); err != nil {
		return nil, err
	}

	g.log.Info("[+] REEL generated", logger.String("video", videoPath))

	return &models.ReelResult{
		OutputDir:   outputDir,
		VideoPath:   videoPath,
		CaptionPath: captionPath,
		AudioPath:   audioPath,
		Text:        text,
		GenerateMs:  generateMs,
		ProcessMs:   processMs,
		DeliverMs:   int(time.Since(start).Milliseconds()),
	}, nil
}

// extractSegment - probes the b-roll duration, picks an in-range random
// start, stages the b-roll and runs the segment extraction. Returns the
// produced segment's URL for the next composition step; the remote
// output URL is already public so no re-upload happens.
func (g *Generator) extractSegment(ctx context.Context, duration int, outputName string) (string, error) {
	if err := g.files.EnsureExists(g.cfg.BRollPath); err != nil {
		return "", err
	}

	total, err := g.prober.Duration(g.cfg.BRollPath)
	if err != nil {
		return "", err
	}
	start := ffmpeg.RandomStart(total, duration)

	brollURL, err := g.backend.Stage(ctx, g.cfg.BRollPath)
	if err != nil {
		return "", err
	}

	g.log.Info(
		"Extracting b-roll segment",
		logger.Float64("start", start),
		logger.Int("duration", duration),
	)

	outputs, err := g.backend.Execute(ctx, ffmpeg.SegmentExtract(ffmpeg.SegmentSpec{
		InputURL:   brollURL,
		OutputName: outputName,
		Start:      start,
		Duration:   duration,
	}))
	if err != nil {
		return "", err
	}

	segment, ok := outputs["out_segment"]
	if !ok {
		return "", fmt.Errorf("segment extraction returned no out_segment file")
	}

	return segment.URL, nil
}

// validate - fails fast with a ConfigurationError before any network
// call when a required cloud credential is missing.
func (g *Generator) validate() error {
	if !g.cfg.UseCloud {
		return nil
	}
	return g.cfg.Validate()
}
