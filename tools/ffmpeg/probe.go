package ffmpeg

import (
	"fmt"
	"math/rand"
	"os/exec"
	"strconv"
	"strings"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

// Prober reads media metadata with ffprobe.
type Prober struct {
	cfg *config.Config
	log logger.Logger
}

func NewProber(cfg *config.Config, log logger.Logger) *Prober {
	return &Prober{
		cfg: cfg,
		log: log,
	}
}

// Duration - returns the container duration of the given file in
// seconds.
func (p *Prober) Duration(input string) (float64, error) {
	out, err := exec.Command(
		p.cfg.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		input,
	).CombinedOutput()
	if err != nil {
		p.log.Error("out error in Duration", logger.Error(err), logger.String("input", input))
		return 0, fmt.Errorf("ffprobe error: %w: %s", err, string(out))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", string(out), err)
	}

	return duration, nil
}

// RandomStart - picks a random segment start so the whole segment fits
// inside the source. Sources shorter than the segment start at zero.
func RandomStart(totalDuration float64, segmentDuration int) float64 {
	maxStart := totalDuration - float64(segmentDuration)
	if maxStart <= 0 {
		return 0
	}
	return rand.Float64() * maxStart
}
