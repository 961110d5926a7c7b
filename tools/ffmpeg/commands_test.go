package ffmpeg

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-future/clip-jolt/tools/media"
)

var placeholderRe = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// every placeholder referenced by the command text must be declared in
// the input or output map, and every declared placeholder must be
// referenced.
func assertPlaceholderParity(t *testing.T, cmd *media.Command) {
	t.Helper()

	declared := map[string]bool{}
	for name := range cmd.InputFiles {
		declared[name] = false
	}
	for name := range cmd.OutputFiles {
		declared[name] = false
	}

	for _, match := range placeholderRe.FindAllStringSubmatch(cmd.FFmpegCommand, -1) {
		name := match[1]
		_, ok := declared[name]
		require.True(t, ok, "command references undeclared placeholder %q", name)
		declared[name] = true
	}

	for name, referenced := range declared {
		assert.True(t, referenced, "declared placeholder %q never referenced", name)
	}
}

func TestSegmentExtract(t *testing.T) {
	cmd := SegmentExtract(SegmentSpec{
		InputURL:   "https://pub-acc.r2.dev/reel-temp/123-broll.mp4",
		OutputName: "broll_segment.mp4",
		Start:      12.5,
		Duration:   7,
	})

	assertPlaceholderParity(t, cmd)
	assert.Equal(t, "https://pub-acc.r2.dev/reel-temp/123-broll.mp4", cmd.InputFiles["in_broll"])
	assert.Equal(t, "broll_segment.mp4", cmd.OutputFiles["out_segment"])
	assert.Contains(t, cmd.FFmpegCommand, "-ss 12.50 -t 7")
	assert.Contains(t, cmd.FFmpegCommand, scaleCropFilter)
}

func TestOverlayCompose(t *testing.T) {
	cmd := OverlayCompose(OverlaySpec{
		VideoURL:   "https://example.com/segment.mp4",
		ImageURL:   "https://example.com/snippet.png",
		AudioURL:   "https://example.com/track.mp3",
		OutputName: "reel.mp4",
		Duration:   7,
		Label:      "hard: expert",
		LabelY:     840,
		AppearTime: 2,
		FadeWindow: 0.3,
		FontPath:   "/assets/fonts/Inter Bold.ttf",
	})

	assertPlaceholderParity(t, cmd)
	require.Len(t, cmd.InputFiles, 3)
	assert.Equal(t, "reel.mp4", cmd.OutputFiles["out_final"])

	// label text is escaped before interpolation
	assert.Contains(t, cmd.FFmpegCommand, `LEVEL\: hard\: expert`)
	assert.Contains(t, cmd.FFmpegCommand, `fontfile=/assets/fonts/Inter\ Bold.ttf`)
	assert.Contains(t, cmd.FFmpegCommand, "enable='gte(t,2)'")
	assert.Contains(t, cmd.FFmpegCommand, "atrim=0:7")
}

func TestOverlayComposeFadeDefault(t *testing.T) {
	cmd := OverlayCompose(OverlaySpec{
		VideoURL:   "v",
		ImageURL:   "i",
		AudioURL:   "a",
		OutputName: "o.mp4",
		Duration:   7,
		Label:      "easy",
		AppearTime: 2,
	})

	assert.Contains(t, cmd.FFmpegCommand, "(t-2)/0.3")
}

func TestCaptionOverlay(t *testing.T) {
	t.Run("with audio mixes two tracks", func(t *testing.T) {
		cmd := CaptionOverlay(CaptionSpec{
			VideoURL:   "https://example.com/resized.mp4",
			FontURL:    "https://example.com/font.ttf",
			AudioURL:   "https://example.com/music.mp3",
			OutputName: "reel.mp4",
			Hook:       "Your code review is lying to you",
			SubCaption: "(Read caption)",
		})

		assertPlaceholderParity(t, cmd)
		require.Len(t, cmd.InputFiles, 3)
		assert.Contains(t, cmd.FFmpegCommand, "amix=inputs=2:duration=shortest:dropout_transition=2")
	})

	t.Run("without audio keeps the original track", func(t *testing.T) {
		cmd := CaptionOverlay(CaptionSpec{
			VideoURL:   "https://example.com/resized.mp4",
			FontURL:    "https://example.com/font.ttf",
			OutputName: "reel.mp4",
			Hook:       "Your code review is lying to you",
			SubCaption: "(Read caption)",
		})

		assertPlaceholderParity(t, cmd)
		require.Len(t, cmd.InputFiles, 2)
		assert.NotContains(t, cmd.FFmpegCommand, "amix")
		assert.NotContains(t, cmd.FFmpegCommand, "in_audio")
	})

	t.Run("sub caption appears after the delay", func(t *testing.T) {
		cmd := CaptionOverlay(CaptionSpec{
			VideoURL:   "v",
			FontURL:    "f",
			OutputName: "o.mp4",
			Hook:       "hook",
			SubCaption: "(Read caption)",
		})

		assert.Contains(t, cmd.FFmpegCommand, "enable='gte(t,4)'")
	})

	t.Run("multi line hook gets one drawtext per line", func(t *testing.T) {
		hook := "This coding trick will blow your mind today"
		lines := WrapText(hook, hookMaxChars)
		require.Len(t, lines, 2)

		cmd := CaptionOverlay(CaptionSpec{
			VideoURL:   "v",
			FontURL:    "f",
			OutputName: "o.mp4",
			Hook:       hook,
			SubCaption: "(Read caption)",
		})

		// 2 hook lines + 1 sub caption line
		assert.Equal(t, 3, strings.Count(cmd.FFmpegCommand, "drawtext="))
	})

	t.Run("hook block is vertically centered above the middle", func(t *testing.T) {
		cmd := CaptionOverlay(CaptionSpec{
			VideoURL:   "v",
			FontURL:    "f",
			OutputName: "o.mp4",
			Hook:       "one line",
			SubCaption: "(Read caption)",
		})

		// single line: startY = 1920/2 - 60/2 - 100 = 830, sub = 830+60+80 = 970
		assert.Contains(t, cmd.FFmpegCommand, "y=830")
		assert.Contains(t, cmd.FFmpegCommand, "y=970")
	})
}
