package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/frontend-future/clip-jolt/tools/media"
)

// Target geometry for every reel: portrait 1080x1920.
const (
	TargetWidth  = 1080
	TargetHeight = 1920
)

const scaleCropFilter = "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920"

// SegmentSpec parametrizes a b-roll segment extraction.
type SegmentSpec struct {
	InputURL   string
	OutputName string
	Start      float64
	Duration   int
}

// SegmentExtract - seeks into the source, takes Duration seconds,
// scales and crops to fill the portrait frame and re-encodes to a
// baseline profile fit for further composition.
func SegmentExtract(spec SegmentSpec) *media.Command {
	command := fmt.Sprintf(
		"-ss %.2f -t %d -i {{in_broll}} -vf \"%s\" -c:v libx264 -crf 23 -preset medium -pix_fmt yuv420p {{out_segment}}",
		spec.Start, spec.Duration, scaleCropFilter,
	)

	return &media.Command{
		FFmpegCommand: command,
		InputFiles:    map[string]string{"in_broll": spec.InputURL},
		OutputFiles:   map[string]string{"out_segment": spec.OutputName},
	}
}

// OverlaySpec parametrizes the image overlay composition.
type OverlaySpec struct {
	VideoURL   string
	ImageURL   string
	AudioURL   string
	OutputName string
	Duration   int
	Label      string
	LabelY     int
	AppearTime float64
	FadeWindow float64
	FontPath   string
}

// OverlayCompose - burns a full frame image overlay into the base
// video, draws the difficulty label with a timed fade-in and trims the
// audio track to the video duration.
func OverlayCompose(spec OverlaySpec) *media.Command {
	appear := spec.AppearTime
	fade := spec.FadeWindow
	if fade <= 0 {
		fade = 0.3
	}

	filter := fmt.Sprintf(
		"[1:v]scale=%d:%d[overlay];"+
			"[0:v][overlay]overlay=0:0[video_base];"+
			"[video_base]drawtext="+
			"text='LEVEL\\: %s':"+
			"fontfile=%s:"+
			"fontsize=42:"+
			"fontcolor=#818cf8:"+
			"borderw=2:"+
			"bordercolor=black:"+
			"x=(w-text_w)/2:"+
			"y=%d:"+
			"enable='gte(t,%g)':"+
			"alpha='if(lt(t,%g),0,if(lt(t,%g),(t-%g)/%g,1))'"+
			"[video];"+
			"[2:a]atrim=0:%d,asetpts=PTS-STARTPTS[audio]",
		TargetWidth, TargetHeight,
		EscapeDrawtextValue(spec.Label),
		EscapeFontPath(spec.FontPath),
		spec.LabelY,
		appear,
		appear, appear+fade, appear, fade,
		spec.Duration,
	)

	command := fmt.Sprintf(
		"-i {{in_video}} -i {{in_image}} -i {{in_audio}} -filter_complex \"%s\" "+
			"-map \"[video]\" -map \"[audio]\" -c:v libx264 -c:a aac -b:a 192k "+
			"-t %d -crf 23 -preset medium -pix_fmt yuv420p -shortest {{out_final}}",
		filter, spec.Duration,
	)

	return &media.Command{
		FFmpegCommand: command,
		InputFiles: map[string]string{
			"in_video": spec.VideoURL,
			"in_image": spec.ImageURL,
			"in_audio": spec.AudioURL,
		},
		OutputFiles: map[string]string{"out_final": spec.OutputName},
	}
}

// CaptionSpec parametrizes the resize plus text overlay composition.
type CaptionSpec struct {
	VideoURL   string
	FontURL    string
	AudioURL   string // optional, empty means pass audio through
	OutputName string
	Hook       string
	SubCaption string
}

// Layout constants for the caption composition. The hook wraps wider
// and larger than the sub-caption; the sub-caption appears after a
// fixed delay.
const (
	hookMaxChars    = 30
	hookFontSize    = 60
	hookLineSpacing = 20

	subMaxChars    = 25
	subFontSize    = 40
	subLineSpacing = 15
	subAppearTime  = 4
)

// CaptionOverlay - scales and crops to the portrait frame and draws two
// independently positioned multi-line text blocks. When an audio input
// is supplied it is mixed with the existing track, truncated to the
// shorter stream.
func CaptionOverlay(spec CaptionSpec) *media.Command {
	hookLines := WrapText(spec.Hook, hookMaxChars)
	subLines := WrapText(spec.SubCaption, subMaxChars)

	hookHeight := len(hookLines)*hookFontSize + (len(hookLines)-1)*hookLineSpacing
	hookStartY := TargetHeight/2 - hookHeight/2 - 100
	subStartY := hookStartY + hookHeight + 80

	filters := []string{scaleCropFilter}

	for i, line := range hookLines {
		y := hookStartY + i*(hookFontSize+hookLineSpacing)
		filters = append(filters, fmt.Sprintf(
			"drawtext=fontfile={{in_font}}:text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=%d:borderw=3:bordercolor=black",
			EscapeDrawtextValue(line), hookFontSize, y,
		))
	}

	for i, line := range subLines {
		y := subStartY + i*(subFontSize+subLineSpacing)
		filters = append(filters, fmt.Sprintf(
			"drawtext=fontfile={{in_font}}:text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=%d:enable='gte(t,%d)':borderw=2:bordercolor=black",
			EscapeDrawtextValue(line), subFontSize, y, subAppearTime,
		))
	}

	vf := strings.Join(filters, ",")

	inputFiles := map[string]string{
		"in_video": spec.VideoURL,
		"in_font":  spec.FontURL,
	}

	var command string
	if spec.AudioURL != "" {
		inputFiles["in_audio"] = spec.AudioURL
		command = fmt.Sprintf(
			"-i {{in_video}} -i {{in_audio}} -vf \"%s\" "+
				"-filter_complex \"[0:a][1:a]amix=inputs=2:duration=shortest:dropout_transition=2[aout]\" "+
				"-map \"[aout]\" -map 0:v -c:v libx264 -c:a aac -b:a 192k -preset medium -b:v 8000k -r 24 -pix_fmt yuv420p {{out_final}}",
			vf,
		)
	} else {
		command = fmt.Sprintf(
			"-i {{in_video}} -vf \"%s\" "+
				"-c:v libx264 -c:a aac -preset medium -b:v 8000k -r 24 -pix_fmt yuv420p {{out_final}}",
			vf,
		)
	}

	return &media.Command{
		FFmpegCommand: command,
		InputFiles:    inputFiles,
		OutputFiles:   map[string]string{"out_final": spec.OutputName},
	}
}
