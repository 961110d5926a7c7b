package media

import "context"

// Command is a composed ffmpeg invocation with symbolic file
// placeholders. InputFiles maps {{placeholder}} names to source URLs,
// OutputFiles maps them to desired output filenames. Immutable once
// submitted.
type Command struct {
	FFmpegCommand string            `json:"ffmpeg_command"`
	InputFiles    map[string]string `json:"input_files"`
	OutputFiles   map[string]string `json:"output_files"`
	VCPUCount     int               `json:"vcpu_count,omitempty"`
	MaxRunSeconds int               `json:"max_command_run_seconds,omitempty"`
}

// OutputFile describes one produced artifact. URL is fetchable without
// credentials once the command succeeded.
type OutputFile struct {
	FileId   string
	URL      string
	Filename string
	SizeMB   float64
	Duration float64
	Width    int
	Height   int
	MimeType string
}

// Backend is the execution capability the orchestrator is parameterized
// by. The remote implementation stages assets into object storage and
// submits commands to the cloud ffmpeg service; the local one runs the
// ffmpeg binary directly.
type Backend interface {
	// Stage makes a local file reachable by Execute and returns the
	// reference to use in Command.InputFiles.
	Stage(ctx context.Context, localPath string) (string, error)
	// Execute runs the command to completion and returns the produced
	// files keyed by output placeholder.
	Execute(ctx context.Context, cmd *Command) (map[string]OutputFile, error)
	// Fetch persists a produced file to the given local path.
	Fetch(ctx context.Context, out OutputFile, localPath string) error
	// Cleanup removes everything Stage made reachable. Best effort,
	// called exactly once per run.
	Cleanup(ctx context.Context)
}
