package rendi

// Command lifecycle states reported by the service. QUEUED and
// PROCESSING are the only non-terminal states; a command never leaves a
// terminal state.
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusSuccess    = "SUCCESS"
	StatusFailed     = "FAILED"
	StatusTimeout    = "TIMEOUT"
)

// IsTerminal - reports whether no further transition can occur.
func IsTerminal(status string) bool {
	switch status {
	case StatusSuccess, StatusFailed, StatusTimeout:
		return true
	}
	return false
}

type submitResponse struct {
	CommandId string `json:"command_id"`
}

// OutputFileInfo describes one output artifact in a status snapshot.
type OutputFileInfo struct {
	StorageURL string  `json:"storage_url"`
	FileId     string  `json:"file_id"`
	SizeMBytes float64 `json:"size_mbytes"`
	Duration   float64 `json:"duration,omitempty"`
	Codec      string  `json:"codec,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	MimeType   string  `json:"mime_type,omitempty"`
}

// CommandStatus is a single point-in-time read of a submitted command.
type CommandStatus struct {
	CommandId         string                    `json:"command_id"`
	Status            string                    `json:"status"`
	ProcessingStage   string                    `json:"processing_stage,omitempty"`
	OutputFiles       map[string]OutputFileInfo `json:"output_files,omitempty"`
	ErrorMessage      string                    `json:"error_message,omitempty"`
	Logs              string                    `json:"logs,omitempty"`
	ProcessingSeconds float64                   `json:"total_processing_seconds,omitempty"`
}
