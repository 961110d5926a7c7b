package errs

import "fmt"

// ConfigurationError - required credential or path is missing, surfaced
// before any remote call is made
type ConfigurationError struct {
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Variable)
}

// SubmissionError - the remote service rejected a command submission
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("command submission failed with status %d: %s", e.StatusCode, e.Body)
}

// QueryError - a status query returned a non-2xx response
type QueryError struct {
	CommandID  string
	StatusCode int
	Body       string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("status query for command %s failed with status %d: %s", e.CommandID, e.StatusCode, e.Body)
}

// DownloadError - an artifact fetch from storage was not successful
type DownloadError struct {
	URL        string
	StatusCode int
	Reason     string
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download from %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download from %s failed: %s", e.URL, e.Reason)
}

// JobFailedError - the remote service reported FAILED or TIMEOUT for a
// submitted command. Message is the server's error_message verbatim.
type JobFailedError struct {
	CommandID string
	Status    string
	Message   string
	Logs      string
}

func (e *JobFailedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "remote ffmpeg command failed"
	}
	if e.Logs != "" {
		return fmt.Sprintf("command %s %s: %s\nlogs:\n%s", e.CommandID, e.Status, msg, e.Logs)
	}
	return fmt.Sprintf("command %s %s: %s", e.CommandID, e.Status, msg)
}

// PollTimeoutError - the client gave up waiting without seeing a terminal
// server state. Distinct from JobFailedError: the job may still be
// running server side.
type PollTimeoutError struct {
	CommandID string
	Attempts  int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("gave up polling command %s after %d attempts", e.CommandID, e.Attempts)
}

// UploadError - a local file was unreadable or the storage API rejected
// the write
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// TextGenerationError - the text generation collaborator exhausted its
// retries and fallback. Attempts carries every underlying failure.
type TextGenerationError struct {
	Attempts []error
}

func (e *TextGenerationError) Error() string {
	msg := fmt.Sprintf("text generation failed after %d attempts", len(e.Attempts))
	for i, err := range e.Attempts {
		msg += fmt.Sprintf("\n  attempt %d: %v", i+1, err)
	}
	return msg
}
