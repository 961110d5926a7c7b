package models

// Reel kinds handled by the pipeline.
const (
	KindCodingChallenge = "coding_challenge"
	KindReadCaption     = "read_caption"
)

// ReelRequest is the message consumed from the listen queue.
type ReelRequest struct {
	Id       string `json:"id"`
	Kind     string `json:"kind"`
	Duration int    `json:"duration"`
}

// UpdateReelStage is published to the write queue after every stage
// transition of a run.
type UpdateReelStage struct {
	Id               string `json:"id"`
	Kind             string `json:"kind"`
	Stage            string `json:"stage"`
	Status           string `json:"status"`
	GenerateDuration int    `json:"generate_duration"` // milliseconds
	ProcessDuration  int    `json:"process_duration"`  // milliseconds
	DeliverDuration  int    `json:"deliver_duration"`  // milliseconds
	VideoPath        string `json:"video_path"`
	FailDescription  string `json:"fail_description"`
	ErrorCode        string `json:"error_code"`
}

// CodingSnippet is the structured artifact produced by the text
// generation collaborator for the coding challenge reel.
type CodingSnippet struct {
	Difficulty string `json:"difficulty"`
	Code       string `json:"code"`
	Caption    string `json:"caption"`
}

// CaptionText is the structured artifact for the read-caption reel.
type CaptionText struct {
	Hook    string `json:"hook"`
	Caption string `json:"caption"`
	CTA     string `json:"cta"`
}

// ReelResult describes everything a successful run left on local disk.
// Constructed once at the end of a run, never mutated after return.
type ReelResult struct {
	OutputDir   string
	VideoPath   string
	CaptionPath string
	ImagePath   string
	AudioPath   string
	Snippet     *CodingSnippet
	Text        *CaptionText

	// Stage durations in milliseconds, reported on the write queue.
	GenerateMs int
	ProcessMs  int
	DeliverMs  int
}
