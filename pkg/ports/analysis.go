// Package ports defines interfaces for external dependencies.
package ports

// AnalysisStatus classifies the overall outcome of a frame analysis.
type AnalysisStatus string

const (
	// StatusOK means the frame shows normal content.
	StatusOK AnalysisStatus = "ok"
	// StatusIssue means at least one detector flagged the frame.
	StatusIssue AnalysisStatus = "issue"
	// StatusProcessing means analysis has not completed yet.
	StatusProcessing AnalysisStatus = "processing"
	// StatusError means the analysis itself failed.
	StatusError AnalysisStatus = "error"
)

// BlackscreenResult reports blackscreen detection for one frame.
type BlackscreenResult struct {
	Detected          bool    `json:"detected"`
	ConsecutiveFrames int     `json:"consecutive_frames"`
	Confidence        float64 `json:"confidence"`
}

// FreezeResult reports frozen-image detection for one frame.
type FreezeResult struct {
	Detected          bool `json:"detected"`
	ConsecutiveFrames int  `json:"consecutive_frames"`
}

// SubtitleResult reports subtitle text found in one frame.
type SubtitleResult struct {
	Detected      bool   `json:"detected"`
	Text          string `json:"text"`
	TruncatedText string `json:"truncated_text"`
}

// ErrorScreenResult reports on-screen error messages (crash dialogs,
// playback errors) found in one frame.
type ErrorScreenResult struct {
	Detected  bool   `json:"detected"`
	ErrorType string `json:"error_type"`
	ErrorText string `json:"error_text"`
}

// LanguageResult reports the audio/subtitle language detected for one frame.
type LanguageResult struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Analysis is the closed result shape produced by the analysis backend for
// one frame. The backend returns loosely typed payloads; adapters validate
// them into this struct at the boundary and reject anything malformed.
type Analysis struct {
	Status      AnalysisStatus    `json:"status"`
	Blackscreen BlackscreenResult `json:"blackscreen"`
	Freeze      FreezeResult      `json:"freeze"`
	Subtitles   SubtitleResult    `json:"subtitles"`
	Errors      ErrorScreenResult `json:"errors"`
	Language    LanguageResult    `json:"language"`
}

// HasIssue returns true if any detector flagged the frame.
func (a Analysis) HasIssue() bool {
	return a.Blackscreen.Detected || a.Freeze.Detected || a.Errors.Detected
}
