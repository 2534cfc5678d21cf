package ports

import (
	"context"
)

// FrameAnalyzer abstracts the analysis backend that classifies a single
// captured frame (blackscreen, freeze, subtitles, error screens).
type FrameAnalyzer interface {
	// AnalyzeFrame classifies the frame at framePath. Calls are made one
	// at a time per batch so results arrive in frame order.
	AnalyzeFrame(ctx context.Context, framePath string, frameNumber int64) (Analysis, error)
}

// SubtitleDetection is the result of an on-demand subtitle pass over a
// single frame image.
type SubtitleDetection struct {
	Detected   bool
	Text       string
	Language   string
	Confidence float64
}

// SubtitleDetector abstracts the subtitle-specific entry point of the
// analysis backend. Two interchangeable implementations exist: the
// baseline OCR detector and the AI detector. Both are consumed
// identically.
type SubtitleDetector interface {
	// DetectSubtitles runs subtitle detection over the given image.
	// extractText requests the recognized text in addition to the
	// detected flag.
	DetectSubtitles(ctx context.Context, imageSourceURL string, extractText bool) (SubtitleDetection, error)
}
