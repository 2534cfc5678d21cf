package mocks

import (
	"context"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// FrameAnalyzer is a mock implementation of ports.FrameAnalyzer.
type FrameAnalyzer struct {
	AnalyzeFrameFunc func(ctx context.Context, framePath string, frameNumber int64) (ports.Analysis, error)
}

func (m *FrameAnalyzer) AnalyzeFrame(ctx context.Context, framePath string, frameNumber int64) (ports.Analysis, error) {
	if m.AnalyzeFrameFunc != nil {
		return m.AnalyzeFrameFunc(ctx, framePath, frameNumber)
	}
	return ports.Analysis{Status: ports.StatusOK}, nil
}

// SubtitleDetector is a mock implementation of ports.SubtitleDetector.
type SubtitleDetector struct {
	DetectSubtitlesFunc func(ctx context.Context, imageSourceURL string, extractText bool) (ports.SubtitleDetection, error)
}

func (m *SubtitleDetector) DetectSubtitles(ctx context.Context, imageSourceURL string, extractText bool) (ports.SubtitleDetection, error) {
	if m.DetectSubtitlesFunc != nil {
		return m.DetectSubtitlesFunc(ctx, imageSourceURL, extractText)
	}
	return ports.SubtitleDetection{}, nil
}

// Ensure mocks implement the analyzer ports
var (
	_ ports.FrameAnalyzer    = (*FrameAnalyzer)(nil)
	_ ports.SubtitleDetector = (*SubtitleDetector)(nil)
)
