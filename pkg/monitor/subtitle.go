package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// OverlayVariant selects which subtitle detector backs an on-demand
// overlay request.
type OverlayVariant string

const (
	// OverlayOCR is the baseline OCR-style subtitle detector.
	OverlayOCR OverlayVariant = "ocr"
	// OverlayAI is the AI-based subtitle detector.
	OverlayAI OverlayVariant = "ai"
)

// truncatedTextLimit bounds the subtitle text shown in frame summaries.
const truncatedTextLimit = 120

// ErrNoFrame is returned when an overlay is requested over an empty
// history.
var ErrNoFrame = errors.New("no frame at playback cursor")

// DetectSubtitles runs an on-demand subtitle pass over the frame at the
// playback cursor and merges the result into that frame's stored
// analysis. Non-subtitle fields are preserved.
//
// Before the request is sent, playback is paused and the frame is marked
// user-selected so a slow response cannot race a moving cursor. While a
// request for one variant is in flight, further requests for the same
// variant are no-ops. A failed overlay is surfaced as a frame-scoped
// overlay error without disturbing the rest of the state.
func (s *Session) DetectSubtitles(ctx context.Context, variant OverlayVariant) error {
	detector, ok := s.detectors[variant]
	if !ok {
		return fmt.Errorf("no subtitle detector for variant %q", variant)
	}

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return errors.New("monitoring is not active")
	}
	if s.overlayBusy[variant] {
		s.mu.Unlock()
		return nil
	}
	target, ok := s.buf.current()
	if !ok {
		s.mu.Unlock()
		return ErrNoFrame
	}
	s.overlayBusy[variant] = true
	s.playing = false
	s.buf.userSelected = true
	s.overlayErr = nil
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.overlayBusy[variant] = false
		s.mu.Unlock()
	}()

	s.log.Debug("Running %s subtitle overlay on frame %d", string(variant), target.Number)
	detection, err := detector.DetectSubtitles(ctx, target.ImagePath, true)

	s.mu.Lock()
	if !s.active {
		// Session stopped while the request was in flight.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.overlayErr = &OverlayError{
			FrameNumber: target.Number,
			Message:     err.Error(),
		}
		s.mu.Unlock()
		s.log.Warn(l10n.F("Subtitle overlay failed for frame %d: %s", target.Number, err))
		s.notify()
		return fmt.Errorf("detect subtitles: %w", err)
	}

	stored, ok := s.buf.byNumber(target.Number)
	if !ok {
		// Evicted while the request was in flight.
		s.overlayErr = &OverlayError{
			FrameNumber: target.Number,
			Message:     "frame no longer buffered",
		}
		s.mu.Unlock()
		s.notify()
		return nil
	}

	merged := mergeSubtitleDetection(stored.Analysis, detection)
	s.buf.overwriteAnalysis(target.Number, merged)
	s.mu.Unlock()

	s.log.Debug("Subtitle overlay merged into frame %d (detected=%v)", target.Number, detection.Detected)
	s.notify()
	return nil
}

// mergeSubtitleDetection rewrites only the subtitle and language fields
// of an analysis, keeping every other detector result intact.
func mergeSubtitleDetection(a ports.Analysis, d ports.SubtitleDetection) ports.Analysis {
	a.Subtitles = ports.SubtitleResult{
		Detected:      d.Detected,
		Text:          d.Text,
		TruncatedText: truncateText(d.Text, truncatedTextLimit),
	}
	a.Language = ports.LanguageResult{
		Language:   d.Language,
		Confidence: d.Confidence,
	}
	return a
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
