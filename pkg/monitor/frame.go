// Package monitor implements the live frame monitoring core: a bounded
// ordered history of analyzed device-screen frames, a polling ingestion
// scheduler, an independent playback cursor and on-demand subtitle
// overlay, all bound to an external device-control session.
package monitor

import (
	"time"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// Frame is one captured device-screen image together with its analysis
// result and monotonic sequence number.
type Frame struct {
	// Number is the capture sequence number, strictly increasing across
	// the life of a monitoring session.
	Number int64 `json:"frame_number"`

	// Timestamp is when the capture host grabbed the frame.
	Timestamp time.Time `json:"timestamp"`

	// ImagePath is the image location on the capture host.
	ImagePath string `json:"image_path"`

	// Analysis holds the detector results for this frame.
	Analysis ports.Analysis `json:"analysis"`

	// Processed is true once the analysis backend has classified the frame.
	Processed bool `json:"processed"`

	// OverlayPerformed is true once an on-demand subtitle overlay has
	// rewritten this frame's analysis.
	OverlayPerformed bool `json:"subtitle_overlay_performed"`
}

// OverlayError is a frame-scoped error from a failed subtitle overlay.
// It is kept separate from the session error so an overlay failure does
// not disturb the rest of the monitoring state.
type OverlayError struct {
	FrameNumber int64  `json:"frame_number"`
	Message     string `json:"message"`
}

// MonitoringState is an immutable snapshot of a monitoring session,
// suitable for serialization to dashboard clients.
type MonitoringState struct {
	SessionID          string        `json:"session_id"`
	IsActive           bool          `json:"is_active"`
	IsPlaying          bool          `json:"is_playing"`
	IsProcessing       bool          `json:"is_processing"`
	Frames             []Frame       `json:"frames"`
	CurrentFrameIndex  int           `json:"current_frame_index"`
	TotalFrames        int           `json:"total_frames"`
	MaxFrames          int           `json:"max_frames"`
	LastProcessedFrame int64         `json:"last_processed_frame"`
	Error              string        `json:"error,omitempty"`
	OverlayError       *OverlayError `json:"overlay_error,omitempty"`
	StartedAt          time.Time     `json:"started_at,omitempty"`
}

// CurrentFrame returns the frame at the playback cursor, or nil if the
// snapshot holds no frames.
func (s MonitoringState) CurrentFrame() *Frame {
	if s.TotalFrames == 0 {
		return nil
	}
	f := s.Frames[s.CurrentFrameIndex]
	return &f
}
