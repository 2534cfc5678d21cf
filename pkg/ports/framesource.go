package ports

import (
	"context"
	"time"
)

// CapturedFrame is one screen capture reported by the frame source before
// any analysis has run.
type CapturedFrame struct {
	// Path is the image location on the capture host, also used as the
	// image reference for analysis calls.
	Path string

	// Number is the capture sequence number. The source assigns numbers
	// monotonically per device.
	Number int64

	// Timestamp is when the capture host grabbed the frame.
	Timestamp time.Time
}

// FrameSource abstracts the external service that captures device screens.
// The consuming side polls it with a low-water mark so only frames newer
// than the ones already ingested are returned.
type FrameSource interface {
	// FetchNewFrames returns captures with a number strictly greater than
	// sinceFrameNumber, in ascending number order. An empty slice means no
	// new captures are available yet.
	FetchNewFrames(ctx context.Context, sinceFrameNumber int64) ([]CapturedFrame, error)
}
