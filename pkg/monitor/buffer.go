package monitor

import (
	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// DefaultMaxFrames is the default history window: 180 frames, about
// three minutes at the 1 fps capture rate.
const DefaultMaxFrames = 180

// frameBuffer is the bounded, ordered store of analyzed frames. It owns
// the eviction policy, the playback cursor and the low-water mark.
//
// frameBuffer is not safe for concurrent use; the owning Session
// serializes all access behind its mutex.
type frameBuffer struct {
	maxFrames int
	frames    []Frame
	cursor    int

	// lastProcessed is the highest frame number ever ingested. It is
	// never rolled back, even after the frame itself is evicted.
	lastProcessed int64

	// userSelected disables live-follow: while true the cursor stays
	// where the user put it instead of tracking the tail.
	userSelected bool
}

func newFrameBuffer(maxFrames int) *frameBuffer {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	return &frameBuffer{maxFrames: maxFrames}
}

// append inserts a batch at the tail and evicts from the head until the
// window fits maxFrames. The batch must be sorted ascending by frame
// number and strictly newer than every buffered frame; the ingestion
// scheduler guarantees this.
//
// If the cursor tracked the previous tail (live-follow), it moves to the
// new tail. Otherwise it is clamped into the surviving window.
func (b *frameBuffer) append(batch []Frame) {
	if len(batch) == 0 {
		return
	}

	follow := !b.userSelected && (len(b.frames) == 0 || b.cursor == len(b.frames)-1)

	b.frames = append(b.frames, batch...)
	if excess := len(b.frames) - b.maxFrames; excess > 0 {
		b.frames = append(b.frames[:0], b.frames[excess:]...)
		b.cursor -= excess
	}

	if follow {
		b.cursor = len(b.frames) - 1
	} else {
		b.cursor = clampIndex(b.cursor, len(b.frames))
	}
}

// overwriteAnalysis replaces the analysis of one buffered frame in place
// and marks it overlay-performed. Position and Processed flag are
// untouched. Returns false if the frame is no longer buffered.
func (b *frameBuffer) overwriteAnalysis(frameNumber int64, analysis ports.Analysis) bool {
	for i := range b.frames {
		if b.frames[i].Number == frameNumber {
			b.frames[i].Analysis = analysis
			b.frames[i].OverlayPerformed = true
			return true
		}
	}
	return false
}

// byNumber returns a copy of the buffered frame with the given number.
func (b *frameBuffer) byNumber(frameNumber int64) (Frame, bool) {
	for i := range b.frames {
		if b.frames[i].Number == frameNumber {
			return b.frames[i], true
		}
	}
	return Frame{}, false
}

// current returns a copy of the frame at the cursor, or false if empty.
func (b *frameBuffer) current() (Frame, bool) {
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	return b.frames[b.cursor], true
}

// setCursor moves the cursor, clamped into the valid range.
func (b *frameBuffer) setCursor(index int) {
	b.cursor = clampIndex(index, len(b.frames))
}

// noteProcessed raises the low-water mark. Lower values are ignored so
// the mark is monotonically non-decreasing.
func (b *frameBuffer) noteProcessed(frameNumber int64) {
	if frameNumber > b.lastProcessed {
		b.lastProcessed = frameNumber
	}
}

func (b *frameBuffer) len() int { return len(b.frames) }

// snapshot returns a defensive copy of the buffered frames.
func (b *frameBuffer) snapshot() []Frame {
	out := make([]Frame, len(b.frames))
	copy(out, b.frames)
	return out
}

// clampIndex clamps index into [0, n-1], or 0 for an empty buffer.
func clampIndex(index, n int) int {
	if n == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index > n-1 {
		return n - 1
	}
	return index
}
