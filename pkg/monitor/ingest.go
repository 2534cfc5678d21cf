package monitor

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/ideamans/go-l10n"
)

// ingestTick performs one ingestion cycle: fetch captures newer than the
// low-water mark, analyze them one at a time in ascending frame order,
// append the successfully analyzed ones as a batch and advance the mark.
//
// Ticks are serialized: if a previous tick's fetch/analysis sequence is
// still outstanding, this tick is skipped. Out-of-order completions
// would otherwise break the buffer ordering and the low-water mark.
func (s *Session) ingestTick(ctx context.Context) {
	s.mu.Lock()
	if !s.active || s.ingestBusy {
		s.mu.Unlock()
		return
	}
	s.ingestBusy = true
	since := s.buf.lastProcessed
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.ingestBusy = false
		s.mu.Unlock()
	}()

	captures, err := s.source.FetchNewFrames(ctx, since)
	if err != nil {
		s.log.Warn(l10n.F("Failed to fetch new frames: %s", err))
		s.setError("fetch new frames: " + err.Error())
		return
	}
	if len(captures) == 0 {
		return
	}

	s.mu.Lock()
	if s.active {
		s.processing = true
	}
	s.mu.Unlock()
	s.notify()

	// The source promises ascending order; sort defensively so a
	// misbehaving backend cannot corrupt the buffer contract.
	sort.Slice(captures, func(i, j int) bool {
		return captures[i].Number < captures[j].Number
	})

	batch := make([]Frame, 0, len(captures))
	maxSeen := since
	analysisErr := ""
	for _, capture := range captures {
		if ctx.Err() != nil {
			return
		}
		if capture.Number <= maxSeen {
			// Duplicate or stale capture, never re-ingested.
			continue
		}
		maxSeen = capture.Number

		analysis, err := s.analyzer.AnalyzeFrame(ctx, capture.Path, capture.Number)
		if err != nil {
			// The frame is dropped from the batch but still advances
			// the low-water mark; it is never retried.
			s.log.Warn(l10n.F("Analysis failed for frame %d: %s", capture.Number, err))
			analysisErr = "analyze frame: " + err.Error()
			continue
		}

		batch = append(batch, Frame{
			Number:    capture.Number,
			Timestamp: capture.Timestamp,
			ImagePath: capture.Path,
			Analysis:  analysis,
			Processed: true,
		})
	}

	s.mu.Lock()
	if !s.active {
		// Stopped while the batch was in flight; discard the results.
		s.mu.Unlock()
		return
	}
	if len(batch) > 0 {
		s.buf.append(batch)
	}
	s.buf.noteProcessed(maxSeen)
	s.processing = false
	s.errMsg = analysisErr
	s.ingestTicks++
	tick := s.ingestTicks
	s.mu.Unlock()

	s.log.Debug("Ingested %d of %d frames, low-water mark %d", len(batch), len(captures), maxSeen)
	s.saveBatchDebug(tick, batch)
	s.notify()
}

// saveBatchDebug dumps an appended batch to the debug sink.
func (s *Session) saveBatchDebug(tick int, batch []Frame) {
	if s.sink == nil || !s.sink.Enabled() || len(batch) == 0 {
		return
	}
	data, err := marshalIndent(batch)
	if err != nil {
		return
	}
	if err := s.sink.SaveBatchJSON(tick, data); err != nil {
		s.log.Debug("Failed to save batch: %s", err)
	}
}

func marshalIndent(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
