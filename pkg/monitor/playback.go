package monitor

// playbackTick advances the cursor by one while playing. When the cursor
// already sits on the last frame, the tick flips playback off instead of
// advancing past the tail. No wraparound.
func (s *Session) playbackTick() {
	s.mu.Lock()
	if !s.active || !s.playing {
		s.mu.Unlock()
		return
	}
	n := s.buf.len()
	if n == 0 {
		s.mu.Unlock()
		return
	}
	if s.buf.cursor >= n-1 {
		// Auto-pause at the end of the history.
		s.playing = false
		s.mu.Unlock()
		s.notify()
		return
	}
	s.buf.setCursor(s.buf.cursor + 1)
	s.mu.Unlock()
	s.notify()
}

// TogglePlayback switches playback on or off. Starting playback over an
// empty history is a no-op.
func (s *Session) TogglePlayback() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	if !s.playing && s.buf.len() == 0 {
		s.mu.Unlock()
		return
	}
	s.playing = !s.playing
	s.mu.Unlock()
	s.notify()
}

// GoToFrame moves the cursor to the given index, clamped into the valid
// range, and leaves live-follow mode. Available regardless of playback
// state.
func (s *Session) GoToFrame(index int) {
	s.navigate(func() int { return index }, true)
}

// NextFrame moves the cursor one frame forward.
func (s *Session) NextFrame() {
	s.navigate(func() int { return s.buf.cursor + 1 }, true)
}

// PreviousFrame moves the cursor one frame back.
func (s *Session) PreviousFrame() {
	s.navigate(func() int { return s.buf.cursor - 1 }, true)
}

// GoToFirst moves the cursor to the oldest buffered frame.
func (s *Session) GoToFirst() {
	s.navigate(func() int { return 0 }, true)
}

// GoToLast moves the cursor to the newest buffered frame and re-enters
// live-follow mode, so the cursor tracks the tail again as new frames
// arrive.
func (s *Session) GoToLast() {
	s.navigate(func() int { return s.buf.len() - 1 }, false)
}

// CurrentFrame returns a copy of the frame at the cursor, or nil when
// the history is empty.
func (s *Session) CurrentFrame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.buf.current()
	if !ok {
		return nil
	}
	return &f
}

func (s *Session) navigate(target func() int, userSelected bool) {
	s.mu.Lock()
	if s.buf.len() == 0 {
		s.mu.Unlock()
		return
	}
	s.buf.setCursor(target())
	s.buf.userSelected = userSelected
	s.mu.Unlock()
	s.notify()
}
