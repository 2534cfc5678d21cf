package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// ErrControlNotActive is returned by Start when the operator does not
// hold device control.
var ErrControlNotActive = errors.New("device control is not active")

// Config contains the tunables of a monitoring session.
type Config struct {
	// MaxFrames bounds the in-memory frame history.
	MaxFrames int

	// IngestInterval is the polling period of the ingestion scheduler.
	IngestInterval time.Duration

	// PlaybackInterval is the cursor advance period while playing.
	PlaybackInterval time.Duration
}

// DefaultConfig returns a Config with default values: a 180-frame window
// with both timers at 1 Hz.
func DefaultConfig() Config {
	return Config{
		MaxFrames:        DefaultMaxFrames,
		IngestInterval:   time.Second,
		PlaybackInterval: time.Second,
	}
}

// UpdateFunc receives a state snapshot after every session transition.
type UpdateFunc func(MonitoringState)

// Session owns the monitoring state for one device. All three actors
// (ingestion, playback, subtitle overlay) funnel their mutations through
// the session mutex, so exactly one transition is applied at a time and
// readers never observe partial updates.
type Session struct {
	id  string
	cfg Config

	source    ports.FrameSource
	analyzer  ports.FrameAnalyzer
	detectors map[OverlayVariant]ports.SubtitleDetector
	control   ports.ControlSignal
	sink      ports.DebugSink
	log       ports.Logger

	onUpdate UpdateFunc

	mu         sync.Mutex
	buf        *frameBuffer
	active     bool
	playing    bool
	processing bool
	errMsg     string
	overlayErr *OverlayError
	startedAt  time.Time
	cancel     context.CancelFunc

	// ingestBusy serializes ingestion ticks: a tick that finds a previous
	// fetch/analysis sequence still outstanding is skipped, never queued.
	ingestBusy bool

	// overlayBusy guards one in-flight overlay request per variant.
	overlayBusy map[OverlayVariant]bool

	ingestTicks int

	wg sync.WaitGroup
}

// NewSession creates a session for one monitored device. The sink may be
// a nullsink when debug output is disabled.
func NewSession(
	cfg Config,
	source ports.FrameSource,
	analyzer ports.FrameAnalyzer,
	detectors map[OverlayVariant]ports.SubtitleDetector,
	control ports.ControlSignal,
	sink ports.DebugSink,
	log ports.Logger,
) *Session {
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = DefaultMaxFrames
	}
	if cfg.IngestInterval <= 0 {
		cfg.IngestInterval = time.Second
	}
	if cfg.PlaybackInterval <= 0 {
		cfg.PlaybackInterval = time.Second
	}
	return &Session{
		id:          uuid.NewString(),
		cfg:         cfg,
		source:      source,
		analyzer:    analyzer,
		detectors:   detectors,
		control:     control,
		sink:        sink,
		log:         log.WithComponent("monitor"),
		buf:         newFrameBuffer(cfg.MaxFrames),
		overlayBusy: make(map[OverlayVariant]bool),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SetUpdateFunc registers a callback invoked with a snapshot after every
// state transition. Must be called before Start.
func (s *Session) SetUpdateFunc(f UpdateFunc) {
	s.onUpdate = f
}

// Start activates monitoring. It requires the control signal to be
// asserted; otherwise it records an error, leaves the session inactive
// and starts no timers. Starting an already active session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	if !s.control.Active() {
		s.errMsg = ErrControlNotActive.Error()
		s.mu.Unlock()
		s.notify()
		return ErrControlNotActive
	}

	// Fresh state for the new session window.
	s.buf = newFrameBuffer(s.cfg.MaxFrames)
	s.errMsg = ""
	s.overlayErr = nil
	s.playing = false
	s.processing = false
	s.ingestBusy = false
	s.ingestTicks = 0
	s.startedAt = time.Now()
	s.active = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.log.Info(l10n.F("Monitoring session %s started", s.id))

	s.wg.Add(3)
	go s.ingestLoop(runCtx)
	go s.playbackLoop(runCtx)
	go s.watchControl(runCtx)

	s.notify()
	return nil
}

// Stop deactivates monitoring and cancels both timers. It is idempotent
// and never blocks on in-flight requests: a fetch or analysis that
// completes after Stop finds the session inactive and its result is
// discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.playing = false
	s.processing = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.log.Info(l10n.F("Monitoring session %s stopped", s.id))
	s.saveStateDebug()
	s.notify()
}

// Wait blocks until the timer goroutines of the last run have exited.
// Intended for orderly shutdown, not required for correctness.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Active reports whether the session is currently monitoring.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Snapshot returns a copy of the monitoring state. The copy is detached:
// mutating it does not affect the session.
func (s *Session) Snapshot() MonitoringState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() MonitoringState {
	var overlayErr *OverlayError
	if s.overlayErr != nil {
		e := *s.overlayErr
		overlayErr = &e
	}
	return MonitoringState{
		SessionID:          s.id,
		IsActive:           s.active,
		IsPlaying:          s.playing,
		IsProcessing:       s.processing,
		Frames:             s.buf.snapshot(),
		CurrentFrameIndex:  s.buf.cursor,
		TotalFrames:        s.buf.len(),
		MaxFrames:          s.cfg.MaxFrames,
		LastProcessedFrame: s.buf.lastProcessed,
		Error:              s.errMsg,
		OverlayError:       overlayErr,
		StartedAt:          s.startedAt,
	}
}

// notify pushes a snapshot to the registered update callback, if any.
func (s *Session) notify() {
	if s.onUpdate != nil {
		s.onUpdate(s.Snapshot())
	}
}

// ingestLoop drives the ingestion scheduler. Ticks run synchronously in
// this goroutine, so a slow fetch/analysis sequence drops ticker fires
// instead of overlapping them.
func (s *Session) ingestLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.IngestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ingestTick(ctx)
		}
	}
}

// playbackLoop drives the playback cursor while playing.
func (s *Session) playbackLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.PlaybackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.playbackTick()
		}
	}
}

// watchControl stops the session as soon as the external control signal
// deasserts. A closed watch channel means the control connection is gone
// and is treated the same way.
func (s *Session) watchControl(ctx context.Context) {
	defer s.wg.Done()
	ch := s.control.Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case active, ok := <-ch:
			if !ok || !active {
				s.log.Warn(l10n.T("Device control lost, stopping monitoring"))
				s.Stop()
				return
			}
		}
	}
}

// setError records a transient error on the state. The loops keep
// running; the next tick retries independently.
func (s *Session) setError(msg string) {
	s.mu.Lock()
	if s.active {
		s.errMsg = msg
		s.processing = false
	}
	s.mu.Unlock()
	s.notify()
}

// saveStateDebug dumps a state snapshot to the debug sink.
func (s *Session) saveStateDebug() {
	if s.sink == nil || !s.sink.Enabled() {
		return
	}
	data, err := marshalIndent(s.Snapshot())
	if err != nil {
		return
	}
	if err := s.sink.SaveStateJSON(data); err != nil {
		s.log.Debug("Failed to save state snapshot: %s", err)
	}
}
