package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelstreet/automai-sub009/pkg/monitor"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.MaxFrames != monitor.DefaultMaxFrames {
		t.Errorf("expected max_frames %d, got %d", monitor.DefaultMaxFrames, cfg.MaxFrames)
	}
	if cfg.IngestIntervalMs != 1000 || cfg.PlaybackIntervalMs != 1000 {
		t.Errorf("expected 1 Hz defaults, got %d/%d", cfg.IngestIntervalMs, cfg.PlaybackIntervalMs)
	}
	if cfg.SubtitleDetector != "ocr" {
		t.Errorf("expected default subtitle detector ocr, got %q", cfg.SubtitleDetector)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
capture_url: http://capture-host:6109
control_url: ws://capture-host:6109/control
host: rack-3
device_id: firetv-01
max_frames: 60
ingest_interval_ms: 500
subtitle_detector: ai
log_level: debug
`
	path := filepath.Join(t.TempDir(), "devmon.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CaptureURL != "http://capture-host:6109" {
		t.Errorf("capture_url not loaded: %q", cfg.CaptureURL)
	}
	if cfg.DeviceID != "firetv-01" {
		t.Errorf("device_id not loaded: %q", cfg.DeviceID)
	}
	if cfg.MaxFrames != 60 {
		t.Errorf("max_frames not loaded: %d", cfg.MaxFrames)
	}
	// Unset fields keep their defaults.
	if cfg.PlaybackIntervalMs != 1000 {
		t.Errorf("expected default playback interval, got %d", cfg.PlaybackIntervalMs)
	}
	if cfg.Listen != ":8091" {
		t.Errorf("expected default listen address, got %q", cfg.Listen)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without capture_url")
	}

	cfg.CaptureURL = "http://h:6109"
	cfg.ControlURL = "ws://h:6109/control"
	cfg.DeviceID = "dev-1"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.SubtitleDetector = "semaphore"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown subtitle detector")
	}
}

func TestToMonitorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.MaxFrames = 30
	cfg.IngestIntervalMs = 250

	mc := cfg.ToMonitorConfig()
	if mc.MaxFrames != 30 {
		t.Errorf("expected MaxFrames 30, got %d", mc.MaxFrames)
	}
	if mc.IngestInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms ingest interval, got %v", mc.IngestInterval)
	}
}

func TestOverlayVariant(t *testing.T) {
	cfg := Defaults()
	if cfg.OverlayVariant() != monitor.OverlayOCR {
		t.Errorf("expected OCR variant, got %v", cfg.OverlayVariant())
	}
	cfg.SubtitleDetector = "ai"
	if cfg.OverlayVariant() != monitor.OverlayAI {
		t.Errorf("expected AI variant, got %v", cfg.OverlayVariant())
	}
}
