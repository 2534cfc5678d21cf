// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/angelstreet/automai-sub009/pkg/monitor"
)

// Config represents the full configuration for the monitoring daemon.
type Config struct {
	// Capture backend
	CaptureURL string `yaml:"capture_url"`
	ControlURL string `yaml:"control_url"`
	Host       string `yaml:"host"`
	DeviceID   string `yaml:"device_id"`

	// Monitoring
	MaxFrames          int    `yaml:"max_frames"`
	IngestIntervalMs   int    `yaml:"ingest_interval_ms"`
	PlaybackIntervalMs int    `yaml:"playback_interval_ms"`
	SubtitleDetector   string `yaml:"subtitle_detector"` // "ocr" or "ai"

	// State feed
	Listen string `yaml:"listen"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		MaxFrames:          monitor.DefaultMaxFrames,
		IngestIntervalMs:   1000,
		PlaybackIntervalMs: 1000,
		SubtitleDetector:   "ocr",
		Listen:             ":8091",
		LogLevel:           "info",
		DebugDir:           "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that the required fields are set and the enumerations
// hold known values.
func (c Config) Validate() error {
	if c.CaptureURL == "" {
		return fmt.Errorf("capture_url is required")
	}
	if c.ControlURL == "" {
		return fmt.Errorf("control_url is required")
	}
	if c.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}
	if c.SubtitleDetector != "ocr" && c.SubtitleDetector != "ai" {
		return fmt.Errorf("subtitle_detector must be %q or %q, got %q", "ocr", "ai", c.SubtitleDetector)
	}
	return nil
}

// ToMonitorConfig converts Config to monitor.Config.
func (c Config) ToMonitorConfig() monitor.Config {
	return monitor.Config{
		MaxFrames:        c.MaxFrames,
		IngestInterval:   time.Duration(c.IngestIntervalMs) * time.Millisecond,
		PlaybackInterval: time.Duration(c.PlaybackIntervalMs) * time.Millisecond,
	}
}

// OverlayVariant returns the configured subtitle detector variant.
func (c Config) OverlayVariant() monitor.OverlayVariant {
	if c.SubtitleDetector == "ai" {
		return monitor.OverlayAI
	}
	return monitor.OverlayOCR
}
