// Package main provides the CLI entry point for devmon.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/angelstreet/automai-sub009/pkg/adapters/filesink"
	"github.com/angelstreet/automai-sub009/pkg/adapters/logger"
	"github.com/angelstreet/automai-sub009/pkg/adapters/nullsink"
	"github.com/angelstreet/automai-sub009/pkg/adapters/osfilesystem"
	"github.com/angelstreet/automai-sub009/pkg/adapters/restbackend"
	"github.com/angelstreet/automai-sub009/pkg/adapters/statefeed"
	"github.com/angelstreet/automai-sub009/pkg/adapters/wscontrol"
	"github.com/angelstreet/automai-sub009/pkg/config"
	"github.com/angelstreet/automai-sub009/pkg/monitor"
	"github.com/angelstreet/automai-sub009/pkg/ports"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "devmon",
		Usage:   "Live frame monitoring for remote test devices.",
		Version: version,
		Commands: []*cli.Command{
			monitorCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func monitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Monitor a device's screen captures and serve the state feed.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file."},
			&cli.StringFlag{Name: "capture-url", Usage: "Capture host base URL (e.g. http://host:6109)."},
			&cli.StringFlag{Name: "control-url", Usage: "Device control WebSocket URL (e.g. ws://host:6109/control)."},
			&cli.StringFlag{Name: "host", Usage: "Capture host name."},
			&cli.StringFlag{Name: "device", Usage: "Device identifier."},
			&cli.StringFlag{Name: "listen", Usage: "State feed listen address."},
			&cli.IntFlag{Name: "max-frames", Usage: "History window size in frames."},
			&cli.StringFlag{Name: "subtitle-detector", Usage: "Subtitle detector variant (ocr or ai)."},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "Enable debug output."},
			&cli.StringFlag{Name: "debug-dir", Usage: "Directory for debug output."},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "Log level (debug, info, warn, error)."},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: "Suppress all log output."},
		},
		Action: runMonitor,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information.",
		Action: func(c *cli.Context) error {
			fmt.Printf("devmon %s\n", version)
			return nil
		},
	}
}

func runMonitor(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	// Create adapters
	fs := osfilesystem.New()
	backend := restbackend.New(cfg.CaptureURL, cfg.Host, cfg.DeviceID, log)

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	control, err := wscontrol.Dial(ctx, cfg.ControlURL, log)
	if err != nil {
		log.Error(l10n.F("Failed to connect to control service: %s", err))
		return err
	}
	defer control.Close()

	detectors := map[monitor.OverlayVariant]ports.SubtitleDetector{
		monitor.OverlayOCR: backend.OCRSubtitles(),
		monitor.OverlayAI:  backend.AISubtitles(),
	}

	session := monitor.NewSession(
		cfg.ToMonitorConfig(),
		backend,
		backend,
		detectors,
		control,
		sink,
		log,
	)

	// State feed
	hub := statefeed.New(log)
	session.SetUpdateFunc(hub.Broadcast)
	hub.SetCommandFunc(commandDispatcher(ctx, session, cfg, log))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handler())
	server := &http.Server{
		Addr:        cfg.Listen,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		log.Info(l10n.F("State feed listening on %s", cfg.Listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("State feed server failed: %s", err)
			cancel()
		}
	}()

	log.Info(l10n.F("Monitoring %s on host %s...", cfg.DeviceID, cfg.Host))
	if err := session.Start(ctx); err != nil {
		log.Error(l10n.F("Failed to start monitoring: %s", err))
		return err
	}

	<-ctx.Done()

	session.Stop()
	session.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
	hub.Close()

	return nil
}

// commandDispatcher maps dashboard commands onto session operations.
// Subtitle detection blocks on the backend, so it runs off the socket's
// read pump.
func commandDispatcher(ctx context.Context, session *monitor.Session, cfg config.Config, log ports.Logger) statefeed.CommandFunc {
	return func(cmd statefeed.Command) {
		switch cmd.Action {
		case "start":
			if err := session.Start(ctx); err != nil {
				log.Warn("Start rejected: %s", err)
			}
		case "stop":
			session.Stop()
		case "toggle_playback":
			session.TogglePlayback()
		case "goto_frame":
			session.GoToFrame(cmd.Index)
		case "next_frame":
			session.NextFrame()
		case "previous_frame":
			session.PreviousFrame()
		case "goto_first":
			session.GoToFirst()
		case "goto_last":
			session.GoToLast()
		case "detect_subtitles":
			variant := cfg.OverlayVariant()
			if cmd.Variant != "" {
				variant = monitor.OverlayVariant(cmd.Variant)
			}
			go func() {
				if err := session.DetectSubtitles(ctx, variant); err != nil {
					log.Warn("Subtitle detection rejected: %s", err)
				}
			}()
		default:
			log.Debug("Unknown dashboard command %q", cmd.Action)
		}
	}
}

// buildConfig loads the config file (if given) and applies CLI overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if v := c.String("capture-url"); v != "" {
		cfg.CaptureURL = v
	}
	if v := c.String("control-url"); v != "" {
		cfg.ControlURL = v
	}
	if v := c.String("host"); v != "" {
		cfg.Host = v
	}
	if v := c.String("device"); v != "" {
		cfg.DeviceID = v
	}
	if v := c.String("listen"); v != "" {
		cfg.Listen = v
	}
	if v := c.Int("max-frames"); v > 0 {
		cfg.MaxFrames = v
	}
	if v := c.String("subtitle-detector"); v != "" {
		cfg.SubtitleDetector = v
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if v := c.String("debug-dir"); v != "" {
		cfg.DebugDir = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
