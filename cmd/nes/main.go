package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/urfave/cli"

	"github.com/valerio/go-nes/nes"
	"github.com/valerio/go-nes/nes/apu"
	"github.com/valerio/go-nes/nes/backend"
	"github.com/valerio/go-nes/nes/backend/headless"
	"github.com/valerio/go-nes/nes/backend/sdl2"
	"github.com/valerio/go-nes/nes/backend/terminal"
	"github.com/valerio/go-nes/nes/backend/window"
	"github.com/valerio/go-nes/nes/debug"
	"github.com/valerio/go-nes/nes/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "go-nes"
	app.Description = "A cycle-stepped NES emulator"
	app.Usage = "nes [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the iNES ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Frontend to use: terminal, window or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Pixel scale for window backends",
			Value: 3,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: adaptive, ticker or none",
			Value: timing.KindAdaptive,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show debug panels on start",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "snapshot-scale",
			Usage: "Upscaling factor for PNG snapshots",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "record-wav",
			Usage: "Record the APU output to a WAV file",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction at debug level",
		},
		cli.StringFlag{
			Name:  "profile",
			Usage: "Write a cpu or mem profile to the working directory",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Minimum log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	if c.Bool("trace") {
		level = slog.LevelDebug
	}

	headlessMode := c.Bool("headless")
	if headlessMode {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	} else {
		slog.SetLogLoggerLevel(level)
	}

	if stop, err := startProfile(c.String("profile")); err != nil {
		return err
	} else if stop != nil {
		defer stop()
	}

	opts := []nes.Option{nes.WithTrace(c.Bool("trace"))}

	var recorder *debug.WAVRecorder
	if path := c.String("record-wav"); path != "" {
		recorder, err = debug.NewWAVRecorder(path, apu.DefaultSampleRate)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				slog.Error("Failed to finalize WAV recording", "error", err)
				return
			}
			slog.Info("WAV recording saved", "path", path, "samples", recorder.Samples())
		}()
		opts = append(opts, nes.WithAudioSink(recorder))
	}

	emu, err := nes.NewWithFile(romPath, opts...)
	if err != nil {
		return err
	}

	config := backend.BackendConfig{
		Title:         "go-nes",
		Scale:         c.Int("scale"),
		ShowDebug:     c.Bool("debug"),
		DebugProvider: emu,
		SampleRate:    emu.APU().SampleRate(),
		LogLevel:      level,
	}
	if recorder == nil {
		config.AudioProvider = emu.APU()
	}

	if headlessMode {
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath, c.Int("snapshot-scale"))
		if err != nil {
			return err
		}
		return runWithBackend(emu, headless.New(c.Int("frames"), snapshots), config, timing.NewNoOpLimiter())
	}

	limiter, err := timing.NewLimiter(c.String("limiter"))
	if err != nil {
		return err
	}
	if stopper, ok := limiter.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	switch strings.ToLower(c.String("backend")) {
	case "terminal":
		return runWithBackend(emu, terminal.New(), config, limiter)
	case "sdl2":
		return runWithBackend(emu, sdl2.New(), config, limiter)
	case "window":
		return runWindow(emu, config, limiter)
	default:
		return fmt.Errorf("unknown backend %q", c.String("backend"))
	}
}

// runWindow keeps the ebiten loop on the main goroutine and emulates on
// another one.
func runWindow(emu *nes.NES, config backend.BackendConfig, limiter timing.Limiter) error {
	w := window.New()
	loop := newLoop(emu, w, limiter)
	config.Callbacks.OnQuit = loop.stop

	if err := w.Init(config); err != nil {
		return fmt.Errorf("failed to initialize window backend: %w", err)
	}
	defer w.Cleanup()
	emu.SetLogger(slog.Default())

	errc := make(chan error, 1)
	go func() { errc <- loop.run() }()

	if err := w.Run(); err != nil {
		loop.stop()
		<-errc
		return err
	}
	return <-errc
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func startProfile(kind string) (func(), error) {
	var mode func(*profile.Profile)
	switch kind {
	case "":
		return nil, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile kind %q", kind)
	}

	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	return p.Stop, nil
}
