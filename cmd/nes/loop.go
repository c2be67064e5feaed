package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/valerio/go-nes/nes"
	"github.com/valerio/go-nes/nes/backend"
	"github.com/valerio/go-nes/nes/input"
	"github.com/valerio/go-nes/nes/input/action"
	"github.com/valerio/go-nes/nes/input/event"
	"github.com/valerio/go-nes/nes/timing"
)

// loop drives the emulator one frame at a time and feeds backend input
// back into it.
type loop struct {
	emu     *nes.NES
	backend backend.Backend
	limiter timing.Limiter
	inputs  *input.Manager
	running atomic.Bool
}

func newLoop(emu *nes.NES, be backend.Backend, limiter timing.Limiter) *loop {
	l := &loop{
		emu:     emu,
		backend: be,
		limiter: limiter,
		inputs:  input.NewManager(emu.Controller(0)),
	}
	l.running.Store(true)

	registered := make(map[action.Action]bool)
	for _, act := range input.DefaultKeyMap {
		if act.IsController() || registered[act] {
			continue
		}
		registered[act] = true
		l.inputs.On(act, event.Press, func() { emu.HandleAction(act, true) })
	}
	l.inputs.On(action.EmulatorQuit, event.Press, l.stop)
	l.inputs.On(action.EmulatorPauseToggle, event.Press, limiter.Reset)

	return l
}

func (l *loop) stop() {
	l.running.Store(false)
}

func (l *loop) run() error {
	for l.running.Load() {
		if err := l.emu.RunUntilFrame(); err != nil {
			return err
		}

		events, err := l.backend.Update(l.emu.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}
		for _, e := range events {
			l.inputs.Trigger(e.Action, e.Type)
		}

		l.limiter.WaitForNextFrame()
	}

	slog.Info("Emulation stopped", "frames", l.emu.GetFrameCount(), "instructions", l.emu.GetInstructionCount())
	return nil
}

// runWithBackend initializes be and runs the emulator on the calling goroutine
// until the backend or the user asks to quit.
func runWithBackend(emu *nes.NES, be backend.Backend, config backend.BackendConfig, limiter timing.Limiter) error {
	l := newLoop(emu, be, limiter)
	if config.Callbacks.OnQuit == nil {
		config.Callbacks.OnQuit = l.stop
	}

	if err := be.Init(config); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	// backends may have replaced the default handler
	emu.SetLogger(slog.Default())
	defer func() {
		if err := be.Cleanup(); err != nil {
			slog.Warn("Backend cleanup failed", "error", err)
		}
	}()

	return l.run()
}
