// Package emu is the thin host-facing adapter between the UI layer and
// the Motherboard: it turns a per-frame Update call into a fixed cycle
// budget passed to Motherboard.Tick, and exposes the handful of
// byte-stream operations (save/load, framebuffer, audio pull) a frontend
// needs without handing it the whole Motherboard surface.
package emu

import (
	"os"

	"github.com/pixelclock/dmgmb/internal/interaction"
	"github.com/pixelclock/dmgmb/internal/motherboard"
)

// cyclesPerFrame is one DMG frame in the cycle unit every peripheral's
// Tick counts (one dot per cycle): 154 lines of 456 dots.
const cyclesPerFrame = 70224

// Buttons is a snapshot of which of the eight DMG buttons are currently
// held, polled by the UI layer once per Update.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Config carries host-level emulation toggles, separate from
// motherboard.Config's construction-time peripheral settings.
type Config struct {
	Trace    bool // log CPU instructions (unused by the default CPU, reserved for a future tracer)
	LimitFPS bool // throttle StepFrame callers to ~60 Hz; the UI's own ticker does this, not Machine itself
}

// Machine wraps a Motherboard for a host UI: one StepFrame call advances
// exactly one frame's worth of machine cycles, re-entering Tick across
// any breakpoint hits so a frame is never short.
type Machine struct {
	cfg Config
	mb  *motherboard.Motherboard
}

// New constructs the underlying Motherboard from mbCfg.
func New(cfg Config, mbCfg motherboard.Config) (*Machine, error) {
	mb, err := motherboard.New(mbCfg)
	if err != nil {
		return nil, err
	}
	mb.SetBreakpointsEnabled(false) // a host frontend doesn't stop at interrupt vectors
	return &Machine{cfg: cfg, mb: mb}, nil
}

// Motherboard exposes the underlying coordinator for callers (cpurunner-
// style tools, tests) that need the full API surface.
func (m *Machine) Motherboard() *motherboard.Motherboard { return m.mb }

// StepFrame advances the machine by exactly one frame's worth of cycles.
func (m *Machine) StepFrame() {
	budget := cyclesPerFrame
	for budget > 0 {
		remaining := m.mb.Tick(budget)
		if remaining >= budget {
			return
		}
		budget = remaining
	}
}

// Framebuffer returns the current RGBA pixel buffer (160*144*4 bytes).
func (m *Machine) Framebuffer() []byte { return m.mb.Renderer().Framebuffer() }

// SetButtons applies the current held state of all eight buttons. Calling
// this every frame with an unchanged state is harmless: Interaction only
// raises the joypad interrupt on an actual high-to-low transition.
func (m *Machine) SetButtons(b Buttons) {
	m.mb.ButtonEvent(interaction.Right, b.Right)
	m.mb.ButtonEvent(interaction.Left, b.Left)
	m.mb.ButtonEvent(interaction.Up, b.Up)
	m.mb.ButtonEvent(interaction.Down, b.Down)
	m.mb.ButtonEvent(interaction.A, b.A)
	m.mb.ButtonEvent(interaction.B, b.B)
	m.mb.ButtonEvent(interaction.Select, b.Select)
	m.mb.ButtonEvent(interaction.Start, b.Start)
}

// PullStereo drains up to max buffered stereo sample pairs for a host
// audio backend. Returns nil if sound is disabled.
func (m *Machine) PullStereo(max int) []int16 {
	if !m.mb.SoundEnabled() {
		return nil
	}
	return m.mb.Sound().PullStereo(max)
}

// SaveStateToFile and LoadStateFromFile wrap Motherboard.SaveState/
// LoadState with plain file I/O for the UI's save-state slot feature.
func (m *Machine) SaveStateToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.mb.SaveState(f)
}

func (m *Machine) LoadStateFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.mb.LoadState(f)
}

// Stop releases the Motherboard's acquired resources.
func (m *Machine) Stop(save bool) { m.mb.Stop(save) }
