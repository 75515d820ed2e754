// Package ui is the windowed ebiten frontend: it owns the game window, the
// keyboard-to-Buttons mapping, save-state slots, and audio playback, and
// drives the underlying Machine one frame per Update call.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pixelclock/dmgmb/internal/emu"
)

const (
	screenWidth  = 160
	screenHeight = 144
)

// App implements ebiten.Game, wrapping a Machine with window chrome, input,
// save-state slots, and audio playback.
type App struct {
	cfg Config
	m   *emu.Machine

	img *ebiten.Image

	paused bool
	fast   bool
	turbo  int

	audioCtx    *audio.Context
	audioPlayer *audio.Player
	audioSrc    *apuStream
	audioMuted  bool

	currentSlot int
	toastMsg    string
	toastUntil  time.Time

	romPath string
}

// NewApp constructs an App around an already-running Machine. romPath is
// used only to derive default save-state slot filenames.
func NewApp(cfg Config, m *emu.Machine, romPath string) *App {
	cfg.Defaults()
	a := &App{
		cfg:     cfg,
		m:       m,
		img:     ebiten.NewImage(screenWidth, screenHeight),
		turbo:   1,
		romPath: romPath,
	}
	ebiten.SetWindowSize(screenWidth*cfg.Scale, screenHeight*cfg.Scale)
	ebiten.SetWindowTitle(cfg.Title)
	return a
}

// Run starts the ebiten main loop, blocking until the window is closed.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if a.cfg.AudioEnabled && a.audioPlayer == nil {
		a.initAudio()
	}

	a.pollInput()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	for slot := 0; slot < 9; slot++ {
		key := ebiten.Key0 + ebiten.Key(slot)
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
			a.saveSlot(slot)
		} else {
			a.currentSlot = slot
			a.toast(fmt.Sprintf("Slot %d selected", slot))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveSlot(a.currentSlot)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.loadSlot(a.currentSlot)
	}

	if a.paused {
		return nil
	}

	steps := a.turbo
	if a.fast {
		steps *= 4
	}
	for i := 0; i < steps; i++ {
		a.m.StepFrame()
	}
	return nil
}

func (a *App) pollInput() {
	var btn emu.Buttons
	btn.Right = ebiten.IsKeyPressed(ebiten.KeyRight)
	btn.Left = ebiten.IsKeyPressed(ebiten.KeyLeft)
	btn.Up = ebiten.IsKeyPressed(ebiten.KeyUp)
	btn.Down = ebiten.IsKeyPressed(ebiten.KeyDown)
	btn.A = ebiten.IsKeyPressed(ebiten.KeyZ)
	btn.B = ebiten.IsKeyPressed(ebiten.KeyX)
	btn.Start = ebiten.IsKeyPressed(ebiten.KeyEnter)
	btn.Select = ebiten.IsKeyPressed(ebiten.KeyBackspace)
	a.m.SetButtons(btn)
}

func (a *App) initAudio() {
	a.audioCtx = audio.NewContext(48000)
	a.audioMuted = false
	a.audioSrc = &apuStream{m: a.m, muted: &a.audioMuted}
	p, err := a.audioCtx.NewPlayer(a.audioSrc)
	if err != nil {
		return
	}
	a.audioPlayer = p
	a.audioPlayer.SetBufferSize(50 * time.Millisecond)
	a.audioPlayer.Play()
}

func (a *App) Draw(screen *ebiten.Image) {
	a.img.WritePixels(a.m.Framebuffer())
	op := &ebiten.DrawImageOptions{}
	scale := float64(a.cfg.Scale)
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(a.img, op)

	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebiten.SetWindowTitle(a.cfg.Title + " - " + a.toastMsg)
	} else {
		a.toastMsg = ""
		ebiten.SetWindowTitle(a.cfg.Title)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) slotPath(slot int) string {
	dir := a.cfg.SaveDir
	if dir == "" {
		dir = filepath.Dir(a.romPath)
	}
	base := strings.TrimSuffix(filepath.Base(a.romPath), filepath.Ext(a.romPath))
	return filepath.Join(dir, fmt.Sprintf("%s.slot%d.state", base, slot))
}

func (a *App) saveSlot(slot int) {
	if err := a.m.SaveStateToFile(a.slotPath(slot)); err != nil {
		a.toast(fmt.Sprintf("save failed: %v", err))
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", slot))
}

func (a *App) loadSlot(slot int) {
	if err := a.m.LoadStateFromFile(a.slotPath(slot)); err != nil {
		a.toast(fmt.Sprintf("load failed: %v", err))
		return
	}
	a.toast(fmt.Sprintf("Loaded slot %d", slot))
}
