// Package motherboard is the coordinator described by this repository's
// specification: it owns every peripheral, decodes the CPU's 16-bit
// address space onto the correct backing store, drives DMA, sequences
// interrupt delivery, and dispatches breakpoints. Every cross-component
// interaction passes through here; peripherals never reference each
// other, and only the CPU holds its owner, through the narrow cpu.Bus
// interface.
//
// The bus decode is written as a flat cascade of address-range switches
// rather than method dispatch on a per-region interface: the region set
// is closed and fixed by hardware, so a tagged decode is both clearer and
// faster, following this repository's design notes on avoiding abstract
// per-region classes.
package motherboard

import (
	"github.com/pixelclock/dmgmb/internal/bootrom"
	"github.com/pixelclock/dmgmb/internal/cart"
	"github.com/pixelclock/dmgmb/internal/cpu"
	"github.com/pixelclock/dmgmb/internal/interaction"
	"github.com/pixelclock/dmgmb/internal/lcd"
	"github.com/pixelclock/dmgmb/internal/loader"
	"github.com/pixelclock/dmgmb/internal/ram"
	"github.com/pixelclock/dmgmb/internal/renderer"
	"github.com/pixelclock/dmgmb/internal/sound"
	"github.com/pixelclock/dmgmb/internal/timer"
)

// Interrupt flag bits, matching the CPU's IF/IE bit numbering (spec.md §3).
const (
	IntVBlank byte = 1 << 0
	IntLCD    byte = 1 << 1
	IntTimer  byte = 1 << 2
	IntSerial byte = 1 << 3
	IntJoypad byte = 1 << 4
)

// stateVersion is bumped whenever the save/load field order changes. See
// LoadState for the version-gated read rules this implementation honors.
const stateVersion = 6

// Breakpoint is one entry of the breakpoints list: a (bank, pc) pair whose
// match semantics depend on which address window pc currently falls in
// (spec.md §4.1).
type Breakpoint struct {
	Bank int
	PC   uint16
}

// Motherboard owns every peripheral and coordinates the tick loop, bus
// decode, DMA, interrupts, breakpoints, and save/load. It is the single
// root of the emulation state graph: the CPU is handed the Motherboard at
// construction and keeps it only as the narrow cpu.Bus interface.
type Motherboard struct {
	cfg Config

	cpu         *cpu.CPU
	timer       *timer.Timer
	lcd         *lcd.LCD
	renderer    *renderer.Renderer
	sound       *sound.Sound
	soundOn     bool
	cart        cart.Cartridge
	ram         *ram.RAM
	interaction *interaction.Interaction
	bootROM     *bootrom.BootROM

	bootROMEnabled bool

	serialBuf []byte

	breakpointsEnabled bool
	breakpoints        []Breakpoint

	savePath string
}

// New constructs a Motherboard and every peripheral it owns from cfg. The
// cartridge image is read from cfg.GameROMPath; a CartridgeLoadError is
// returned (never panicked) when the game or boot ROM cannot be loaded,
// since a bad ROM path is a normal caller mistake rather than a
// programming error. A header that fails to parse is not an error here:
// cart.New falls back to a ROM-only cartridge.
func New(cfg Config) (*Motherboard, error) {
	rom, err := loader.Load(cfg.GameROMPath)
	if err != nil {
		return nil, &CartridgeLoadError{Path: cfg.GameROMPath, Err: err}
	}

	savePath := loader.SavePath(cfg.GameROMPath)
	c := cart.New(rom, savePath)

	var boot *bootrom.BootROM
	if cfg.BootROMPath != "" {
		bootData, err := loader.Load(cfg.BootROMPath)
		if err != nil {
			return nil, &CartridgeLoadError{Path: cfg.BootROMPath, Err: err}
		}
		boot = bootrom.New(bootData)
	} else {
		boot = bootrom.Default()
	}

	rdr := renderer.New(cfg.ColorPalette)
	rdr.SetDisabled(cfg.DisableRenderer)

	mb := &Motherboard{
		cfg:                cfg,
		timer:              timer.New(),
		lcd:                lcd.New(),
		renderer:           rdr,
		cart:               c,
		ram:                ram.New(),
		interaction:        interaction.New(),
		bootROM:            boot,
		bootROMEnabled:     true,
		breakpointsEnabled: true,
		savePath:           savePath,
	}
	mb.cpu = cpu.New(mb)
	mb.cpu.SetProfiling(cfg.Profiling)

	if cfg.SoundEnabled {
		mb.sound = sound.New(44100)
		mb.soundOn = true
	}

	mb.addDefaultBreakpoints()
	return mb, nil
}

// addDefaultBreakpoints pre-populates the three interrupt service entry
// points, matching the original PyBoy Motherboard's constructor.
func (mb *Motherboard) addDefaultBreakpoints() {
	mb.breakpoints = append(mb.breakpoints,
		Breakpoint{Bank: 0, PC: 0x0040},
		Breakpoint{Bank: 0, PC: 0x0048},
		Breakpoint{Bank: 0, PC: 0x0050},
	)
}

// CPU/LCD/Renderer/Timer/Cartridge expose the owned peripherals for
// read-only host inspection (framebuffer blit, debugger display) without
// breaking the rule that only the Motherboard mutates them.
func (mb *Motherboard) CPU() *cpu.CPU             { return mb.cpu }
func (mb *Motherboard) LCD() *lcd.LCD             { return mb.lcd }
func (mb *Motherboard) Renderer() *renderer.Renderer { return mb.renderer }
func (mb *Motherboard) Timer() *timer.Timer       { return mb.timer }
func (mb *Motherboard) Cartridge() cart.Cartridge { return mb.cart }
func (mb *Motherboard) BootROMEnabled() bool      { return mb.bootROMEnabled }

// Sound returns the owned sound unit, or nil if cfg.SoundEnabled was false
// at construction. Callers must check SoundEnabled first.
func (mb *Motherboard) Sound() *sound.Sound { return mb.sound }
func (mb *Motherboard) SoundEnabled() bool  { return mb.soundOn }

// Tick advances the simulation by up to cyclesBudget machine cycles,
// per spec.md §4.1, and returns the unconsumed remainder: zero or
// negative on a normal exit, positive only when a breakpoint interrupted
// the loop before the budget was exhausted.
func (mb *Motherboard) Tick(cyclesBudget int) int {
	remaining := cyclesBudget
	for remaining > 0 {
		cycles := mb.cpu.Tick()

		if mb.breakpointsEnabled && mb.matchBreakpoint() {
			return remaining
		}

		var elapsed int
		if cycles == cpu.HaltSentinel {
			elapsed = remaining
			if c := mb.timer.CyclesToInterrupt(); c < elapsed {
				elapsed = c
			}
			if c := mb.lcd.CyclesToInterrupt(); c < elapsed {
				elapsed = c
			}
			if elapsed < 0 {
				elapsed = 0
			}
			mb.cpu.AddHaltHits(elapsed / 4)
		} else {
			elapsed = cycles
		}

		if mb.soundOn {
			mb.sound.Tick(elapsed)
		}

		if mb.timer.Tick(elapsed) {
			mb.cpu.RequestInterrupt(IntTimer)
		}

		ifBits := mb.lcd.Tick(elapsed)
		mb.renderer.Tick(mb.lcd, ifBits)
		if ifBits != 0 {
			mb.cpu.RequestInterrupt(translateLCDInterrupts(ifBits))
		}

		remaining -= elapsed
	}

	if mb.soundOn {
		mb.sound.Sync()
	}
	return remaining
}

// translateLCDInterrupts maps the lcd package's own VBlank/STAT bit
// numbering (which happens to share bit positions with the CPU's IF
// register) onto the Motherboard's IntVBlank/IntLCD constants explicitly,
// so the two packages' bit layouts are never silently assumed identical
// at a distance.
func translateLCDInterrupts(mask byte) byte {
	var out byte
	if mask&lcd.IntVBlank != 0 {
		out |= IntVBlank
	}
	if mask&lcd.IntSTAT != 0 {
		out |= IntLCD
	}
	return out
}

// matchBreakpoint evaluates the breakpoint predicate against the CPU's
// current PC, per spec.md §4.1.
func (mb *Motherboard) matchBreakpoint() bool {
	pc := mb.cpu.PC
	for _, bp := range mb.breakpoints {
		if bp.PC != pc {
			continue
		}
		switch {
		case pc < 0x4000:
			if bp.Bank == 0 && !mb.bootROMEnabled {
				return true
			}
			if bp.Bank == -1 && pc < 0x0100 && mb.bootROMEnabled {
				return true
			}
		case pc >= 0x4000 && pc < 0x8000:
			if bp.Bank == mb.cart.SelectedROMBank() {
				return true
			}
		case pc >= 0xA000 && pc < 0xC000:
			if bp.Bank == mb.cart.SelectedRAMBank() {
				return true
			}
		}
	}
	return false
}

// AddBreakpoint appends a (bank, pc) breakpoint.
func (mb *Motherboard) AddBreakpoint(bank int, pc uint16) {
	mb.breakpoints = append(mb.breakpoints, Breakpoint{Bank: bank, PC: pc})
}

// RemoveBreakpoint removes the breakpoint at list position index.
func (mb *Motherboard) RemoveBreakpoint(index int) {
	if index < 0 || index >= len(mb.breakpoints) {
		return
	}
	mb.breakpoints = append(mb.breakpoints[:index], mb.breakpoints[index+1:]...)
}

// SetBreakpointsEnabled toggles breakpoint evaluation without clearing the
// list itself.
func (mb *Motherboard) SetBreakpointsEnabled(on bool) { mb.breakpointsEnabled = on }

// Breakpoints returns a copy of the current breakpoint list.
func (mb *Motherboard) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(mb.breakpoints))
	copy(out, mb.breakpoints)
	return out
}

// DebugRead and DebugWrite are the host-debugger-facing bus operations of
// spec.md §6: unlike Read/Write, which take a hardware-typed uint16 that
// makes an out-of-range address structurally impossible, these accept a
// plain int so a debugger or test harness that computed an address by
// arithmetic can still trip BusViolation/InvalidWrite instead of silently
// wrapping.
func (mb *Motherboard) DebugRead(addr int) byte {
	mb.checkAddr(uint32(addr))
	return mb.Read(uint16(addr))
}

func (mb *Motherboard) DebugWrite(addr int, value int) {
	mb.checkAddr(uint32(addr))
	mb.checkValue(value)
	mb.Write(uint16(addr), byte(value))
}

// GetSerial drains the serial buffer, returning everything written to
// 0xFF01 since construction or the last drain.
func (mb *Motherboard) GetSerial() string {
	s := string(mb.serialBuf)
	mb.serialBuf = mb.serialBuf[:0]
	return s
}

// ButtonEvent forwards a button transition to the interaction component
// and, on a high-to-low edge, raises the joypad interrupt (spec.md §4.6).
func (mb *Motherboard) ButtonEvent(b interaction.Button, pressed bool) {
	if mb.interaction.KeyEvent(b, pressed) {
		mb.cpu.RequestInterrupt(IntJoypad)
	}
}

// Stop releases acquired resources. The sound device, when enabled, is
// always flushed; save=true also commits cartridge battery RAM, while
// save=false discards pending cartridge state (spec.md §5).
func (mb *Motherboard) Stop(save bool) {
	if mb.soundOn {
		mb.sound.Stop()
	}
	if save {
		mb.cart.Stop()
	}
}

// busViolation/invalidWrite panic: both are programmer errors per
// spec.md §7, not conditions a syntactically valid bus access can ever
// trigger, so they are not recovered locally.
func (mb *Motherboard) checkAddr(addr uint32) {
	if addr >= 0x10000 {
		busViolation(addr)
	}
}

func (mb *Motherboard) checkValue(value int) {
	if value < 0 || value > 0xFF {
		invalidWrite(value)
	}
}
