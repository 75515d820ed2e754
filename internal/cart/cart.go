// Package cart implements cartridge ROM/external-RAM banking: a ROM-only
// fallback and MBC1/MBC3/MBC5 controllers selected from the ROM header.
package cart

import (
	"os"

	"github.com/pixelclock/dmgmb/internal/state"
)

// Cartridge defines the minimal interface the Motherboard needs for
// ROM/RAM banking and breakpoint bank disambiguation (spec.md §4.1, §4.7).
type Cartridge interface {
	// Read returns a byte for ROM (0x0000–0x7FFF) and external RAM
	// (0xA000–0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000–0x7FFF) and external RAM
	// writes (0xA000–0xBFFF).
	Write(addr uint16, value byte)
	// SelectedROMBank and SelectedRAMBank report the currently banked-in
	// window, used by the Motherboard's breakpoint predicate.
	SelectedROMBank() int
	SelectedRAMBank() int
	// Stop commits external RAM to the save path supplied at
	// construction, if any.
	Stop()
	SaveState(w *state.Writer)
	LoadState(r *state.Reader, version int)
}

// batteryBacked is implemented by MBC types with persistable external RAM.
type batteryBacked interface {
	saveRAM() []byte
	loadRAM(data []byte)
}

// New picks an implementation based on the ROM header and, if savePath is
// non-empty, loads any existing battery RAM image from it.
func New(rom []byte, savePath string) Cartridge {
	h, err := ParseHeader(rom)
	if err != nil {
		return newROMOnly(rom, savePath)
	}

	var c Cartridge
	switch h.CartType {
	case 0x00:
		c = newROMOnly(rom, savePath)
	case 0x01, 0x02, 0x03: // MBC1 variants (RAM, RAM+BAT are transparent here)
		c = newMBC1(rom, h.RAMSizeBytes, savePath)
	case 0x0F, 0x10, 0x11, 0x12, 0x13: // MBC3 variants (RTC not modeled)
		c = newMBC3(rom, h.RAMSizeBytes, savePath)
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E: // MBC5 variants
		c = newMBC5(rom, h.RAMSizeBytes, savePath)
	default:
		// Unknown types fall back to ROM-only so homebrew/test ROMs can
		// still run without external RAM support.
		c = newROMOnly(rom, savePath)
	}

	if savePath != "" {
		if bb, ok := c.(batteryBacked); ok {
			if data, err := os.ReadFile(savePath); err == nil {
				bb.loadRAM(data)
			}
		}
	}
	return c
}

func persistRAM(savePath string, bb batteryBacked) {
	if savePath == "" {
		return
	}
	data := bb.saveRAM()
	if data == nil {
		return
	}
	_ = os.WriteFile(savePath, data, 0o644)
}
