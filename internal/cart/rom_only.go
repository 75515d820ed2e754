package cart

import "github.com/pixelclock/dmgmb/internal/state"

// romOnly implements a cartridge with no MBC and no external RAM.
type romOnly struct {
	rom      []byte
	savePath string
}

func newROMOnly(rom []byte, savePath string) *romOnly {
	return &romOnly{rom: rom, savePath: savePath}
}

func (c *romOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (c *romOnly) Write(addr uint16, value byte) {
	// ROM-only: writes to 0x0000-0x7FFF and 0xA000-0xBFFF are both ignored.
}

func (c *romOnly) SelectedROMBank() int { return 0 }
func (c *romOnly) SelectedRAMBank() int { return 0 }
func (c *romOnly) Stop()                {}

func (c *romOnly) SaveState(w *state.Writer) {}
func (c *romOnly) LoadState(r *state.Reader, version int) {}
