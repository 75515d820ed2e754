package motherboard

import "github.com/pixelclock/dmgmb/internal/renderer"

// Config is the construction-time record for a Motherboard, following the
// teacher's emu.Config/ui.Config pattern of a flat settings struct with
// zero values that are sensible defaults.
type Config struct {
	GameROMPath string // required: path to a cartridge image
	BootROMPath string // optional: when empty, boot ROM defaults to a built-in stub

	ColorPalette renderer.Palette // applied to the renderer; zero value means DefaultPalette

	DisableRenderer bool // renderer still updates its cache, but produces no pixel output
	SoundEnabled    bool
	Profiling       bool // enables per-opcode hit counting
}
