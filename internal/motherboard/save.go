package motherboard

import (
	"io"

	"github.com/pixelclock/dmgmb/internal/sound"
	"github.com/pixelclock/dmgmb/internal/state"
)

// SaveState writes the aggregate machine state to w in the fixed order
// spec.md §4.5 specifies: version, boot-ROM flag, CPU, LCD, [Sound if
// enabled], Renderer, RAM, Timer, Cartridge. This order is an on-disk
// contract; changing it requires bumping stateVersion and adding a new
// version-gated branch to LoadState, never reordering in place.
func (mb *Motherboard) SaveState(w io.Writer) error {
	sw := state.NewWriter(w)
	sw.WriteByte(stateVersion)
	sw.WriteBool(mb.bootROMEnabled)
	mb.cpu.SaveState(sw)
	mb.lcd.SaveState(sw)
	if mb.soundOn {
		mb.sound.SaveState(sw)
	}
	mb.renderer.SaveState(sw)
	mb.ram.SaveState(sw)
	mb.timer.SaveState(sw)
	mb.cart.SaveState(sw)
	return sw.Err()
}

// LoadState reads back a stream written by SaveState, honoring the
// version-gated field layout of spec.md §4.5:
//
//   - v < 2: the first byte is not a version marker, it IS the boot-ROM
//     flag; version is treated as 0 (no timer/sound/renderer blocks,
//     IE lived in RAM).
//   - v >= 2: a real version field precedes the boot-ROM flag.
//   - v < 5: after RAM, a single byte holds the CPU's IE register
//     (it used to be stored inside RAM).
//   - v >= 5: a timer block follows LCD/sound/RAM instead.
//   - v >= 6: a sound block sits between LCD and Renderer only when sound
//     was enabled at save time; the stream carries no marker for it, so
//     it is read only when this Motherboard has sound enabled.
//   - v >= 2: a renderer block is present.
//
// The version number is the sole switch for load-side branching, per this
// repository's save-state design notes — never "feature present" flags.
// After loading, the renderer's cache is forced dirty and a full frame is
// recomposited, since the restored LCD state carries no memory of what
// the renderer had cached before the save.
func (mb *Motherboard) LoadState(r io.Reader) error {
	sr := state.NewReader(r)

	firstByte := sr.ReadByte()
	var version int
	var bootEnabled bool
	if firstByte <= 1 {
		// v < 2: firstByte IS the boot-ROM flag, not a version marker.
		version = 0
		bootEnabled = firstByte != 0
	} else {
		version = int(firstByte)
		if version > stateVersion {
			return &StateVersionMismatch{Got: version}
		}
		bootEnabled = sr.ReadBool()
	}

	mb.cpu.LoadState(sr, version)
	mb.lcd.LoadState(sr, version)

	if version >= 6 && mb.soundOn {
		mb.sound.LoadState(sr, version)
	}

	if version >= 2 {
		mb.renderer.LoadState(sr, version)
	}

	mb.ram.LoadState(sr, version)

	if version < 5 {
		ie := sr.ReadByte()
		mb.cpu.WriteIE(ie)
	} else {
		mb.timer.LoadState(sr, version)
	}

	mb.cart.LoadState(sr, version)

	if err := sr.Err(); err != nil {
		return err
	}

	mb.bootROMEnabled = bootEnabled
	mb.renderer.ForceRedraw(mb.lcd)
	return nil
}

// discardSound reads and throws away one sound block. A scratch Sound
// instance owns the field layout so there is no second hand-maintained
// field list. LoadState does not call it.
func discardSound(r *state.Reader, version int) {
	sound.New(44100).LoadState(r, version)
}
