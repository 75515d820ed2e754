// Package ram owns the plain byte-array backing stores the Motherboard's
// bus decode falls through to: work RAM, the two "unusable" I/O scratch
// windows, the raw I/O port mirror for registers with no dedicated
// peripheral, and high RAM. None of this memory has any behavior of its
// own; it exists so every address in [0x0000, 0x10000) still resolves to
// a backing store per spec.md §3's invariant.
package ram

import "github.com/pixelclock/dmgmb/internal/state"

const (
	wram0Size   = 0x2000 // 0xC000-0xDFFF
	nonIO0Size  = 0x60   // 0xFEA0-0xFEFF
	ioPortSize  = 0x4C   // 0xFF00-0xFF4B
	nonIO1Size  = 0x34   // 0xFF4C-0xFF7F
	hramSize    = 0x7F   // 0xFF80-0xFFFE
)

// RAM holds the Motherboard's plain memory regions.
type RAM struct {
	wram0  [wram0Size]byte
	nonIO0 [nonIO0Size]byte
	ioPort [ioPortSize]byte
	nonIO1 [nonIO1Size]byte
	hram   [hramSize]byte
}

func New() *RAM { return &RAM{} }

func (r *RAM) ReadWRAM0(offset uint16) byte  { return r.wram0[offset] }
func (r *RAM) WriteWRAM0(offset uint16, v byte) { r.wram0[offset] = v }

func (r *RAM) ReadNonIO0(offset uint16) byte     { return r.nonIO0[offset] }
func (r *RAM) WriteNonIO0(offset uint16, v byte) { r.nonIO0[offset] = v }

func (r *RAM) ReadIOPort(offset uint16) byte     { return r.ioPort[offset] }
func (r *RAM) WriteIOPort(offset uint16, v byte) { r.ioPort[offset] = v }

func (r *RAM) ReadNonIO1(offset uint16) byte     { return r.nonIO1[offset] }
func (r *RAM) WriteNonIO1(offset uint16, v byte) { r.nonIO1[offset] = v }

func (r *RAM) ReadHRAM(offset uint16) byte     { return r.hram[offset] }
func (r *RAM) WriteHRAM(offset uint16, v byte) { r.hram[offset] = v }

func (r *RAM) SaveState(w *state.Writer) {
	w.WriteBytes(r.wram0[:])
	w.WriteBytes(r.nonIO0[:])
	w.WriteBytes(r.ioPort[:])
	w.WriteBytes(r.nonIO1[:])
	w.WriteBytes(r.hram[:])
}

func (r *RAM) LoadState(rd *state.Reader, version int) {
	rd.ReadBytes(r.wram0[:])
	rd.ReadBytes(r.nonIO0[:])
	rd.ReadBytes(r.ioPort[:])
	rd.ReadBytes(r.nonIO1[:])
	rd.ReadBytes(r.hram[:])
}
