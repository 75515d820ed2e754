// Package lcd owns VRAM, OAM, and the LCDC/STAT/LY timing state machine.
// It has no notion of pixels or palettes beyond the raw register bytes;
// turning that state into a framebuffer is the renderer package's job.
package lcd

import "github.com/pixelclock/dmgmb/internal/state"

// Interrupt bits returned by Tick, matching the IF register's own bit
// numbering so callers can OR the result straight into the CPU's IF.
const (
	IntVBlank byte = 1 << 0
	IntSTAT   byte = 1 << 1
)

// Mode values occupy STAT bits 0-1.
const (
	ModeHBlank byte = 0
	ModeVBlank byte = 1
	ModeOAM    byte = 2
	ModeDraw   byte = 3
)

const dotsPerLine = 456

// LCD models the DMG LCD controller registers and VRAM/OAM backing store.
type LCD struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte
	stat byte
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  byte
	obp0 byte
	obp1 byte
	wy   byte
	wx   byte

	dot int
}

func New() *LCD { return &LCD{} }

func (l *LCD) enabled() bool { return l.lcdc&0x80 != 0 }

func (l *LCD) Read(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if l.stat&0x03 == ModeDraw {
			return 0xFF
		}
		return l.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := l.stat & 0x03
		if m == ModeOAM || m == ModeDraw {
			return 0xFF
		}
		return l.oam[addr-0xFE00]
	case addr == 0xFF40:
		return l.lcdc
	case addr == 0xFF41:
		return 0x80 | (l.stat & 0x7F)
	case addr == 0xFF42:
		return l.scy
	case addr == 0xFF43:
		return l.scx
	case addr == 0xFF44:
		return l.ly
	case addr == 0xFF45:
		return l.lyc
	case addr == 0xFF47:
		return l.bgp
	case addr == 0xFF48:
		return l.obp0
	case addr == 0xFF49:
		return l.obp1
	case addr == 0xFF4A:
		return l.wy
	case addr == 0xFF4B:
		return l.wx
	default:
		return 0xFF
	}
}

// Write applies a CPU-facing write. The returned bool reports whether a
// palette register changed, so the renderer can invalidate its tile cache.
func (l *LCD) Write(addr uint16, value byte) (paletteChanged bool) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if l.stat&0x03 == ModeDraw {
			return false
		}
		l.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := l.stat & 0x03
		if m == ModeOAM || m == ModeDraw {
			return false
		}
		l.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := l.lcdc
		l.lcdc = value
		if l.lcdc&0x80 == 0 && prev&0x80 != 0 {
			l.ly, l.dot = 0, 0
			l.setMode(ModeHBlank)
			l.updateLYC()
		} else if l.lcdc&0x80 != 0 && prev&0x80 == 0 {
			l.ly, l.dot = 0, 0
			l.setMode(ModeOAM)
			l.updateLYC()
		}
	case addr == 0xFF41:
		l.stat = (l.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		l.scy = value
	case addr == 0xFF43:
		l.scx = value
	case addr == 0xFF44:
		l.ly, l.dot = 0, 0
		l.updateLYC()
		if l.enabled() {
			l.setMode(ModeOAM)
		}
	case addr == 0xFF45:
		l.lyc = value
		l.updateLYC()
	case addr == 0xFF47:
		if l.bgp != value {
			paletteChanged = true
		}
		l.bgp = value
	case addr == 0xFF48:
		if l.obp0 != value {
			paletteChanged = true
		}
		l.obp0 = value
	case addr == 0xFF49:
		if l.obp1 != value {
			paletteChanged = true
		}
		l.obp1 = value
	case addr == 0xFF4A:
		l.wy = value
	case addr == 0xFF4B:
		l.wx = value
	}
	return paletteChanged
}

// Tick advances the LCD by cycles dots and returns any IF bits that became
// pending (VBlank and/or STAT).
func (l *LCD) Tick(cycles int) byte {
	var pending byte
	for i := 0; i < cycles; i++ {
		if !l.enabled() {
			continue
		}
		l.dot++

		var mode byte
		if l.ly >= 144 {
			mode = ModeVBlank
		} else {
			switch {
			case l.dot < 80:
				mode = ModeOAM
			case l.dot < 80+172:
				mode = ModeDraw
			default:
				mode = ModeHBlank
			}
		}
		pending |= l.setMode(mode)

		if l.dot >= dotsPerLine {
			l.dot = 0
			l.ly++
			if l.ly == 144 {
				pending |= IntVBlank
				if l.stat&(1<<4) != 0 {
					pending |= IntSTAT
				}
			} else if l.ly > 153 {
				l.ly = 0
			}
			pending |= l.updateLYC()
			if l.ly >= 144 {
				pending |= l.setMode(ModeVBlank)
			} else {
				pending |= l.setMode(ModeOAM)
			}
		}
	}
	return pending
}

// CyclesToInterrupt reports how many dots remain until the next STAT/VBlank
// event (mode change, LYC match, or VBlank entry), or a very large number
// if the LCD is disabled. The Motherboard uses this to size a HALT
// fast-forward.
func (l *LCD) CyclesToInterrupt() int {
	if !l.enabled() {
		return 1 << 20
	}
	var target int
	switch {
	case l.ly >= 144:
		target = dotsPerLine
	case l.dot < 80:
		target = 80
	case l.dot < 80+172:
		target = 80 + 172
	default:
		target = dotsPerLine
	}
	remaining := target - l.dot
	if remaining <= 0 {
		remaining = 1
	}
	return remaining
}

func (l *LCD) setMode(mode byte) byte {
	prev := l.stat & 0x03
	if prev == mode {
		return 0
	}
	l.stat = (l.stat &^ 0x03) | (mode & 0x03)
	switch mode {
	case ModeHBlank:
		if l.stat&(1<<3) != 0 {
			return IntSTAT
		}
	case ModeOAM:
		if l.stat&(1<<5) != 0 {
			return IntSTAT
		}
	}
	return 0
}

func (l *LCD) updateLYC() byte {
	if l.ly == l.lyc {
		l.stat |= 1 << 2
		if l.stat&(1<<6) != 0 {
			return IntSTAT
		}
	} else {
		l.stat &^= 1 << 2
	}
	return 0
}

// SetOAM writes byte i of OAM directly, bypassing the STAT-mode read/write
// gating that governs ordinary CPU bus access. DMA is the only caller:
// hardware DMA populates OAM unconditionally regardless of what mode the
// PPU happens to be in when the transfer runs.
func (l *LCD) SetOAM(i int, v byte) { l.oam[i] = v }

// Accessors used by the renderer package.
func (l *LCD) VRAM(addr uint16) byte { return l.vram[addr&0x1FFF] }
func (l *LCD) OAM(idx int) byte      { return l.oam[idx] }
func (l *LCD) BGP() byte             { return l.bgp }
func (l *LCD) OBP0() byte            { return l.obp0 }
func (l *LCD) OBP1() byte            { return l.obp1 }
func (l *LCD) LCDC() byte            { return l.lcdc }
func (l *LCD) SCY() byte             { return l.scy }
func (l *LCD) SCX() byte             { return l.scx }
func (l *LCD) WY() byte              { return l.wy }
func (l *LCD) WX() byte              { return l.wx }
func (l *LCD) LY() byte              { return l.ly }

func (l *LCD) SaveState(w *state.Writer) {
	w.WriteBytes(l.vram[:])
	w.WriteBytes(l.oam[:])
	w.WriteByte(l.lcdc)
	w.WriteByte(l.stat)
	w.WriteByte(l.scy)
	w.WriteByte(l.scx)
	w.WriteByte(l.ly)
	w.WriteByte(l.lyc)
	w.WriteByte(l.bgp)
	w.WriteByte(l.obp0)
	w.WriteByte(l.obp1)
	w.WriteByte(l.wy)
	w.WriteByte(l.wx)
	w.WriteUint32(uint32(l.dot))
}

func (l *LCD) LoadState(r *state.Reader, version int) {
	r.ReadBytes(l.vram[:])
	r.ReadBytes(l.oam[:])
	l.lcdc = r.ReadByte()
	l.stat = r.ReadByte()
	l.scy = r.ReadByte()
	l.scx = r.ReadByte()
	l.ly = r.ReadByte()
	l.lyc = r.ReadByte()
	l.bgp = r.ReadByte()
	l.obp0 = r.ReadByte()
	l.obp1 = r.ReadByte()
	l.wy = r.ReadByte()
	l.wx = r.ReadByte()
	l.dot = int(r.ReadUint32())
}
