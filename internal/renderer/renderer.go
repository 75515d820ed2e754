// Package renderer turns the lcd package's raw VRAM/OAM/register state into
// an RGBA framebuffer. It is deliberately separate from lcd: lcd owns
// timing and the bytes CPU reads/writes see, renderer owns the pixel
// pipeline a host UI actually draws.
package renderer

import (
	"github.com/pixelclock/dmgmb/internal/lcd"
	"github.com/pixelclock/dmgmb/internal/state"
)

const (
	Width  = 160
	Height = 144
)

// Palette maps a DMG 2-bit shade to an RGBA color. Index 0 is the
// lightest shade, 3 the darkest.
type Palette [4][4]byte

// DefaultPalette approximates the classic DMG green-gray screen.
var DefaultPalette = Palette{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// Renderer owns the composited framebuffer and tile/palette change flags.
// RenderScreen recomposites the whole frame every time; it does not read
// the change flags to skip work.
type Renderer struct {
	palette Palette
	fb      [Width * Height * 4]byte

	tilesChanged bool
	clearcache   bool
	disabled     bool
}

func New(p Palette) *Renderer {
	if p == (Palette{}) {
		p = DefaultPalette
	}
	return &Renderer{palette: p, tilesChanged: true}
}

// SetDisabled honors the disable_renderer config knob: when true, Tick and
// RenderScreen become no-ops and the framebuffer stays at its last state.
func (r *Renderer) SetDisabled(v bool) { r.disabled = v }

// NotifyVRAMWrite marks the tile cache dirty; the Motherboard's bus decode
// calls this for every write to tile data (0x8000-0x97FF).
func (r *Renderer) NotifyVRAMWrite() { r.tilesChanged = true }

// NotifyPaletteChange marks the whole-screen cache dirty; the Motherboard
// calls this when the LCD reports a palette register actually changed.
func (r *Renderer) NotifyPaletteChange() { r.clearcache = true }

// CacheDirty reports whether the whole-screen cache has been marked dirty
// by a palette change or by rendering with the LCD off. RenderScreen
// always does a full redraw either way.
func (r *Renderer) CacheDirty() bool { return r.clearcache }

// Tick observes the IF bits the LCD produced this step. On VBlank entry it
// composites the full frame into the framebuffer.
func (r *Renderer) Tick(l *lcd.LCD, pendingIF byte) {
	if r.disabled {
		return
	}
	if pendingIF&lcd.IntVBlank != 0 {
		r.RenderScreen(l)
	}
}

// RenderScreen recomposites every visible scanline from current LCD state.
func (r *Renderer) RenderScreen(l *lcd.LCD) {
	if r.disabled {
		return
	}
	if l.LCDC()&0x80 == 0 {
		r.clearcache = true
		return
	}
	tileData8000 := l.LCDC()&0x10 != 0
	bgMapBase := uint16(0x9800)
	if l.LCDC()&0x08 != 0 {
		bgMapBase = 0x9C00
	}
	winMapBase := uint16(0x9800)
	if l.LCDC()&0x40 != 0 {
		winMapBase = 0x9C00
	}
	bgEnabled := l.LCDC()&0x01 != 0
	winEnabled := l.LCDC()&0x20 != 0
	spritesEnabled := l.LCDC()&0x02 != 0
	tallSprites := l.LCDC()&0x04 != 0

	for ly := 0; ly < Height; ly++ {
		var bg [Width]byte
		if bgEnabled {
			bg = renderBGScanline(l, bgMapBase, tileData8000, l.SCX(), l.SCY(), byte(ly))
		}

		line := bg
		if winEnabled && int(l.WY()) <= ly {
			wx := int(l.WX()) - 7
			winLine := byte(ly - int(l.WY()))
			win := renderWindowScanline(l, winMapBase, tileData8000, wx, winLine)
			for x := wx; x < Width; x++ {
				if x < 0 {
					continue
				}
				line[x] = win[x]
			}
		}

		var shaded [Width]byte
		for x := 0; x < Width; x++ {
			shaded[x] = shade(line[x], l.BGP())
		}

		if spritesEnabled {
			r.overlaySprites(l, &shaded, &line, ly, tallSprites)
		}

		for x := 0; x < Width; x++ {
			off := (ly*Width + x) * 4
			copy(r.fb[off:off+4], r.palette[shaded[x]][:])
		}
	}
	r.tilesChanged = false
	r.clearcache = false
}

type spriteEntry struct {
	y, x, tile, attr byte
}

func (r *Renderer) overlaySprites(l *lcd.LCD, shaded *[Width]byte, bgIdx *[Width]byte, ly int, tall bool) {
	height := 8
	if tall {
		height = 16
	}
	var visible []spriteEntry
	for i := 0; i < 40 && len(visible) < 10; i++ {
		base := i * 4
		sy := int(l.OAM(base)) - 16
		if ly < sy || ly >= sy+height {
			continue
		}
		visible = append(visible, spriteEntry{
			y:    l.OAM(base),
			x:    l.OAM(base + 1),
			tile: l.OAM(base + 2),
			attr: l.OAM(base + 3),
		})
	}

	for _, sp := range visible {
		sx := int(sp.x) - 8
		if sx <= -8 || sx >= Width {
			continue
		}
		row := ly - (int(sp.y) - 16)
		if sp.attr&0x40 != 0 {
			row = height - 1 - row
		}
		tile := sp.tile
		if tall {
			tile &^= 0x01
		}
		rowAddr := 0x8000 + uint16(tile)*16 + uint16(row)*2
		lo := l.VRAM(rowAddr)
		hi := l.VRAM(rowAddr + 1)
		palette := l.OBP0()
		if sp.attr&0x10 != 0 {
			palette = l.OBP1()
		}
		behindBG := sp.attr&0x80 != 0

		for px := 0; px < 8; px++ {
			x := sx + px
			if x < 0 || x >= Width {
				continue
			}
			bit := px
			if sp.attr&0x20 == 0 {
				bit = 7 - px
			}
			ci := ((hi>>byte(bit))&1)<<1 | ((lo >> byte(bit)) & 1)
			if ci == 0 {
				continue
			}
			if behindBG && bgIdx[x] != 0 {
				continue
			}
			shaded[x] = shade(ci, palette)
		}
	}
}

func shade(colorIdx, palette byte) byte {
	return (palette >> (colorIdx * 2)) & 0x03
}

// Framebuffer returns the current RGBA pixel buffer (Width*Height*4 bytes,
// row-major, no padding).
func (r *Renderer) Framebuffer() []byte { return r.fb[:] }

// ForceRedraw marks the tile cache dirty and recomposites immediately. The
// Motherboard calls this once after LoadState, since the restored LCD state
// carries no memory of what the renderer had previously cached.
func (r *Renderer) ForceRedraw(l *lcd.LCD) {
	r.clearcache = true
	r.tilesChanged = true
	r.RenderScreen(l)
}

func (r *Renderer) SaveState(w *state.Writer) {
	w.WriteBool(r.disabled)
}

func (r *Renderer) LoadState(rd *state.Reader, version int) {
	r.disabled = rd.ReadBool()
	r.clearcache = true
	r.tilesChanged = true
}
