package renderer

import (
	"testing"

	"github.com/pixelclock/dmgmb/internal/lcd"
)

func TestRenderScreenProducesFramebuffer(t *testing.T) {
	l := lcd.New()
	l.Write(0xFF40, 0x91) // LCD on, BG on, 0x8000 tile addressing
	l.Write(0xFF47, 0xE4) // standard BGP shades

	// Tile 0, row 0: low plane all set, high plane clear (color index 1).
	l.Write(0x8000, 0xFF)
	l.Write(0x8001, 0x00)

	r := New(Palette{})
	r.RenderScreen(l)

	fb := r.Framebuffer()
	if len(fb) != Width*Height*4 {
		t.Fatalf("framebuffer size got %d want %d", len(fb), Width*Height*4)
	}
}

func TestDisabledRendererSkipsWork(t *testing.T) {
	l := lcd.New()
	l.Write(0xFF40, 0x91)
	r := New(Palette{})
	r.SetDisabled(true)
	before := append([]byte(nil), r.Framebuffer()...)
	r.RenderScreen(l)
	after := r.Framebuffer()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("disabled renderer modified framebuffer at byte %d", i)
		}
	}
}

func TestTickRendersOnVBlank(t *testing.T) {
	l := lcd.New()
	l.Write(0xFF40, 0x91)
	r := New(Palette{})

	mask := l.Tick(456 * 144) // drive into VBlank
	r.Tick(l, mask)
	if mask&lcd.IntVBlank == 0 {
		t.Fatalf("expected VBlank to have fired")
	}
	if r.Framebuffer()[3] == 0 {
		t.Fatalf("expected Tick to render the frame on VBlank")
	}
}
