package lcd

import "testing"

func TestTickEntersVBlankAtLine144(t *testing.T) {
	l := New()
	l.Write(0xFF40, 0x80) // LCD on

	var pending byte
	// one full line is 456 dots; 144 lines to reach VBlank.
	for line := 0; line < 144; line++ {
		pending |= l.Tick(dotsPerLine)
	}
	if l.LY() != 144 {
		t.Fatalf("LY got %d want 144", l.LY())
	}
	if pending&IntVBlank == 0 {
		t.Fatalf("expected VBlank interrupt pending")
	}
}

func TestLYCMatchSetsCoincidenceAndSTAT(t *testing.T) {
	l := New()
	l.Write(0xFF40, 0x80)
	l.Write(0xFF45, 5)           // LYC = 5
	l.Write(0xFF41, 1<<6)        // enable LYC=LY STAT interrupt

	var pending byte
	for line := 0; line < 5; line++ {
		pending |= l.Tick(dotsPerLine)
	}
	if l.LY() != 5 {
		t.Fatalf("LY got %d want 5", l.LY())
	}
	if pending&IntSTAT == 0 {
		t.Fatalf("expected STAT interrupt on LYC match")
	}
	if l.Read(0xFF41)&(1<<2) == 0 {
		t.Fatalf("coincidence flag should be set")
	}
}

func TestVRAMInaccessibleDuringDrawMode(t *testing.T) {
	l := New()
	l.Write(0xFF40, 0x80)
	l.Tick(85) // enter mode 3 (draw)
	l.Write(0x8000, 0x42)
	if got := l.Read(0x8000); got == 0x42 {
		t.Fatalf("VRAM write during draw mode should have been ignored")
	}
}

func TestPaletteWriteReportsChange(t *testing.T) {
	l := New()
	if changed := l.Write(0xFF47, 0xE4); !changed {
		t.Fatalf("first BGP write should report a change")
	}
	if changed := l.Write(0xFF47, 0xE4); changed {
		t.Fatalf("writing the same BGP value should not report a change")
	}
}

func TestCyclesToInterruptDisabled(t *testing.T) {
	l := New()
	if got := l.CyclesToInterrupt(); got < 1<<10 {
		t.Fatalf("disabled LCD should report a large cycle count, got %d", got)
	}
}
