package cart

import "testing"

func TestMBC3_ROMBanking(t *testing.T) {
	rom := make([]byte, 0x4000*4)
	for bank := 0; bank < 4; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := newMBC3(rom, 0, "")

	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("default switchable bank got %02X want 01", got)
	}

	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}
	if m.SelectedROMBank() != 3 {
		t.Fatalf("SelectedROMBank got %d want 3", m.SelectedROMBank())
	}
}

func TestMBC3_RAMEnableAndBank(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := newMBC3(rom, 4*0x2000, "")

	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x4000, 0x02) // select RAM bank 2
	m.Write(0xA000, 0x99)
	if got := m.Read(0xA000); got != 0x99 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
	if m.SelectedRAMBank() != 2 {
		t.Fatalf("SelectedRAMBank got %d want 2", m.SelectedRAMBank())
	}

	// RTC register selects (0x08-0x0C) fall back to RAM bank 0, not modeled.
	m.Write(0x4000, 0x08)
	if m.SelectedRAMBank() != 0 {
		t.Fatalf("RTC select should clear ram bank, got %d", m.SelectedRAMBank())
	}
}

func TestMBC3_SaveRestoreRAM(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := newMBC3(rom, 0x2000, "")
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x55)

	data := m.saveRAM()
	n := newMBC3(rom, 0x2000, "")
	n.loadRAM(data)
	n.Write(0x0000, 0x0A)
	if got := n.Read(0xA000); got != 0x55 {
		t.Fatalf("loadRAM mismatch: got %02X want 55", got)
	}
}
