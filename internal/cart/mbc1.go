package cart

import "github.com/pixelclock/dmgmb/internal/state"

// mbc1 implements basic MBC1 ROM/RAM banking. Supports ROM banking up to
// 2MB and RAM up to 32KB. RTC not applicable to MBC1.
type mbc1 struct {
	rom      []byte
	ram      []byte
	savePath string

	romBankLow5       byte // lower 5 bits of ROM bank number (0->1 remapped)
	ramBankOrRomHigh2 byte // either RAM bank (mode1) or ROM bank high bits (mode0)
	ramEnabled        bool
	modeSelect        byte // 0: ROM banking (default), 1: RAM banking
}

func newMBC1(rom []byte, ramSize int, savePath string) *mbc1 {
	m := &mbc1{rom: rom, savePath: savePath}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	// default to bank 1 for switchable area
	m.romBankLow5 = 1
	return m
}

func (m *mbc1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		// Bank 0 or high bits applied in mode1
		if m.modeSelect == 0 {
			if int(addr) < len(m.rom) {
				return m.rom[addr]
			}
			return 0xFF
		}
		bank := int((m.ramBankOrRomHigh2 & 0x03) << 5)
		off := bank*0x4000 + int(addr)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.effectiveROMBank())
		off := bank*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := m.ramOffset(addr)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *mbc1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		m.ramBankOrRomHigh2 = value & 0x03
	case addr < 0x8000:
		m.modeSelect = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		off := m.ramOffset(addr)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc1) ramOffset(addr uint16) int {
	ramBank := 0
	if m.modeSelect == 1 {
		ramBank = int(m.ramBankOrRomHigh2 & 0x03)
	}
	return ramBank*0x2000 + int(addr-0xA000)
}

func (m *mbc1) effectiveROMBank() byte {
	high := m.ramBankOrRomHigh2 & 0x03
	return m.romBankLow5 | (high << 5)
}

func (m *mbc1) SelectedROMBank() int { return int(m.effectiveROMBank()) }

func (m *mbc1) SelectedRAMBank() int {
	if m.modeSelect == 1 {
		return int(m.ramBankOrRomHigh2 & 0x03)
	}
	return 0
}

func (m *mbc1) Stop() { persistRAM(m.savePath, m) }

func (m *mbc1) saveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc1) loadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

func (m *mbc1) SaveState(w *state.Writer) {
	w.WriteByte(m.romBankLow5)
	w.WriteByte(m.ramBankOrRomHigh2)
	w.WriteBool(m.ramEnabled)
	w.WriteByte(m.modeSelect)
	w.WriteBlock(m.ram)
}

func (m *mbc1) LoadState(r *state.Reader, version int) {
	m.romBankLow5 = r.ReadByte()
	m.ramBankOrRomHigh2 = r.ReadByte()
	m.ramEnabled = r.ReadBool()
	m.modeSelect = r.ReadByte()
	if data := r.ReadBlock(); len(data) > 0 {
		m.ram = data
	}
}
