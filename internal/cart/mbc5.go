package cart

import "github.com/pixelclock/dmgmb/internal/state"

// mbc5 supports up to 8MB ROM and 128KB RAM with simple linear banking.
type mbc5 struct {
	rom      []byte
	ram      []byte
	savePath string

	romBank    uint16 // 9 bits (0..511)
	ramBank    byte   // 0..15
	ramEnabled bool
}

func newMBC5(rom []byte, ramSize int, savePath string) *mbc5 {
	m := &mbc5{rom: rom, savePath: savePath}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	m.romBank = 1
	return m
}

func (m *mbc5) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank)
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		rb := int(m.ramBank & 0x0F)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *mbc5) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x3000:
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr < 0x4000:
		if value&0x01 != 0 {
			m.romBank = (m.romBank & 0x0FF) | 0x100
		} else {
			m.romBank &^= 0x100
		}
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		rb := int(m.ramBank & 0x0F)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc5) SelectedROMBank() int { return int(m.romBank) }
func (m *mbc5) SelectedRAMBank() int { return int(m.ramBank & 0x0F) }

func (m *mbc5) Stop() { persistRAM(m.savePath, m) }

func (m *mbc5) saveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc5) loadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

func (m *mbc5) SaveState(w *state.Writer) {
	w.WriteUint16(m.romBank)
	w.WriteByte(m.ramBank)
	w.WriteBool(m.ramEnabled)
	w.WriteBlock(m.ram)
}

func (m *mbc5) LoadState(r *state.Reader, version int) {
	m.romBank = r.ReadUint16()
	m.ramBank = r.ReadByte()
	m.ramEnabled = r.ReadBool()
	if data := r.ReadBlock(); len(data) > 0 {
		m.ram = data
	}
}
