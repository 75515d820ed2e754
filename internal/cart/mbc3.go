package cart

import "github.com/pixelclock/dmgmb/internal/state"

// mbc3 implements ROM/RAM banking; the real-time clock registers are
// decoded but not modeled (latch writes are accepted and ignored).
type mbc3 struct {
	rom      []byte
	ram      []byte
	savePath string

	ramEnabled bool
	romBank    byte // 7 bits (1..127)
	ramBank    byte // 0..3 (RTC register selects ignored)
}

func newMBC3(rom []byte, ramSize int, savePath string) *mbc3 {
	m := &mbc3{rom: rom, savePath: savePath}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	m.romBank = 1
	return m
}

func (m *mbc3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *mbc3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		if value <= 0x03 {
			m.ramBank = value & 0x03
		} else {
			m.ramBank = 0
		}
	case addr < 0x8000:
		_ = value // latch clock: no RTC modeled
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc3) SelectedROMBank() int {
	bank := m.romBank & 0x7F
	if bank == 0 {
		bank = 1
	}
	return int(bank)
}

func (m *mbc3) SelectedRAMBank() int { return int(m.ramBank & 0x03) }

func (m *mbc3) Stop() { persistRAM(m.savePath, m) }

func (m *mbc3) saveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc3) loadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

func (m *mbc3) SaveState(w *state.Writer) {
	w.WriteBool(m.ramEnabled)
	w.WriteByte(m.romBank)
	w.WriteByte(m.ramBank)
	w.WriteBlock(m.ram)
}

func (m *mbc3) LoadState(r *state.Reader, version int) {
	m.ramEnabled = r.ReadBool()
	m.romBank = r.ReadByte()
	m.ramBank = r.ReadByte()
	if data := r.ReadBlock(); len(data) > 0 {
		m.ram = data
	}
}
