// Package sound implements the DMG APU: four channels (two square, one
// wave, one noise), the 512 Hz frame sequencer, and stereo sample
// generation at a host-chosen sample rate.
package sound

import "github.com/pixelclock/dmgmb/internal/state"

const cpuHz = 4194304

// Sound is a DMG audio unit with channels 1-4 implemented. It generates
// stereo 16-bit samples into an internal ring buffer at the configured
// sample rate.
type Sound struct {
	enabled bool

	sampleRate      int
	cyclesPerSample float64
	cycAccum        float64
	mixGain         float64

	fsCounter int
	fsStep    int

	clock uint64 // total CPU cycles ticked; exposed for diagnostics

	sL    []int16
	sR    []int16
	sHead int
	sTail int

	nr50 byte
	nr51 byte
	nr52 byte

	ch1 chSquare
	ch2 chSquare
	ch3 chWave
	ch4 chNoise
}

type chSquare struct {
	enabled bool
	duty    byte
	length  int
	lenEn   bool
	vol     byte
	envDir  int8
	envPer  byte
	curVol  byte
	envTmr  byte
	freq    uint16
	timer   int
	phase   int

	sweepPer    byte
	sweepNeg    bool
	sweepShift  byte
	sweepTmr    byte
	sweepEn     bool
	sweepShadow uint16
}

type chWave struct {
	enabled bool
	dacEn   bool
	length  int
	lenEn   bool
	volCode byte
	freq    uint16
	timer   int
	pos     int
	ram     [16]byte
}

type chNoise struct {
	enabled bool
	length  int
	lenEn   bool
	vol     byte
	envDir  int8
	envPer  byte
	curVol  byte
	envTmr  byte
	shift   byte
	width7  bool
	divSel  byte
	timer   int
	lfsr    uint16
}

var dutyTable = [4][8]byte{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 0},
}

func New(sampleRate int) *Sound {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	a := &Sound{
		enabled:         true,
		sampleRate:      sampleRate,
		cyclesPerSample: float64(cpuHz) / float64(sampleRate),
		mixGain:         0.20,
		fsCounter:       cpuHz / 512,
		sL:              make([]int16, 16384),
		sR:              make([]int16, 16384),
	}
	a.nr50 = 0x77
	a.nr51 = 0xFF
	return a
}

// Get reads an APU register.
func (a *Sound) Get(addr uint16) byte {
	switch addr {
	case 0xFF10:
		n := (a.ch1.sweepPer & 7) << 4
		if a.ch1.sweepNeg {
			n |= 1 << 3
		}
		n |= a.ch1.sweepShift & 7
		return 0x80 | n
	case 0xFF11:
		return (a.ch1.duty << 6) | byte(0x3F-(a.ch1.length&0x3F))
	case 0xFF12:
		dir := byte(0)
		if a.ch1.envDir > 0 {
			dir = 1
		}
		return (a.ch1.vol << 4) | (dir << 3) | (a.ch1.envPer & 7)
	case 0xFF13:
		return byte(a.ch1.freq & 0xFF)
	case 0xFF14:
		return (boolToByte(a.ch1.lenEn) << 6) | byte((a.ch1.freq>>8)&7)
	case 0xFF16:
		return (a.ch2.duty << 6) | byte(0x3F-(a.ch2.length&0x3F))
	case 0xFF17:
		dir := byte(0)
		if a.ch2.envDir > 0 {
			dir = 1
		}
		return (a.ch2.vol << 4) | (dir << 3) | (a.ch2.envPer & 7)
	case 0xFF18:
		return byte(a.ch2.freq & 0xFF)
	case 0xFF19:
		return (boolToByte(a.ch2.lenEn) << 6) | byte((a.ch2.freq>>8)&7)
	case 0xFF1A:
		if a.ch3.dacEn {
			return 0x80
		}
		return 0x00
	case 0xFF1B:
		return byte(0xFF - (a.ch3.length & 0xFF))
	case 0xFF1C:
		return (a.ch3.volCode << 5) | 0x9F
	case 0xFF1D:
		return byte(a.ch3.freq & 0xFF)
	case 0xFF1E:
		return (boolToByte(a.ch3.lenEn) << 6) | byte((a.ch3.freq>>8)&7)
	case 0xFF30, 0xFF31, 0xFF32, 0xFF33, 0xFF34, 0xFF35, 0xFF36, 0xFF37,
		0xFF38, 0xFF39, 0xFF3A, 0xFF3B, 0xFF3C, 0xFF3D, 0xFF3E, 0xFF3F:
		return a.ch3.ram[addr-0xFF30]
	case 0xFF20:
		return byte(0x3F - (a.ch4.length & 0x3F))
	case 0xFF21:
		dir := byte(0)
		if a.ch4.envDir > 0 {
			dir = 1
		}
		return (a.ch4.vol << 4) | (dir << 3) | (a.ch4.envPer & 7)
	case 0xFF22:
		w := byte(0)
		if a.ch4.width7 {
			w = 1
		}
		return (a.ch4.shift << 4) | (w << 3) | (a.ch4.divSel & 7)
	case 0xFF23:
		return boolToByte(a.ch4.lenEn) << 6
	case 0xFF24:
		return a.nr50
	case 0xFF25:
		return a.nr51
	case 0xFF26:
		chFlags := byte(0)
		if a.ch1.enabled {
			chFlags |= 1 << 0
		}
		if a.ch2.enabled {
			chFlags |= 1 << 1
		}
		if a.ch3.enabled {
			chFlags |= 1 << 2
		}
		if a.ch4.enabled {
			chFlags |= 1 << 3
		}
		return 0x70 | (boolToByte(a.enabled) << 7) | chFlags
	default:
		return 0xFF
	}
}

// Set writes an APU register.
func (a *Sound) Set(addr uint16, v byte) {
	switch addr {
	case 0xFF10:
		a.ch1.sweepPer = (v >> 4) & 7
		a.ch1.sweepNeg = (v & (1 << 3)) != 0
		a.ch1.sweepShift = v & 7
	case 0xFF11:
		a.ch1.duty = (v >> 6) & 3
		a.ch1.length = 64 - int(v&0x3F)
	case 0xFF12:
		a.ch1.vol = (v >> 4) & 0x0F
		if v&(1<<3) != 0 {
			a.ch1.envDir = 1
		} else {
			a.ch1.envDir = -1
		}
		a.ch1.envPer = v & 7
		if v&0xF8 == 0 {
			a.ch1.enabled = false
		}
	case 0xFF13:
		a.ch1.freq = (a.ch1.freq & 0x0700) | uint16(v)
		a.reloadCh1Timer()
	case 0xFF14:
		a.ch1.lenEn = v&(1<<6) != 0
		a.ch1.freq = (a.ch1.freq & 0x00FF) | (uint16(v&7) << 8)
		if v&(1<<7) != 0 {
			a.triggerCh1()
		}
	case 0xFF16:
		a.ch2.duty = (v >> 6) & 3
		a.ch2.length = 64 - int(v&0x3F)
	case 0xFF17:
		a.ch2.vol = (v >> 4) & 0x0F
		if v&(1<<3) != 0 {
			a.ch2.envDir = 1
		} else {
			a.ch2.envDir = -1
		}
		a.ch2.envPer = v & 7
		if v&0xF8 == 0 {
			a.ch2.enabled = false
		}
	case 0xFF18:
		a.ch2.freq = (a.ch2.freq & 0x0700) | uint16(v)
		a.reloadCh2Timer()
	case 0xFF19:
		a.ch2.lenEn = v&(1<<6) != 0
		a.ch2.freq = (a.ch2.freq & 0x00FF) | (uint16(v&7) << 8)
		if v&(1<<7) != 0 {
			a.triggerCh2()
		}
	case 0xFF1A:
		a.ch3.dacEn = v&0x80 != 0
		if !a.ch3.dacEn {
			a.ch3.enabled = false
		}
	case 0xFF1B:
		a.ch3.length = 256 - int(v)
	case 0xFF1C:
		a.ch3.volCode = (v >> 5) & 3
	case 0xFF1D:
		a.ch3.freq = (a.ch3.freq & 0x0700) | uint16(v)
		a.reloadCh3Timer()
	case 0xFF1E:
		a.ch3.lenEn = v&(1<<6) != 0
		a.ch3.freq = (a.ch3.freq & 0x00FF) | (uint16(v&7) << 8)
		if v&(1<<7) != 0 {
			a.triggerCh3()
		}
	case 0xFF30, 0xFF31, 0xFF32, 0xFF33, 0xFF34, 0xFF35, 0xFF36, 0xFF37,
		0xFF38, 0xFF39, 0xFF3A, 0xFF3B, 0xFF3C, 0xFF3D, 0xFF3E, 0xFF3F:
		a.ch3.ram[addr-0xFF30] = v
	case 0xFF24:
		a.nr50 = v
	case 0xFF25:
		a.nr51 = v
	case 0xFF26:
		pwr := v&(1<<7) != 0
		if !pwr {
			sr := a.sampleRate
			*a = *New(sr)
			a.enabled = false
		} else {
			a.enabled = true
		}
	case 0xFF20:
		a.ch4.length = 64 - int(v&0x3F)
	case 0xFF21:
		a.ch4.vol = (v >> 4) & 0x0F
		if v&(1<<3) != 0 {
			a.ch4.envDir = 1
		} else {
			a.ch4.envDir = -1
		}
		a.ch4.envPer = v & 7
		if v&0xF8 == 0 {
			a.ch4.enabled = false
		}
	case 0xFF22:
		a.ch4.shift = (v >> 4) & 0x0F
		a.ch4.width7 = v&(1<<3) != 0
		a.ch4.divSel = v & 7
		a.reloadCh4Timer()
	case 0xFF23:
		a.ch4.lenEn = v&(1<<6) != 0
		if v&(1<<7) != 0 {
			a.triggerCh4()
		}
	}
}

// Stop flushes any buffered audio state. The sound unit keeps no external
// resource handles, so this only resets the ring buffer pointers, leaving
// register state alone for a subsequent save.
func (a *Sound) Stop() {
	a.sHead, a.sTail = 0, 0
}

// Clock reports the total number of CPU cycles ticked since construction,
// matching spec.md §4.7's "clock field" on the Sound peripheral contract.
func (a *Sound) Clock() uint64 { return a.clock }

// Sync is the flush point the Motherboard calls once per Tick after the
// budget is exhausted. It does no work: the sample-rate-paced ring buffer
// already accumulates continuously in Tick, and the host audio player in
// internal/ui drains it through PullStereo without calling Sync.
func (a *Sound) Sync() {}

func (a *Sound) triggerCh1() {
	if a.ch1.vol == 0 && a.ch1.envDir <= 0 {
		a.ch1.enabled = false
	} else {
		a.ch1.enabled = true
	}
	if a.ch1.length == 0 {
		a.ch1.length = 64
	}
	a.ch1.phase = 0
	a.reloadCh1Timer()
	a.ch1.curVol = a.ch1.vol
	per := a.ch1.envPer
	if per == 0 {
		per = 8
	}
	a.ch1.envTmr = per
	a.ch1.sweepShadow = a.ch1.freq & 0x7FF
	a.ch1.sweepEn = a.ch1.sweepPer != 0 || a.ch1.sweepShift != 0
	st := a.ch1.sweepPer
	if st == 0 {
		st = 8
	}
	a.ch1.sweepTmr = st
	if a.ch1.sweepShift != 0 {
		if a.calcCh1Sweep(true) > 2047 {
			a.ch1.enabled = false
		}
	}
}

func (a *Sound) triggerCh2() {
	if a.ch2.vol == 0 && a.ch2.envDir < 0 {
		a.ch2.enabled = false
		return
	}
	a.ch2.enabled = true
	if a.ch2.length == 0 {
		a.ch2.length = 64
	}
	a.ch2.phase = 0
	a.reloadCh2Timer()
	a.ch2.curVol = a.ch2.vol
	per := a.ch2.envPer
	if per == 0 {
		per = 8
	}
	a.ch2.envTmr = per
}

func (a *Sound) reloadCh1Timer() {
	p := int(4 * (2048 - (a.ch1.freq & 0x7FF)))
	if p < 8 {
		p = 8
	}
	a.ch1.timer = p
}

func (a *Sound) reloadCh2Timer() {
	p := int(4 * (2048 - (a.ch2.freq & 0x7FF)))
	if p < 8 {
		p = 8
	}
	a.ch2.timer = p
}

func (a *Sound) reloadCh3Timer() {
	p := int(2 * (2048 - (a.ch3.freq & 0x7FF)))
	if p < 2 {
		p = 2
	}
	a.ch3.timer = p
}

func (a *Sound) triggerCh3() {
	if !a.ch3.dacEn {
		a.ch3.enabled = false
	} else {
		a.ch3.enabled = true
	}
	if a.ch3.length == 0 {
		a.ch3.length = 256
	}
	a.ch3.pos = 0
	a.reloadCh3Timer()
}

func (a *Sound) triggerCh4() {
	if a.ch4.vol == 0 && a.ch4.envDir < 0 {
		a.ch4.enabled = false
	} else {
		a.ch4.enabled = true
	}
	if a.ch4.length == 0 {
		a.ch4.length = 64
	}
	a.ch4.curVol = a.ch4.vol
	per := a.ch4.envPer
	if per == 0 {
		per = 8
	}
	a.ch4.envTmr = per
	a.ch4.lfsr = 0x7FFF
	a.reloadCh4Timer()
}

func (a *Sound) reloadCh4Timer() {
	divTable := [8]int{8, 16, 32, 48, 64, 80, 96, 112}
	div := divTable[a.ch4.divSel&7]
	period := div << (int(a.ch4.shift) + 4)
	if period < 2 {
		period = 2
	}
	a.ch4.timer = period
}

// Tick advances the APU by cycles CPU cycles, pushing stereo samples to the
// ring buffer as they become due.
func (a *Sound) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	a.clock += uint64(cycles)
	for i := 0; i < cycles; i++ {
		if !a.enabled {
			continue
		}
		a.fsCounter--
		if a.fsCounter <= 0 {
			a.fsCounter += cpuHz / 512
			a.fsStep = (a.fsStep + 1) & 7
			if a.fsStep%2 == 0 {
				a.clockLength()
			}
			if a.fsStep == 2 || a.fsStep == 6 {
				a.clockSweep()
			}
			if a.fsStep == 7 {
				a.clockEnvelope()
			}
		}
		if a.ch1.enabled {
			a.ch1.timer--
			if a.ch1.timer <= 0 {
				a.reloadCh1Timer()
				a.ch1.phase = (a.ch1.phase + 1) & 7
			}
		}
		if a.ch3.enabled {
			a.ch3.timer--
			if a.ch3.timer <= 0 {
				a.reloadCh3Timer()
				a.ch3.pos = (a.ch3.pos + 1) & 31
			}
		}
		if a.ch2.enabled {
			a.ch2.timer--
			if a.ch2.timer <= 0 {
				a.reloadCh2Timer()
				a.ch2.phase = (a.ch2.phase + 1) & 7
			}
		}
		if a.ch4.enabled {
			a.ch4.timer--
			if a.ch4.timer <= 0 {
				a.reloadCh4Timer()
				x := (a.ch4.lfsr ^ (a.ch4.lfsr >> 1)) & 1
				a.ch4.lfsr >>= 1
				a.ch4.lfsr |= x << 14
				if a.ch4.width7 {
					a.ch4.lfsr &^= 1 << 6
					a.ch4.lfsr |= x << 6
				}
			}
		}
		a.cycAccum++
		for a.cycAccum >= a.cyclesPerSample {
			a.cycAccum -= a.cyclesPerSample
			l, r := a.mixSampleStereo()
			a.pushStereo(l, r)
		}
	}
}

func (a *Sound) clockLength() {
	if a.ch1.lenEn && a.ch1.length > 0 {
		a.ch1.length--
		if a.ch1.length <= 0 {
			a.ch1.enabled = false
		}
	}
	if a.ch3.lenEn && a.ch3.length > 0 {
		a.ch3.length--
		if a.ch3.length <= 0 {
			a.ch3.enabled = false
		}
	}
	if a.ch2.lenEn && a.ch2.length > 0 {
		a.ch2.length--
		if a.ch2.length <= 0 {
			a.ch2.enabled = false
		}
	}
}

func (a *Sound) clockEnvelope() {
	if a.ch1.enabled && a.ch1.envPer != 0 {
		if a.ch1.envTmr > 0 {
			a.ch1.envTmr--
		}
		if a.ch1.envTmr == 0 {
			a.ch1.envTmr = a.ch1.envPer
			if a.ch1.envDir > 0 && a.ch1.curVol < 15 {
				a.ch1.curVol++
			} else if a.ch1.envDir < 0 && a.ch1.curVol > 0 {
				a.ch1.curVol--
			}
		}
	}
	if a.ch2.enabled && a.ch2.envPer != 0 {
		if a.ch2.envTmr > 0 {
			a.ch2.envTmr--
		}
		if a.ch2.envTmr == 0 {
			a.ch2.envTmr = a.ch2.envPer
			if a.ch2.envDir > 0 && a.ch2.curVol < 15 {
				a.ch2.curVol++
			} else if a.ch2.envDir < 0 && a.ch2.curVol > 0 {
				a.ch2.curVol--
			}
		}
	}
	if a.ch4.enabled && a.ch4.envPer != 0 {
		if a.ch4.envTmr > 0 {
			a.ch4.envTmr--
		}
		if a.ch4.envTmr == 0 {
			a.ch4.envTmr = a.ch4.envPer
			if a.ch4.envDir > 0 && a.ch4.curVol < 15 {
				a.ch4.curVol++
			} else if a.ch4.envDir < 0 && a.ch4.curVol > 0 {
				a.ch4.curVol--
			}
		}
	}
}

func (a *Sound) clockSweep() {
	if !a.ch1.enabled || !a.ch1.sweepEn || a.ch1.sweepPer == 0 {
		return
	}
	if a.ch1.sweepTmr > 0 {
		a.ch1.sweepTmr--
	}
	if a.ch1.sweepTmr == 0 {
		a.ch1.sweepTmr = a.ch1.sweepPer
		nf := a.calcCh1Sweep(true)
		if nf > 2047 {
			a.ch1.enabled = false
		} else {
			a.ch1.sweepShadow = uint16(nf)
			a.ch1.freq = (a.ch1.freq &^ 0x07FF) | (uint16(nf) & 0x07FF)
			a.reloadCh1Timer()
			if a.calcCh1Sweep(false) > 2047 {
				a.ch1.enabled = false
			}
		}
	}
}

func (a *Sound) calcCh1Sweep(applyShift bool) int {
	base := int(a.ch1.sweepShadow)
	if a.ch1.sweepShift == 0 {
		return base
	}
	delta := base >> a.ch1.sweepShift
	if a.ch1.sweepNeg {
		return base - delta
	}
	if applyShift {
		return base + delta
	}
	return base + delta
}

// mixSampleStereo computes one stereo sample pair per NR50/NR51 routing.
func (a *Sound) mixSampleStereo() (int16, int16) {
	c1, c2, c3, c4 := 0.0, 0.0, 0.0, 0.0
	if a.ch1.enabled {
		pat := dutyTable[a.ch1.duty]
		amp := float64(a.ch1.curVol) / 15.0
		if pat[a.ch1.phase] != 0 {
			c1 += amp
		} else {
			c1 -= amp
		}
	}
	if a.ch2.enabled {
		pat := dutyTable[a.ch2.duty]
		amp := float64(a.ch2.curVol) / 15.0
		if pat[a.ch2.phase] != 0 {
			c2 += amp
		} else {
			c2 -= amp
		}
	}
	if a.ch3.enabled && a.ch3.dacEn {
		b := a.ch3.ram[a.ch3.pos>>1]
		var n4 byte
		if a.ch3.pos&1 == 0 {
			n4 = (b >> 4) & 0x0F
		} else {
			n4 = b & 0x0F
		}
		if a.ch3.volCode != 0 {
			shift := a.ch3.volCode - 1
			scaled := float64(n4 >> shift)
			max := float64(int(15) >> shift)
			if max < 1 {
				max = 1
			}
			c3 += (scaled/max)*2.0 - 1.0
		}
	}
	if a.ch4.enabled {
		amp := float64(a.ch4.curVol) / 15.0
		if (^a.ch4.lfsr)&1 != 0 {
			c4 += amp
		} else {
			c4 -= amp
		}
	}

	rMask := a.nr51 & 0x0F
	lMask := (a.nr51 >> 4) & 0x0F
	if rMask == 0 && lMask == 0 {
		rMask, lMask = 0x0F, 0x0F
	}
	l, r := 0.0, 0.0
	if lMask&0x1 != 0 {
		l += c1
	}
	if lMask&0x2 != 0 {
		l += c2
	}
	if lMask&0x4 != 0 {
		l += c3
	}
	if lMask&0x8 != 0 {
		l += c4
	}
	if rMask&0x1 != 0 {
		r += c1
	}
	if rMask&0x2 != 0 {
		r += c2
	}
	if rMask&0x4 != 0 {
		r += c3
	}
	if rMask&0x8 != 0 {
		r += c4
	}
	rv := float64(a.nr50&0x07) / 7.0
	lv := float64((a.nr50>>4)&0x07) / 7.0
	l *= lv * a.mixGain
	r *= rv * a.mixGain
	if l > 1 {
		l = 1
	} else if l < -1 {
		l = -1
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return int16(l * 32767), int16(r * 32767)
}

func (a *Sound) pushStereo(l, r int16) {
	next := (a.sHead + 1) & (len(a.sL) - 1)
	if next == a.sTail {
		return
	}
	a.sL[a.sHead] = l
	a.sR[a.sHead] = r
	a.sHead = next
}

// PullStereo returns up to max stereo frames as an interleaved int16 slice
// [L0,R0,L1,R1,...], used by the UI's audio player.
func (a *Sound) PullStereo(max int) []int16 {
	if max <= 0 || a.sHead == a.sTail {
		return nil
	}
	count := 0
	for i := a.sTail; i != a.sHead && count < max; i = (i + 1) & (len(a.sL) - 1) {
		count++
	}
	out := make([]int16, 0, count*2)
	for i := 0; i < count; i++ {
		out = append(out, a.sL[a.sTail], a.sR[a.sTail])
		a.sTail = (a.sTail + 1) & (len(a.sL) - 1)
	}
	return out
}

// StereoAvailable returns the number of stereo frames currently buffered.
func (a *Sound) StereoAvailable() int {
	if a.sHead == a.sTail {
		return 0
	}
	if a.sHead >= a.sTail {
		return a.sHead - a.sTail
	}
	return (len(a.sL) - a.sTail) + a.sHead
}

func (a *Sound) SaveState(w *state.Writer) {
	w.WriteBool(a.enabled)
	w.WriteByte(a.nr50)
	w.WriteByte(a.nr51)
	w.WriteByte(a.nr52)
	w.WriteUint32(uint32(a.fsCounter))
	w.WriteByte(byte(a.fsStep))

	w.WriteBool(a.ch1.enabled)
	w.WriteByte(a.ch1.duty)
	w.WriteUint32(uint32(a.ch1.length))
	w.WriteBool(a.ch1.lenEn)
	w.WriteByte(a.ch1.vol)
	w.WriteByte(byte(a.ch1.envDir))
	w.WriteByte(a.ch1.envPer)
	w.WriteByte(a.ch1.curVol)
	w.WriteByte(a.ch1.envTmr)
	w.WriteUint16(a.ch1.freq)
	w.WriteUint32(uint32(a.ch1.timer))
	w.WriteUint32(uint32(a.ch1.phase))
	w.WriteByte(a.ch1.sweepPer)
	w.WriteBool(a.ch1.sweepNeg)
	w.WriteByte(a.ch1.sweepShift)
	w.WriteByte(a.ch1.sweepTmr)
	w.WriteBool(a.ch1.sweepEn)
	w.WriteUint16(a.ch1.sweepShadow)

	w.WriteBool(a.ch2.enabled)
	w.WriteByte(a.ch2.duty)
	w.WriteUint32(uint32(a.ch2.length))
	w.WriteBool(a.ch2.lenEn)
	w.WriteByte(a.ch2.vol)
	w.WriteByte(byte(a.ch2.envDir))
	w.WriteByte(a.ch2.envPer)
	w.WriteByte(a.ch2.curVol)
	w.WriteByte(a.ch2.envTmr)
	w.WriteUint16(a.ch2.freq)
	w.WriteUint32(uint32(a.ch2.timer))
	w.WriteUint32(uint32(a.ch2.phase))

	w.WriteBool(a.ch3.enabled)
	w.WriteBool(a.ch3.dacEn)
	w.WriteUint32(uint32(a.ch3.length))
	w.WriteBool(a.ch3.lenEn)
	w.WriteByte(a.ch3.volCode)
	w.WriteUint16(a.ch3.freq)
	w.WriteUint32(uint32(a.ch3.timer))
	w.WriteUint32(uint32(a.ch3.pos))
	w.WriteBytes(a.ch3.ram[:])

	w.WriteBool(a.ch4.enabled)
	w.WriteUint32(uint32(a.ch4.length))
	w.WriteBool(a.ch4.lenEn)
	w.WriteByte(a.ch4.vol)
	w.WriteByte(byte(a.ch4.envDir))
	w.WriteByte(a.ch4.envPer)
	w.WriteByte(a.ch4.curVol)
	w.WriteByte(a.ch4.envTmr)
	w.WriteByte(a.ch4.shift)
	w.WriteBool(a.ch4.width7)
	w.WriteByte(a.ch4.divSel)
	w.WriteUint32(uint32(a.ch4.timer))
	w.WriteUint16(a.ch4.lfsr)
}

func (a *Sound) LoadState(r *state.Reader, version int) {
	a.enabled = r.ReadBool()
	a.nr50 = r.ReadByte()
	a.nr51 = r.ReadByte()
	a.nr52 = r.ReadByte()
	a.fsCounter = int(r.ReadUint32())
	a.fsStep = int(r.ReadByte())

	a.ch1.enabled = r.ReadBool()
	a.ch1.duty = r.ReadByte()
	a.ch1.length = int(r.ReadUint32())
	a.ch1.lenEn = r.ReadBool()
	a.ch1.vol = r.ReadByte()
	a.ch1.envDir = int8(r.ReadByte())
	a.ch1.envPer = r.ReadByte()
	a.ch1.curVol = r.ReadByte()
	a.ch1.envTmr = r.ReadByte()
	a.ch1.freq = r.ReadUint16()
	a.ch1.timer = int(r.ReadUint32())
	a.ch1.phase = int(r.ReadUint32())
	a.ch1.sweepPer = r.ReadByte()
	a.ch1.sweepNeg = r.ReadBool()
	a.ch1.sweepShift = r.ReadByte()
	a.ch1.sweepTmr = r.ReadByte()
	a.ch1.sweepEn = r.ReadBool()
	a.ch1.sweepShadow = r.ReadUint16()

	a.ch2.enabled = r.ReadBool()
	a.ch2.duty = r.ReadByte()
	a.ch2.length = int(r.ReadUint32())
	a.ch2.lenEn = r.ReadBool()
	a.ch2.vol = r.ReadByte()
	a.ch2.envDir = int8(r.ReadByte())
	a.ch2.envPer = r.ReadByte()
	a.ch2.curVol = r.ReadByte()
	a.ch2.envTmr = r.ReadByte()
	a.ch2.freq = r.ReadUint16()
	a.ch2.timer = int(r.ReadUint32())
	a.ch2.phase = int(r.ReadUint32())

	a.ch3.enabled = r.ReadBool()
	a.ch3.dacEn = r.ReadBool()
	a.ch3.length = int(r.ReadUint32())
	a.ch3.lenEn = r.ReadBool()
	a.ch3.volCode = r.ReadByte()
	a.ch3.freq = r.ReadUint16()
	a.ch3.timer = int(r.ReadUint32())
	a.ch3.pos = int(r.ReadUint32())
	r.ReadBytes(a.ch3.ram[:])

	a.ch4.enabled = r.ReadBool()
	a.ch4.length = int(r.ReadUint32())
	a.ch4.lenEn = r.ReadBool()
	a.ch4.vol = r.ReadByte()
	a.ch4.envDir = int8(r.ReadByte())
	a.ch4.envPer = r.ReadByte()
	a.ch4.curVol = r.ReadByte()
	a.ch4.envTmr = r.ReadByte()
	a.ch4.shift = r.ReadByte()
	a.ch4.width7 = r.ReadBool()
	a.ch4.divSel = r.ReadByte()
	a.ch4.timer = int(r.ReadUint32())
	a.ch4.lfsr = r.ReadUint16()
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
