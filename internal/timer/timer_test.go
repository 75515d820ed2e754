package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverflowReloadsFromTMA(t *testing.T) {
	tm := New()
	tm.SetTMA(0xFD)
	tm.SetTIMA(0xFE)
	tm.SetTAC(0b101) // enabled, 262144 Hz (bit 3)

	overflowed := false
	for i := 0; i < 1024 && !overflowed; i++ {
		overflowed = tm.Tick(1) || overflowed
	}

	assert.True(t, overflowed, "expected a TIMA overflow within 1024 cycles")
	assert.Equal(t, byte(0xFD), tm.TIMA())
}

func TestWriteToDIVResetsDivider(t *testing.T) {
	tm := New()
	tm.Tick(256)
	assert.NotEqual(t, byte(0), tm.DIV())
	tm.Reset()
	assert.Equal(t, byte(0), tm.DIV())
}

func TestSetTACMasksLow3Bits(t *testing.T) {
	tm := New()
	tm.SetTAC(0xFF)
	assert.Equal(t, byte(0x07), tm.TAC())
}

func TestCyclesToInterruptDisabled(t *testing.T) {
	tm := New()
	tm.SetTAC(0x00) // disabled
	assert.Equal(t, noInterrupt, tm.CyclesToInterrupt())
}

func TestCyclesToInterruptMatchesTick(t *testing.T) {
	tm := New()
	tm.SetTMA(0x00)
	tm.SetTIMA(0x00)
	tm.SetTAC(0b111) // enabled, 16384 Hz (bit 7)

	n := tm.CyclesToInterrupt()
	overflowed := false
	for i := 0; i < n; i++ {
		if tm.Tick(1) {
			overflowed = true
		}
	}
	assert.True(t, overflowed, "CyclesToInterrupt should land exactly on an overflow")
}
