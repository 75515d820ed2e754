package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullReflectsSelectedGroup(t *testing.T) {
	in := New()
	in.KeyEvent(A, true)

	// Select buttons (P15=0, P14=1): A should read low.
	got := in.Pull(0x10)
	assert.Equal(t, byte(0xC0|0x10|0x0E), got)

	// Select D-Pad (P14=0, P15=1): A press shouldn't affect D-Pad bits.
	got = in.Pull(0x20)
	assert.Equal(t, byte(0xC0|0x20|0x0F), got)
}

func TestKeyEventReportsHighToLowEdge(t *testing.T) {
	in := New()
	in.Pull(0x10) // select buttons

	edge := in.KeyEvent(Start, true)
	assert.True(t, edge, "pressing Start while buttons selected should edge")

	edge = in.KeyEvent(Start, true)
	assert.False(t, edge, "holding Start should not re-trigger the edge")

	edge = in.KeyEvent(Start, false)
	assert.False(t, edge, "releasing never causes a high-to-low edge")
}

func TestKeyEventIgnoredWhenGroupNotSelected(t *testing.T) {
	in := New()
	in.Pull(0x20) // select D-Pad only

	edge := in.KeyEvent(A, true) // A is a button, not selected
	assert.False(t, edge)
}
