package ui

import (
	"encoding/binary"

	"github.com/pixelclock/dmgmb/internal/emu"
)

// apuStream adapts the Machine's pulled stereo samples to the io.Reader
// shape ebiten's audio.Player expects: 16-bit little-endian stereo PCM.
type apuStream struct {
	m     *emu.Machine
	muted *bool
}

func (s *apuStream) Read(p []byte) (int, error) {
	if len(p) < 4 || s == nil || s.m == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	if s.muted != nil && *s.muted {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	wantFrames := len(p) / 4
	samples := s.m.PullStereo(wantFrames)
	for i := 0; i < wantFrames; i++ {
		off := i * 4
		if i*2+1 < len(samples) {
			binary.LittleEndian.PutUint16(p[off:], uint16(samples[i*2]))
			binary.LittleEndian.PutUint16(p[off+2:], uint16(samples[i*2+1]))
		} else {
			p[off], p[off+1], p[off+2], p[off+3] = 0, 0, 0, 0
		}
	}
	return wantFrames * 4, nil
}
