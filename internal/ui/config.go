package ui

// Config contains window, input, and audio settings for the ebiten
// frontend, following the teacher's flat-struct-with-Defaults pattern.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor

	AudioEnabled bool // pull PCM from the Motherboard's sound unit and play it
	SaveDir      string // directory save-state slots are written to; defaults next to the ROM
}

// Defaults fills missing fields with reasonable values.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
