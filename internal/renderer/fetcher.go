package renderer

// fifo is a ring buffer of 2-bit background/window color indices.
type fifo struct {
	buf  [32]byte
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }

func (q *fifo) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}

func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// vramReader abstracts byte access into the LCD's VRAM for the fetcher.
type vramReader interface {
	VRAM(addr uint16) byte
}

// bgFetcher pulls one tile row (8 pixels) into the FIFO, from either the
// background or window tile map depending on how it's configured.
type bgFetcher struct {
	mem           vramReader
	fifo          *fifo
	tileData8000  bool
	tileIndexAddr uint16
	fineY         byte
}

func newBGFetcher(mem vramReader, f *fifo) *bgFetcher { return &bgFetcher{mem: mem, fifo: f} }

func (fch *bgFetcher) Configure(tileData8000 bool, tileIndexAddr uint16, fineY byte) {
	fch.tileData8000 = tileData8000
	fch.tileIndexAddr = tileIndexAddr
	fch.fineY = fineY & 7
}

func (fch *bgFetcher) Fetch() {
	tileNum := fch.mem.VRAM(fch.tileIndexAddr)
	var base uint16
	if fch.tileData8000 {
		base = 0x8000 + uint16(tileNum)*16 + uint16(fch.fineY)*2
	} else {
		base = 0x9000 + uint16(int8(tileNum))*16 + uint16(fch.fineY)*2
	}
	lo := fch.mem.VRAM(base)
	hi := fch.mem.VRAM(base + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		_ = fch.fifo.Push(ci)
	}
}
