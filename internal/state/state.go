// Package state implements the ordered, length-prefixed binary encoding
// used by every peripheral's save/load contract. The wire format is a flat
// sequence of typed fields written in a fixed order; callers are
// responsible for writing/reading fields in exactly the order documented
// by the owning component, since the format carries no field tags.
package state

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer accumulates a single first error, so call sites can chain writes
// without checking after every field and inspect Err() once at the end.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) Err() error { return w.err }

func (w *Writer) WriteByte(b byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write([]byte{b})
}

func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

// WriteBytes writes raw bytes with no framing; the reader must know the
// length ahead of time (used for fixed-size arrays like WRAM/VRAM/OAM).
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

// WriteBlock writes a uint32 length prefix followed by the bytes, for
// variable-length fields (cartridge external RAM).
func (w *Writer) WriteBlock(b []byte) {
	if w.err != nil {
		return
	}
	w.WriteUint32(uint32(len(b)))
	w.WriteBytes(b)
}

type Reader struct {
	r   io.Reader
	err error
}

func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

func (r *Reader) Err() error { return r.err }

func (r *Reader) ReadByte() byte {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	if _, r.err = io.ReadFull(r.r, buf[:]); r.err != nil {
		return 0
	}
	return buf[0]
}

func (r *Reader) ReadBool() bool { return r.ReadByte() != 0 }

func (r *Reader) ReadUint16() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	if _, r.err = io.ReadFull(r.r, buf[:]); r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(buf[:])
}

func (r *Reader) ReadUint32() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	if _, r.err = io.ReadFull(r.r, buf[:]); r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

func (r *Reader) ReadUint64() uint64 {
	if r.err != nil {
		return 0
	}
	var buf [8]byte
	if _, r.err = io.ReadFull(r.r, buf[:]); r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// ReadBytes fills dst entirely; dst's length is the expected field size.
func (r *Reader) ReadBytes(dst []byte) {
	if r.err != nil {
		return
	}
	_, r.err = io.ReadFull(r.r, dst)
}

// ReadBlock reads a length-prefixed field written by WriteBlock.
func (r *Reader) ReadBlock() []byte {
	n := r.ReadUint32()
	if r.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	r.ReadBytes(buf)
	if r.err != nil {
		return nil
	}
	return buf
}

// ErrVersionMismatch signals a save-state version this implementation
// cannot decode; the Motherboard state is undefined after this error and
// must be discarded by the caller.
var ErrVersionMismatch = fmt.Errorf("state: version not supported")
