package motherboard

import "fmt"

// CartridgeLoadError wraps a failure to load or parse a cartridge image,
// returned from New rather than panicked since a bad ROM path is a normal
// caller mistake, not a programming error.
type CartridgeLoadError struct {
	Path string
	Err  error
}

func (e *CartridgeLoadError) Error() string {
	return fmt.Sprintf("motherboard: load cartridge %q: %v", e.Path, e.Err)
}

func (e *CartridgeLoadError) Unwrap() error { return e.Err }

// StateVersionMismatch is returned from LoadState when the byte stream
// carries a version this implementation does not know how to decode. The
// Motherboard's state is undefined afterward and must be discarded.
type StateVersionMismatch struct {
	Got int
}

func (e *StateVersionMismatch) Error() string {
	return fmt.Sprintf("motherboard: state version %d not supported", e.Got)
}

// busViolation panics for an address outside [0, 0x10000); this is always a
// programmer error in a caller that formed an invalid address, never a
// condition a real cartridge/ROM image can trigger on its own.
func busViolation(addr uint32) {
	panic(fmt.Sprintf("motherboard: bus violation at address %#x", addr))
}

// invalidWrite panics for a value outside [0, 0x100), which Go's byte type
// makes structurally impossible to construct — kept as a documented
// invariant check for any future caller that bypasses the typed signature
// (e.g. via reflection or an FFI boundary).
func invalidWrite(value int) {
	panic(fmt.Sprintf("motherboard: invalid write value %#x", value))
}
