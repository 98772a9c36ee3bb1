package mmio

import (
	"encoding/binary"
	"fmt"
)

// A Backing provides the bytes behind a memory-mapped window. The device
// model uses a Storage; tests can inject any fake buffer.
type Backing interface {
	Read(address, n uint64) ([]byte, error)
	Write(address uint64, data []byte) error
}

// A Window is a typed accessor over a bounded memory-mapped register region
// [base, base+size). All accesses are window-relative and bounds-checked.
type Window struct {
	backing Backing
	base    uint64
	size    uint64
}

// NewWindow creates a window of the given size over the backing, starting at
// base within the backing's address space.
func NewWindow(backing Backing, base, size uint64) *Window {
	return &Window{
		backing: backing,
		base:    base,
		size:    size,
	}
}

// Size returns the number of bytes the window spans.
func (w *Window) Size() uint64 {
	return w.size
}

func (w *Window) check(offset, n uint64) error {
	if offset+n > w.size {
		return fmt.Errorf(
			"mmio: %d-byte access at offset %#x beyond window size %#x",
			n, offset, w.size)
	}

	return nil
}

// Read32 reads a 32-bit word at the given offset.
func (w *Window) Read32(offset uint64) (uint32, error) {
	if err := w.check(offset, 4); err != nil {
		return 0, err
	}

	data, err := w.backing.Read(w.base+offset, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data), nil
}

// Write32 writes a 32-bit word at the given offset.
func (w *Window) Write32(offset uint64, value uint32) error {
	if err := w.check(offset, 4); err != nil {
		return err
	}

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, value)

	return w.backing.Write(w.base+offset, data)
}

// Update32 replaces the masked bits of the 32-bit word at the given offset.
// It is a read-modify-write and must be serialized by the caller.
func (w *Window) Update32(offset uint64, mask, value uint32) error {
	old, err := w.Read32(offset)
	if err != nil {
		return err
	}

	return w.Write32(offset, old&^mask|value&mask)
}

// Read64 reads a 64-bit word at the given offset.
func (w *Window) Read64(offset uint64) (uint64, error) {
	if err := w.check(offset, 8); err != nil {
		return 0, err
	}

	data, err := w.backing.Read(w.base+offset, 8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(data), nil
}

// Write64 writes a 64-bit word at the given offset as a single full-width
// store. No partial-word tearing is possible at the model level.
func (w *Window) Write64(offset uint64, value uint64) error {
	if err := w.check(offset, 8); err != nil {
		return err
	}

	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, value)

	return w.backing.Write(w.base+offset, data)
}
