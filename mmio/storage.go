package mmio

import "fmt"

// A Storage is a sparse, byte-addressable backing store for a device's
// register space.
//
// The storage manages its bytes in fixed-size units. Units that are never
// touched by Read or Write are not allocated, so a storage can model a large
// physical address range cheaply.
type Storage struct {
	unitSize uint64
	capacity uint64
	units    map[uint64][]byte
}

// NewStorage creates a storage object with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		unitSize: 4096,
		capacity: capacity,
		units:    make(map[uint64][]byte),
	}
}

// Capacity returns the number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) unitFor(addr uint64) ([]byte, error) {
	if addr >= s.capacity {
		return nil, fmt.Errorf(
			"mmio: address %#x beyond storage capacity %#x", addr, s.capacity)
	}

	base := addr - addr%s.unitSize
	unit, ok := s.units[base]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.units[base] = unit
	}

	return unit, nil
}

// Read copies n bytes starting at address into a freshly allocated slice.
func (s *Storage) Read(address, n uint64) ([]byte, error) {
	res := make([]byte, n)
	curr := address
	offset := uint64(0)

	for curr < address+n {
		unit, err := s.unitFor(curr)
		if err != nil {
			return nil, err
		}

		inUnit := curr % s.unitSize
		count := s.unitSize - inUnit
		if left := n - offset; left < count {
			count = left
		}

		copy(res[offset:offset+count], unit[inUnit:inUnit+count])
		offset += count
		curr += count
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	curr := address
	offset := uint64(0)

	for offset < uint64(len(data)) {
		unit, err := s.unitFor(curr)
		if err != nil {
			return err
		}

		inUnit := curr % s.unitSize
		count := s.unitSize - inUnit
		if left := uint64(len(data)) - offset; left < count {
			count = left
		}

		copy(unit[inUnit:inUnit+count], data[offset:offset+count])
		offset += count
		curr += count
	}

	return nil
}
