package uintr

// A Hart is the execution context of one hardware thread: its logical CPU
// number, its hart ID, and its live CSR file.
//
// Every engine operation takes the hart explicitly. There is no ambient
// "current hart" in this package.
type Hart struct {
	cpu    int
	hartID uint64
	csrs   map[CSR]uint64
}

// NewHart creates a hart model with all CSRs zero.
func NewHart(cpu int, hartID uint64) *Hart {
	return &Hart{
		cpu:    cpu,
		hartID: hartID,
		csrs:   make(map[CSR]uint64),
	}
}

// CPU returns the logical CPU number of the hart.
func (h *Hart) CPU() int {
	return h.cpu
}

// HartID returns the hart ID.
func (h *Hart) HartID() uint64 {
	return h.hartID
}

// Read returns the value of a CSR.
func (h *Hart) Read(c CSR) uint64 {
	return h.csrs[c]
}

// Write sets the value of a CSR.
func (h *Hart) Write(c CSR, v uint64) {
	h.csrs[c] = v
}

// Set ors the mask into a CSR.
func (h *Hart) Set(c CSR, mask uint64) {
	h.csrs[c] |= mask
}

// Clear clears the masked bits of a CSR.
func (h *Hart) Clear(c CSR, mask uint64) {
	h.csrs[c] &^= mask
}
