package uintr

// A CSR numbers a control-and-status register of the RISC-V N extension's
// user-interrupt file, plus the supervisor delegation register that routes
// the user-software line down to U-mode.
type CSR uint16

// CSR numbers used by the trap-boundary engine.
const (
	CSRUIE      CSR = 0x004
	CSRUTVec    CSR = 0x005
	CSRUScratch CSR = 0x040
	CSRUEPC     CSR = 0x041
	CSRUIP      CSR = 0x044
	CSRSIdeleg  CSR = 0x103
)

// USIE is the user-software-interrupt bit, used in UIE, UIP, and SIDELEG.
const USIE = uint64(1) << 0

// A CSRFile gives read/write access to the live CSRs of one hart.
type CSRFile interface {
	Read(c CSR) uint64
	Write(c CSR, v uint64)

	// Set ors the mask into the register.
	Set(c CSR, mask uint64)

	// Clear clears the masked bits of the register.
	Clear(c CSR, mask uint64)
}
