package taic

import "log"

// A Mode selects one of the two privilege levels a controller can service a
// hart for. Supervisor and user claims are independent.
type Mode int

// The two handler modes.
const (
	ModeSupervisor Mode = iota
	ModeUser
)

func (m Mode) String() string {
	switch m {
	case ModeSupervisor:
		return "supervisor"
	case ModeUser:
		return "user"
	default:
		return "unknown"
	}
}

type handler struct {
	present bool
	ctrl    *Controller
}

// A Registry is the process-wide per-CPU handler table. One entry per CPU
// per mode records whether a controller services that CPU and which one.
//
// The registry is written only during single-threaded discovery and frozen
// afterward. Reads take no lock; they are safe by the write-once-then-
// immutable construction.
type Registry struct {
	frozen    bool
	shandlers []handler
	uhandlers []handler
}

// NewRegistry creates a registry for numCPU logical CPUs.
func NewRegistry(numCPU int) *Registry {
	return &Registry{
		shandlers: make([]handler, numCPU),
		uhandlers: make([]handler, numCPU),
	}
}

// NumCPU returns the number of CPUs the registry covers.
func (r *Registry) NumCPU() int {
	return len(r.uhandlers)
}

func (r *Registry) slot(cpu int, mode Mode) *handler {
	if mode == ModeSupervisor {
		return &r.shandlers[cpu]
	}

	return &r.uhandlers[cpu]
}

// Claim binds a controller to the (cpu, mode) slot. The first claim wins;
// Claim returns false if the slot is already present. Claiming a frozen
// registry is a programmer error.
func (r *Registry) Claim(cpu int, mode Mode, c *Controller) bool {
	if r.frozen {
		log.Panic("taic: claim on a frozen registry")
	}

	h := r.slot(cpu, mode)
	if h.present {
		return false
	}

	h.present = true
	h.ctrl = c

	return true
}

// Freeze marks the end of discovery. The registry is read-only afterward.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Present reports whether a controller services the (cpu, mode) slot.
func (r *Registry) Present(cpu int, mode Mode) bool {
	if cpu < 0 || cpu >= r.NumCPU() {
		return false
	}

	return r.slot(cpu, mode).present
}

// Controller returns the controller serving the (cpu, mode) slot, if any.
func (r *Registry) Controller(cpu int, mode Mode) (*Controller, bool) {
	if !r.Present(cpu, mode) {
		return nil, false
	}

	return r.slot(cpu, mode).ctrl, true
}
