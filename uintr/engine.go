// Package uintr implements the user-interrupt trap-boundary engine: the
// per-task enable protocol, the U-mode CSR shadow it maintains, and the
// save/restore logic that keeps a migrating task's interrupt state
// consistent across harts.
package uintr

import (
	"log"

	"github.com/sarchlab/taic/hooking"
	"github.com/sarchlab/taic/taic"
)

// A Router retargets and releases local queues on behalf of a CPU. The
// per-CPU handler registry of the taic package is the canonical
// implementation.
type Router interface {
	RouteLQ(cpu int, lqIdx, hartID uint64) error
	FreeLQ(cpu int, lqIdx uint64) error
}

// Hook positions of the engine.
var (
	HookPosSave    = &hooking.HookPos{Name: "Save"}
	HookPosRestore = &hooking.HookPos{Name: "Restore"}
	HookPosRelease = &hooking.HookPos{Name: "Release"}
)

// A HookDetail carries the routing outcome of a save/restore/release to the
// engine's hooks.
type HookDetail struct {
	CPU     int
	HartID  uint64
	LQIndex uint64
	Owner   uint64
	Err     error
}

// An Engine drives the trap-boundary protocol. The trap dispatcher calls
// Save at every transition out of a task's user-mode execution and Restore
// at every transition back in, on the hart currently handling that task.
//
// The caller must guarantee that Save for a task happens-before any
// subsequent Restore for the same task on any hart; the scheduler provides
// this by never running a task on two harts at once. The engine itself never
// blocks, sleeps, or allocates.
type Engine struct {
	hooking.HookableBase

	router Router
}

// NewEngine creates an engine that routes through the given router.
func NewEngine(router Router) *Engine {
	return &Engine{router: router}
}

// Restore is invoked on trap exit, before returning to the task's user
// context.
//
// It always delegates the user-software line to U-mode. For a disabled task
// it clears any user-interrupt enable and pending bits a prior task may have
// left on this hart and touches no controller register. For an enabled task
// it claims the hart as the queue's owner, restores the four shadow CSRs,
// and or-merges the shadow pending bits with whatever the hardware latched
// while the task was off-CPU.
func (e *Engine) Restore(h *Hart, t *TaskState) {
	h.Set(CSRSIdeleg, USIE)

	if !t.Enabled {
		h.Clear(CSRUIE, USIE)
		h.Clear(CSRUIP, USIE)
		return
	}

	err := e.router.RouteLQ(h.CPU(), t.LQIndex, h.HartID())
	if err != nil {
		// Delivery is temporarily unavailable on this hart. The task still
		// runs with its shadow state restored.
		log.Printf("uintr: cpu %d: route lq %#x: %v", h.CPU(), t.LQIndex, err)
	}

	h.Write(CSRUIE, t.UIE)
	h.Write(CSRUEPC, t.UEPC)
	h.Write(CSRUTVec, t.UTVec)
	h.Write(CSRUScratch, t.UScratch)

	// A pending bit latched while the task was not scheduled must not be
	// lost.
	uip := h.Read(CSRUIP)
	h.Write(CSRUIP, t.UIP|uip)

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosRestore,
		Item:   t,
		Detail: HookDetail{
			CPU:     h.CPU(),
			HartID:  h.HartID(),
			LQIndex: t.LQIndex,
			Owner:   h.HartID(),
			Err:     err,
		},
	})
}

// Save is invoked on trap entry, when leaving the task's user context. For a
// disabled task it is a pure no-op. For an enabled task it first marks the
// queue as having no owning hart, so nothing is delivered while the task is
// off-CPU, then snapshots the live U-mode CSRs into the task's shadow.
func (e *Engine) Save(h *Hart, t *TaskState) {
	if !t.Enabled {
		return
	}

	err := e.router.RouteLQ(h.CPU(), t.LQIndex, taic.NoOwner)
	if err != nil {
		log.Printf("uintr: cpu %d: unroute lq %#x: %v",
			h.CPU(), t.LQIndex, err)
	}

	t.UIE = h.Read(CSRUIE)
	t.UEPC = h.Read(CSRUEPC)
	t.UTVec = h.Read(CSRUTVec)
	t.UScratch = h.Read(CSRUScratch)
	t.UIP = h.Read(CSRUIP)

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosSave,
		Item:   t,
		Detail: HookDetail{
			CPU:     h.CPU(),
			HartID:  h.HartID(),
			LQIndex: t.LQIndex,
			Owner:   taic.NoOwner,
			Err:     err,
		},
	})
}

// Release frees the task's local queue entirely and disables the task. The
// queue index is invalid afterward until reassigned by the allocator.
func (e *Engine) Release(h *Hart, t *TaskState) error {
	if !t.Enabled {
		return nil
	}

	err := e.router.FreeLQ(h.CPU(), t.LQIndex)
	if err != nil {
		return err
	}

	lq := t.LQIndex
	*t = TaskState{}

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosRelease,
		Item:   t,
		Detail: HookDetail{
			CPU:     h.CPU(),
			HartID:  h.HartID(),
			LQIndex: lq,
		},
	})

	return nil
}
