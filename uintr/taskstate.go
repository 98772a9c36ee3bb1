package uintr

// A TaskState is the per-task user-interrupt record: the enable flag, the
// bound local-queue index, and the shadow copy of the task's U-mode CSRs
// swapped in and out at trap boundaries.
//
// The shadow registers are meaningful only while Enabled is true. The state
// is created with the task, all zero, and disappears with it.
type TaskState struct {
	Enabled bool
	LQIndex uint64

	// Shadow U-mode CSRs.
	UIE      uint64
	UEPC     uint64
	UTVec    uint64
	UScratch uint64
	UIP      uint64
}

// Enable binds the task to a local queue and marks it enabled. Once enabled,
// the bound queue is immutable for the lifetime of the enablement: enabling
// again is a no-op, not an error, and keeps the original queue index.
func (t *TaskState) Enable(lqIdx uint64) {
	if t.Enabled {
		return
	}

	t.LQIndex = lqIdx
	t.Enabled = true
}
