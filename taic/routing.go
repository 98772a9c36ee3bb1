package taic

// RouteLQ records hartID as the owner of a local queue through the user-mode
// controller registered for cpu. It is always invoked from the hart being
// written about, never to program a remote hart's queue from elsewhere.
//
// Writing NoOwner as hartID marks the queue as having no current owner, so
// no hart delivers to it until a future route.
func (r *Registry) RouteLQ(cpu int, lqIdx, hartID uint64) error {
	c, ok := r.Controller(cpu, ModeUser)
	if !ok {
		return ErrNoController
	}

	return c.WriteLQOwner(lqIdx, hartID)
}

// FreeLQ releases a local queue entirely through the user-mode controller
// registered for cpu. Unlike routing NoOwner, this deallocates the queue's
// table entry in the controller.
func (r *Registry) FreeLQ(cpu int, lqIdx uint64) error {
	c, ok := r.Controller(cpu, ModeUser)
	if !ok {
		return ErrNoController
	}

	return c.ReleaseLQ(lqIdx)
}
