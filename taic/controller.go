// Package taic models the TAIC interrupt controller: the per-instance
// register block, the per-CPU handler registry populated by topology
// discovery, and the local-queue routing protocol that retargets a queue's
// owning hart at trap boundaries.
package taic

import (
	"sync"

	"github.com/sarchlab/taic/mmio"
)

// Register block layout of a TAIC instance.
const (
	// LQOffset is where the local-queue register array starts.
	LQOffset = 0x1000

	// LQSize is the stride of one local-queue register block.
	LQSize = 0x1000

	// lqOwnerField is the offset of the owner-hart field within a
	// local-queue block.
	lqOwnerField = 0x38

	// lqReleaseReg is the queue-release register, fixed offset from base.
	lqReleaseReg = 0x08
)

// Queue-count defaults used when the topology node omits the properties.
const (
	DefaultGQNum = 4
	DefaultLQNum = 8
)

// NoOwner is the owner-field sentinel meaning "no current owner". A queue
// whose owner is NoOwner is not delivered to any hart.
const NoOwner = ^uint64(0)

// A HartSet records which harts a controller instance services in one
// privilege mode.
type HartSet map[uint64]struct{}

// Add puts a hart into the set.
func (s HartSet) Add(hartID uint64) {
	s[hartID] = struct{}{}
}

// Contains reports whether the set holds the hart.
func (s HartSet) Contains(hartID uint64) bool {
	_, ok := s[hartID]
	return ok
}

// A Controller is one TAIC instance. Its configuration fields are written
// once at discovery time and read-only afterward; the lock serializes
// discovery-time mutation only and is never taken on the routing hot path.
type Controller struct {
	sync.Mutex

	name   string
	start  uint64
	size   uint64
	gqNum  uint8
	lqNum  uint8
	window *mmio.Window

	// SMask and UMask hold the harts this instance services for
	// supervisor-level and user-level interrupts.
	SMask HartSet
	UMask HartSet
}

// Name returns the name of the controller instance.
func (c *Controller) Name() string {
	return c.name
}

// Start returns the physical base address of the register window.
func (c *Controller) Start() uint64 {
	return c.start
}

// Size returns the size of the register window.
func (c *Controller) Size() uint64 {
	return c.size
}

// GQNum returns the number of group queues.
func (c *Controller) GQNum() uint8 {
	return c.gqNum
}

// LQNum returns the number of local queues per group.
func (c *Controller) LQNum() uint8 {
	return c.lqNum
}

// LQOwnerOffset computes the window offset of the owner-hart field for a
// local queue. The queue index packs the group index in the high 32 bits and
// the slot index in the low 32 bits.
func (c *Controller) LQOwnerOffset(lqIdx uint64) uint64 {
	high := lqIdx >> 32
	low := lqIdx & 0xffffffff

	return LQOffset + (high*uint64(c.lqNum)+low)*LQSize + lqOwnerField
}

// WriteLQOwner records hartID as the owner of the local queue with a single
// full-width store.
func (c *Controller) WriteLQOwner(lqIdx, hartID uint64) error {
	return c.window.Write64(c.LQOwnerOffset(lqIdx), hartID)
}

// ReadLQOwner returns the hart currently recorded as the owner of the local
// queue.
func (c *Controller) ReadLQOwner(lqIdx uint64) (uint64, error) {
	return c.window.Read64(c.LQOwnerOffset(lqIdx))
}

// ReleaseLQ writes the queue index to the release register, telling the
// controller to drop the queue's table entry. The queue's owner field is
// invalid afterward until the queue is reassigned.
func (c *Controller) ReleaseLQ(lqIdx uint64) error {
	return c.window.Write64(lqReleaseReg, lqIdx)
}
