package taic

import "github.com/sarchlab/taic/mmio"

// A Builder builds TAIC controller instances.
type Builder struct {
	start  uint64
	size   uint64
	gqNum  uint8
	lqNum  uint8
	window *mmio.Window
}

// MakeBuilder returns a new Builder with the documented default queue
// counts.
func MakeBuilder() Builder {
	return Builder{
		gqNum: DefaultGQNum,
		lqNum: DefaultLQNum,
	}
}

// WithStart sets the physical base address of the register window.
func (b Builder) WithStart(start uint64) Builder {
	b.start = start
	return b
}

// WithSize sets the size of the register window.
func (b Builder) WithSize(size uint64) Builder {
	b.size = size
	return b
}

// WithGQNum sets the number of group queues.
func (b Builder) WithGQNum(gqNum uint8) Builder {
	b.gqNum = gqNum
	return b
}

// WithLQNum sets the number of local queues per group.
func (b Builder) WithLQNum(lqNum uint8) Builder {
	b.lqNum = lqNum
	return b
}

// WithWindow sets the mapped register window.
func (b Builder) WithWindow(window *mmio.Window) Builder {
	b.window = window
	return b
}

// Build builds a new Controller.
func (b Builder) Build(name string) *Controller {
	c := &Controller{
		name:   name,
		start:  b.start,
		size:   b.size,
		gqNum:  b.gqNum,
		lqNum:  b.lqNum,
		window: b.window,
		SMask:  make(HartSet),
		UMask:  make(HartSet),
	}

	if c.window == nil {
		c.window = mmio.NewWindow(mmio.NewStorage(b.size), 0, b.size)
	}

	return c
}
