package taic

import (
	"log"

	"github.com/sarchlab/taic/mmio"
	"github.com/sarchlab/taic/topology"
)

// Compatible is the topology compatible string TAIC nodes carry.
const Compatible = "riscv,taic0"

// A Mapper maps a controller's physical register window into an accessible
// mmio window.
type Mapper func(start, size uint64) (*mmio.Window, error)

func defaultMapper(_, size uint64) (*mmio.Window, error) {
	return mmio.NewWindow(mmio.NewStorage(size), 0, size), nil
}

// A Discoverer walks the platform topology once at boot, brings up every
// TAIC node it finds, and populates the per-CPU handler registry.
type Discoverer struct {
	platform *topology.Platform
	registry *Registry
	mapper   Mapper
}

// MakeDiscoverer returns a new Discoverer.
func MakeDiscoverer() Discoverer {
	return Discoverer{mapper: defaultMapper}
}

// WithPlatform sets the topology database to walk.
func (d Discoverer) WithPlatform(p *topology.Platform) Discoverer {
	d.platform = p
	return d
}

// WithRegistry sets the registry to populate.
func (d Discoverer) WithRegistry(r *Registry) Discoverer {
	d.registry = r
	return d
}

// WithMapper sets how register windows are mapped. Tests inject a mapper
// backed by a shared fake storage.
func (d Discoverer) WithMapper(m Mapper) Discoverer {
	d.mapper = m
	return d
}

// Discover brings up every TAIC node in the topology. A node that fails to
// come up is logged and skipped; the remaining instances proceed. The
// registry is frozen before returning.
func (d Discoverer) Discover() []*Controller {
	var ctrls []*Controller

	for _, node := range d.platform.NodesCompatible(Compatible) {
		c, err := d.DiscoverNode(node)
		if err != nil {
			log.Printf("taic: %v", err)
			continue
		}

		ctrls = append(ctrls, c)
	}

	d.registry.Freeze()

	return ctrls
}

// DiscoverNode brings up a single TAIC node: maps its register window, reads
// its queue-count properties, and claims a registry slot for every
// recognized interrupt-parent link.
func (d Discoverer) DiscoverNode(node *topology.Node) (*Controller, error) {
	if node.Reg == nil {
		return nil, &ConfigError{Node: node.Name, Reason: "no register window"}
	}

	window, err := d.mapper(node.Reg.Start, node.Reg.Size)
	if err != nil {
		return nil, &ConfigError{
			Node: node.Name, Reason: "cannot map register window", Err: err}
	}

	gqNum := uint8(DefaultGQNum)
	if node.GQNum != nil {
		gqNum = *node.GQNum
	} else {
		log.Printf("taic: %s: failed to parse gq-num, using default value %d",
			node.Name, DefaultGQNum)
	}

	lqNum := uint8(DefaultLQNum)
	if node.LQNum != nil {
		lqNum = *node.LQNum
	} else {
		log.Printf("taic: %s: failed to parse lq-num, using default value %d",
			node.Name, DefaultLQNum)
	}

	c := MakeBuilder().
		WithStart(node.Reg.Start).
		WithSize(node.Reg.Size).
		WithGQNum(gqNum).
		WithLQNum(lqNum).
		WithWindow(window).
		Build(node.Name)

	c.Lock()
	defer c.Unlock()

	if d.claimContexts(node, c) == 0 {
		return nil, &ConfigError{
			Node: node.Name, Reason: "no usable interrupt-parent links"}
	}

	log.Printf("taic: %s: %d gq_num %d lq_num available",
		node.Name, c.gqNum, c.lqNum)

	return c, nil
}

// claimContexts walks the node's interrupt-parent links and returns how many
// carried a recognized software-interrupt line. Per-link problems are soft
// failures: a controller serving a subset of harts is still useful.
func (d Discoverer) claimContexts(node *topology.Node, c *Controller) int {
	recognized := 0

	for i, link := range node.Links {
		var mode Mode
		switch link.Line {
		case topology.LineUSoft:
			mode = ModeUser
		case topology.LineSSoft:
			mode = ModeSupervisor
		default:
			continue
		}
		recognized++

		hartID, err := d.platform.ParentHartID(link.Parent)
		if err != nil {
			log.Printf("taic: %s: failed to parse hart ID for context %d",
				node.Name, i)
			continue
		}

		cpu, ok := d.platform.CPUID(hartID)
		if !ok {
			log.Printf("taic: %s: invalid cpuid for context %d", node.Name, i)
			continue
		}

		if !d.registry.Claim(cpu, mode, c) {
			log.Printf("taic: %s: handler already present for context %d",
				node.Name, i)
			continue
		}

		if mode == ModeUser {
			c.UMask.Add(hartID)
		} else {
			c.SMask.Add(hartID)
		}
	}

	return recognized
}
