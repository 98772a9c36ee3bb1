// Package topology models the slice of the platform topology database that
// interrupt-controller discovery consumes: controller nodes with a register
// resource, optional queue-count properties, and interrupt-parent links that
// lead to hart-identifying nodes.
package topology

import "fmt"

// An IRQLine tags an interrupt-parent link with the interrupt line it is
// wired to. The values follow the RISC-V interrupt cause numbering.
type IRQLine int

// Software interrupt lines recognized by TAIC discovery. Links carrying any
// other line are ignored.
const (
	LineUSoft IRQLine = 0
	LineSSoft IRQLine = 1
)

// A Resource describes a device's register window in the physical address
// space.
type Resource struct {
	Start uint64 `json:"start"`
	Size  uint64 `json:"size"`
}

// A Link is one interrupt-parent link of a controller node. Parent names the
// per-hart interrupt-controller node the link is wired to.
type Link struct {
	Line   IRQLine `json:"line"`
	Parent string  `json:"parent"`
}

// A Node is one controller node of the platform topology.
type Node struct {
	Name       string `json:"name"`
	Compatible string `json:"compatible"`

	Reg *Resource `json:"reg,omitempty"`

	// Optional queue-count properties. Discovery falls back to documented
	// defaults when absent.
	GQNum *uint8 `json:"gq-num,omitempty"`
	LQNum *uint8 `json:"lq-num,omitempty"`

	Links []Link `json:"interrupt-parents"`
}

// A Hart maps a hart-identifying topology node to its hart ID and the
// logical CPU number the kernel assigned to it.
type Hart struct {
	Node   string `json:"node"`
	HartID uint64 `json:"hart_id"`
	CPU    int    `json:"cpu"`
}

// A Platform is the topology database handed to discovery.
type Platform struct {
	Harts []Hart  `json:"harts"`
	Nodes []*Node `json:"nodes"`
}

// NumCPU returns the number of logical CPUs the platform describes.
func (p *Platform) NumCPU() int {
	n := 0
	for _, h := range p.Harts {
		if h.CPU+1 > n {
			n = h.CPU + 1
		}
	}

	return n
}

// NodesCompatible returns the nodes carrying the given compatible string, in
// topology order.
func (p *Platform) NodesCompatible(compatible string) []*Node {
	var nodes []*Node
	for _, n := range p.Nodes {
		if n.Compatible == compatible {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// ParentHartID resolves an interrupt-parent node name to its hart ID.
func (p *Platform) ParentHartID(parent string) (uint64, error) {
	for _, h := range p.Harts {
		if h.Node == parent {
			return h.HartID, nil
		}
	}

	return 0, fmt.Errorf("topology: node %q does not identify a hart", parent)
}

// CPUID resolves a hart ID to a logical CPU number.
func (p *Platform) CPUID(hartID uint64) (int, bool) {
	for _, h := range p.Harts {
		if h.HartID == hartID {
			return h.CPU, true
		}
	}

	return -1, false
}
