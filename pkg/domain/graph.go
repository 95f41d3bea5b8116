package domain

import "fmt"

// Edge is a directed connection between two node IDs.
// SourceHandle carries the condition-indexed output port for Conditional
// nodes (handle index corresponds to rule position).
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty"`
}

// Graph is an immutable snapshot of a tour graph, borrowed from the
// persistence layer. The core algorithms never mutate it; derived
// structures (flows, validation reports) are rebuilt from it on demand.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasEdge reports whether an edge with the exact (source, target) pair exists.
func (g *Graph) HasEdge(source, target string) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// Outgoing returns the edges leaving the given node, in stored order.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering the given node, in stored order.
func (g *Graph) Incoming(id string) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.Target == id {
			in = append(in, e)
		}
	}
	return in
}

// RootSteps returns every Step node flagged as root, in stored order.
// A well-formed graph has exactly one; callers decide how to treat drift.
func (g *Graph) RootSteps() []Node {
	var roots []Node
	for _, n := range g.Nodes {
		if n.Kind == KindStep && n.isRootFlagged() {
			roots = append(roots, n)
		}
	}
	return roots
}

// SingleRoot returns the unique root step. It fails with ErrNoRoot when no
// step carries the flag and ErrMultipleRoots when the flag has drifted onto
// more than one, so callers never have to pick a root silently.
func (g *Graph) SingleRoot() (*Node, error) {
	roots := g.RootSteps()
	switch len(roots) {
	case 0:
		return nil, ErrNoRoot
	case 1:
		return &roots[0], nil
	default:
		return nil, fmt.Errorf("%w: %d step nodes flagged as root", ErrMultipleRoots, len(roots))
	}
}

// RootConflict reports whether writing node would leave the graph with a
// second root step. Replacing the current root with itself is not a
// conflict.
func (g *Graph) RootConflict(node Node) bool {
	if node.Kind != KindStep || !node.isRootFlagged() {
		return false
	}
	for _, root := range g.RootSteps() {
		if root.ID != node.ID {
			return true
		}
	}
	return false
}

// isRootFlagged tolerates the two places the editor has historically stored
// the flag: the node column and the data payload.
func (n *Node) isRootFlagged() bool {
	if n.IsRoot {
		return true
	}
	if n.Data == nil {
		return false
	}
	v, ok := n.Data["isRoot"].(bool)
	return ok && v
}
