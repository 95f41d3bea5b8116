// Package flow derives the navigable structure of a tour graph and drives
// playback over it: which step comes next given the accumulated answers,
// and which step came before.
package flow

import (
	"github.com/tourforge/tourforge/pkg/condition"
	"github.com/tourforge/tourforge/pkg/domain"
)

// Connection is one forward hop in the flow map.
type Connection struct {
	TargetID string
	Kind     domain.NodeKind
}

// conditionalRoute is the parsed routing table of one Conditional node.
type conditionalRoute struct {
	rules         []condition.Rule
	defaultTarget string
}

// Flow is the adjacency structure built fresh from a graph snapshot for
// each navigation or validation run. It is never mutated after Build, so
// it cannot go stale; callers rebuild rather than patch.
type Flow struct {
	// RootID is the first root-flagged step, or empty when none exists.
	// Navigator.Start enforces uniqueness; Build stays lenient so partial
	// graphs can still be inspected.
	RootID string

	graph        *domain.Graph
	out          map[string][]Connection
	conditionals map[string]conditionalRoute
}

// Build constructs the flow map from a graph snapshot. Edges referencing
// unknown nodes are skipped; the connectivity validator reports those
// separately.
func Build(g *domain.Graph) *Flow {
	f := &Flow{
		graph:        g,
		out:          make(map[string][]Connection),
		conditionals: make(map[string]conditionalRoute),
	}

	if roots := g.RootSteps(); len(roots) > 0 {
		f.RootID = roots[0].ID
	}

	for _, e := range g.Edges {
		target := g.Node(e.Target)
		if target == nil || g.Node(e.Source) == nil {
			continue
		}
		f.out[e.Source] = append(f.out[e.Source], Connection{
			TargetID: e.Target,
			Kind:     target.Kind,
		})
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind != domain.KindConditional {
			continue
		}
		data, err := n.ConditionalData()
		if err != nil {
			// Undecodable payloads route nowhere; rule evaluation is
			// fail-closed all the way down.
			f.conditionals[n.ID] = conditionalRoute{}
			continue
		}
		f.conditionals[n.ID] = conditionalRoute{
			rules:         condition.ParseRules(data.Rules),
			defaultTarget: data.DefaultTarget,
		}
	}

	return f
}

// Outgoing returns the forward connections of a node, in edge order.
func (f *Flow) Outgoing(id string) []Connection {
	return f.out[id]
}

// Node looks up a node in the underlying snapshot.
func (f *Flow) Node(id string) *domain.Node {
	return f.graph.Node(id)
}

// stepCount counts the Step nodes in the snapshot, used for progress.
func (f *Flow) stepCount() int {
	n := 0
	for _, node := range f.graph.Nodes {
		if node.Kind == domain.KindStep {
			n++
		}
	}
	return n
}

// transitionExists reports whether b is reachable from a in one playback
// hop: a direct edge, or an edge into a Conditional whose rules or default
// resolve to b.
func (f *Flow) transitionExists(a, b string) bool {
	for _, conn := range f.out[a] {
		if conn.TargetID == b {
			return true
		}
		if conn.Kind != domain.KindConditional {
			continue
		}
		route := f.conditionals[conn.TargetID]
		if route.defaultTarget == b {
			return true
		}
		for _, r := range route.rules {
			if r.TargetNodeID == b {
				return true
			}
		}
	}
	return false
}
