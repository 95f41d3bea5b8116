// Package validate checks tour graphs for structural problems: missing or
// duplicated roots, unreachable branches, orphaned steps, and illegal edge
// proposals. Results come back as error/warning lists for the editor to
// render together; nothing here panics on bad data.
package validate

import (
	"fmt"

	"github.com/tourforge/tourforge/pkg/domain"
)

// Connectivity produces the full reachability report for a graph.
//
// Unreachable detection (forward BFS from the root) and orphan detection
// (reverse BFS per step back to the root) are run as two separate walks on
// purpose: they surface different warnings in the editor, and they only
// coincide on clean DAGs.
func Connectivity(g *domain.Graph) domain.RootValidationResult {
	result := domain.RootValidationResult{
		OrphanedNodes:    []string{},
		UnreachableNodes: []string{},
	}

	roots := g.RootSteps()
	if len(roots) == 0 {
		result.Errors = append(result.Errors, "No root node found. Mark one step as the tour starting point.")
		result.IsValid = false
		return result
	}
	if len(roots) > 1 {
		// Write-time checks should prevent this; read-side validation
		// proceeds with the first match and flags the rest.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d step nodes are flagged as root; using %q", len(roots), roots[0].ID))
	}
	root := roots[0]
	result.RootNodeID = root.ID

	reachable := forwardReachable(g, root.ID)
	for _, n := range g.Nodes {
		if !reachable[n.ID] {
			result.UnreachableNodes = append(result.UnreachableNodes, n.ID)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Node %q is not reachable from the root (dead branch)", n.ID))
		}
	}

	for _, n := range g.Nodes {
		if n.Kind != domain.KindStep || n.ID == root.ID {
			continue
		}
		if !backReachesRoot(g, n.ID, root.ID) {
			result.OrphanedNodes = append(result.OrphanedNodes, n.ID)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Step %q has no path back to the root (orphaned)", n.ID))
		}
	}

	result.IsValid = len(result.Errors) == 0
	if result.IsValid && len(result.Warnings) == 0 {
		result.Message = "Graph is valid"
	}
	return result
}

// forwardReachable runs BFS from start following outgoing edges regardless
// of node kind.
func forwardReachable(g *domain.Graph, start string) map[string]bool {
	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.Edges {
			if e.Source != current || visited[e.Target] {
				continue
			}
			if g.Node(e.Target) == nil {
				continue
			}
			visited[e.Target] = true
			queue = append(queue, e.Target)
		}
	}
	return visited
}

// backReachesRoot runs BFS from start walking edges backward (targets to
// sources) and reports whether the root appears.
func backReachesRoot(g *domain.Graph, start, rootID string) bool {
	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == rootID {
			return true
		}
		for _, e := range g.Edges {
			if e.Target != current || visited[e.Source] {
				continue
			}
			visited[e.Source] = true
			queue = append(queue, e.Source)
		}
	}
	return false
}
