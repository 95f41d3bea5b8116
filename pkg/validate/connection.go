package validate

import (
	"fmt"

	"github.com/tourforge/tourforge/pkg/domain"
)

// allowedTargets is the directional whitelist of node-kind pairs an edge
// may connect.
var allowedTargets = map[domain.NodeKind]map[domain.NodeKind]bool{
	domain.KindStep: {
		domain.KindQuestion:    true,
		domain.KindStep:        true,
		domain.KindConditional: true,
	},
	domain.KindConditional: {
		domain.KindStep: true,
	},
	domain.KindQuestion: {
		domain.KindStep:        true,
		domain.KindConditional: true,
	},
}

// Connection checks a proposed edge before it is persisted. Self-loops and
// illegal kind pairs are errors; a duplicate of an existing edge is a
// warning, and the caller decides whether to proceed.
func Connection(source, target string, g *domain.Graph) domain.ValidationResult {
	var result domain.ValidationResult

	if source == target {
		result.AddError("A node cannot connect to itself")
		return result
	}

	src := g.Node(source)
	dst := g.Node(target)
	if src == nil {
		result.AddError(fmt.Sprintf("Source node %q does not exist", source))
	}
	if dst == nil {
		result.AddError(fmt.Sprintf("Target node %q does not exist", target))
	}
	if src == nil || dst == nil {
		return result
	}

	if !allowedTargets[src.Kind][dst.Kind] {
		result.AddError(connectionError(src.Kind, dst.Kind))
	}

	if g.HasEdge(source, target) {
		result.AddWarning(fmt.Sprintf("An edge from %q to %q already exists", source, target))
	}

	return result
}

func connectionError(source, target domain.NodeKind) string {
	switch source {
	case domain.KindConditional:
		return "Conditional nodes can only route to tour steps."
	case domain.KindQuestion:
		return "Questions can only connect to tour steps or conditionals."
	default:
		return fmt.Sprintf("Connections from %s to %s nodes are not allowed", source, target)
	}
}
