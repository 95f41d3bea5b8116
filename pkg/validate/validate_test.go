package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourforge/tourforge/pkg/domain"
)

func node(id string, kind domain.NodeKind, root bool) domain.Node {
	return domain.Node{ID: id, Kind: kind, IsRoot: root}
}

func edge(source, target string) domain.Edge {
	return domain.Edge{ID: source + "->" + target, Source: source, Target: target}
}

func TestConnectivityCleanGraph(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			node("a", domain.KindStep, true),
			node("gate", domain.KindConditional, false),
			node("b", domain.KindStep, false),
		},
		Edges: []domain.Edge{edge("a", "gate"), edge("gate", "b")},
	}

	result := Connectivity(g)
	assert.True(t, result.IsValid)
	assert.Equal(t, "a", result.RootNodeID)
	assert.Empty(t, result.UnreachableNodes)
	assert.Empty(t, result.OrphanedNodes)
	assert.Equal(t, "Graph is valid", result.Message)
}

func TestConnectivityNoRoot(t *testing.T) {
	g := &domain.Graph{Nodes: []domain.Node{node("a", domain.KindStep, false)}}

	result := Connectivity(g)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "No root node found. Mark one step as the tour starting point.", result.Errors[0])
	assert.Empty(t, result.RootNodeID)
}

func TestConnectivityMultipleRootsWarnAndUseFirst(t *testing.T) {
	g := &domain.Graph{Nodes: []domain.Node{
		node("a", domain.KindStep, true),
		node("b", domain.KindStep, true),
	}}

	result := Connectivity(g)
	assert.True(t, result.IsValid, "duplicate roots degrade to a warning on read")
	assert.Equal(t, "a", result.RootNodeID)
	assert.NotEmpty(t, result.Warnings)
}

func TestConnectivityUnreachableNode(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			node("a", domain.KindStep, true),
			node("island", domain.KindStep, false),
		},
	}

	result := Connectivity(g)
	assert.True(t, result.IsValid, "unreachable nodes warn, they do not invalidate")
	assert.Equal(t, []string{"island"}, result.UnreachableNodes)
	// A step you cannot reach also has no path back.
	assert.Equal(t, []string{"island"}, result.OrphanedNodes)
	assert.Empty(t, result.Message)
}

func TestConnectivityMergeParentNotOrphaned(t *testing.T) {
	// "c" feeds into the flow but nothing points at it: unreachable and
	// orphaned. "b" stays clean even though one of its parents is dead.
	g := &domain.Graph{
		Nodes: []domain.Node{
			node("a", domain.KindStep, true),
			node("b", domain.KindStep, false),
			node("c", domain.KindStep, false),
		},
		Edges: []domain.Edge{
			edge("a", "b"),
			edge("c", "b"),
		},
	}

	result := Connectivity(g)
	assert.Equal(t, []string{"c"}, result.UnreachableNodes)
	assert.Equal(t, []string{"c"}, result.OrphanedNodes)
}

func TestConnectivityCycleBackToRoot(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			node("a", domain.KindStep, true),
			node("b", domain.KindStep, false),
		},
		Edges: []domain.Edge{edge("a", "b"), edge("b", "a")},
	}

	result := Connectivity(g)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.OrphanedNodes)
	assert.Empty(t, result.UnreachableNodes)
}

func TestConnectivityQuestionNodesNotOrphanChecked(t *testing.T) {
	// Only steps are subject to the orphan rule; a leaf question is fine.
	g := &domain.Graph{
		Nodes: []domain.Node{
			node("a", domain.KindStep, true),
			node("q", domain.KindQuestion, false),
		},
		Edges: []domain.Edge{edge("a", "q")},
	}

	result := Connectivity(g)
	assert.Empty(t, result.OrphanedNodes)
}

func graphOfKinds() *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{
			node("step1", domain.KindStep, true),
			node("step2", domain.KindStep, false),
			node("q1", domain.KindQuestion, false),
			node("cond1", domain.KindConditional, false),
		},
		Edges: []domain.Edge{edge("step1", "q1")},
	}
}

func TestConnectionAllowedPairs(t *testing.T) {
	g := graphOfKinds()

	for _, pair := range [][2]string{
		{"step1", "step2"},
		{"step1", "cond1"},
		{"cond1", "step2"},
		{"q1", "step2"},
		{"q1", "cond1"},
	} {
		result := Connection(pair[0], pair[1], g)
		assert.True(t, result.IsValid(), "%s -> %s should be allowed", pair[0], pair[1])
	}
}

func TestConnectionForbiddenPairs(t *testing.T) {
	g := graphOfKinds()

	tests := []struct {
		source, target string
		message        string
	}{
		{"cond1", "q1", "Conditional nodes can only route to tour steps."},
		{"cond1", "cond1", "A node cannot connect to itself"},
		{"q1", "q1", "A node cannot connect to itself"},
	}
	for _, tc := range tests {
		result := Connection(tc.source, tc.target, g)
		require.False(t, result.IsValid(), "%s -> %s", tc.source, tc.target)
		assert.Contains(t, result.Errors, tc.message)
	}

	// Question to question is rejected with the question wording.
	g.Nodes = append(g.Nodes, node("q2", domain.KindQuestion, false))
	result := Connection("q1", "q2", g)
	require.False(t, result.IsValid())
	assert.Contains(t, result.Errors, "Questions can only connect to tour steps or conditionals.")
}

func TestConnectionMissingNodes(t *testing.T) {
	g := graphOfKinds()

	result := Connection("step1", "ghost", g)
	assert.False(t, result.IsValid())

	result = Connection("ghost", "step1", g)
	assert.False(t, result.IsValid())
}

func TestConnectionDuplicateWarns(t *testing.T) {
	g := graphOfKinds()

	result := Connection("step1", "q1", g)
	assert.True(t, result.IsValid(), "duplicates stay valid")
	assert.NotEmpty(t, result.Warnings)
}
