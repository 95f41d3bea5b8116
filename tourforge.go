package tourforge

import (
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/flow"
	"github.com/tourforge/tourforge/pkg/validate"
)

// Engine is the high-level entry point for embedding the tour core. It
// wraps one immutable graph snapshot; build a new Engine whenever the
// graph changes.
type Engine struct {
	graph *domain.Graph
	flow  *flow.Flow
}

// New creates an engine over a graph snapshot.
func New(graph *domain.Graph) *Engine {
	return &Engine{
		graph: graph,
		flow:  flow.Build(graph),
	}
}

// Graph returns the underlying snapshot.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// Navigator returns a traversal driver over the snapshot. Session state
// lives with the caller; the navigator only mutates what it is handed.
func (e *Engine) Navigator() *flow.Navigator {
	return flow.NewNavigator(e.flow)
}

// Validate runs the connectivity report: root presence, forward
// reachability, and orphaned step detection.
func (e *Engine) Validate() domain.RootValidationResult {
	return validate.Connectivity(e.graph)
}

// CheckConnection vets a proposed edge before it is persisted.
func (e *Engine) CheckConnection(source, target string) domain.ValidationResult {
	return validate.Connection(source, target, e.graph)
}
