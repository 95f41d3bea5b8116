package flow

import (
	"fmt"

	"github.com/tourforge/tourforge/pkg/domain"
)

// NextStatus is the outcome of a forward navigation attempt. It replaces
// the old nullable next-step id, which conflated "tour finished" with
// "blocked on an unanswered gating question".
type NextStatus int

const (
	// Advanced means the session moved to a new step.
	Advanced NextStatus = iota
	// Blocked means at least one conditional had rules but none matched
	// and no default was set. The caller should re-prompt, not complete.
	Blocked
	// Complete means no outgoing transition remains: the tour is over.
	Complete
)

func (s NextStatus) String() string {
	switch s {
	case Advanced:
		return "advanced"
	case Blocked:
		return "blocked"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("NextStatus(%d)", int(s))
	}
}

// NextResult reports where forward navigation landed.
type NextResult struct {
	Status NextStatus
	// StepID is set when Status is Advanced.
	StepID string
	// BlockedBy lists the conditional node IDs whose rules all failed,
	// set when Status is Blocked.
	BlockedBy []string
}

// Navigator executes traversal over one flow. It holds no session state of
// its own; every method takes the caller-owned session and mutates only it.
type Navigator struct {
	flow *Flow
}

// NewNavigator creates a navigator over a built flow.
func NewNavigator(f *Flow) *Navigator {
	return &Navigator{flow: f}
}

// Start positions the session at the root step. The single-root invariant
// is nominally enforced at write time, but external mutation can violate
// it, so Start re-checks and fails cleanly on zero or multiple roots.
func (n *Navigator) Start(sess *domain.TourSession) error {
	root, err := n.flow.graph.SingleRoot()
	if err != nil {
		return err
	}

	sess.CurrentStepID = root.ID
	sess.StepPath = []string{root.ID}
	sess.Status = domain.SessionInProgress
	n.updateProgress(sess)
	return nil
}

// Next resolves the step after the session's current one.
//
// Resolution order: conditionals attached to the current step are tried in
// edge order; within one conditional, rules run in list order and the first
// match wins, falling back to that conditional's own default target. Only
// when every conditional is exhausted does a direct step edge apply.
// Question targets are sub-elements of the current step, never stops.
func (n *Navigator) Next(sess *domain.TourSession) NextResult {
	var blocked []string
	var directStep string

	for _, conn := range n.flow.Outgoing(sess.CurrentStepID) {
		switch conn.Kind {
		case domain.KindConditional:
			route := n.flow.conditionals[conn.TargetID]
			if target, ok := resolveRoute(route, sess.Answers); ok {
				return n.advance(sess, target)
			}
			if len(route.rules) > 0 {
				blocked = append(blocked, conn.TargetID)
			}
		case domain.KindStep:
			if directStep == "" {
				directStep = conn.TargetID
			}
		case domain.KindQuestion:
			// Inline questions render with the step; not a traversal stop.
		}
	}

	if directStep != "" {
		return n.advance(sess, directStep)
	}
	if len(blocked) > 0 {
		return NextResult{Status: Blocked, BlockedBy: blocked}
	}
	return NextResult{Status: Complete}
}

// Previous pops the path stack. At the root (path length 1) it returns
// false and leaves the session untouched.
func (n *Navigator) Previous(sess *domain.TourSession) (string, bool) {
	if len(sess.StepPath) <= 1 {
		return "", false
	}
	sess.StepPath = sess.StepPath[:len(sess.StepPath)-1]
	sess.CurrentStepID = sess.StepPath[len(sess.StepPath)-1]
	n.updateProgress(sess)
	return sess.CurrentStepID, true
}

// ValidatePath audits a recorded path against the flow: it must begin at
// the root, and every consecutive pair must correspond to a real
// transition (a direct edge or a conditional's resolved target).
func (n *Navigator) ValidatePath(path []string) domain.ValidationResult {
	var result domain.ValidationResult

	if len(path) == 0 {
		result.AddError("path is empty")
		return result
	}
	if n.flow.RootID == "" {
		result.AddError("no root node found")
		return result
	}
	if path[0] != n.flow.RootID {
		result.AddError(fmt.Sprintf("path starts at %q, root is %q", path[0], n.flow.RootID))
	}

	for i := 0; i+1 < len(path); i++ {
		if !n.flow.transitionExists(path[i], path[i+1]) {
			result.AddError(fmt.Sprintf("no transition from %q to %q", path[i], path[i+1]))
		}
	}
	return result
}

func (n *Navigator) advance(sess *domain.TourSession, target string) NextResult {
	sess.StepPath = append(sess.StepPath, target)
	sess.CurrentStepID = target
	n.updateProgress(sess)
	return NextResult{Status: Advanced, StepID: target}
}

// resolveRoute applies first-match-wins over the route's rule list, then
// the route's own default.
func resolveRoute(route conditionalRoute, answers domain.AnswerSet) (string, bool) {
	for _, rule := range route.rules {
		if rule.Matches(answers) {
			return rule.TargetNodeID, true
		}
	}
	if route.defaultTarget != "" {
		return route.defaultTarget, true
	}
	return "", false
}

// updateProgress recomputes the visited share of step nodes.
func (n *Navigator) updateProgress(sess *domain.TourSession) {
	total := n.flow.stepCount()
	if total == 0 {
		sess.Progress = 0
		return
	}
	seen := make(map[string]bool, len(sess.StepPath))
	visited := 0
	for _, id := range sess.StepPath {
		if seen[id] {
			continue
		}
		seen[id] = true
		if node := n.flow.Node(id); node != nil && node.Kind == domain.KindStep {
			visited++
		}
	}
	sess.Progress = visited * 100 / total
}
