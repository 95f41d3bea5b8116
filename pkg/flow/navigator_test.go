package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourforge/tourforge/pkg/domain"
)

func step(id string, root bool) domain.Node {
	return domain.Node{
		ID:     id,
		Kind:   domain.KindStep,
		IsRoot: root,
		Data:   map[string]any{"title": id},
	}
}

func question(id, questionID string) domain.Node {
	return domain.Node{
		ID:   id,
		Kind: domain.KindQuestion,
		Data: map[string]any{"questionId": questionID, "type": "select"},
	}
}

func conditional(id string, defaultTarget string, rules ...map[string]any) domain.Node {
	raw := make([]any, 0, len(rules))
	for _, r := range rules {
		raw = append(raw, r)
	}
	data := map[string]any{"conditions": raw}
	if defaultTarget != "" {
		data["defaultTarget"] = defaultTarget
	}
	return domain.Node{ID: id, Kind: domain.KindConditional, Data: data}
}

func edge(source, target string) domain.Edge {
	return domain.Edge{ID: source + "->" + target, Source: source, Target: target}
}

// onboardingGraph is the canonical routing example: a welcome step asks for
// the company size, a conditional sends Enterprise to the SSO step and
// everyone else to the quickstart.
func onboardingGraph() *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{
			step("welcome", true),
			question("size-q", "company_size"),
			conditional("size-gate", "quickstart",
				map[string]any{"id": "r1", "questionId": "company_size", "operator": "equals", "value": "Enterprise", "targetNodeId": "sso"},
			),
			step("sso", false),
			step("quickstart", false),
			step("finish", false),
		},
		Edges: []domain.Edge{
			edge("welcome", "size-q"),
			edge("welcome", "size-gate"),
			edge("sso", "finish"),
			edge("quickstart", "finish"),
		},
	}
}

func startSession(t *testing.T, g *domain.Graph) (*Navigator, *domain.TourSession) {
	t.Helper()
	nav := NewNavigator(Build(g))
	sess := domain.NewTourSession("s1", "t1", "u1")
	require.NoError(t, nav.Start(sess))
	return nav, sess
}

func TestStartPositionsAtRoot(t *testing.T) {
	_, sess := startSession(t, onboardingGraph())

	assert.Equal(t, "welcome", sess.CurrentStepID)
	assert.Equal(t, []string{"welcome"}, sess.StepPath)
	assert.Equal(t, domain.SessionInProgress, sess.Status)
}

func TestStartFailsWithoutRoot(t *testing.T) {
	g := &domain.Graph{Nodes: []domain.Node{step("a", false)}}
	nav := NewNavigator(Build(g))

	err := nav.Start(domain.NewTourSession("s1", "t1", "u1"))
	assert.ErrorIs(t, err, domain.ErrNoRoot)
}

func TestStartFailsWithTwoRoots(t *testing.T) {
	g := &domain.Graph{Nodes: []domain.Node{step("a", true), step("b", true)}}
	nav := NewNavigator(Build(g))

	err := nav.Start(domain.NewTourSession("s1", "t1", "u1"))
	assert.ErrorIs(t, err, domain.ErrMultipleRoots)
}

func TestStartHonorsDataRootFlag(t *testing.T) {
	// Some editors persist the flag inside the data payload only.
	g := &domain.Graph{Nodes: []domain.Node{
		{ID: "a", Kind: domain.KindStep, Data: map[string]any{"isRoot": true}},
	}}
	nav := NewNavigator(Build(g))

	sess := domain.NewTourSession("s1", "t1", "u1")
	require.NoError(t, nav.Start(sess))
	assert.Equal(t, "a", sess.CurrentStepID)
}

func TestNextRoutesOnMatchingRule(t *testing.T) {
	nav, sess := startSession(t, onboardingGraph())
	sess.Answers["company_size"] = domain.ScalarAnswer("Enterprise")

	result := nav.Next(sess)
	assert.Equal(t, Advanced, result.Status)
	assert.Equal(t, "sso", result.StepID)
	assert.Equal(t, []string{"welcome", "sso"}, sess.StepPath)
}

func TestNextFallsBackToDefaultTarget(t *testing.T) {
	nav, sess := startSession(t, onboardingGraph())
	sess.Answers["company_size"] = domain.ScalarAnswer("Startup")

	result := nav.Next(sess)
	assert.Equal(t, Advanced, result.Status)
	assert.Equal(t, "quickstart", result.StepID)
}

func TestNextDefaultAppliesWithNoAnswer(t *testing.T) {
	nav, sess := startSession(t, onboardingGraph())

	result := nav.Next(sess)
	assert.Equal(t, Advanced, result.Status)
	assert.Equal(t, "quickstart", result.StepID)
}

func TestNextFirstMatchWins(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			step("start", true),
			conditional("gate", "",
				map[string]any{"id": "r1", "questionId": "q", "operator": "equals", "value": "x", "targetNodeId": "first"},
				map[string]any{"id": "r2", "questionId": "q", "operator": "equals", "value": "x", "targetNodeId": "second"},
			),
			step("first", false),
			step("second", false),
		},
		Edges: []domain.Edge{edge("start", "gate")},
	}
	nav, sess := startSession(t, g)
	sess.Answers["q"] = domain.ScalarAnswer("x")

	result := nav.Next(sess)
	assert.Equal(t, Advanced, result.Status)
	assert.Equal(t, "first", result.StepID)
}

func TestNextConditionalsBeforeDirectEdges(t *testing.T) {
	// A direct step edge only applies once every conditional has failed to
	// resolve; a resolvable conditional takes priority regardless of edge
	// order.
	g := onboardingGraph()
	g.Edges = append(g.Edges, edge("welcome", "quickstart"))

	nav, sess := startSession(t, g)
	sess.Answers["company_size"] = domain.ScalarAnswer("Enterprise")

	result := nav.Next(sess)
	assert.Equal(t, "sso", result.StepID)
}

func TestNextBlockedWhenNoRuleMatchesAndNoDefault(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			step("start", true),
			conditional("gate", "",
				map[string]any{"id": "r1", "questionId": "ready", "operator": "equals", "value": "yes", "targetNodeId": "end"},
			),
			step("end", false),
		},
		Edges: []domain.Edge{edge("start", "gate")},
	}
	nav, sess := startSession(t, g)

	result := nav.Next(sess)
	assert.Equal(t, Blocked, result.Status)
	assert.Equal(t, []string{"gate"}, result.BlockedBy)
	assert.Equal(t, []string{"start"}, sess.StepPath, "blocked navigation must not move the session")
}

func TestNextDirectEdgeWinsOverUnresolvedConditional(t *testing.T) {
	// An unresolvable conditional does not block when a direct step edge
	// exists; the direct edge is the fallback route.
	g := &domain.Graph{
		Nodes: []domain.Node{
			step("start", true),
			conditional("gate", "",
				map[string]any{"id": "r1", "questionId": "ready", "operator": "equals", "value": "yes", "targetNodeId": "end"},
			),
			step("end", false),
			step("detour", false),
		},
		Edges: []domain.Edge{edge("start", "gate"), edge("start", "detour")},
	}
	nav, sess := startSession(t, g)

	result := nav.Next(sess)
	assert.Equal(t, Advanced, result.Status)
	assert.Equal(t, "detour", result.StepID)
}

func TestNextCompleteAtLeaf(t *testing.T) {
	nav, sess := startSession(t, onboardingGraph())
	sess.Answers["company_size"] = domain.ScalarAnswer("Startup")

	require.Equal(t, "quickstart", nav.Next(sess).StepID)
	require.Equal(t, "finish", nav.Next(sess).StepID)

	result := nav.Next(sess)
	assert.Equal(t, Complete, result.Status)
	assert.Empty(t, result.StepID)
}

func TestNextQuestionEdgesAreNotStops(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			step("start", true),
			question("q1", "q"),
		},
		Edges: []domain.Edge{edge("start", "q1")},
	}
	nav, sess := startSession(t, g)

	result := nav.Next(sess)
	assert.Equal(t, Complete, result.Status)
}

func TestPrevious(t *testing.T) {
	nav, sess := startSession(t, onboardingGraph())
	sess.Answers["company_size"] = domain.ScalarAnswer("Enterprise")
	require.Equal(t, "sso", nav.Next(sess).StepID)

	stepID, ok := nav.Previous(sess)
	assert.True(t, ok)
	assert.Equal(t, "welcome", stepID)
	assert.Equal(t, []string{"welcome"}, sess.StepPath)

	// At the root: no-op.
	_, ok = nav.Previous(sess)
	assert.False(t, ok)
	assert.Equal(t, "welcome", sess.CurrentStepID)
}

func TestProgressTracksUniqueVisitedSteps(t *testing.T) {
	nav, sess := startSession(t, onboardingGraph())
	// 4 step nodes total.
	assert.Equal(t, 25, sess.Progress)

	sess.Answers["company_size"] = domain.ScalarAnswer("Startup")
	nav.Next(sess)
	assert.Equal(t, 50, sess.Progress)

	// Going back and forth does not double count.
	nav.Previous(sess)
	nav.Next(sess)
	assert.Equal(t, 50, sess.Progress)
}

func TestValidatePath(t *testing.T) {
	nav, _ := startSession(t, onboardingGraph())

	result := nav.ValidatePath([]string{"welcome", "size-gate"})
	assert.True(t, result.IsValid())
	result = nav.ValidatePath([]string{"welcome", "sso", "finish"})
	assert.True(t, result.IsValid(),
		"conditional rule targets count as transitions")
	result = nav.ValidatePath([]string{"welcome", "quickstart"})
	assert.True(t, result.IsValid(),
		"conditional default targets count as transitions")

	result = nav.ValidatePath([]string{"sso", "finish"})
	assert.False(t, result.IsValid(), "path must start at the root")

	result = nav.ValidatePath([]string{"welcome", "finish"})
	assert.False(t, result.IsValid())

	result = nav.ValidatePath(nil)
	assert.False(t, result.IsValid())
}

func TestBuildSkipsDanglingEdges(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{step("start", true)},
		Edges: []domain.Edge{edge("start", "ghost")},
	}
	f := Build(g)

	assert.Empty(t, f.Outgoing("start"))
}

func TestBuildMalformedConditionalRoutesNowhere(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			step("start", true),
			{ID: "gate", Kind: domain.KindConditional, Data: map[string]any{"conditions": "oops"}},
			step("end", false),
		},
		Edges: []domain.Edge{edge("start", "gate")},
	}
	nav, sess := startSession(t, g)

	result := nav.Next(sess)
	assert.Equal(t, Complete, result.Status, "a conditional with no parsed rules neither routes nor blocks")
}
