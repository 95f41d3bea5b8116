package tourforge_test

import (
	"fmt"

	"github.com/tourforge/tourforge"
	"github.com/tourforge/tourforge/pkg/domain"
)

// A two-branch onboarding tour: enterprise customers detour through the
// SSO setup step, everyone else goes straight to the quickstart.
func Example() {
	graph := &domain.Graph{
		Nodes: []domain.Node{
			{ID: "welcome", Kind: domain.KindStep, IsRoot: true,
				Data: map[string]any{"title": "Welcome"}},
			{ID: "size-gate", Kind: domain.KindConditional, Data: map[string]any{
				"conditions": []any{
					map[string]any{"id": "r1", "questionId": "company_size",
						"operator": "equals", "value": "Enterprise", "targetNodeId": "sso"},
				},
				"defaultTarget": "quickstart",
			}},
			{ID: "sso", Kind: domain.KindStep, Data: map[string]any{"title": "SSO setup"}},
			{ID: "quickstart", Kind: domain.KindStep, Data: map[string]any{"title": "Quickstart"}},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "welcome", Target: "size-gate"},
		},
	}

	engine := tourforge.New(graph)
	nav := engine.Navigator()

	sess := domain.NewTourSession("demo", "tree-1", "ada")
	if err := nav.Start(sess); err != nil {
		fmt.Println("start:", err)
		return
	}
	fmt.Println("at:", sess.CurrentStepID)

	sess.Answers["company_size"] = domain.ScalarAnswer("Enterprise")
	result := nav.Next(sess)
	fmt.Println("moved to:", result.StepID)

	// Output:
	// at: welcome
	// moved to: sso
}

func Example_validation() {
	graph := &domain.Graph{
		Nodes: []domain.Node{
			{ID: "start", Kind: domain.KindStep, IsRoot: true},
			{ID: "island", Kind: domain.KindStep},
		},
	}

	engine := tourforge.New(graph)
	report := engine.Validate()
	fmt.Println("valid:", report.IsValid)
	fmt.Println("unreachable:", report.UnreachableNodes)

	check := engine.CheckConnection("start", "start")
	fmt.Println("self-loop errors:", check.Errors)

	// Output:
	// valid: true
	// unreachable: [island]
	// self-loop errors: [A node cannot connect to itself]
}
