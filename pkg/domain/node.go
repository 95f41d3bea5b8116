package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NodeKind discriminates the behavior of a node in the tour graph.
type NodeKind string

const (
	// KindStep is a tour screen shown to the user. It may carry inline questions.
	KindStep NodeKind = "step"
	// KindQuestion is a single form field whose answer is stored by question ID.
	KindQuestion NodeKind = "question"
	// KindConditional routes to one of several targets based on rule evaluation.
	KindConditional NodeKind = "conditional"
)

// Valid reports whether the kind is one of the known node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindStep, KindQuestion, KindConditional:
		return true
	}
	return false
}

// Position is the canvas placement of a node. Cosmetic only; traversal and
// validation never read it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex in the tour graph, in the shape the editor persists it:
// a kind discriminator plus an untyped data payload.
type Node struct {
	ID       string         `json:"id"`
	Kind     NodeKind       `json:"type"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data,omitempty"`
	IsRoot   bool           `json:"isRoot,omitempty"`
}

// StepData is the payload of a Step node.
type StepData struct {
	Title       string         `json:"title" mapstructure:"title"`
	Description string         `json:"description" mapstructure:"description"`
	Questions   []QuestionData `json:"questions,omitempty" mapstructure:"questions"`

	// UI hints for the playback overlay. Irrelevant to traversal.
	TargetSelector string `json:"targetSelector,omitempty" mapstructure:"targetSelector"`
	Placement      string `json:"placement,omitempty" mapstructure:"placement"`
}

// QuestionData is the payload of a Question node, or one inline question of a step.
type QuestionData struct {
	QuestionID string   `json:"questionId" mapstructure:"questionId"`
	Type       string   `json:"type" mapstructure:"type"` // select|multiselect|text|textarea|number
	Label      string   `json:"label,omitempty" mapstructure:"label"`
	Options    []string `json:"options,omitempty" mapstructure:"options"`
	Required   bool     `json:"required,omitempty" mapstructure:"required"`
}

// ConditionalData is the payload of a Conditional node.
type ConditionalData struct {
	Title         string            `json:"title" mapstructure:"title"`
	Description   string            `json:"description" mapstructure:"description"`
	Rules         []ConditionalRule `json:"conditions,omitempty" mapstructure:"conditions"`
	DefaultTarget string            `json:"defaultTarget,omitempty" mapstructure:"defaultTarget"`
}

// ConditionalRule is one branch of a Conditional node, in its persisted form.
// Value is string, []string or number depending on Operator; it is parsed
// into a typed condition when the flow is built.
type ConditionalRule struct {
	ID           string `json:"id" mapstructure:"id"`
	QuestionID   string `json:"questionId" mapstructure:"questionId"`
	Operator     string `json:"operator" mapstructure:"operator"`
	Value        any    `json:"value" mapstructure:"value"`
	TargetNodeID string `json:"targetNodeId" mapstructure:"targetNodeId"`
	Label        string `json:"label,omitempty" mapstructure:"label"`
}

// StepData decodes the node payload as a Step payload.
func (n *Node) StepData() (StepData, error) {
	var d StepData
	if err := decodeData(n, &d); err != nil {
		return StepData{}, err
	}
	return d, nil
}

// QuestionData decodes the node payload as a Question payload.
func (n *Node) QuestionData() (QuestionData, error) {
	var d QuestionData
	if err := decodeData(n, &d); err != nil {
		return QuestionData{}, err
	}
	return d, nil
}

// ConditionalData decodes the node payload as a Conditional payload.
func (n *Node) ConditionalData() (ConditionalData, error) {
	var d ConditionalData
	if err := decodeData(n, &d); err != nil {
		return ConditionalData{}, err
	}
	return d, nil
}

func decodeData(n *Node, out any) error {
	if n.Data == nil {
		return nil
	}
	if err := mapstructure.Decode(n.Data, out); err != nil {
		return fmt.Errorf("node %s: decode %s payload: %w", n.ID, n.Kind, err)
	}
	return nil
}
