package condition

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/tourforge/tourforge/pkg/domain"
)

// Rule is a parsed conditional branch: a condition plus the target it
// routes to when the condition matches.
type Rule struct {
	ID           string
	QuestionID   string
	Cond         Condition
	TargetNodeID string
	Label        string
}

// Matches evaluates the rule against the accumulated answers.
func (r Rule) Matches(answers domain.AnswerSet) bool {
	ans, ok := answers[r.QuestionID]
	return r.Cond.Evaluate(ans, ok)
}

// ParseRule converts a persisted rule into its typed form. It never fails:
// unknown operators and mistyped values parse to conditions that evaluate
// false, so a malformed rule cannot break live playback.
func ParseRule(raw domain.ConditionalRule) Rule {
	return Rule{
		ID:           raw.ID,
		QuestionID:   raw.QuestionID,
		Cond:         parseCondition(Operator(raw.Operator), raw.Value),
		TargetNodeID: raw.TargetNodeID,
		Label:        raw.Label,
	}
}

// ParseRules converts a rule list, preserving order. Order is load-bearing:
// the navigator short-circuits on the first match.
func ParseRules(raw []domain.ConditionalRule) []Rule {
	rules := make([]Rule, len(raw))
	for i, r := range raw {
		rules[i] = ParseRule(r)
	}
	return rules
}

func parseCondition(op Operator, value any) Condition {
	switch op {
	case OpEquals:
		return Equals{Value: stringValue(value)}
	case OpNotEquals:
		return NotEquals{Value: stringValue(value)}
	case OpContains:
		return Contains{Value: stringValue(value)}
	case OpNotContains:
		return NotContains{Value: stringValue(value)}
	case OpIn:
		return In{Values: listValue(value)}
	case OpNotIn:
		return NotIn{Values: listValue(value)}
	case OpGreaterThan:
		return GreaterThan{Threshold: numberValue(value)}
	case OpLessThan:
		return LessThan{Threshold: numberValue(value)}
	default:
		return Unknown{Op: op}
	}
}

// stringValue renders a scalar rule value the way the editor stored it.
// JSON numbers print without a trailing fraction so "5" matches 5.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// listValue extracts a string list, nil when the value is not a list.
func listValue(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, stringValue(e))
		}
		return out
	default:
		return nil
	}
}

// numberValue coerces a scalar rule value to float64, NaN on failure.
func numberValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
