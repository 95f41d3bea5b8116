// Package condition implements the rule evaluation semantics of conditional
// nodes. Each operator is a distinct condition type, decided at parse time
// from the persisted rule payload; evaluation is pure and total, and every
// malformed input degrades to false rather than failing mid-tour.
package condition

import (
	"math"
	"strconv"
	"strings"

	"github.com/tourforge/tourforge/pkg/domain"
)

// Operator names as persisted by the editor.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
)

// Condition is one parsed comparison against a stored answer.
// Implementations carry only the operand shape their operator needs.
type Condition interface {
	Operator() Operator

	// Evaluate reports whether the answer satisfies the condition.
	// ok is false when the question has no stored answer; positive
	// operators then fail and their negations hold, matching the
	// loose-equality behavior the playback UI always had.
	Evaluate(ans domain.Answer, ok bool) bool
}

// Equals matches when the scalar answer is exactly the value.
type Equals struct{ Value string }

func (c Equals) Operator() Operator { return OpEquals }

func (c Equals) Evaluate(ans domain.Answer, ok bool) bool {
	if !ok || ans.IsList() {
		return false
	}
	return ans.Value() == c.Value
}

// NotEquals is the strict complement of Equals.
type NotEquals struct{ Value string }

func (c NotEquals) Operator() Operator { return OpNotEquals }

func (c NotEquals) Evaluate(ans domain.Answer, ok bool) bool {
	return !(Equals{Value: c.Value}).Evaluate(ans, ok)
}

// Contains matches list answers by membership and scalar answers by
// substring on the string forms.
type Contains struct{ Value string }

func (c Contains) Operator() Operator { return OpContains }

func (c Contains) Evaluate(ans domain.Answer, ok bool) bool {
	if !ok {
		return false
	}
	if ans.IsList() {
		for _, v := range ans.Values() {
			if v == c.Value {
				return true
			}
		}
		return false
	}
	return strings.Contains(ans.Value(), c.Value)
}

// NotContains is the complement of Contains.
type NotContains struct{ Value string }

func (c NotContains) Operator() Operator { return OpNotContains }

func (c NotContains) Evaluate(ans domain.Answer, ok bool) bool {
	return !(Contains{Value: c.Value}).Evaluate(ans, ok)
}

// In matches when the scalar answer appears in the rule's value list.
// A rule whose value was not a list parses to In with nil Values, which
// never matches.
type In struct{ Values []string }

func (c In) Operator() Operator { return OpIn }

func (c In) Evaluate(ans domain.Answer, ok bool) bool {
	if !ok || ans.IsList() {
		return false
	}
	for _, v := range c.Values {
		if v == ans.Value() {
			return true
		}
	}
	return false
}

// NotIn is the complement of In. With nil Values (malformed rule) it always
// holds, the safe default for a negated membership test.
type NotIn struct{ Values []string }

func (c NotIn) Operator() Operator { return OpNotIn }

func (c NotIn) Evaluate(ans domain.Answer, ok bool) bool {
	return !(In{Values: c.Values}).Evaluate(ans, ok)
}

// GreaterThan compares the numeric coercion of the answer against the
// threshold. Non-numeric operands coerce to NaN and every comparison
// against NaN is false.
type GreaterThan struct{ Threshold float64 }

func (c GreaterThan) Operator() Operator { return OpGreaterThan }

func (c GreaterThan) Evaluate(ans domain.Answer, ok bool) bool {
	if !ok {
		return false
	}
	return toNumber(ans) > c.Threshold
}

// LessThan is the mirror of GreaterThan.
type LessThan struct{ Threshold float64 }

func (c LessThan) Operator() Operator { return OpLessThan }

func (c LessThan) Evaluate(ans domain.Answer, ok bool) bool {
	if !ok {
		return false
	}
	return toNumber(ans) < c.Threshold
}

// Unknown is produced for operators the parser does not recognize.
// It never matches.
type Unknown struct{ Op Operator }

func (c Unknown) Operator() Operator { return c.Op }

func (c Unknown) Evaluate(domain.Answer, bool) bool { return false }

// toNumber coerces a scalar answer to float64, NaN on failure. List answers
// never coerce.
func toNumber(ans domain.Answer) float64 {
	if ans.IsList() {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(ans.Value()), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
