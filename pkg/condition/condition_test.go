package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tourforge/tourforge/pkg/domain"
)

func evalRule(t *testing.T, raw domain.ConditionalRule, answers domain.AnswerSet) bool {
	t.Helper()
	return ParseRule(raw).Matches(answers)
}

func TestEquals(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "size", Operator: "equals", Value: "Enterprise"}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"size": domain.ScalarAnswer("Enterprise")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"size": domain.ScalarAnswer("Startup")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{}), "missing answer never matches")
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"size": domain.ListAnswer("Enterprise")}),
		"list answer never equals a scalar")
}

func TestEqualsNumericValue(t *testing.T) {
	// Editors persist numbers as JSON numbers; "5" should match 5.
	rule := domain.ConditionalRule{QuestionID: "count", Operator: "equals", Value: float64(5)}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"count": domain.ScalarAnswer("5")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"count": domain.ScalarAnswer("5.5")}))
}

func TestNotEquals(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "size", Operator: "not_equals", Value: "Enterprise"}

	assert.False(t, evalRule(t, rule, domain.AnswerSet{"size": domain.ScalarAnswer("Enterprise")}))
	assert.True(t, evalRule(t, rule, domain.AnswerSet{"size": domain.ScalarAnswer("Startup")}))
	assert.True(t, evalRule(t, rule, domain.AnswerSet{}), "negation holds with no answer")
}

func TestContains(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "teams", Operator: "contains", Value: "sales"}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"teams": domain.ListAnswer("sales", "eng")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"teams": domain.ListAnswer("eng")}))
	// Scalar falls back to substring.
	assert.True(t, evalRule(t, rule, domain.AnswerSet{"teams": domain.ScalarAnswer("pre-sales")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{}))
}

func TestNotContains(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "teams", Operator: "not_contains", Value: "sales"}

	assert.False(t, evalRule(t, rule, domain.AnswerSet{"teams": domain.ListAnswer("sales")}))
	assert.True(t, evalRule(t, rule, domain.AnswerSet{"teams": domain.ListAnswer("eng")}))
	assert.True(t, evalRule(t, rule, domain.AnswerSet{}))
}

func TestIn(t *testing.T) {
	rule := domain.ConditionalRule{
		QuestionID: "plan", Operator: "in", Value: []any{"pro", "enterprise"},
	}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"plan": domain.ScalarAnswer("pro")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"plan": domain.ScalarAnswer("free")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{}))
}

func TestInWithNonListValue(t *testing.T) {
	// A malformed rule value cannot match anything.
	rule := domain.ConditionalRule{QuestionID: "plan", Operator: "in", Value: "pro"}

	assert.False(t, evalRule(t, rule, domain.AnswerSet{"plan": domain.ScalarAnswer("pro")}))
}

func TestNotIn(t *testing.T) {
	rule := domain.ConditionalRule{
		QuestionID: "plan", Operator: "not_in", Value: []any{"pro", "enterprise"},
	}

	assert.False(t, evalRule(t, rule, domain.AnswerSet{"plan": domain.ScalarAnswer("pro")}))
	assert.True(t, evalRule(t, rule, domain.AnswerSet{"plan": domain.ScalarAnswer("free")}))
	assert.True(t, evalRule(t, rule, domain.AnswerSet{}))

	// Malformed value: the negated membership test holds for everything.
	malformed := domain.ConditionalRule{QuestionID: "plan", Operator: "not_in", Value: 42}
	assert.True(t, evalRule(t, malformed, domain.AnswerSet{"plan": domain.ScalarAnswer("pro")}))
}

func TestGreaterThan(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "seats", Operator: "greater_than", Value: float64(100)}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ScalarAnswer("250")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ScalarAnswer("100")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ScalarAnswer("12")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ScalarAnswer("many")}),
		"non-numeric answer compares false, not true")
	assert.False(t, evalRule(t, rule, domain.AnswerSet{}))
}

func TestLessThan(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "seats", Operator: "less_than", Value: "100"}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ScalarAnswer("12")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ScalarAnswer("250")}))
	assert.False(t, evalRule(t, rule, domain.AnswerSet{"seats": domain.ListAnswer("1", "2")}))
}

func TestNumericStringsTrimmed(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "n", Operator: "greater_than", Value: float64(1)}

	assert.True(t, evalRule(t, rule, domain.AnswerSet{"n": domain.ScalarAnswer("  2 ")}))
}

func TestUnknownOperator(t *testing.T) {
	rule := domain.ConditionalRule{QuestionID: "x", Operator: "regex_match", Value: ".*"}

	assert.False(t, evalRule(t, rule, domain.AnswerSet{"x": domain.ScalarAnswer("anything")}))
}

func TestParseRulesPreservesOrder(t *testing.T) {
	raw := []domain.ConditionalRule{
		{ID: "a", QuestionID: "q", Operator: "equals", Value: "1", TargetNodeID: "first"},
		{ID: "b", QuestionID: "q", Operator: "equals", Value: "1", TargetNodeID: "second"},
	}

	rules := ParseRules(raw)
	assert.Equal(t, "first", rules[0].TargetNodeID)
	assert.Equal(t, "second", rules[1].TargetNodeID)
}
