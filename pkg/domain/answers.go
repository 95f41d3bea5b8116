package domain

import (
	"encoding/json"
	"fmt"
)

// Answer is a single stored answer: either a scalar string or a list of
// strings (multiselect). Numbers arrive as strings or JSON numbers and are
// kept in string form; numeric operators coerce at evaluation time.
type Answer struct {
	value  string
	values []string
	isList bool
}

// AnswerSet maps question IDs to answers. It is supplied by the playback
// session and treated as read-only by the evaluator and navigator.
type AnswerSet map[string]Answer

// ScalarAnswer builds a single-valued answer.
func ScalarAnswer(v string) Answer {
	return Answer{value: v}
}

// ListAnswer builds a multiselect answer.
func ListAnswer(vs ...string) Answer {
	return Answer{values: vs, isList: true}
}

// IsList reports whether the answer holds multiple values.
func (a Answer) IsList() bool { return a.isList }

// Value returns the scalar form. For list answers it returns the empty string.
func (a Answer) Value() string {
	if a.isList {
		return ""
	}
	return a.value
}

// Values returns the list form. Scalar answers yield a one-element list so
// membership checks can treat every answer uniformly.
func (a Answer) Values() []string {
	if a.isList {
		return a.values
	}
	return []string{a.value}
}

// String renders the answer the way the editor displays it.
func (a Answer) String() string {
	if a.isList {
		return fmt.Sprintf("%v", a.values)
	}
	return a.value
}

// UnmarshalJSON accepts a string, a number, or an array of strings, matching
// the shapes the playback UI submits.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = ScalarAnswer(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*a = ScalarAnswer(n.String())
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = ListAnswer(list...)
		return nil
	}

	return fmt.Errorf("answer must be a string, number, or string array, got %s", data)
}

// MarshalJSON emits the scalar or the list, mirroring UnmarshalJSON.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.isList {
		return json.Marshal(a.values)
	}
	return json.Marshal(a.value)
}
