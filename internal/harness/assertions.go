package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     AssertionType // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []TraceEvent  // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\n\nFull trace:")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "\n  %s", event)
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(result.State, a)
		case AssertStateCount:
			err = assertStateCount(result.State, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertTraceContains checks that the trace contains a step with the given op
// and args (subset match).
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Op == a.Op && matchSubset(a.Args, event.Args, "args") == "" {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with args %s", a.Op, formatWhere(a.Args)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops first appear in the given order.
// Ops don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = i + 1
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the op appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == a.Op {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks that exactly one record of the collection matches
// Where and that it carries every field in Expect.
func assertFinalState(state map[string]any, a Assertion) error {
	matches := findRecords(state, a.Collection, a.Where)
	switch len(matches) {
	case 0:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record in %s where %s", a.Collection, formatWhere(a.Where)),
			Actual:   "record not found",
		}
	case 1:
	default:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one record in %s where %s", a.Collection, formatWhere(a.Where)),
			Actual:   fmt.Sprintf("%d records matched (assertion is ambiguous)", len(matches)),
		}
	}

	if diff := matchSubset(a.Expect, matches[0], a.Collection); diff != "" {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record in %s where %s to have %s", a.Collection, formatWhere(a.Where), formatWhere(a.Expect)),
			Actual:   diff,
		}
	}
	return nil
}

// assertStateCount checks how many records of the collection match Where.
func assertStateCount(state map[string]any, a Assertion) error {
	n := len(findRecords(state, a.Collection, a.Where))
	if n != a.Count {
		return &AssertionError{
			Type:     AssertStateCount,
			Expected: fmt.Sprintf("%d records in %s where %s", a.Count, a.Collection, formatWhere(a.Where)),
			Actual:   fmt.Sprintf("%d records", n),
		}
	}
	return nil
}

func findRecords(state map[string]any, collection string, where map[string]any) []any {
	records, _ := state[collection].([]any)
	var matches []any
	for _, r := range records {
		if matchSubset(where, r, collection) == "" {
			matches = append(matches, r)
		}
	}
	return matches
}

// formatWhere renders conditions deterministically, e.g. "id=l-1 AND views=3".
func formatWhere(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// matchSubset reports the first difference between expected and actual, or
// "" when every key of expected is present in actual with a matching value.
// Extra keys in actual are ignored.
func matchSubset(expected map[string]any, actual any, path string) string {
	if len(expected) == 0 {
		return ""
	}
	m, ok := actual.(map[string]any)
	if !ok {
		return fmt.Sprintf("%s: expected a record, got %T", path, actual)
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, present := m[k]
		if !present {
			return fmt.Sprintf("%s.%s: missing", path, k)
		}
		if diff := matchValue(expected[k], got, path+"."+k); diff != "" {
			return diff
		}
	}
	return ""
}

func matchValue(expected, actual any, path string) string {
	switch exp := expected.(type) {
	case map[string]any:
		return matchSubset(exp, actual, path)
	case []any:
		list, ok := actual.([]any)
		if !ok {
			return fmt.Sprintf("%s: expected a list, got %T", path, actual)
		}
		if len(list) != len(exp) {
			return fmt.Sprintf("%s: expected %d items, got %d", path, len(exp), len(list))
		}
		for i := range exp {
			if diff := matchValue(exp[i], list[i], fmt.Sprintf("%s[%d]", path, i)); diff != "" {
				return diff
			}
		}
		return ""
	}

	if !valuesEqual(expected, actual) {
		return fmt.Sprintf("%s: expected %v, got %v", path, expected, actual)
	}
	return ""
}

// valuesEqual compares scalars decoded from YAML with scalars decoded from
// JSON. Numbers compare by value regardless of their Go type.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	if ef, ok := toFloat(expected); ok {
		af, ok := toFloat(actual)
		return ok && ef == af
	}
	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		return ok && exp == act
	case bool:
		act, ok := actual.(bool)
		return ok && exp == act
	}
	return fmt.Sprint(expected) == fmt.Sprint(actual)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
