package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Phase: "setup", Seq: 1, Op: "auth.login", Args: map[string]any{"email": "an.nguyen@example.com"}, Kind: KindOK},
		{Phase: "flow", Seq: 1, Op: "favorite.add", Args: map[string]any{"userId": "u-buyer-1", "listingId": "l-2"}, Kind: KindOK},
		{Phase: "flow", Seq: 2, Op: "listing.get", Args: map[string]any{"id": "l-2"}, Kind: KindOK},
		{Phase: "flow", Seq: 3, Op: "favorite.add", Args: map[string]any{"userId": "u-buyer-1", "listingId": "l-2"}, Kind: "CONFLICT"},
	}
}

func sampleState() map[string]any {
	return map[string]any{
		"listings": []any{
			map[string]any{"id": "l-1", "views": float64(120), "isHidden": false, "city": "Hồ Chí Minh"},
			map[string]any{"id": "l-2", "views": float64(46), "isHidden": false, "city": "Hồ Chí Minh"},
			map[string]any{"id": "l-5", "views": float64(210), "isHidden": true, "city": "Đà Nẵng"},
		},
		"favorites": []any{},
	}
}

func TestAssertTraceContains_Found(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains,
		Op:   "favorite.add",
		Args: map[string]any{"listingId": "l-2"},
	})
	assert.NoError(t, err)
}

func TestAssertTraceContains_NoArgsRequired(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{Type: AssertTraceContains, Op: "listing.get"})
	assert.NoError(t, err)
}

func TestAssertTraceContains_NotFound(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{Type: AssertTraceContains, Op: "listing.delete"})
	require.Error(t, err)

	var assertErr *AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.Equal(t, AssertTraceContains, assertErr.Type)
	assert.Contains(t, assertErr.Expected, "listing.delete")
	assert.Equal(t, "not found in trace", assertErr.Actual)
}

func TestAssertTraceContains_WrongArgs(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains,
		Op:   "favorite.add",
		Args: map[string]any{"listingId": "l-9"},
	})
	assert.Error(t, err)
}

func TestAssertTraceOrder(t *testing.T) {
	tests := []struct {
		name    string
		ops     []string
		wantErr string
	}{
		{"in order", []string{"auth.login", "favorite.add", "listing.get"}, ""},
		{"intervening ops allowed", []string{"auth.login", "listing.get"}, ""},
		{"wrong order", []string{"listing.get", "favorite.add"}, "should be before"},
		{"missing op", []string{"auth.login", "chat.send"}, "missing op: chat.send"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertTraceOrder(sampleTrace(), Assertion{Type: AssertTraceOrder, Ops: tt.ops})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Op: "favorite.add", Count: 2}))
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Op: "chat.send", Count: 0}))

	err := assertTraceCount(sampleTrace(), Assertion{Type: AssertTraceCount, Op: "favorite.add", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 occurrences")
}

func TestAssertFinalState_Pass(t *testing.T) {
	err := assertFinalState(sampleState(), Assertion{
		Type:       AssertFinalState,
		Collection: "listings",
		Where:      map[string]any{"id": "l-2"},
		Expect:     map[string]any{"views": 46, "isHidden": false},
	})
	assert.NoError(t, err)
}

func TestAssertFinalState_NotFound(t *testing.T) {
	err := assertFinalState(sampleState(), Assertion{
		Type:       AssertFinalState,
		Collection: "listings",
		Where:      map[string]any{"id": "l-9"},
		Expect:     map[string]any{"views": 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record not found")
}

func TestAssertFinalState_Ambiguous(t *testing.T) {
	err := assertFinalState(sampleState(), Assertion{
		Type:       AssertFinalState,
		Collection: "listings",
		Where:      map[string]any{"city": "Hồ Chí Minh"},
		Expect:     map[string]any{"isHidden": false},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 records matched")
}

func TestAssertFinalState_ValueMismatch(t *testing.T) {
	err := assertFinalState(sampleState(), Assertion{
		Type:       AssertFinalState,
		Collection: "listings",
		Where:      map[string]any{"id": "l-5"},
		Expect:     map[string]any{"isHidden": false},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listings.isHidden: expected false, got true")
}

func TestAssertStateCount(t *testing.T) {
	assert.NoError(t, assertStateCount(sampleState(), Assertion{Collection: "listings", Count: 3}))
	assert.NoError(t, assertStateCount(sampleState(), Assertion{Collection: "listings", Where: map[string]any{"isHidden": true}, Count: 1}))
	assert.NoError(t, assertStateCount(sampleState(), Assertion{Collection: "favorites", Count: 0}))

	err := assertStateCount(sampleState(), Assertion{Type: AssertStateCount, Collection: "listings", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 records")
}

func TestMatchSubset(t *testing.T) {
	actual := map[string]any{
		"id":           "c-1",
		"participants": []any{"u-buyer-1", "u-agent-1"},
		"coords":       map[string]any{"lat": 10.7942, "lng": 106.7215},
	}

	tests := []struct {
		name     string
		expected map[string]any
		wantDiff string
	}{
		{"empty matches anything", nil, ""},
		{"scalar", map[string]any{"id": "c-1"}, ""},
		{"nested map subset", map[string]any{"coords": map[string]any{"lat": 10.7942}}, ""},
		{"list exact", map[string]any{"participants": []any{"u-buyer-1", "u-agent-1"}}, ""},
		{"list order matters", map[string]any{"participants": []any{"u-agent-1", "u-buyer-1"}}, "r.participants[0]: expected u-agent-1, got u-buyer-1"},
		{"list length", map[string]any{"participants": []any{"u-buyer-1"}}, "r.participants: expected 1 items, got 2"},
		{"missing key", map[string]any{"messages": []any{}}, "r.messages: missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDiff, matchSubset(tt.expected, actual, "r"))
		})
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"int vs float64", 46, float64(46), true},
		{"large int", 2000000000, float64(2000000000), true},
		{"float", 80.5, float64(80.5), true},
		{"number mismatch", 45, float64(46), false},
		{"number vs string", 1, "1", false},
		{"string", "active", "active", true},
		{"string mismatch", "active", "sold", false},
		{"bool", true, true, true},
		{"bool vs string", true, "true", false},
		{"nil both", nil, nil, true},
		{"nil one side", nil, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.expected, tt.actual))
		})
	}
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()
	result.State = sampleState()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Op: "listing.get"},
		{Type: AssertTraceCount, Op: "listing.get", Count: 5},
		{Type: AssertStateCount, Collection: "favorites", Count: 0},
		{Type: "bogus"},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "trace_count")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 occurrences of listing.get",
		Actual:   "1 occurrences",
		Trace:    sampleTrace()[:1],
	}

	want := "Assertion failed: trace_count\n" +
		"  Expected: 2 occurrences of listing.get\n" +
		"  Actual: 1 occurrences\n" +
		"\n" +
		"Full trace:\n" +
		"  setup 01 auth.login OK"
	assert.Equal(t, want, err.Error())
}

func TestFormatWhere(t *testing.T) {
	assert.Equal(t, "(no conditions)", formatWhere(nil))
	assert.Equal(t, "id=l-1 AND views=3", formatWhere(map[string]any{"views": 3, "id": "l-1"}))
}
