package harness

import (
	"fmt"
	"strconv"
	"strings"
)

// KindOK is the trace kind of a step that returned no error.
const KindOK = "OK"

// TraceEvent records one invoked operation and its outcome.
type TraceEvent struct {
	Phase   string         `json:"phase"` // "setup" or "flow"
	Seq     int            `json:"seq"`
	Op      string         `json:"op"`
	Args    map[string]any `json:"args,omitempty"`
	Kind    string         `json:"kind"`
	Message string         `json:"message,omitempty"`
	Result  any            `json:"result,omitempty"`
}

// String renders the event as one trace line, e.g.
// "flow 02 listing.get OK id=l-1" or
// "flow 03 favorite.add CONFLICT \"listing already in favorites\"".
func (e TraceEvent) String() string {
	line := fmt.Sprintf("%s %02d %s %s", e.Phase, e.Seq, e.Op, e.Kind)
	if s := e.summary(); s != "" {
		line += " " + s
	}
	return line
}

func (e TraceEvent) summary() string {
	if e.Kind != KindOK {
		return strconv.Quote(e.Message)
	}
	switch v := e.Result.(type) {
	case nil:
		return ""
	case string:
		return strconv.Quote(v)
	case map[string]any:
		if id, ok := v["id"]; ok {
			return fmt.Sprintf("id=%v", id)
		}
		return "{}"
	case []any:
		return "[" + strings.Join(idsOf(v), " ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// idsOf returns the "id" field of every record in list, "?" for records without one.
func idsOf(list []any) []string {
	ids := make([]string, 0, len(list))
	for _, item := range list {
		id := "?"
		if m, ok := item.(map[string]any); ok {
			if v, ok := m["id"]; ok {
				id = fmt.Sprint(v)
			}
		}
		ids = append(ids, id)
	}
	return ids
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every setup and flow step in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// State is the final database, keyed by collection name.
	State map[string]any `json:"state,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State:  make(map[string]any),
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Render formats the result as the text compared against golden files:
// a header, one line per trace event, any errors, and the verdict.
func (r *Result) Render(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	for _, ev := range r.Trace {
		b.WriteString(ev.String())
		b.WriteByte('\n')
	}
	for _, err := range r.Errors {
		fmt.Fprintf(&b, "error: %s\n", err)
	}
	if r.Pass {
		b.WriteString("result: pass\n")
	} else {
		b.WriteString("result: fail\n")
	}
	return b.String()
}
