package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"slices"

	"github.com/roach88/homelist/internal/kv"
	"github.com/roach88/homelist/internal/service"
	"github.com/roach88/homelist/internal/store"
	"github.com/roach88/homelist/internal/testutil"
)

// Harness executes one scenario against an isolated store.
type Harness struct {
	store *store.Store
	svc   *service.Services
	clock *testutil.ManualClock
	vars  map[string]string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh in-memory store. An error is returned only
// when the scenario could not be executed at all (store setup or a failing
// setup step); expectation and assertion failures are reported in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	clock := testutil.NewManualClock()
	opts := []store.Option{
		store.WithClock(clock),
		store.WithIDGenerator(testutil.NewSequentialIDs("id")),
	}
	if scenario.Seed == SeedEmpty {
		opts = append(opts, store.WithSeed(func() (store.Database, error) {
			return store.Database{}, nil
		}))
	}

	st, err := store.Open(ctx, kv.NewMemory(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store: st,
		clock: clock,
		vars:  make(map[string]string),
	}
	h.svc = service.New(st,
		service.WithLatencyScale(0),
		service.WithResetNotifier(h),
	)

	result := NewResult()
	for i, step := range scenario.Setup {
		ev := h.exec(ctx, "setup", i+1, step)
		result.Trace = append(result.Trace, ev)
		if ev.Kind != KindOK {
			return nil, fmt.Errorf("setup[%d] %s: %s: %s", i, step.Op, ev.Kind, ev.Message)
		}
	}

	for i, step := range scenario.Flow {
		ev := h.exec(ctx, "flow", i+1, step)
		result.Trace = append(result.Trace, ev)
		if step.Expect == nil {
			continue
		}
		for _, msg := range checkExpect(*step.Expect, ev) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Op, msg))
		}
	}

	state, err := h.state()
	if err != nil {
		return nil, err
	}
	result.State = state

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// NotifyPasswordReset implements service.ResetNotifier by exposing the link
// as scenario variables.
func (h *Harness) NotifyPasswordReset(_ context.Context, email, link string) error {
	h.vars["reset.email"] = email
	h.vars["reset.link"] = link
	h.vars["reset.token"] = path.Base(link)
	return nil
}

// exec runs one step and records its outcome.
func (h *Harness) exec(ctx context.Context, phase string, seq int, step Step) TraceEvent {
	args := h.resolve(step.Args)
	ev := TraceEvent{Phase: phase, Seq: seq, Op: step.Op, Args: args}

	op, ok := ops[step.Op]
	if !ok {
		ev.Kind = string(service.KindValidation)
		ev.Message = fmt.Sprintf("unknown op %q", step.Op)
		return ev
	}

	res := service.Wrap(op(ctx, h, args))
	if !res.Success {
		ev.Kind = string(res.Kind)
		ev.Message = res.Message
		return ev
	}

	normalized, err := normalize(res.Data)
	if err != nil {
		ev.Kind = string(service.KindInternal)
		ev.Message = err.Error()
		return ev
	}
	ev.Kind = KindOK
	ev.Result = normalized

	if step.SaveAs != "" {
		if m, ok := normalized.(map[string]any); ok {
			for k, v := range m {
				switch v.(type) {
				case map[string]any, []any, nil:
				default:
					h.vars[step.SaveAs+"."+k] = fmt.Sprint(v)
				}
			}
		}
	}
	return ev
}

// resolve copies args, replacing "$name" strings with known variables.
func (h *Harness) resolve(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = h.resolveValue(v)
	}
	return out
}

func (h *Harness) resolveValue(v any) any {
	switch val := v.(type) {
	case string:
		if len(val) > 1 && val[0] == '$' {
			if sub, ok := h.vars[val[1:]]; ok {
				return sub
			}
		}
		return val
	case map[string]any:
		return h.resolve(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = h.resolveValue(item)
		}
		return out
	default:
		return val
	}
}

// state returns the final database as generic JSON values keyed by collection.
func (h *Harness) state() (map[string]any, error) {
	db, err := h.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot state: %w", err)
	}
	v, err := normalize(db)
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]any)
	return m, nil
}

// normalize converts a typed result into the generic values YAML expectations
// are compared against, using the records' JSON field names.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	blob, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var out any
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}

// checkExpect compares a flow event with its expect clause.
func checkExpect(exp Expect, ev TraceEvent) []string {
	want := exp.Kind
	if want == "" {
		want = KindOK
	}
	if ev.Kind != want {
		if ev.Message != "" {
			return []string{fmt.Sprintf("expected %s, got %s (%s)", want, ev.Kind, ev.Message)}
		}
		return []string{fmt.Sprintf("expected %s, got %s", want, ev.Kind)}
	}

	var errs []string
	if exp.Message != "" && exp.Message != ev.Message {
		errs = append(errs, fmt.Sprintf("expected message %q, got %q", exp.Message, ev.Message))
	}
	if len(exp.Result) > 0 {
		if diff := matchSubset(exp.Result, ev.Result, "result"); diff != "" {
			errs = append(errs, diff)
		}
	}
	if exp.IDs != nil || exp.Count != nil {
		list, ok := ev.Result.([]any)
		if !ok {
			return append(errs, fmt.Sprintf("expected a list result, got %T", ev.Result))
		}
		if exp.Count != nil && len(list) != *exp.Count {
			errs = append(errs, fmt.Sprintf("expected %d results, got %d", *exp.Count, len(list)))
		}
		if exp.IDs != nil {
			got := idsOf(list)
			if !slices.Equal(got, exp.IDs) {
				errs = append(errs, fmt.Sprintf("expected ids %v, got %v", exp.IDs, got))
			}
		}
	}
	return errs
}
