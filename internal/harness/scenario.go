package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/homelist/internal/service"
	"github.com/roach88/homelist/internal/store"
)

// Seed modes.
const (
	SeedFixtures = "fixtures"
	SeedEmpty    = "empty"
)

// Scenario is a behavioural test loaded from YAML.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Seed selects the starting database: SeedFixtures (default) or SeedEmpty.
	Seed string `yaml:"seed,omitempty"`

	// Setup steps run first and must all succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow steps are the operations under test.
	Flow []Step `yaml:"flow"`

	// Assertions are evaluated after the flow.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step invokes one service operation.
type Step struct {
	Op     string         `yaml:"op"`
	Args   map[string]any `yaml:"args,omitempty"`
	SaveAs string         `yaml:"save_as,omitempty"`
	Expect *Expect        `yaml:"expect,omitempty"`
}

// Expect describes the outcome a flow step should have.
type Expect struct {
	// Kind is KindOK (the default) or a service error kind such as NOT_FOUND.
	Kind string `yaml:"kind,omitempty"`

	// Message, when set, must equal the error message.
	Message string `yaml:"message,omitempty"`

	// Result is matched against a record result with subset semantics.
	Result map[string]any `yaml:"result,omitempty"`

	// IDs is the exact, ordered list of ids a list result must have.
	IDs []string `yaml:"ids,omitempty"`

	// Count is the exact length a list result must have.
	Count *int `yaml:"count,omitempty"`
}

// AssertionType names a post-flow check.
type AssertionType string

const (
	AssertTraceContains AssertionType = "trace_contains"
	AssertTraceOrder    AssertionType = "trace_order"
	AssertTraceCount    AssertionType = "trace_count"
	AssertFinalState    AssertionType = "final_state"
	AssertStateCount    AssertionType = "state_count"
)

// Assertion is a post-flow check. Which fields apply depends on Type.
type Assertion struct {
	Type AssertionType `yaml:"type"`

	// Trace assertions.
	Op   string         `yaml:"op,omitempty"`
	Ops  []string       `yaml:"ops,omitempty"`
	Args map[string]any `yaml:"args,omitempty"`

	// Count is used by trace_count and state_count.
	Count int `yaml:"count,omitempty"`

	// State assertions.
	Collection string         `yaml:"collection,omitempty"`
	Where      map[string]any `yaml:"where,omitempty"`
	Expect     map[string]any `yaml:"expect,omitempty"`
}

// LoadScenario reads and validates a scenario file.
// Unknown YAML fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validKinds are the outcomes an expect clause may name.
var validKinds = map[string]bool{
	KindOK:                                 true,
	string(service.KindNotFound):           true,
	string(service.KindUnauthorized):       true,
	string(service.KindConflict):           true,
	string(service.KindValidation):         true,
	string(service.KindExpired):            true,
	string(service.KindInvalidCredentials): true,
	string(service.KindCanceled):           true,
	string(service.KindInternal):           true,
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Seed != "" && s.Seed != SeedFixtures && s.Seed != SeedEmpty {
		return fmt.Errorf("seed must be %q or %q, got %q", SeedFixtures, SeedEmpty, s.Seed)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		if step.Expect != nil {
			return fmt.Errorf("setup[%d]: expect is not allowed in setup", i)
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
		if step.Expect != nil && step.Expect.Kind != "" && !validKinds[step.Expect.Kind] {
			return fmt.Errorf("flow[%d].expect: unknown kind %q", i, step.Expect.Kind)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Op == "" {
		return fmt.Errorf("op is required")
	}
	if _, ok := ops[step.Op]; !ok {
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState, AssertStateCount:
		if !knownCollection(a.Collection) {
			return fmt.Errorf("assertions[%d]: unknown collection %q", index, a.Collection)
		}
		if a.Type == AssertFinalState && len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
		if a.Type == AssertStateCount && a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for state_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func knownCollection(name string) bool {
	for _, n := range store.Names {
		if string(n) == name {
			return true
		}
	}
	return false
}
