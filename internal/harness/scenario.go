package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/checkin/internal/apitest"
)

// Scenario defines one end-to-end check-in run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Lang selects the message language ("es" or "en"). Defaults to es.
	Lang string `yaml:"lang,omitempty"`

	// Now is the frozen wall clock, RFC 3339. Defaults to DefaultNow.
	Now string `yaml:"now,omitempty"`

	// SessionID is returned for sessions the backend leaves unnumbered.
	SessionID string `yaml:"session_id,omitempty"`

	// Fixtures replaces the default backend data when set.
	Fixtures *apitest.Fixtures `yaml:"fixtures,omitempty"`

	// Faults are armed on the backend before the flow starts.
	Faults []FaultStep `yaml:"faults,omitempty"`

	// Flow is the sequence of controller actions.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace, the backend tables and the requests.
	Assertions []Assertion `yaml:"assertions"`
}

// FaultStep arms an injected response on a backend route.
type FaultStep struct {
	Route         string `yaml:"route"`
	apitest.Fault `yaml:",inline"`
}

// FlowStep is one controller action.
type FlowStep struct {
	// Action is one of the Step* names below.
	Action string `yaml:"action"`

	// Args holds the action's arguments. For fill actions the keys are
	// form field names.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Expect, when present, is checked right after the action.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Flow action names.
const (
	StepLookup           = "lookup"
	StepContinue         = "continue"
	StepSelectRole       = "select_role"
	StepChangeRole       = "change_role"
	StepFillRegistration = "fill_registration"
	StepRegister         = "register"
	StepFillSession      = "fill_session"
	StepSubmitSession    = "submit_session"
	StepNewEntry         = "new_entry"
	StepAbort            = "abort"
	StepDismissAlert     = "dismiss_alert"
)

var flowActions = map[string]bool{
	StepLookup: true, StepContinue: true, StepSelectRole: true, StepChangeRole: true,
	StepFillRegistration: true, StepRegister: true, StepFillSession: true,
	StepSubmitSession: true, StepNewEntry: true, StepAbort: true, StepDismissAlert: true,
}

// ExpectClause describes the controller right after a flow step.
// Only the fields present are checked.
type ExpectClause struct {
	// Step is the wizard step the flow must be on.
	Step string `yaml:"step,omitempty"`

	// Outcome is the outcome of the transition the action emitted.
	Outcome string `yaml:"outcome,omitempty"`

	// Error names the refusal the action returned: busy, wrong_step,
	// alert_pending, superseded or cancelled.
	Error string `yaml:"error,omitempty"`

	// FieldErrors lists, in sorted order, the fields flagged on the
	// current screen. An empty list asserts there are none.
	FieldErrors *[]string `yaml:"field_errors,omitempty"`

	// Alert asserts whether a blocking alert is pending.
	Alert *bool `yaml:"alert,omitempty"`

	// Banner asserts whether the current form shows its error banner.
	Banner *bool `yaml:"banner,omitempty"`
}

// Assertion validates trace, backend state or backend traffic.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is the wizard action (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Args narrows trace_contains by from, to and outcome.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Table is the backend table name (final_state).
	Table string `yaml:"table,omitempty"`

	// Where filters rows by exact column values (final_state).
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect holds expected column values, subset match (final_state).
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Route is the backend route name (request_count).
	Route string `yaml:"route,omitempty"`

	// Count is the expected number of occurrences.
	Count int `yaml:"count,omitempty"`

	// Actions is the expected action order (trace_order).
	Actions []string `yaml:"actions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertRequestCount  = "request_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Now != "" {
		if _, err := time.Parse(time.RFC3339, s.Now); err != nil {
			return fmt.Errorf("now: %w", err)
		}
	}
	if s.Lang != "" && s.Lang != "es" && s.Lang != "en" {
		return fmt.Errorf("lang must be es or en, got %q", s.Lang)
	}

	for i, f := range s.Faults {
		if !knownRoute(f.Route) {
			return fmt.Errorf("faults[%d]: unknown route %q", i, f.Route)
		}
		if f.Status < 100 || f.Status > 599 {
			return fmt.Errorf("faults[%d]: status %d out of range", i, f.Status)
		}
	}

	for i, step := range s.Flow {
		if step.Action == "" {
			return fmt.Errorf("flow[%d]: action is required", i)
		}
		if !flowActions[step.Action] {
			return fmt.Errorf("flow[%d]: unknown action %q", i, step.Action)
		}
		if step.Expect != nil && step.Expect.Error != "" {
			if _, ok := refusals[step.Expect.Error]; !ok {
				return fmt.Errorf("flow[%d].expect: unknown error %q", i, step.Expect.Error)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
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
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertRequestCount:
		if !knownRoute(a.Route) {
			return fmt.Errorf("assertions[%d]: unknown route %q for request_count", index, a.Route)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for request_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func knownRoute(route string) bool {
	for _, r := range apitest.Routes() {
		if r == route {
			return true
		}
	}
	return false
}
