package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalFlow = `
flow:
  - action: lookup
    args: { cedula: "1234567" }
assertions:
  - type: trace_count
    action: lookup
    count: 1
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := `
name: test_scenario
description: "Test scenario for validation"
lang: en
now: "2026-03-02T09:00:00Z"
faults:
  - route: create_user
    status: 400
    times: 1
    body: '{"fieldErrors":{"email":"taken"}}'
flow:
  - action: lookup
    args: { cedula: "1234567" }
    expect: { step: profile-loaded, outcome: found, alert: false }
  - action: continue
  - action: fill_session
    args: { serviceTypeId: 1, estimatedHours: 1.5 }
    expect: { field_errors: [] }
assertions:
  - type: trace_contains
    action: lookup
    args: { outcome: found }
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "en", scenario.Lang)
	require.Len(t, scenario.Faults, 1)
	assert.Equal(t, "create_user", scenario.Faults[0].Route)
	assert.Equal(t, 400, scenario.Faults[0].Status)
	assert.Equal(t, 1, scenario.Faults[0].Times)
	assert.JSONEq(t, `{"fieldErrors":{"email":"taken"}}`, scenario.Faults[0].Body)

	require.Len(t, scenario.Flow, 3)
	assert.Equal(t, StepLookup, scenario.Flow[0].Action)
	require.NotNil(t, scenario.Flow[0].Expect)
	assert.Equal(t, "profile-loaded", scenario.Flow[0].Expect.Step)
	require.NotNil(t, scenario.Flow[0].Expect.Alert)
	assert.False(t, *scenario.Flow[0].Expect.Alert)
	assert.Nil(t, scenario.Flow[0].Expect.Banner)

	fieldErrors := scenario.Flow[2].Expect.FieldErrors
	require.NotNil(t, fieldErrors, "an empty list is an assertion, not an omission")
	assert.Empty(t, *fieldErrors)
	assert.Equal(t, 1.5, scenario.Flow[2].Args["estimatedHours"])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	content := `
name: typo
description: "Misspelled key"
flow:
  - action: lookup
    arg: { cedula: "1" }
assertion:
  - type: trace_count
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: `description: "d"` + minimalFlow,
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: `name: n` + minimalFlow,
			wantErr: "description is required",
		},
		{
			name: "empty flow",
			content: `
name: n
description: d
flow: []
assertions:
  - type: trace_count
    action: lookup
`,
			wantErr: "flow list is required",
		},
		{
			name: "missing assertions",
			content: `
name: n
description: d
flow:
  - action: lookup
`,
			wantErr: "assertions list is required",
		},
		{
			name:    "bad lang",
			content: "name: n\ndescription: d\nlang: fr" + minimalFlow,
			wantErr: `lang must be es or en, got "fr"`,
		},
		{
			name:    "bad now",
			content: "name: n\ndescription: d\nnow: tomorrow" + minimalFlow,
			wantErr: "now:",
		},
		{
			name:    "unknown fault route",
			content: "name: n\ndescription: d\nfaults:\n  - route: delete_user\n    status: 500" + minimalFlow,
			wantErr: `faults[0]: unknown route "delete_user"`,
		},
		{
			name:    "fault status out of range",
			content: "name: n\ndescription: d\nfaults:\n  - route: find_user\n    status: 42" + minimalFlow,
			wantErr: "faults[0]: status 42 out of range",
		},
		{
			name: "unknown action",
			content: `
name: n
description: d
flow:
  - action: teleport
assertions:
  - type: trace_count
    action: lookup
`,
			wantErr: `flow[0]: unknown action "teleport"`,
		},
		{
			name: "unknown refusal",
			content: `
name: n
description: d
flow:
  - action: continue
    expect: { error: exploded }
assertions:
  - type: trace_count
    action: lookup
`,
			wantErr: `flow[0].expect: unknown error "exploded"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"missing type", Assertion{}, "type is required"},
		{"unknown type", Assertion{Type: "trace_magic"}, `unknown assertion type "trace_magic"`},
		{"contains without action", Assertion{Type: AssertTraceContains}, "action is required for trace_contains"},
		{"order without actions", Assertion{Type: AssertTraceOrder}, "actions list is required"},
		{"count without action", Assertion{Type: AssertTraceCount}, "action is required for trace_count"},
		{"negative count", Assertion{Type: AssertTraceCount, Action: "lookup", Count: -1}, "count must be non-negative"},
		{"final state without table", Assertion{Type: AssertFinalState, Expect: map[string]interface{}{"a": 1}}, "table is required"},
		{"final state without expect", Assertion{Type: AssertFinalState, Table: "users"}, "expect is required"},
		{"unknown route", Assertion{Type: AssertRequestCount, Route: "nope"}, `unknown route "nope"`},
		{"valid request count", Assertion{Type: AssertRequestCount, Route: "create_attendance", Count: 2}, ""},
		{"valid final state", Assertion{Type: AssertFinalState, Table: "users", Expect: map[string]interface{}{"role": "Monitor"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTestdataScenariosParse(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	for _, path := range paths {
		_, err := LoadScenario(path)
		assert.NoError(t, err, path)
	}
}
