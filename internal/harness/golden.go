package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/wizard"
)

// GoldenDir holds golden traces next to the scenarios they belong to.
const GoldenDir = "testdata/scenarios/golden"

// TraceSnapshot captures what a scenario run produced.
type TraceSnapshot struct {
	ScenarioName string                    `json:"scenario_name"`
	Trace        []wizard.Transition       `json:"trace"`
	FinalStep    wizard.Step               `json:"final_step"`
	Session      *domain.AttendanceSession `json:"session,omitempty"`
}

// Snapshot renders the golden form of a result: indented JSON with a
// trailing newline.
func Snapshot(name string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		FinalStep:    result.Final.Step,
		Session:      result.Final.Session,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the snapshot against
// GoldenDir/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
