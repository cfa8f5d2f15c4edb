package harness

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/roach88/checkin/internal/apitest"
	"github.com/roach88/checkin/internal/store"
	"github.com/roach88/checkin/internal/wizard"
)

// validIdentifier is the shape of a table or column name final_state may
// interpolate into SQL.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssertionError describes a failed assertion. Trace assertions attach the
// whole trace.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []wizard.Transition
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assertion failed: %s\n  Expected: %s\n  Actual: %s\n", e.Type, e.Expected, e.Actual)
	if len(e.Trace) == 0 {
		return b.String()
	}
	b.WriteString("\nFull trace:\n")
	for _, t := range e.Trace {
		fmt.Fprintf(&b, "  [%d] %s %s -> %s (%s)\n", t.Seq, t.Action, t.From, t.To, t.Outcome)
	}
	return b.String()
}

// transitionFields exposes a transition to subset matching.
func transitionFields(t wizard.Transition) map[string]interface{} {
	return map[string]interface{}{
		"from":    string(t.From),
		"to":      string(t.To),
		"outcome": string(t.Outcome),
	}
}

// assertTraceContains checks if the trace contains a transition matching
// the specified action and args (subset match).
func assertTraceContains(trace []wizard.Transition, assertion Assertion) error {
	for _, t := range trace {
		if string(t.Action) == assertion.Action && matchArgs(transitionFields(t), assertion.Args) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("action %s with args %v", assertion.Action, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if actions appear in the specified order.
// Actions don't need to be consecutive (intervening actions are allowed),
// and a repeated action must appear again later.
func assertTraceOrder(trace []wizard.Transition, assertion Assertion) error {
	pos := 0
	for i, action := range assertion.Actions {
		found := false
		for pos < len(trace) {
			t := trace[pos]
			pos++
			if string(t.Action) == action {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
				Actual:   fmt.Sprintf("no %s after %v", action, assertion.Actions[:i]),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks if the action appears exactly the specified number of times.
func assertTraceCount(trace []wizard.Transition, assertion Assertion) error {
	count := 0
	for _, t := range trace {
		if string(t.Action) == assertion.Action {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertRequestCount checks how many requests a backend route received.
func assertRequestCount(backend *apitest.Server, assertion Assertion) error {
	if got := backend.CallCount(assertion.Route); got != assertion.Count {
		return &AssertionError{
			Type:     AssertRequestCount,
			Expected: fmt.Sprintf("%d requests to %s", assertion.Count, assertion.Route),
			Actual:   fmt.Sprintf("%d requests", got),
		}
	}
	return nil
}

// assertFinalState checks that exactly one backend row matches Where and
// carries the expected values. Columns not named in Expect are ignored.
func assertFinalState(ctx context.Context, st *store.Store, assertion Assertion) error {
	query, args, err := selectRows(assertion.Table, assertion.Where)
	if err != nil {
		return err
	}
	where := describeWhere(assertion.Where)

	rows, columns, err := fetchRows(ctx, st, query, args, 2)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	switch len(rows) {
	case 0:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, where),
			Actual:   "row not found",
		}
	case 1:
	default:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, where),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	row := rows[0]
	for _, col := range sortedKeys(assertion.Expect) {
		want := assertion.Expect[col]
		got, ok := row[col]
		switch {
		case !ok:
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", col),
				Actual:   fmt.Sprintf("columns of %s are %v", assertion.Table, columns),
			}
		case !stateValuesEqual(want, got):
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", col, want, want),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", col, got, got),
			}
		}
	}
	return nil
}

// selectRows builds a parameterized SELECT over table. Identifiers are
// checked against validIdentifier because they are interpolated.
func selectRows(table string, where map[string]interface{}) (string, []interface{}, error) {
	if !validIdentifier.MatchString(table) {
		return "", nil, fmt.Errorf("invalid table name %q: must match pattern %s", table, validIdentifier)
	}

	var (
		b    strings.Builder
		args []interface{}
	)
	fmt.Fprintf(&b, "SELECT * FROM %s", table)
	for i, col := range sortedKeys(where) {
		if !validIdentifier.MatchString(col) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", col, validIdentifier)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = ?", col)
		args = append(args, sqlArg(where[col]))
	}
	return b.String(), args, nil
}

// fetchRows reads at most limit rows as column-keyed maps.
func fetchRows(ctx context.Context, st *store.Store, query string, args []interface{}, limit int) ([]map[string]interface{}, []string, error) {
	rows, err := st.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}

	var out []map[string]interface{}
	for len(out) < limit && rows.Next() {
		cells := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = cells[i]
		}
		out = append(out, row)
	}
	return out, columns, rows.Err()
}

// sqlArg maps a YAML scalar onto a SQLite parameter. Booleans are stored
// as 0/1.
func sqlArg(v interface{}) interface{} {
	switch val := v.(type) {
	case string, int, int64, float64:
		return val
	case bool:
		if val {
			return 1
		}
		return 0
	}
	return fmt.Sprint(v)
}

func describeWhere(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(no conditions)"
	}
	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stateValuesEqual compares expected and actual values from state tables.
// SQLite hands back int64, float64, string or []byte; YAML hands over int,
// float64, string or bool.
func stateValuesEqual(expected, actual interface{}) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	if b, ok := actual.([]byte); ok {
		actual = string(b)
	}

	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		return ok && exp == act
	case bool:
		act, ok := actual.(int64)
		return ok && exp == (act != 0)
	case int:
		return numbersEqual(float64(exp), actual)
	case int64:
		return numbersEqual(float64(exp), actual)
	case float64:
		return numbersEqual(exp, actual)
	}

	return reflect.DeepEqual(expected, actual)
}

func numbersEqual(expected float64, actual interface{}) bool {
	switch act := actual.(type) {
	case int64:
		return expected == float64(act)
	case float64:
		return math.Abs(expected-act) < 1e-9
	}
	return false
}

// matchArgs checks if actual args contain all expected args (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual map[string]interface{}, expected map[string]interface{}) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !reflect.DeepEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store   *store.Store
	Backend *apitest.Server
	Ctx     context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires database context", i)
			} else {
				err = assertFinalState(actx.Ctx, actx.Store, assertion)
			}
		case AssertRequestCount:
			if actx == nil || actx.Backend == nil {
				err = fmt.Errorf("assertion[%d]: request_count requires a backend", i)
			} else {
				err = assertRequestCount(actx.Backend, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
