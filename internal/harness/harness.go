package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"reflect"
	"sort"
	"sync/atomic"
	"time"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/apitest"
	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/locale"
	"github.com/roach88/checkin/internal/store"
	"github.com/roach88/checkin/internal/testutil"
	"github.com/roach88/checkin/internal/wizard"
)

// DefaultNow is the frozen wall clock when a scenario sets none.
var DefaultNow = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

// DefaultSessionID is the local id used when a scenario sets none.
const DefaultSessionID = "test-session-default"

// refusals maps expect.error names onto the errors actions return.
var refusals = map[string]error{
	"busy":          wizard.ErrBusy,
	"wrong_step":    wizard.ErrWrongStep,
	"alert_pending": wizard.ErrAlertPending,
	"superseded":    wizard.ErrSuperseded,
	"cancelled":     context.Canceled,
}

// Harness executes one scenario.
type Harness struct {
	store      *store.Store
	backend    *apitest.Server
	controller *wizard.Controller
	recorder   *wizard.Recorder
	logger     *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database behind a fresh
// HTTP backend double, so scenarios are isolated from one another.
//
// Execution flow:
// 1. Seed the store and arm faults
// 2. Start the backend and connect a client
// 3. Drive the controller through the flow, checking expect clauses
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	fixtures := apitest.DefaultFixtures()
	if scenario.Fixtures != nil {
		fixtures = *scenario.Fixtures
	}
	if err := apitest.Seed(ctx, st, fixtures); err != nil {
		return nil, fmt.Errorf("failed to seed fixtures: %w", err)
	}

	now := DefaultNow
	if scenario.Now != "" {
		now, err = time.Parse(time.RFC3339, scenario.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid now: %w", err)
		}
	}
	clock := testutil.NewFixedTime(now)

	var attendanceSeq atomic.Int64
	backend := apitest.New(st,
		apitest.WithLogger(logger),
		apitest.WithClock(clock.Now),
		apitest.WithIDGenerator(func() string {
			return fmt.Sprintf("att-%04d", attendanceSeq.Add(1))
		}),
	)
	for _, f := range scenario.Faults {
		backend.Inject(f.Route, f.Fault)
	}

	server := httptest.NewServer(backend.Router())
	defer server.Close()

	client := api.NewClient(server.URL,
		api.WithLogger(logger),
		api.WithClock(clock.Now),
	)

	sessionID := scenario.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	lang := locale.Default
	if scenario.Lang != "" {
		lang = locale.Parse(scenario.Lang)
	}

	recorder := &wizard.Recorder{}
	h := &Harness{
		store:   st,
		backend: backend,
		controller: wizard.New(client,
			wizard.WithLogger(logger),
			wizard.WithNow(clock.Now),
			wizard.WithSequencer(testutil.NewDeterministicClock()),
			wizard.WithIDGenerator(testutil.NewFixedIDGenerator(sessionID)),
			wizard.WithObserver(recorder.Observe),
			wizard.WithLanguage(lang),
		),
		recorder: recorder,
		logger:   logger,
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}
	result.Trace = recorder.Trace()
	result.Final = h.controller.State()

	actx := &AssertionContext{
		Store:   st,
		Backend: backend,
		Ctx:     ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeFlow runs every step and checks its expect clause.
// A malformed step aborts the run; a failed expectation is recorded.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		before := len(h.recorder.Trace())

		actionErr, err := h.execute(ctx, step)
		if err != nil {
			return fmt.Errorf("flow step %d (%s): %w", i, step.Action, err)
		}

		emitted := h.recorder.Trace()[before:]
		for _, msg := range h.checkExpect(step.Expect, actionErr, emitted) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Action, msg))
		}

		h.logger.Info("flow step completed",
			"step", i,
			"action", step.Action,
			"wizard_step", h.controller.State().Step,
			"error", actionErr,
		)
	}
	return nil
}

// execute performs one action. The first return value is the controller's
// own answer; the second reports a step the harness could not perform.
func (h *Harness) execute(ctx context.Context, step FlowStep) (actionErr, err error) {
	c := h.controller
	args, err := stringArgs(step.Args)
	if err != nil {
		return nil, err
	}

	switch step.Action {
	case StepLookup:
		return c.Lookup(ctx, args["cedula"]), nil
	case StepContinue:
		return c.Continue(ctx), nil
	case StepSelectRole:
		role, err := domain.ParseRole(args["role"])
		if err != nil {
			return nil, err
		}
		return c.SelectRole(role), nil
	case StepChangeRole:
		return c.ChangeRole(), nil
	case StepFillRegistration:
		return fill(args, c.SetRegistrationField)
	case StepRegister:
		return c.Register(ctx), nil
	case StepFillSession:
		return fill(args, c.SetSessionField)
	case StepSubmitSession:
		return c.SubmitSession(ctx), nil
	case StepNewEntry:
		return c.NewEntry(), nil
	case StepAbort:
		c.Abort()
		return nil, nil
	case StepDismissAlert:
		c.DismissAlert()
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown action %q", step.Action)
	}
}

// fill sets fields in sorted order. A refusal from the controller ends the
// fill; an unknown field name is a scenario error.
func fill(args map[string]string, set func(field, value string) error) (actionErr, err error) {
	fields := make([]string, 0, len(args))
	for field := range args {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		err := set(field, args[field])
		var ae *wizard.ActionError
		switch {
		case err == nil:
		case errors.As(err, &ae):
			return err, nil
		default:
			return nil, err
		}
	}
	return nil, nil
}

// checkExpect compares the controller with an expect clause.
func (h *Harness) checkExpect(exp *ExpectClause, actionErr error, emitted []wizard.Transition) []string {
	var failures []string
	c := h.controller

	if exp == nil || exp.Error == "" {
		if actionErr != nil {
			failures = append(failures, fmt.Sprintf("unexpected error: %v", actionErr))
		}
	}
	if exp == nil {
		return failures
	}

	if exp.Error != "" && !errors.Is(actionErr, refusals[exp.Error]) {
		failures = append(failures, fmt.Sprintf("expected error %s, got %v", exp.Error, actionErr))
	}

	state := c.State()
	if exp.Step != "" && string(state.Step) != exp.Step {
		failures = append(failures, fmt.Sprintf("expected step %s, got %s", exp.Step, state.Step))
	}

	if exp.Outcome != "" {
		if len(emitted) == 0 {
			failures = append(failures, fmt.Sprintf("expected outcome %s, but no transition was emitted", exp.Outcome))
		} else if got := emitted[len(emitted)-1].Outcome; string(got) != exp.Outcome {
			failures = append(failures, fmt.Sprintf("expected outcome %s, got %s", exp.Outcome, got))
		}
	}

	errs, banner := h.screenErrors(state.Step)
	if exp.FieldErrors != nil {
		want := *exp.FieldErrors
		got := errs.Fields()
		if len(want) != 0 || len(got) != 0 {
			if !reflect.DeepEqual(want, got) {
				failures = append(failures, fmt.Sprintf("expected field errors %v, got %v", want, got))
			}
		}
	}

	if exp.Banner != nil && *exp.Banner != (banner != "") {
		failures = append(failures, fmt.Sprintf("expected banner=%t, got %q", *exp.Banner, banner))
	}

	if exp.Alert != nil {
		_, pending := c.Alert()
		if *exp.Alert != pending {
			failures = append(failures, fmt.Sprintf("expected alert=%t, got %t", *exp.Alert, pending))
		}
	}
	return failures
}

// screenErrors returns the error map and banner of the screen on step.
func (h *Harness) screenErrors(step wizard.Step) (domain.FieldErrors, string) {
	switch step {
	case wizard.StepIDEntry:
		return h.controller.IDEntry().Errors, ""
	case wizard.StepRegistration:
		s := h.controller.Registration()
		return s.Errors, s.Banner
	case wizard.StepSessionEntry:
		s := h.controller.SessionEntry()
		return s.Errors, s.Banner
	default:
		return nil, ""
	}
}

// stringArgs renders YAML scalars as the text a user would type.
func stringArgs(args map[string]interface{}) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for key, val := range args {
		switch v := val.(type) {
		case nil:
			return nil, fmt.Errorf("arg %q: null values are not allowed", key)
		case string:
			out[key] = v
		case int, int64, float64, bool:
			out[key] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("arg %q: unsupported type %T", key, val)
		}
	}
	return out, nil
}
