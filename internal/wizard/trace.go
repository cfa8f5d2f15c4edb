package wizard

import "sync"

// Action names a controller operation in the trace.
type Action string

const (
	ActionLookup        Action = "lookup"
	ActionContinue      Action = "continue"
	ActionSelectRole    Action = "select_role"
	ActionChangeRole    Action = "change_role"
	ActionRegister      Action = "register"
	ActionSubmitSession Action = "submit_session"
	ActionNewEntry      Action = "new_entry"
	ActionAbort         Action = "abort"
)

// Outcome summarizes how an action ended.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeFound       Outcome = "found"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeFieldErrors Outcome = "field_errors"
	OutcomeFailed      Outcome = "failed"
	OutcomeCancelled   Outcome = "cancelled"
)

// Transition records one decision of the controller.
// From == To when the flow stayed on its step.
type Transition struct {
	Seq     int64   `json:"seq" yaml:"seq"`
	Action  Action  `json:"action" yaml:"action"`
	From    Step    `json:"from" yaml:"from"`
	To      Step    `json:"to" yaml:"to"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
}

// Observer receives transitions in order. It is called with the
// controller's lock held and must not call back into the controller.
type Observer func(Transition)

// Recorder collects transitions for later inspection.
//
// Thread-safety: Recorder is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	trace []Transition
}

// Observe implements Observer. Pass the method value to WithObserver.
func (r *Recorder) Observe(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, t)
}

// Trace returns a copy of the recorded transitions.
func (r *Recorder) Trace() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Transition, len(r.trace))
	copy(out, r.trace)
	return out
}
