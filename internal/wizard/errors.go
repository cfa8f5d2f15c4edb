package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while a lookup or submission is outstanding.
	ErrBusy = errors.New("a request is already in progress")

	// ErrWrongStep is returned for an action the active step does not offer.
	ErrWrongStep = errors.New("action not available on this step")

	// ErrAlertPending is returned until a blocking alert is dismissed.
	ErrAlertPending = errors.New("an alert must be dismissed first")

	// ErrSuperseded is returned when a result arrives after its step was left.
	// The result is discarded.
	ErrSuperseded = errors.New("step changed before the request completed")
)

// ActionError reports why the controller refused or discarded an action.
// Err is one of the package sentinels; match with errors.Is.
type ActionError struct {
	Action Action
	Step   Step
	Err    error
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Action, e.Step, e.Err)
}

// Unwrap returns the sentinel.
func (e *ActionError) Unwrap() error {
	return e.Err
}
