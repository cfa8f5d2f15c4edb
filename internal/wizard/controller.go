package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/locale"
	"github.com/roach88/checkin/internal/validate"
)

// Controller drives one kiosk through the wizard, one flow at a time.
//
// Thread-safety: Controller is safe for concurrent use. The mutex is never
// held across a network call.
type Controller struct {
	data      api.DataAccess
	validator *validate.Validator
	printer   *message.Printer
	lang      language.Tag
	guestCode string
	logger    *slog.Logger
	now       func() time.Time
	seq       Sequencer
	ids       IDGenerator
	observer  Observer

	mu           sync.Mutex
	state        State
	idEntry      IDEntryScreen
	registration RegistrationScreen
	session      SessionScreen
	alert        *Alert
	lastSession  *domain.AttendanceSession
	loading      bool
	stepCtx      context.Context
	cancelStep   context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithNow sets the wall clock used for session timestamps and dates.
func WithNow(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithSequencer sets the logical clock that numbers transitions.
func WithSequencer(s Sequencer) Option {
	return func(c *Controller) {
		c.seq = s
	}
}

// WithIDGenerator sets the generator for session ids the backend omits.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Controller) {
		c.ids = g
	}
}

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithLanguage selects the language of user-facing messages.
func WithLanguage(tag language.Tag) Option {
	return func(c *Controller) {
		c.lang = tag
	}
}

// WithGuestAccessCode sets the code assigned to guests.
func WithGuestAccessCode(code string) Option {
	return func(c *Controller) {
		c.guestCode = code
	}
}

// New creates a controller at the start of a flow.
func New(data api.DataAccess, opts ...Option) *Controller {
	c := &Controller{
		data:      data,
		lang:      locale.Default,
		guestCode: domain.DefaultGuestAccessCode,
		logger:    slog.Default(),
		now:       time.Now,
		seq:       NewClock(),
		ids:       UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.lang = locale.Match(c.lang)
	c.printer = locale.Printer(c.lang)
	c.validator = validate.New(c.lang, validate.WithGuestAccessCode(c.guestCode))
	c.stepCtx, c.cancelStep = context.WithCancel(context.Background())
	c.state = initialState(0)
	c.registration = newRegistrationScreen()
	c.session = newSessionScreen()
	return c
}

// Language returns the language of user-facing messages.
func (c *Controller) Language() language.Tag {
	return c.lang
}

// State returns a copy of the current flow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Loading reports whether a network call is outstanding. Renderers show a
// loading indicator instead of the step screen while it is true.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// IDEntry returns the id-entry screen.
func (c *Controller) IDEntry() IDEntryScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idEntry.clone()
}

// Registration returns the registration screen.
func (c *Controller) Registration() RegistrationScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registration.clone()
}

// SessionEntry returns the session-entry screen.
func (c *Controller) SessionEntry() SessionScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// Alert returns the pending blocking alert, if any.
func (c *Controller) Alert() (Alert, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.alert == nil {
		return Alert{}, false
	}
	return *c.alert, true
}

// DismissAlert closes the pending alert. It is a no-op without one.
func (c *Controller) DismissAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = nil
}

// LastSession returns the most recently confirmed session of this flow.
func (c *Controller) LastSession() (domain.AttendanceSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSession == nil {
		return domain.AttendanceSession{}, false
	}
	return *c.lastSession, true
}

// guard checks that action may run now. Caller holds c.mu.
func (c *Controller) guard(action Action, steps ...Step) error {
	if c.loading {
		return &ActionError{Action: action, Step: c.state.Step, Err: ErrBusy}
	}
	if c.alert != nil {
		return &ActionError{Action: action, Step: c.state.Step, Err: ErrAlertPending}
	}
	for _, s := range steps {
		if c.state.Step == s {
			return nil
		}
	}
	return &ActionError{Action: action, Step: c.state.Step, Err: ErrWrongStep}
}

// swap replaces the state wholesale and starts a new step lifetime,
// cancelling every call tied to the previous one. Caller holds c.mu.
func (c *Controller) swap(next State) {
	c.cancelStep()
	c.stepCtx, c.cancelStep = context.WithCancel(context.Background())
	next.Revision = c.state.Revision + 1
	c.state = next
}

// emit records a decision. Caller holds c.mu.
func (c *Controller) emit(action Action, from Step, outcome Outcome) {
	t := Transition{
		Seq:     c.seq.Next(),
		Action:  action,
		From:    from,
		To:      c.state.Step,
		Outcome: outcome,
	}
	c.logger.Debug("wizard transition",
		"seq", t.Seq,
		"action", t.Action,
		"from", t.From,
		"to", t.To,
		"outcome", t.Outcome,
	)
	if c.observer != nil {
		c.observer(t)
	}
}

// call runs fn with c.mu released, under a context cancelled when either
// ctx ends or the current step is left. It reports whether the step is
// still current afterwards. Caller holds c.mu on entry and on return, and
// must clear c.loading only when call reports true.
func (c *Controller) call(ctx context.Context, fn func(context.Context)) bool {
	revision := c.state.Revision
	c.loading = true

	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.stepCtx, cancel)

	c.mu.Unlock()
	fn(callCtx)
	stop()
	cancel()
	c.mu.Lock()

	return c.state.Revision == revision
}

// superseded reports a result that arrived for a step already left.
// Caller holds c.mu.
func (c *Controller) superseded(action Action, from Step) error {
	c.logger.Debug("discarding stale result", "action", action, "from", from, "step", c.state.Step)
	return &ActionError{Action: action, Step: from, Err: ErrSuperseded}
}

// fail routes a failure that carries no field errors: a generic blocking
// alert, with the detail logged only. A caller-cancelled request raises no
// alert. Caller holds c.mu.
func (c *Controller) fail(ctx context.Context, action Action, err error, msg string) error {
	from := c.state.Step
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Info("request cancelled", "action", action, "step", from, "error", err)
		c.emit(action, from, OutcomeCancelled)
		return ctxErr
	}

	c.logger.Error("request failed", "action", action, "step", from, "error", err)
	c.alert = &Alert{
		Title:   c.printer.Sprintf(locale.MsgErrorTitle),
		Message: c.printer.Sprintf(msg),
	}
	c.emit(action, from, OutcomeFailed)
	return nil
}

// loadOptions fetches the option lists of the screen just mounted.
// Failures are logged and leave the list empty. Caller holds c.mu.
func (c *Controller) loadOptions(ctx context.Context, kinds ...domain.RefKind) {
	lists := make(map[domain.RefKind]domain.RefList, len(kinds))
	current := c.call(ctx, func(ctx context.Context) {
		for _, kind := range kinds {
			items, err := c.data.ListReference(ctx, kind)
			if err != nil {
				c.logger.Error("failed to load options", "kind", kind, "error", err)
				items = domain.RefList{}
			}
			lists[kind] = items
		}
	})
	if !current {
		return
	}
	c.loading = false

	switch c.state.Step {
	case StepRegistration:
		c.registration.Campuses = lists[domain.RefCampuses]
		c.registration.AcademicPrograms = lists[domain.RefAcademicPrograms]
	case StepSessionEntry:
		c.session.ServiceTypes = lists[domain.RefServiceTypes]
		c.session.AccompanimentCourses = lists[domain.RefAccompanimentCourses]
	}
}

// enterSessionEntry mounts the session-entry screen for user. Caller holds c.mu.
func (c *Controller) enterSessionEntry(ctx context.Context, action Action, user *domain.User, outcome Outcome) {
	from := c.state.Step
	c.swap(State{Step: StepSessionEntry, User: user})
	c.session = newSessionScreen()
	c.emit(action, from, outcome)
	c.loadOptions(ctx, domain.RefServiceTypes, domain.RefAccompanimentCourses)
}

// reset returns to a fresh flow. Caller holds c.mu.
func (c *Controller) reset() {
	c.swap(initialState(c.state.Revision))
	c.idEntry = IDEntryScreen{}
	c.registration = newRegistrationScreen()
	c.session = newSessionScreen()
	c.alert = nil
	c.lastSession = nil
	c.loading = false
}
