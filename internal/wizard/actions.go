package wizard

import (
	"context"
	"fmt"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/locale"
	"github.com/roach88/checkin/internal/validate"
)

// Lookup checks the identity typed on the id-entry step. Non-digits are
// dropped before validation. An invalid id stays on the step with a field
// error and makes no call.
func (c *Controller) Lookup(ctx context.Context, input string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionLookup, StepIDEntry); err != nil {
		return err
	}

	cedula := validate.Digits(input)
	c.idEntry = IDEntryScreen{Input: cedula}
	if errs := c.validator.NationalID(cedula); !errs.Valid() {
		c.idEntry.Errors = errs
		c.emit(ActionLookup, StepIDEntry, OutcomeFieldErrors)
		return nil
	}

	var (
		user  *domain.User
		found bool
		err   error
	)
	if !c.call(ctx, func(ctx context.Context) {
		user, found, err = c.data.FindUserByIdentity(ctx, cedula)
	}) {
		return c.superseded(ActionLookup, StepIDEntry)
	}
	c.loading = false

	if err != nil {
		return c.fail(ctx, ActionLookup, err, locale.MsgLookupFailed)
	}

	if found {
		c.swap(State{Step: StepProfileLoaded, User: user})
		c.emit(ActionLookup, StepIDEntry, OutcomeFound)
		return nil
	}

	c.swap(State{
		Step:      StepRegistration,
		User:      &domain.User{Cedula: cedula},
		IsNewUser: true,
	})
	c.registration = newRegistrationScreen()
	c.emit(ActionLookup, StepIDEntry, OutcomeNotFound)
	c.loadOptions(ctx, domain.RefCampuses, domain.RefAcademicPrograms)
	return nil
}

// Continue moves from the loaded profile to session entry.
func (c *Controller) Continue(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionContinue, StepProfileLoaded); err != nil {
		return err
	}
	c.enterSessionEntry(ctx, ActionContinue, c.state.User, OutcomeOK)
	return nil
}

// SelectRole picks the role on the registration role phase and opens the
// detail form with every field empty.
func (c *Controller) SelectRole(role domain.Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionSelectRole, StepRegistration); err != nil {
		return err
	}
	if c.registration.Phase != PhaseRole {
		return &ActionError{Action: ActionSelectRole, Step: c.state.Step, Err: ErrWrongStep}
	}
	if !role.Valid() {
		return fmt.Errorf("select role: unknown role %q", role)
	}

	c.resetRegistration(PhaseDetails, role)
	c.emit(ActionSelectRole, StepRegistration, OutcomeOK)
	return nil
}

// ChangeRole returns to role selection, discarding the detail form.
func (c *Controller) ChangeRole() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionChangeRole, StepRegistration); err != nil {
		return err
	}
	if c.registration.Phase != PhaseDetails {
		return &ActionError{Action: ActionChangeRole, Step: c.state.Step, Err: ErrWrongStep}
	}

	c.resetRegistration(PhaseRole, "")
	c.emit(ActionChangeRole, StepRegistration, OutcomeOK)
	return nil
}

// resetRegistration clears the form, errors and banner, keeping the loaded
// option lists. Caller holds c.mu.
func (c *Controller) resetRegistration(phase Phase, role domain.Role) {
	next := newRegistrationScreen()
	next.Phase = phase
	next.Role = role
	next.Campuses = c.registration.Campuses
	next.AcademicPrograms = c.registration.AcademicPrograms
	c.registration = next
}

// SetRegistrationField edits one detail field and clears its error.
func (c *Controller) SetRegistrationField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionRegister, StepRegistration); err != nil {
		return err
	}
	if c.registration.Phase != PhaseDetails {
		return &ActionError{Action: ActionRegister, Step: c.state.Step, Err: ErrWrongStep}
	}
	if err := c.registration.Form.Set(field, value); err != nil {
		return err
	}
	c.registration.Errors = c.registration.Errors.Without(field)
	return nil
}

// Register validates the detail form and creates the user. Client-side
// errors never reach the backend.
func (c *Controller) Register(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionRegister, StepRegistration); err != nil {
		return err
	}
	if c.registration.Phase != PhaseDetails {
		return &ActionError{Action: ActionRegister, Step: c.state.Step, Err: ErrWrongStep}
	}

	c.registration.Banner = ""
	reg, errs := c.validator.BuildRegistration(c.state.User.Cedula, c.registration.Role, c.registration.Form)
	if !errs.Valid() {
		c.registration.Errors = errs
		c.emit(ActionRegister, StepRegistration, OutcomeFieldErrors)
		return nil
	}
	c.registration.Errors = domain.FieldErrors{}

	var (
		user *domain.User
		err  error
	)
	if !c.call(ctx, func(ctx context.Context) {
		user, err = c.data.CreateUser(ctx, reg)
	}) {
		return c.superseded(ActionRegister, StepRegistration)
	}
	c.loading = false

	if err != nil {
		if ve, ok := api.AsValidationError(err); ok {
			c.logger.Info("registration rejected", "status", ve.Status, "message", ve.Message, "fields", ve.FieldErrors().Fields())
			c.registration.Errors = ve.FieldErrors()
			c.registration.Banner = c.printer.Sprintf(locale.MsgCorrectFields)
			c.emit(ActionRegister, StepRegistration, OutcomeFieldErrors)
			return nil
		}
		return c.fail(ctx, ActionRegister, err, locale.MsgRegistrationFailed)
	}

	c.enterSessionEntry(ctx, ActionRegister, user, OutcomeOK)
	return nil
}

// SetSessionField edits one session field and clears its error.
func (c *Controller) SetSessionField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionSubmitSession, StepSessionEntry); err != nil {
		return err
	}
	if err := c.session.Form.Set(field, value); err != nil {
		return err
	}
	c.session.Errors = c.session.Errors.Without(field)
	return nil
}

// SubmitSession validates the session form and records the attendance.
func (c *Controller) SubmitSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionSubmitSession, StepSessionEntry); err != nil {
		return err
	}

	c.session.Banner = ""
	user := *c.state.User
	req, errs := c.validator.BuildAttendance(user, c.session.Form)
	if !errs.Valid() {
		c.session.Errors = errs
		c.emit(ActionSubmitSession, StepSessionEntry, OutcomeFieldErrors)
		return nil
	}
	c.session.Errors = domain.FieldErrors{}

	var (
		resp *domain.SessionResponse
		err  error
	)
	if !c.call(ctx, func(ctx context.Context) {
		resp, err = c.data.CreateAttendance(ctx, req)
	}) {
		return c.superseded(ActionSubmitSession, StepSessionEntry)
	}
	c.loading = false

	if err != nil {
		if ve, ok := api.AsValidationError(err); ok {
			c.logger.Info("attendance rejected", "status", ve.Status, "message", ve.Message, "fields", ve.FieldErrors().Fields())
			for field, msg := range ve.FieldErrors() {
				c.session.Errors[field] = msg
			}
			c.session.Banner = c.printer.Sprintf(locale.MsgCorrectFields)
			c.emit(ActionSubmitSession, StepSessionEntry, OutcomeFieldErrors)
			return nil
		}
		return c.fail(ctx, ActionSubmitSession, err, locale.MsgAttendanceFailed)
	}

	session := c.confirmSession(user, req, resp)
	c.swap(State{Step: StepConfirmation, User: &user, Session: &session})
	c.lastSession = &session
	c.emit(ActionSubmitSession, StepSessionEntry, OutcomeOK)
	return nil
}

// confirmSession merges the backend response with local fallbacks.
// Caller holds c.mu.
func (c *Controller) confirmSession(user domain.User, req domain.AttendanceRequest, resp *domain.SessionResponse) domain.AttendanceSession {
	if resp == nil {
		resp = &domain.SessionResponse{}
	}
	now := c.now()

	session := domain.AttendanceSession{
		ID:                  resp.ID,
		Cedula:              req.NationalID,
		UserName:            user.DisplayName(),
		Role:                user.Role,
		ServiceType:         resp.ServiceType,
		AccompanimentCourse: resp.AccompanimentCourse,
		EstimatedHours:      req.EstimatedHours,
		Authorization:       req.Authorization,
		Timestamp:           resp.Timestamp,
		Date:                locale.LongDate(now, c.lang),
	}
	if session.ID == "" {
		session.ID = c.ids.Generate()
	}
	if session.ServiceType == "" {
		session.ServiceType, _ = c.session.ServiceTypes.Label(req.ServiceTypeID)
	}
	if session.AccompanimentCourse == "" && req.AccompanimentCourseID != nil {
		session.AccompanimentCourse, _ = c.session.AccompanimentCourses.Label(*req.AccompanimentCourseID)
	}
	if req.Comments != nil {
		session.Comments = *req.Comments
	}
	if session.Timestamp.IsZero() {
		session.Timestamp = now
	}
	return session
}

// NewEntry starts a fresh flow from the confirmation step.
func (c *Controller) NewEntry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ActionNewEntry, StepConfirmation); err != nil {
		return err
	}
	c.reset()
	c.emit(ActionNewEntry, StepConfirmation, OutcomeOK)
	return nil
}

// Abort abandons the flow from any step, cancelling any outstanding call.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.state.Step
	c.reset()
	c.emit(ActionAbort, from, OutcomeOK)
}
