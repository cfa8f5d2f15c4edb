package wizard

import (
	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/validate"
)

// Step is a wizard step.
type Step string

const (
	StepIDEntry       Step = "id-entry"
	StepProfileLoaded Step = "profile-loaded"
	StepRegistration  Step = "registration"
	StepSessionEntry  Step = "session-entry"
	StepConfirmation  Step = "confirmation"
)

// State is the controller's flow state.
type State struct {
	Step Step `json:"step"`

	// User is the known or in-progress user. On the registration step it
	// holds only the identity key.
	User *domain.User `json:"user,omitempty"`

	// IsNewUser is true between a not-found lookup and a successful
	// registration.
	IsNewUser bool `json:"isNewUser"`

	// Session is the confirmed session on the confirmation step.
	Session *domain.AttendanceSession `json:"session,omitempty"`

	// Revision increases on every swap.
	Revision int64 `json:"revision"`
}

// initialState is the state of a fresh flow.
func initialState(revision int64) State {
	return State{Step: StepIDEntry, Revision: revision}
}

// clone returns a State that shares no pointers with s.
func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Session != nil {
		sess := *s.Session
		out.Session = &sess
	}
	return out
}

// Phase is the registration sub-step.
type Phase string

const (
	PhaseRole    Phase = "role"
	PhaseDetails Phase = "details"
)

// IDEntryScreen is the local state of the id-entry step.
type IDEntryScreen struct {
	// Input holds digits only; other characters are dropped as typed.
	Input  string
	Errors domain.FieldErrors
}

// RegistrationScreen is the local state of the registration step.
type RegistrationScreen struct {
	Phase  Phase
	Role   domain.Role
	Form   validate.RegistrationForm
	Errors domain.FieldErrors
	Banner string

	Campuses         domain.RefList
	AcademicPrograms domain.RefList
}

// SessionScreen is the local state of the session-entry step.
type SessionScreen struct {
	Form   validate.SessionForm
	Errors domain.FieldErrors
	Banner string

	ServiceTypes         domain.RefList
	AccompanimentCourses domain.RefList
}

// Alert is a blocking notice that must be dismissed.
type Alert struct {
	Title   string
	Message string
}

func newRegistrationScreen() RegistrationScreen {
	return RegistrationScreen{Phase: PhaseRole, Errors: domain.FieldErrors{}}
}

func newSessionScreen() SessionScreen {
	return SessionScreen{Form: validate.NewSessionForm(), Errors: domain.FieldErrors{}}
}

func (s IDEntryScreen) clone() IDEntryScreen {
	s.Errors = s.Errors.Clone()
	return s
}

func (s RegistrationScreen) clone() RegistrationScreen {
	s.Errors = s.Errors.Clone()
	s.Campuses = append(domain.RefList(nil), s.Campuses...)
	s.AcademicPrograms = append(domain.RefList(nil), s.AcademicPrograms...)
	return s
}

func (s SessionScreen) clone() SessionScreen {
	s.Errors = s.Errors.Clone()
	s.ServiceTypes = append(domain.RefList(nil), s.ServiceTypes...)
	s.AccompanimentCourses = append(domain.RefList(nil), s.AccompanimentCourses...)
	return s
}
