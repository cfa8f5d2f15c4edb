package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/locale"
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{6,12}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneDigits       = regexp.MustCompile(`^\d{10,15}$`)
	wholeNumber       = regexp.MustCompile(`^\d+$`)
)

const (
	minSemester = 1
	maxSemester = 10
	maxHours    = 24
)

// Validator applies the form rules and localizes their messages.
type Validator struct {
	p         *message.Printer
	guestCode string
}

// Option configures a Validator.
type Option func(*Validator)

// WithGuestAccessCode overrides the code auto-assigned to guests.
func WithGuestAccessCode(code string) Option {
	return func(v *Validator) {
		if code != "" {
			v.guestCode = code
		}
	}
}

// New creates a Validator whose messages are in the language of tag.
func New(tag language.Tag, opts ...Option) *Validator {
	v := &Validator{
		p:         locale.Printer(tag),
		guestCode: domain.DefaultGuestAccessCode,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Digits strips every non-digit rune, the way the identity input filters
// keystrokes.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsNationalID reports whether s is 6 to 12 ASCII digits.
func IsNationalID(s string) bool {
	return nationalIDPattern.MatchString(s)
}

// NationalID validates an identity key.
func (v *Validator) NationalID(cedula string) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if !IsNationalID(cedula) {
		errs.Add(domain.FieldCedula, v.p.Sprintf(locale.MsgCedulaInvalid))
	}
	return errs
}

// Registration validates the detail form for role.
func (v *Validator) Registration(role domain.Role, form RegistrationForm) domain.FieldErrors {
	errs := domain.FieldErrors{}

	if strings.TrimSpace(form.FirstName) == "" {
		errs.Add(domain.FieldFirstName, v.p.Sprintf(locale.MsgFirstNameRequired))
	}
	if strings.TrimSpace(form.LastName) == "" {
		errs.Add(domain.FieldLastName, v.p.Sprintf(locale.MsgLastNameRequired))
	}

	email := strings.TrimSpace(form.Email)
	switch {
	case email == "":
		errs.Add(domain.FieldEmail, v.p.Sprintf(locale.MsgEmailRequired))
	case !emailPattern.MatchString(email):
		errs.Add(domain.FieldEmail, v.p.Sprintf(locale.MsgEmailInvalid))
	}

	phone := strings.TrimSpace(form.Phone)
	switch {
	case phone == "":
		errs.Add(domain.FieldPhone, v.p.Sprintf(locale.MsgPhoneRequired))
	case !phoneDigits.MatchString(Digits(phone)):
		errs.Add(domain.FieldPhone, v.p.Sprintf(locale.MsgPhoneInvalid))
	}

	if _, ok := optionID(form.CampusID); !ok {
		errs.Add(domain.FieldCampusID, v.p.Sprintf(locale.MsgCampusRequired))
	}

	if role.RequiresAcademicProgram() {
		if _, ok := optionID(form.AcademicProgramID); !ok {
			errs.Add(domain.FieldAcademicProgramID, v.p.Sprintf(locale.MsgProgramRequired))
		}
	}

	if role.RequiresSemester() {
		if msg := v.semesterError(form.Semester); msg != "" {
			errs.Add(domain.FieldSemester, msg)
		}
	}

	if role.RequiresAccessCode() && strings.TrimSpace(form.RoleAccessCode) == "" {
		errs.Add(domain.FieldRoleAccessCode, v.p.Sprintf(locale.MsgAccessCodeRequired))
	}

	return errs
}

func (v *Validator) semesterError(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return v.p.Sprintf(locale.MsgSemesterRequired)
	}
	if !wholeNumber.MatchString(s) {
		return v.p.Sprintf(locale.MsgSemesterNotInteger)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minSemester || n > maxSemester {
		return v.p.Sprintf(locale.MsgSemesterOutOfRange)
	}
	return ""
}

// BuildRegistration validates form and returns the role variant to submit.
// Text fields are trimmed and names are NFC-normalized.
func (v *Validator) BuildRegistration(cedula string, role domain.Role, form RegistrationForm) (domain.Registration, domain.FieldErrors) {
	if errs := v.Registration(role, form); !errs.Valid() {
		return nil, errs
	}

	campusID, _ := optionID(form.CampusID)
	contact := domain.Contact{
		Cedula:    cedula,
		FirstName: norm.NFC.String(strings.TrimSpace(form.FirstName)),
		LastName:  norm.NFC.String(strings.TrimSpace(form.LastName)),
		Email:     strings.TrimSpace(form.Email),
		Phone:     strings.TrimSpace(form.Phone),
		CampusID:  campusID,
	}
	programID, _ := optionID(form.AcademicProgramID)
	semester, _ := strconv.Atoi(strings.TrimSpace(form.Semester))
	code := strings.TrimSpace(form.RoleAccessCode)

	switch role {
	case domain.RoleProfessor:
		return domain.ProfessorRegistration{Contact: contact, AcademicProgramID: programID, AccessCode: code}, nil
	case domain.RoleMonitor:
		return domain.MonitorRegistration{Contact: contact, AcademicProgramID: programID, Semester: semester, AccessCode: code}, nil
	case domain.RoleStudent:
		return domain.StudentRegistration{Contact: contact, AcademicProgramID: programID, Semester: semester}, nil
	default:
		return domain.GuestRegistration{Contact: contact, AccessCode: v.guestCode}, nil
	}
}

// Session validates the session-entry form.
func (v *Validator) Session(form SessionForm) domain.FieldErrors {
	errs := domain.FieldErrors{}

	if strings.TrimSpace(form.ServiceTypeID) == "" {
		errs.Add(domain.FieldServiceTypeID, v.p.Sprintf(locale.MsgServiceTypeRequired))
	} else if _, ok := optionID(form.ServiceTypeID); !ok {
		errs.Add(domain.FieldServiceTypeID, v.p.Sprintf(locale.MsgServiceTypeInvalid))
	}

	if strings.TrimSpace(form.AccompanimentCourseID) != "" {
		if _, ok := optionID(form.AccompanimentCourseID); !ok {
			errs.Add(domain.FieldAccompanimentCourseID, v.p.Sprintf(locale.MsgCourseInvalid))
		}
	}

	hours := strings.TrimSpace(form.EstimatedHours)
	if hours == "" {
		errs.Add(domain.FieldEstimatedHours, v.p.Sprintf(locale.MsgHoursRequired))
	} else if _, ok := parseHours(hours); !ok {
		errs.Add(domain.FieldEstimatedHours, v.p.Sprintf(locale.MsgHoursInvalid))
	}

	return errs
}

// BuildAttendance validates form and returns the request to submit for user.
func (v *Validator) BuildAttendance(user domain.User, form SessionForm) (domain.AttendanceRequest, domain.FieldErrors) {
	if errs := v.Session(form); !errs.Valid() {
		return domain.AttendanceRequest{}, errs
	}

	serviceTypeID, _ := optionID(form.ServiceTypeID)
	hours, _ := parseHours(strings.TrimSpace(form.EstimatedHours))
	req := domain.AttendanceRequest{
		NationalID:     user.IdentityKey(),
		ServiceTypeID:  serviceTypeID,
		EstimatedHours: hours,
		Authorization:  form.Authorization,
	}
	if courseID, ok := optionID(form.AccompanimentCourseID); ok {
		req.AccompanimentCourseID = &courseID
	}
	if comments := strings.TrimSpace(form.Comments); comments != "" {
		req.Comments = &comments
	}
	return req, nil
}

// optionID parses a selected option id. Empty or non-numeric means unselected.
func optionID(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseHours accepts 0 < h <= 24.
func parseHours(s string) (float64, bool) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, false
	}
	if h <= 0 || h > maxHours {
		return 0, false
	}
	return h, true
}
