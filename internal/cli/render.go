package cli

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/locale"
	"github.com/roach88/checkin/internal/validate"
	"github.com/roach88/checkin/internal/wizard"
)

// fieldLabels maps canonical field names to their message keys.
var fieldLabels = map[string]string{
	domain.FieldCedula:                locale.MsgIDPrompt,
	domain.FieldFirstName:             locale.MsgLabelFirstName,
	domain.FieldLastName:              locale.MsgLabelLastName,
	domain.FieldEmail:                 locale.MsgLabelEmail,
	domain.FieldPhone:                 locale.MsgLabelPhone,
	domain.FieldCampusID:              locale.MsgLabelCampus,
	domain.FieldAcademicProgramID:     locale.MsgLabelProgram,
	domain.FieldSemester:              locale.MsgLabelSemester,
	domain.FieldRoleAccessCode:        locale.MsgLabelAccessCode,
	domain.FieldServiceTypeID:         locale.MsgLabelServiceType,
	domain.FieldAccompanimentCourseID: locale.MsgLabelCourse,
	domain.FieldEstimatedHours:        locale.MsgLabelHours,
	domain.FieldComments:              locale.MsgLabelComments,
	domain.FieldAuthorization:         locale.MsgLabelAuthorization,
}

func fieldLabel(p *message.Printer, field string) string {
	if key, ok := fieldLabels[field]; ok {
		return p.Sprintf(key)
	}
	return field
}

func yesNo(p *message.Printer, b bool) string {
	if b {
		return p.Sprintf(locale.MsgYes)
	}
	return p.Sprintf(locale.MsgNo)
}

// screenRenderer draws wizard screens as plain text.
type screenRenderer struct {
	w    io.Writer
	p    *message.Printer
	lang language.Tag
}

func newScreenRenderer(w io.Writer, lang language.Tag) *screenRenderer {
	return &screenRenderer{w: w, p: locale.Printer(lang), lang: lang}
}

func (r *screenRenderer) title(text string) {
	fmt.Fprintf(r.w, "== %s ==\n", text)
}

func (r *screenRenderer) line(key string, args ...interface{}) {
	fmt.Fprintln(r.w, r.p.Sprintf(key, args...))
}

func (r *screenRenderer) pair(key, value string) {
	fmt.Fprintf(r.w, "%s: %s\n", r.p.Sprintf(key), value)
}

func (r *screenRenderer) problem(msg string) {
	fmt.Fprintf(r.w, "  ! %s\n", msg)
}

func (r *screenRenderer) options(items domain.RefList) {
	if len(items) == 0 {
		fmt.Fprintf(r.w, "  %s\n", r.p.Sprintf(locale.MsgNoOptions))
		return
	}
	for _, item := range items {
		fmt.Fprintf(r.w, "  [%d] %s\n", item.ID, item.Name)
	}
}

// prompt writes "label [current]: " without a newline.
func (r *screenRenderer) prompt(label, current string, optional bool) {
	if optional {
		label = fmt.Sprintf("%s (%s)", label, r.p.Sprintf(locale.MsgOptional))
	}
	if current != "" {
		fmt.Fprintf(r.w, "%s [%s]: ", label, current)
		return
	}
	fmt.Fprintf(r.w, "%s: ", label)
}

func (r *screenRenderer) loading() {
	r.line(locale.MsgLoading)
}

func (r *screenRenderer) idEntry(s wizard.IDEntryScreen) {
	r.title(r.p.Sprintf(locale.MsgIDPrompt))
	r.line(locale.MsgQuitHint)
	if msg, ok := s.Errors[domain.FieldCedula]; ok {
		r.problem(msg)
	}
}

func (r *screenRenderer) profile(u domain.User) {
	r.title(r.p.Sprintf(locale.MsgWelcomeBack, u.DisplayName()))
	writeProfile(r.w, r.p, u)
	r.line(locale.MsgContinuePrompt)
}

func (r *screenRenderer) roleMenu(cedula string) {
	r.title(r.p.Sprintf(locale.MsgNewUser, cedula))
	r.line(locale.MsgSelectRole)
	for i, role := range domain.Roles() {
		fmt.Fprintf(r.w, "  [%d] %s\n", i+1, role)
	}
}

func (r *screenRenderer) registration(s wizard.RegistrationScreen) {
	r.title(r.p.Sprintf(locale.MsgCompleteProfile, s.Role))
	if s.Banner != "" {
		r.problem(s.Banner)
	}
	r.fieldErrors(validate.RegistrationFields(s.Role), s.Errors)
	r.line(locale.MsgFormHint)
}

// fieldErrors lists every error under the form header, form fields first in
// form order, then any others by name.
func (r *screenRenderer) fieldErrors(order []string, errs domain.FieldErrors) {
	listed := make(map[string]bool, len(order))
	for _, field := range order {
		listed[field] = true
		if msg, ok := errs[field]; ok {
			r.problem(fmt.Sprintf("%s: %s", fieldLabel(r.p, field), msg))
		}
	}
	for _, field := range errs.Fields() {
		if !listed[field] {
			r.problem(fmt.Sprintf("%s: %s", fieldLabel(r.p, field), errs[field]))
		}
	}
}

func (r *screenRenderer) sessionEntry(u domain.User, s wizard.SessionScreen) {
	r.title(r.p.Sprintf(locale.MsgSessionDetails))
	r.pair(locale.MsgLabelName, u.DisplayName())
	r.pair(locale.MsgLabelRole, string(u.Role))
	if s.Banner != "" {
		r.problem(s.Banner)
	}
}

// field lists the options of a select field and its error, then prompts.
func (r *screenRenderer) field(name, current string, choices domain.RefList, isSelect bool, errMsg string) {
	label := fieldLabel(r.p, name)
	if isSelect {
		fmt.Fprintf(r.w, "%s:\n", label)
		r.options(choices)
	}
	if errMsg != "" {
		r.problem(errMsg)
	}
	optional := name == domain.FieldAccompanimentCourseID || name == domain.FieldComments
	r.prompt(label, current, optional)
}

func (r *screenRenderer) confirmation(s domain.AttendanceSession) {
	r.title(r.p.Sprintf(locale.MsgSessionRegistered))
	writeSession(r.w, r.p, s)
	r.line(locale.MsgNewEntryPrompt)
}

func (r *screenRenderer) alert(a wizard.Alert) {
	fmt.Fprintf(r.w, "!! %s: %s\n", a.Title, a.Message)
	r.line(locale.MsgContinuePrompt)
}

func writeProfile(w io.Writer, p *message.Printer, u domain.User) {
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s: %s\n", p.Sprintf(key), value)
		}
	}
	row(locale.MsgLabelName, u.DisplayName())
	row(locale.MsgIDPrompt, u.IdentityKey())
	row(locale.MsgLabelRole, string(u.Role))
	row(locale.MsgLabelEmail, u.Email)
	row(locale.MsgLabelPhone, u.Phone)
	row(locale.MsgLabelCampus, u.Campus)
	row(locale.MsgLabelProgram, u.AcademicProgram)
	if u.Semester > 0 {
		row(locale.MsgLabelSemester, fmt.Sprint(u.Semester))
	}
}

func writeSession(w io.Writer, p *message.Printer, s domain.AttendanceSession) {
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s: %s\n", p.Sprintf(key), value)
		}
	}
	row(locale.MsgLabelSessionID, s.ID)
	row(locale.MsgLabelName, s.UserName)
	row(locale.MsgIDPrompt, s.Cedula)
	row(locale.MsgLabelRole, string(s.Role))
	row(locale.MsgLabelServiceType, s.ServiceType)
	row(locale.MsgLabelCourse, s.AccompanimentCourse)
	row(locale.MsgLabelHours, locale.Hours(p, s.EstimatedHours))
	row(locale.MsgLabelComments, s.Comments)
	row(locale.MsgLabelAuthorization, yesNo(p, s.Authorization))
	row(locale.MsgLabelDate, s.Date)
	row(locale.MsgLabelTime, locale.ClockTime(s.Timestamp))
}

// profileView is the payload of the lookup command.
type profileView struct {
	domain.User
	printer *message.Printer
}

func (v profileView) RenderText(w io.Writer) {
	writeProfile(w, v.printer, v.User)
}

// catalogView is the payload of the catalog command.
type catalogView struct {
	Kind  domain.RefKind `json:"kind"`
	Items domain.RefList `json:"items"`

	printer *message.Printer
}

func (v catalogView) RenderText(w io.Writer) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, v.printer.Sprintf(locale.MsgNoOptions))
		return
	}
	for _, item := range v.Items {
		fmt.Fprintf(w, "%4d  %s\n", item.ID, item.Name)
	}
}

// historyView is the payload of the history command.
type historyView struct {
	Cedula   string                    `json:"cedula"`
	Sessions []domain.AttendanceRecord `json:"sessions"`

	printer *message.Printer
	lang    language.Tag
}

func (v historyView) RenderText(w io.Writer) {
	if len(v.Sessions) == 0 {
		fmt.Fprintln(w, v.printer.Sprintf(locale.MsgNoSessions))
		return
	}
	fmt.Fprintln(w, v.printer.Sprintf(locale.MsgSessionCount, len(v.Sessions)))
	for _, s := range v.Sessions {
		fmt.Fprintf(w, "- %s %s  %s", locale.LongDate(s.Timestamp, v.lang), locale.ClockTime(s.Timestamp), s.ServiceType)
		if s.AccompanimentCourse != "" {
			fmt.Fprintf(w, " / %s", s.AccompanimentCourse)
		}
		fmt.Fprintf(w, "  %s  [%s]\n", locale.Hours(v.printer, s.EstimatedHours), s.ID)
		if s.Comments != "" {
			fmt.Fprintf(w, "    %s\n", s.Comments)
		}
	}
}

// registrationFieldOptions returns the option list of a registration select field.
func registrationFieldOptions(s wizard.RegistrationScreen, field string) (domain.RefList, bool) {
	switch field {
	case domain.FieldCampusID:
		return s.Campuses, true
	case domain.FieldAcademicProgramID:
		return s.AcademicPrograms, true
	}
	return nil, false
}

// sessionFieldOptions returns the option list of a session select field.
func sessionFieldOptions(s wizard.SessionScreen, field string) (domain.RefList, bool) {
	switch field {
	case domain.FieldServiceTypeID:
		return s.ServiceTypes, true
	case domain.FieldAccompanimentCourseID:
		return s.AccompanimentCourses, true
	}
	return nil, false
}

// sessionFieldValue returns the current text of a session field.
func sessionFieldValue(p *message.Printer, f validate.SessionForm, field string) string {
	switch field {
	case domain.FieldServiceTypeID:
		return f.ServiceTypeID
	case domain.FieldAccompanimentCourseID:
		return f.AccompanimentCourseID
	case domain.FieldEstimatedHours:
		return f.EstimatedHours
	case domain.FieldComments:
		return f.Comments
	case domain.FieldAuthorization:
		return yesNo(p, f.Authorization)
	}
	return ""
}
