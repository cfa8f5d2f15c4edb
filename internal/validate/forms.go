package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/checkin/internal/domain"
)

// RegistrationForm holds the raw text of the registration detail form.
// Select fields hold the chosen option id as text; empty means unselected.
type RegistrationForm struct {
	FirstName         string `yaml:"first_name" json:"firstName"`
	LastName          string `yaml:"last_name" json:"lastName"`
	Email             string `yaml:"email" json:"email"`
	Phone             string `yaml:"phone" json:"phone"`
	CampusID          string `yaml:"campus_id" json:"campusId"`
	AcademicProgramID string `yaml:"academic_program_id" json:"academicProgramId"`
	Semester          string `yaml:"semester" json:"semester"`
	RoleAccessCode    string `yaml:"role_access_code" json:"roleAccessCode"`
}

// Set assigns value to the field with the given canonical name.
func (f *RegistrationForm) Set(field, value string) error {
	switch field {
	case domain.FieldFirstName:
		f.FirstName = value
	case domain.FieldLastName:
		f.LastName = value
	case domain.FieldEmail:
		f.Email = value
	case domain.FieldPhone:
		f.Phone = value
	case domain.FieldCampusID:
		f.CampusID = value
	case domain.FieldAcademicProgramID:
		f.AcademicProgramID = value
	case domain.FieldSemester:
		f.Semester = value
	case domain.FieldRoleAccessCode:
		f.RoleAccessCode = value
	default:
		return fmt.Errorf("unknown registration field %q", field)
	}
	return nil
}

// Value returns the raw text of the named field.
func (f RegistrationForm) Value(field string) string {
	switch field {
	case domain.FieldFirstName:
		return f.FirstName
	case domain.FieldLastName:
		return f.LastName
	case domain.FieldEmail:
		return f.Email
	case domain.FieldPhone:
		return f.Phone
	case domain.FieldCampusID:
		return f.CampusID
	case domain.FieldAcademicProgramID:
		return f.AcademicProgramID
	case domain.FieldSemester:
		return f.Semester
	case domain.FieldRoleAccessCode:
		return f.RoleAccessCode
	}
	return ""
}

// RegistrationFields lists, in form order, the detail fields role fills in.
func RegistrationFields(role domain.Role) []string {
	fields := []string{
		domain.FieldFirstName, domain.FieldLastName, domain.FieldEmail,
		domain.FieldPhone, domain.FieldCampusID,
	}
	if role.RequiresAcademicProgram() {
		fields = append(fields, domain.FieldAcademicProgramID)
	}
	if role.RequiresSemester() {
		fields = append(fields, domain.FieldSemester)
	}
	if role.RequiresAccessCode() {
		fields = append(fields, domain.FieldRoleAccessCode)
	}
	return fields
}

// SessionForm holds the raw values of the session-entry form.
type SessionForm struct {
	ServiceTypeID         string `yaml:"service_type_id" json:"serviceTypeId"`
	AccompanimentCourseID string `yaml:"accompaniment_course_id" json:"accompanimentCourseId"`
	EstimatedHours        string `yaml:"estimated_hours" json:"estimatedHours"`
	Authorization         bool   `yaml:"authorization" json:"authorization"`
	Comments              string `yaml:"comments" json:"comments"`
}

// NewSessionForm returns an empty session form; authorization defaults to true.
func NewSessionForm() SessionForm {
	return SessionForm{Authorization: true}
}

// Set assigns value to the field with the given canonical name.
// Authorization accepts the usual boolean spellings plus si/sí/no.
func (f *SessionForm) Set(field, value string) error {
	switch field {
	case domain.FieldServiceTypeID:
		f.ServiceTypeID = value
	case domain.FieldAccompanimentCourseID:
		f.AccompanimentCourseID = value
	case domain.FieldEstimatedHours:
		f.EstimatedHours = value
	case domain.FieldComments:
		f.Comments = value
	case domain.FieldAuthorization:
		b, err := parseYesNo(value)
		if err != nil {
			return err
		}
		f.Authorization = b
	default:
		return fmt.Errorf("unknown session field %q", field)
	}
	return nil
}

// SessionFields lists the session-entry fields in form order.
func SessionFields() []string {
	return []string{
		domain.FieldServiceTypeID, domain.FieldAccompanimentCourseID,
		domain.FieldEstimatedHours, domain.FieldComments, domain.FieldAuthorization,
	}
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	case "n", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid yes/no value %q", s)
	}
	return b, nil
}
