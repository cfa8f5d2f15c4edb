package domain

// DefaultGuestAccessCode is assigned to guests, who never type a code.
const DefaultGuestAccessCode = "INV-2026"

// Contact holds the fields every role must provide.
type Contact struct {
	Cedula    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CampusID  int
}

// Registration is a validated new-user payload. Exactly one variant exists
// per role; each carries only the fields its role owns.
type Registration interface {
	Role() Role
	ContactDetails() Contact

	// WireFields returns the role-dependent fields keyed by backend name.
	// Absent fields are omitted rather than sent empty.
	WireFields() map[string]any

	sealed()
}

// ProfessorRegistration requires a program and an access code.
type ProfessorRegistration struct {
	Contact
	AcademicProgramID int
	AccessCode        string
}

// MonitorRegistration requires a program, a semester and an access code.
type MonitorRegistration struct {
	Contact
	AcademicProgramID int
	Semester          int
	AccessCode        string
}

// StudentRegistration requires a program and a semester.
type StudentRegistration struct {
	Contact
	AcademicProgramID int
	Semester          int
}

// GuestRegistration requires contact details only.
// AccessCode is filled from configuration, never from user input.
type GuestRegistration struct {
	Contact
	AccessCode string
}

func (ProfessorRegistration) Role() Role { return RoleProfessor }
func (MonitorRegistration) Role() Role   { return RoleMonitor }
func (StudentRegistration) Role() Role   { return RoleStudent }
func (GuestRegistration) Role() Role     { return RoleGuest }

func (r ProfessorRegistration) ContactDetails() Contact { return r.Contact }
func (r MonitorRegistration) ContactDetails() Contact   { return r.Contact }
func (r StudentRegistration) ContactDetails() Contact   { return r.Contact }
func (r GuestRegistration) ContactDetails() Contact     { return r.Contact }

func (r ProfessorRegistration) WireFields() map[string]any {
	return map[string]any{
		FieldAcademicProgramID: r.AcademicProgramID,
		FieldRoleAccessCode:    r.AccessCode,
	}
}

func (r MonitorRegistration) WireFields() map[string]any {
	return map[string]any{
		FieldAcademicProgramID: r.AcademicProgramID,
		FieldSemester:          r.Semester,
		FieldRoleAccessCode:    r.AccessCode,
	}
}

func (r StudentRegistration) WireFields() map[string]any {
	return map[string]any{
		FieldAcademicProgramID: r.AcademicProgramID,
		FieldSemester:          r.Semester,
	}
}

func (r GuestRegistration) WireFields() map[string]any {
	code := r.AccessCode
	if code == "" {
		code = DefaultGuestAccessCode
	}
	return map[string]any{FieldRoleAccessCode: code}
}

func (ProfessorRegistration) sealed() {}
func (MonitorRegistration) sealed()   {}
func (StudentRegistration) sealed()   {}
func (GuestRegistration) sealed()     {}
