package domain

import "sort"

// Canonical client field names. Screens key their error maps by these.
const (
	FieldCedula                = "cedula"
	FieldFirstName             = "firstName"
	FieldLastName              = "lastName"
	FieldEmail                 = "email"
	FieldPhone                 = "phone"
	FieldCampusID              = "campusId"
	FieldAcademicProgramID     = "academicProgramId"
	FieldSemester              = "semester"
	FieldRoleAccessCode        = "roleAccessCode"
	FieldServiceTypeID         = "serviceTypeId"
	FieldAccompanimentCourseID = "accompanimentCourseId"
	FieldEstimatedHours        = "estimatedHours"
	FieldAuthorization         = "authorization"
	FieldComments              = "comments"
)

// backendAliases maps backend field names to canonical client names.
// Names absent from the table pass through unchanged.
var backendAliases = map[string]string{
	"nationalId": FieldCedula,
}

// CanonicalField translates a backend field name to its client name.
func CanonicalField(name string) string {
	if canonical, ok := backendAliases[name]; ok {
		return canonical
	}
	return name
}

// BackendField translates a canonical client name to the backend's name.
func BackendField(name string) string {
	for backend, canonical := range backendAliases {
		if canonical == name {
			return backend
		}
	}
	return name
}

// FieldErrors maps a field name to a human-readable message.
// An empty map means the form is valid.
type FieldErrors map[string]string

// Valid reports whether there are no errors.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// Add records msg for field unless the field already has an error,
// so the first failing rule for a field wins.
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Fields returns the field names in sorted order.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	if e == nil {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Without returns a copy with field removed.
func (e FieldErrors) Without(field string) FieldErrors {
	out := e.Clone()
	delete(out, field)
	return out
}

// Canonicalize returns a copy keyed by canonical client names.
// When both a backend alias and its canonical name are present, the
// alias wins.
func Canonicalize(backend map[string]string) FieldErrors {
	out := make(FieldErrors, len(backend))
	for name, msg := range backend {
		if _, aliased := backendAliases[name]; !aliased {
			out[name] = msg
		}
	}
	for name, msg := range backend {
		if canonical, aliased := backendAliases[name]; aliased {
			out[canonical] = msg
		}
	}
	return out
}
