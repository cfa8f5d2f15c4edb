package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the fixed enumeration of participant roles.
// Values match the labels the backend stores and returns.
type Role string

const (
	RoleProfessor Role = "Profesor"
	RoleMonitor   Role = "Monitor"
	RoleStudent   Role = "Estudiante"
	RoleGuest     Role = "Invitado"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleProfessor, RoleMonitor, RoleStudent, RoleGuest}
}

// ParseRole accepts a role label, case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// RequiresAcademicProgram reports whether the role must name a program.
func (r Role) RequiresAcademicProgram() bool {
	return r == RoleProfessor || r == RoleMonitor || r == RoleStudent
}

// RequiresSemester reports whether the role must give a semester.
func (r Role) RequiresSemester() bool {
	return r == RoleMonitor || r == RoleStudent
}

// RequiresAccessCode reports whether the role must type an access code.
// Guests are assigned one automatically.
func (r Role) RequiresAccessCode() bool {
	return r == RoleProfessor || r == RoleMonitor
}

// User is a person known to the backend.
type User struct {
	// Cedula is the identity key the wizard looked the user up with.
	Cedula string `json:"cedula"`

	// NationalID is the identity key as reported by the backend.
	// Empty when the backend did not report one.
	NationalID string `json:"nationalId,omitempty"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`

	Career          string `json:"career,omitempty"`
	Department      string `json:"department,omitempty"`
	Campus          string `json:"sede,omitempty"`
	AcademicProgram string `json:"academicProgram,omitempty"`
	Semester        int    `json:"semester,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// IdentityKey returns the backend-assigned identity when present,
// falling back to the lookup key.
func (u User) IdentityKey() string {
	if u.NationalID != "" {
		return u.NationalID
	}
	return u.Cedula
}

// DisplayName returns "first last", or the full name when the parts are empty.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return strings.TrimSpace(u.FullName)
	}
	return name
}

// UserUpdate carries the mutable contact fields of a user.
// Nil fields are left unchanged.
type UserUpdate struct {
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// SplitFullName splits "Ana María Pérez" into "Ana" and "María Pérez".
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
