package store

import (
	"time"

	"github.com/roach88/checkin/internal/domain"
)

// UserRow is a registered participant.
type UserRow struct {
	NationalID        string
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Role              domain.Role
	CampusID          *int
	AcademicProgramID *int
	Semester          *int
	AccessCode        string
	CreatedAt         time.Time

	// Resolved from reference tables on read; ignored on insert.
	CampusName          string
	AcademicProgramName string
}

// AttendanceRow is a recorded session.
type AttendanceRow struct {
	ID                    string
	NationalID            string
	ServiceTypeID         int
	AccompanimentCourseID *int
	EstimatedHours        float64
	Authorized            bool
	Comments              *string
	CreatedAt             time.Time

	// Resolved on read; ignored on insert.
	UserName                string
	ServiceTypeName         string
	AccompanimentCourseName string
}
