package apitest

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/store"
)

// Fixtures is the initial backend state.
type Fixtures struct {
	Campuses             domain.RefList         `yaml:"campuses,omitempty"`
	AcademicPrograms     domain.RefList         `yaml:"academic_programs,omitempty"`
	ServiceTypes         domain.RefList         `yaml:"service_types,omitempty"`
	AccompanimentCourses domain.RefList         `yaml:"accompaniment_courses,omitempty"`
	AccessCodes          map[domain.Role]string `yaml:"access_codes,omitempty"`
	Users                []FixtureUser          `yaml:"users,omitempty"`
}

// FixtureUser is a participant registered before the test starts.
type FixtureUser struct {
	NationalID        string      `yaml:"national_id"`
	FirstName         string      `yaml:"first_name"`
	LastName          string      `yaml:"last_name"`
	Email             string      `yaml:"email"`
	Phone             string      `yaml:"phone"`
	Role              domain.Role `yaml:"role"`
	CampusID          *int        `yaml:"campus_id,omitempty"`
	AcademicProgramID *int        `yaml:"academic_program_id,omitempty"`
	Semester          *int        `yaml:"semester,omitempty"`
}

// FixtureTime is the creation time stamped on fixture users.
var FixtureTime = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

// DefaultFixtures returns a small but complete catalog with one known user.
func DefaultFixtures() Fixtures {
	campus, program, semester := 1, 1, 4
	return Fixtures{
		Campuses: domain.RefList{
			{ID: 1, Name: "Sede Central"},
			{ID: 2, Name: "Sede Norte"},
		},
		AcademicPrograms: domain.RefList{
			{ID: 1, Name: "Ingeniería de Sistemas"},
			{ID: 2, Name: "Psicología"},
			{ID: 3, Name: "Derecho"},
		},
		ServiceTypes: domain.RefList{
			{ID: 1, Name: "Tutoría"},
			{ID: 2, Name: "Asesoría"},
			{ID: 3, Name: "Taller"},
		},
		AccompanimentCourses: domain.RefList{
			{ID: 1, Name: "Cálculo I"},
			{ID: 2, Name: "Programación I"},
		},
		AccessCodes: map[domain.Role]string{
			domain.RoleProfessor: "PROF-2026",
			domain.RoleMonitor:   "MON-2026",
			domain.RoleGuest:     domain.DefaultGuestAccessCode,
		},
		Users: []FixtureUser{
			{
				NationalID:        "1234567",
				FirstName:         "Ana María",
				LastName:          "Pérez",
				Email:             "ana.perez@example.edu",
				Phone:             "3001234567",
				Role:              domain.RoleStudent,
				CampusID:          &campus,
				AcademicProgramID: &program,
				Semester:          &semester,
			},
		},
	}
}

// Seed loads fixtures into st.
func Seed(ctx context.Context, st *store.Store, f Fixtures) error {
	lists := []struct {
		kind  domain.RefKind
		items domain.RefList
	}{
		{domain.RefCampuses, f.Campuses},
		{domain.RefAcademicPrograms, f.AcademicPrograms},
		{domain.RefServiceTypes, f.ServiceTypes},
		{domain.RefAccompanimentCourses, f.AccompanimentCourses},
	}
	for _, l := range lists {
		if err := st.ReplaceReference(ctx, l.kind, l.items); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	for role, code := range f.AccessCodes {
		if err := st.SetAccessCode(ctx, role, code); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	for _, u := range f.Users {
		row := store.UserRow{
			NationalID:        u.NationalID,
			FirstName:         u.FirstName,
			LastName:          u.LastName,
			Email:             u.Email,
			Phone:             u.Phone,
			Role:              u.Role,
			CampusID:          u.CampusID,
			AcademicProgramID: u.AcademicProgramID,
			Semester:          u.Semester,
			CreatedAt:         FixtureTime,
		}
		if err := st.InsertUser(ctx, row); err != nil {
			return fmt.Errorf("seed user %s: %w", u.NationalID, err)
		}
	}
	return nil
}
