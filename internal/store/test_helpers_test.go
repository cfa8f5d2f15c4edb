package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/checkin/internal/domain"
)

var testTime = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedReference fills every reference list with two entries.
func seedReference(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	lists := map[domain.RefKind]domain.RefList{
		domain.RefCampuses:             {{ID: 1, Name: "Central"}, {ID: 2, Name: "Norte"}},
		domain.RefAcademicPrograms:     {{ID: 1, Name: "Ingeniería de Sistemas"}, {ID: 2, Name: "Derecho"}},
		domain.RefServiceTypes:         {{ID: 1, Name: "Tutoría"}, {ID: 2, Name: "Asesoría"}},
		domain.RefAccompanimentCourses: {{ID: 1, Name: "Cálculo I"}, {ID: 2, Name: "Física I"}},
	}
	for kind, items := range lists {
		if err := s.ReplaceReference(ctx, kind, items); err != nil {
			t.Fatalf("ReplaceReference(%s) failed: %v", kind, err)
		}
	}
}

func intRef(n int) *int { return &n }

func strRef(s string) *string { return &s }

// createTestUser creates a student row with minimal required fields.
func createTestUser(nationalID, email string) UserRow {
	return UserRow{
		NationalID:        nationalID,
		FirstName:         "Ana",
		LastName:          "Pérez",
		Email:             email,
		Phone:             "3001234567",
		Role:              domain.RoleStudent,
		CampusID:          intRef(1),
		AcademicProgramID: intRef(1),
		Semester:          intRef(3),
		CreatedAt:         testTime,
	}
}
