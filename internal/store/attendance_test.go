package store

import (
	"context"
	"errors"
	"testing"
)

func TestInsertAttendance_ListAttendance(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("InsertUser() failed: %v", err)
	}

	rows := []AttendanceRow{
		{ID: "b", NationalID: "1234567", ServiceTypeID: 1, EstimatedHours: 2, Authorized: true, CreatedAt: testTime},
		{ID: "a", NationalID: "1234567", ServiceTypeID: 2, AccompanimentCourseID: intRef(2), EstimatedHours: 1.5, Comments: strRef("Repaso"), CreatedAt: testTime},
	}
	for _, row := range rows {
		if err := s.InsertAttendance(ctx, row); err != nil {
			t.Fatalf("InsertAttendance(%s) failed: %v", row.ID, err)
		}
	}

	got, err := s.ListAttendance(ctx)
	if err != nil {
		t.Fatalf("ListAttendance() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	// Insertion order, not id order.
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", got[0].ID, got[1].ID)
	}
	if got[0].UserName != "Ana Pérez" {
		t.Errorf("UserName = %q, want Ana Pérez", got[0].UserName)
	}
	if got[0].ServiceTypeName != "Tutoría" {
		t.Errorf("ServiceTypeName = %q, want Tutoría", got[0].ServiceTypeName)
	}
	if got[0].AccompanimentCourseID != nil || got[0].Comments != nil {
		t.Error("expected optional fields to be absent")
	}
	if !got[0].Authorized {
		t.Error("expected authorization to round-trip")
	}
	if got[1].AccompanimentCourseName != "Física I" {
		t.Errorf("AccompanimentCourseName = %q, want Física I", got[1].AccompanimentCourseName)
	}
	if got[1].Comments == nil || *got[1].Comments != "Repaso" {
		t.Errorf("Comments = %v, want Repaso", got[1].Comments)
	}
}

func TestInsertAttendance_UnknownUser(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)

	err := s.InsertAttendance(context.Background(), AttendanceRow{
		ID: "x", NationalID: "404404", ServiceTypeID: 1, EstimatedHours: 1, CreatedAt: testTime,
	})
	if !errors.Is(err, ErrReference) {
		t.Errorf("expected ErrReference, got %v", err)
	}
}

func TestCountAttendance(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("InsertUser() failed: %v", err)
	}
	for _, id := range []string{"s1", "s2"} {
		row := AttendanceRow{ID: id, NationalID: "1234567", ServiceTypeID: 1, EstimatedHours: 1, CreatedAt: testTime}
		if err := s.InsertAttendance(ctx, row); err != nil {
			t.Fatalf("InsertAttendance() failed: %v", err)
		}
	}

	n, err := s.CountAttendance(ctx, "1234567")
	if err != nil {
		t.Fatalf("CountAttendance() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountAttendance() = %d, want 2", n)
	}
}
