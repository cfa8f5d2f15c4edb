package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/checkin/internal/domain"
)

func TestInsertUser_FindUser(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("InsertUser() failed: %v", err)
	}

	u, found, err := s.FindUser(ctx, "1234567")
	if err != nil {
		t.Fatalf("FindUser() failed: %v", err)
	}
	if !found {
		t.Fatal("FindUser() did not find inserted user")
	}
	if u.Role != domain.RoleStudent {
		t.Errorf("Role = %q, want %q", u.Role, domain.RoleStudent)
	}
	if u.CampusName != "Central" {
		t.Errorf("CampusName = %q, want Central", u.CampusName)
	}
	if u.AcademicProgramName != "Ingeniería de Sistemas" {
		t.Errorf("AcademicProgramName = %q", u.AcademicProgramName)
	}
	if u.Semester == nil || *u.Semester != 3 {
		t.Errorf("Semester = %v, want 3", u.Semester)
	}
	if !u.CreatedAt.Equal(testTime) {
		t.Errorf("CreatedAt = %v, want %v", u.CreatedAt, testTime)
	}
}

func TestFindUser_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, found, err := s.FindUser(context.Background(), "999999")
	if err != nil {
		t.Fatalf("FindUser() failed: %v", err)
	}
	if found {
		t.Error("FindUser() reported a user in an empty store")
	}
}

func TestInsertUser_DuplicateNationalID(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("first InsertUser() failed: %v", err)
	}
	err := s.InsertUser(ctx, createTestUser("1234567", "otra@example.com"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestInsertUser_DuplicateEmail(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("first InsertUser() failed: %v", err)
	}
	err := s.InsertUser(ctx, createTestUser("7654321", "ana@example.com"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestInsertUser_UnknownCampus(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)

	u := createTestUser("1234567", "ana@example.com")
	u.CampusID = intRef(99)

	err := s.InsertUser(context.Background(), u)
	if !errors.Is(err, ErrReference) {
		t.Errorf("expected ErrReference, got %v", err)
	}
}

func TestUpdateContact(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("InsertUser() failed: %v", err)
	}

	found, err := s.UpdateContact(ctx, "1234567", nil, strRef("3109876543"))
	if err != nil {
		t.Fatalf("UpdateContact() failed: %v", err)
	}
	if !found {
		t.Fatal("UpdateContact() did not find user")
	}

	u, _, err := s.FindUser(ctx, "1234567")
	if err != nil {
		t.Fatalf("FindUser() failed: %v", err)
	}
	if u.Phone != "3109876543" {
		t.Errorf("Phone = %q, want 3109876543", u.Phone)
	}
	if u.Email != "ana@example.com" {
		t.Errorf("Email changed to %q", u.Email)
	}
}

func TestUpdateContact_NotFound(t *testing.T) {
	s := createTestStore(t)

	found, err := s.UpdateContact(context.Background(), "999999", strRef("x@example.com"), nil)
	if err != nil {
		t.Fatalf("UpdateContact() failed: %v", err)
	}
	if found {
		t.Error("UpdateContact() reported success for missing user")
	}
}

func TestEmailTaken(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	if err := s.InsertUser(ctx, createTestUser("1234567", "ana@example.com")); err != nil {
		t.Fatalf("InsertUser() failed: %v", err)
	}

	taken, err := s.EmailTaken(ctx, "ana@example.com", "7654321")
	if err != nil {
		t.Fatalf("EmailTaken() failed: %v", err)
	}
	if !taken {
		t.Error("expected email to be taken by another user")
	}

	taken, err = s.EmailTaken(ctx, "ana@example.com", "1234567")
	if err != nil {
		t.Fatalf("EmailTaken() failed: %v", err)
	}
	if taken {
		t.Error("a user's own email should not count as taken")
	}
}

func TestListUsers_RegistrationOrder(t *testing.T) {
	s := createTestStore(t)
	seedReference(t, s)
	ctx := context.Background()

	for _, id := range []string{"300000", "100000", "200000"} {
		if err := s.InsertUser(ctx, createTestUser(id, id+"@example.com")); err != nil {
			t.Fatalf("InsertUser(%s) failed: %v", id, err)
		}
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	var got []string
	for _, u := range users {
		got = append(got, u.NationalID)
	}
	want := []string{"300000", "100000", "200000"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}
