package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/checkin/internal/apitest"
	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/store"
)

var testNow = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBackend starts the backend double with default fixtures and
// returns a client pointed at it.
func newTestBackend(t *testing.T, opts ...ClientOption) (*Client, *apitest.Server) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, apitest.Seed(context.Background(), st, apitest.DefaultFixtures()))

	backend := apitest.New(st,
		apitest.WithLogger(discardLogger()),
		apitest.WithClock(func() time.Time { return testNow }),
		apitest.WithIDGenerator(func() string { return "att-0001" }),
	)
	hs := httptest.NewServer(backend.Router())
	t.Cleanup(hs.Close)

	base := []ClientOption{
		WithLogger(discardLogger()),
		WithClock(func() time.Time { return testNow }),
	}
	return NewClient(hs.URL, append(base, opts...)...), backend
}

func TestFindUserByIdentity_Found(t *testing.T) {
	client, _ := newTestBackend(t)

	user, found, err := client.FindUserByIdentity(context.Background(), "1234567")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "1234567", user.Cedula)
	assert.Equal(t, "1234567", user.NationalID)
	// fullName "Ana María Pérez" splits on the first word.
	assert.Equal(t, "Ana", user.FirstName)
	assert.Equal(t, "María Pérez", user.LastName)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, "Sede Central", user.Campus)
	assert.Equal(t, "Ingeniería de Sistemas", user.AcademicProgram)
	assert.Equal(t, 4, user.Semester)
	assert.Equal(t, apitest.FixtureTime, user.CreatedAt)
}

func TestFindUserByIdentity_NotFoundIsNotAnError(t *testing.T) {
	client, _ := newTestBackend(t)

	user, found, err := client.FindUserByIdentity(context.Background(), "999999")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, user)
}

func TestFindUserByIdentity_ServerError(t *testing.T) {
	client, backend := newTestBackend(t)
	backend.Inject(apitest.RouteFindUser, apitest.Fault{
		Status: http.StatusInternalServerError,
		Body:   `{"error": "database unavailable"}`,
	})

	_, found, err := client.FindUserByIdentity(context.Background(), "1234567")
	require.Error(t, err)
	assert.False(t, found)

	var ae *APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 500, ae.Status)
	assert.Equal(t, "database unavailable", ae.Message)
	assert.True(t, IsServerError(err))
}

func TestFindUserByIdentity_NonJSONErrorBody(t *testing.T) {
	client, backend := newTestBackend(t)
	backend.Inject(apitest.RouteFindUser, apitest.Fault{
		Status:      http.StatusBadGateway,
		Body:        "upstream timed out",
		ContentType: "text/plain",
	})

	_, _, err := client.FindUserByIdentity(context.Background(), "1234567")

	var ae *APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "upstream timed out", ae.Message)
}

func TestFindUserByIdentity_MalformedSuccess(t *testing.T) {
	client, backend := newTestBackend(t)
	backend.Inject(apitest.RouteFindUser, apitest.Fault{
		Status:      http.StatusOK,
		Body:        "<html>login</html>",
		ContentType: "text/html",
	})

	_, _, err := client.FindUserByIdentity(context.Background(), "1234567")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestFindUserByIdentity_Cancelled(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.FindUserByIdentity(ctx, "1234567")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreateUser_Student(t *testing.T) {
	client, backend := newTestBackend(t)

	reg := domain.StudentRegistration{
		Contact: domain.Contact{
			Cedula:    "7654321",
			FirstName: "Luis",
			LastName:  "Gómez",
			Email:     "luis@example.edu",
			Phone:     "3009876543",
			CampusID:  2,
		},
		AcademicProgramID: 2,
		Semester:          5,
	}
	user, err := client.CreateUser(context.Background(), reg)
	require.NoError(t, err)

	assert.Equal(t, "7654321", user.Cedula)
	assert.Equal(t, "Luis", user.FirstName)
	assert.Equal(t, "Gómez", user.LastName)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, 5, user.Semester)
	assert.Equal(t, testNow, user.CreatedAt)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{
		"nationalId": "7654321", "firstName": "Luis", "lastName": "Gómez",
		"email": "luis@example.edu", "phone": "3009876543", "role": "Estudiante",
		"campusId": 2, "academicProgramId": 2, "semester": 5
	}`, calls[0].Body)
}

func TestCreateUser_GuestSendsAssignedCode(t *testing.T) {
	client, backend := newTestBackend(t)

	reg := domain.GuestRegistration{
		Contact: domain.Contact{
			Cedula:    "5550001",
			FirstName: "Eva",
			LastName:  "Ruiz",
			Email:     "eva@example.com",
			Phone:     "3005550001",
			CampusID:  1,
		},
	}
	user, err := client.CreateUser(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, user.Role)

	assert.Contains(t, backend.Calls()[0].Body, `"roleAccessCode":"INV-2026"`)
}

func TestCreateUser_ValidationErrorCanonicalized(t *testing.T) {
	client, _ := newTestBackend(t)

	reg := domain.ProfessorRegistration{
		Contact: domain.Contact{
			Cedula:    "1234567",
			FirstName: "Ana",
			LastName:  "Pérez",
			Email:     "otra@example.edu",
			Phone:     "3001234567",
			CampusID:  1,
		},
		AcademicProgramID: 1,
		AccessCode:        "NOPE",
	}
	_, err := client.CreateUser(context.Background(), reg)
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, http.StatusBadRequest, ve.Status)

	fields := ve.FieldErrors()
	assert.Equal(t, "La cédula ya está registrada", fields[domain.FieldCedula])
	assert.Contains(t, fields, domain.FieldRoleAccessCode)
	assert.NotContains(t, fields, "nationalId")
}

func TestCreateUser_EmptyFieldErrorsIsGeneric(t *testing.T) {
	client, backend := newTestBackend(t)
	backend.Inject(apitest.RouteCreateUser, apitest.Fault{
		Status: http.StatusBadRequest,
		Body:   `{"msg": "rejected", "fieldErrors": {}}`,
	})

	_, err := client.CreateUser(context.Background(), domain.GuestRegistration{})
	_, ok := AsValidationError(err)
	assert.False(t, ok)

	var ae *APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "rejected", ae.Message)
}

func TestUpdateUser(t *testing.T) {
	client, _ := newTestBackend(t)
	phone := "3110000000"

	user, found, err := client.UpdateUser(context.Background(), "1234567", domain.UserUpdate{Phone: &phone})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, phone, user.Phone)

	_, found, err = client.UpdateUser(context.Background(), "999999", domain.UserUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateAttendance(t *testing.T) {
	client, backend := newTestBackend(t)
	course := 1

	resp, err := client.CreateAttendance(context.Background(), domain.AttendanceRequest{
		NationalID:            "1234567",
		ServiceTypeID:         2,
		AccompanimentCourseID: &course,
		EstimatedHours:        1.5,
		Authorization:         true,
	})
	require.NoError(t, err)

	assert.Equal(t, "att-0001", resp.ID)
	assert.Equal(t, "Asesoría", resp.ServiceType)
	assert.Equal(t, "Cálculo I", resp.AccompanimentCourse)
	assert.Equal(t, testNow, resp.Timestamp)

	// Absent comments are omitted, not sent empty.
	assert.JSONEq(t, `{
		"nationalId": "1234567", "serviceTypeId": 2, "accompanimentCourseId": 1,
		"estimatedHours": 1.5, "authorization": true
	}`, backend.Calls()[0].Body)
}

func TestCreateAttendance_NumericIDAndCreatedAt(t *testing.T) {
	client, backend := newTestBackend(t)
	backend.Inject(apitest.RouteCreateAttendance, apitest.Fault{
		Status: http.StatusCreated,
		Body:   `{"id": 42, "createdAt": "2026-10-19T10:00:00Z"}`,
	})

	resp, err := client.CreateAttendance(context.Background(), domain.AttendanceRequest{NationalID: "1234567"})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.ID)
	assert.Empty(t, resp.ServiceType)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), resp.Timestamp)
}

func TestListReference(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	campuses, err := client.ListCampuses(ctx)
	require.NoError(t, err)
	assert.Len(t, campuses, 2)

	programs, err := client.ListAcademicPrograms(ctx)
	require.NoError(t, err)
	assert.Len(t, programs, 3)

	types, err := client.ListServiceTypes(ctx)
	require.NoError(t, err)
	label, ok := types.Label(3)
	assert.True(t, ok)
	assert.Equal(t, "Taller", label)

	courses, err := client.ListAccompanimentCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestSessionsByIdentity(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	_, err := client.CreateAttendance(ctx, domain.AttendanceRequest{
		NationalID: "1234567", ServiceTypeID: 1, EstimatedHours: 2, Authorization: true,
	})
	require.NoError(t, err)

	sessions := client.SessionsByIdentity(ctx, "1234567")
	require.Len(t, sessions, 1)
	assert.Equal(t, "Ana María Pérez", sessions[0].UserName)
	assert.Equal(t, "Tutoría", sessions[0].ServiceType)
	assert.Equal(t, 2.0, sessions[0].EstimatedHours)

	assert.Empty(t, client.SessionsByIdentity(ctx, "7654321"))
}

func TestSessionsByIdentity_DegradesToEmpty(t *testing.T) {
	client, backend := newTestBackend(t)
	backend.Inject(apitest.RouteListAttendance, apitest.Fault{Status: http.StatusInternalServerError})

	sessions := client.SessionsByIdentity(context.Background(), "1234567")
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestRequestTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	client := NewClient(slow.URL, WithLogger(discardLogger()), WithRequestTimeout(20*time.Millisecond))
	_, _, err := client.FindUserByIdentity(context.Background(), "1234567")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
