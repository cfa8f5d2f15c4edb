package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/domain"
)

// MockDataAccess implements api.DataAccess in memory.
//
// It records every call, lets tests inject an error per operation, and can
// hold an operation open on a gate channel so tests can observe loading
// states and cancellation.
type MockDataAccess struct {
	mu sync.Mutex

	users   map[string]*domain.User
	refs    map[domain.RefKind]domain.RefList
	records []domain.AttendanceRecord
	nextID  int

	// Now stamps created users and sessions. Defaults to time.Now.
	Now func() time.Time

	// SessionResponse, when set, is returned by CreateAttendance verbatim.
	SessionResponse *domain.SessionResponse

	// Call tracking for verification
	FindUserCalls         []string
	CreateUserCalls       []domain.Registration
	UpdateUserCalls       []string
	CreateAttendanceCalls []domain.AttendanceRequest
	ListReferenceCalls    []domain.RefKind
	ListAttendanceCalls   int

	// Error injection for testing error scenarios
	FindUserError         error
	CreateUserError       error
	UpdateUserError       error
	CreateAttendanceError error
	ListAttendanceError   error
	ListReferenceErrors   map[domain.RefKind]error

	// Gates hold an operation until closed or until its context ends.
	FindUserGate         chan struct{}
	CreateUserGate       chan struct{}
	CreateAttendanceGate chan struct{}
}

// Ensure MockDataAccess implements api.DataAccess at compile time.
var _ api.DataAccess = (*MockDataAccess)(nil)

// NewMockDataAccess creates an empty mock.
func NewMockDataAccess() *MockDataAccess {
	return &MockDataAccess{
		users:               make(map[string]*domain.User),
		refs:                make(map[domain.RefKind]domain.RefList),
		ListReferenceErrors: make(map[domain.RefKind]error),
		Now:                 time.Now,
	}
}

// SeedUser registers u under its identity key.
func (m *MockDataAccess) SeedUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.IdentityKey()] = &u
}

// SeedReference sets a reference list.
func (m *MockDataAccess) SeedReference(kind domain.RefKind, items domain.RefList) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[kind] = items
}

// Records returns the sessions created so far.
func (m *MockDataAccess) Records() []domain.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AttendanceRecord, len(m.records))
	copy(out, m.records)
	return out
}

// CallCount returns the total number of network operations performed.
func (m *MockDataAccess) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FindUserCalls) + len(m.CreateUserCalls) + len(m.UpdateUserCalls) +
		len(m.CreateAttendanceCalls) + len(m.ListReferenceCalls) + m.ListAttendanceCalls
}

// Reset clears call tracking and injected errors, keeping seeded data.
func (m *MockDataAccess) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindUserCalls = nil
	m.CreateUserCalls = nil
	m.UpdateUserCalls = nil
	m.CreateAttendanceCalls = nil
	m.ListReferenceCalls = nil
	m.ListAttendanceCalls = 0
	m.FindUserError = nil
	m.CreateUserError = nil
	m.UpdateUserError = nil
	m.CreateAttendanceError = nil
	m.ListAttendanceError = nil
	m.ListReferenceErrors = make(map[domain.RefKind]error)
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return ctx.Err()
	}
	select {
	case <-gate:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FindUserByIdentity implements api.DataAccess.
func (m *MockDataAccess) FindUserByIdentity(ctx context.Context, cedula string) (*domain.User, bool, error) {
	m.mu.Lock()
	m.FindUserCalls = append(m.FindUserCalls, cedula)
	gate, injected := m.FindUserGate, m.FindUserError
	m.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, false, err
	}
	if injected != nil {
		return nil, false, injected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[cedula]
	if !ok {
		return nil, false, nil
	}
	out := *u
	return &out, true, nil
}

// CreateUser implements api.DataAccess.
func (m *MockDataAccess) CreateUser(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	m.mu.Lock()
	m.CreateUserCalls = append(m.CreateUserCalls, reg)
	gate, injected := m.CreateUserGate, m.CreateUserError
	m.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}
	if injected != nil {
		return nil, injected
	}

	c := reg.ContactDetails()
	u := domain.User{
		Cedula:     c.Cedula,
		NationalID: c.Cedula,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		FullName:   c.FirstName + " " + c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Role:       reg.Role(),
		CreatedAt:  m.Now(),
	}
	if semester, ok := reg.WireFields()[domain.FieldSemester].(int); ok {
		u.Semester = semester
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Cedula] = &u
	out := u
	return &out, nil
}

// UpdateUser implements api.DataAccess.
func (m *MockDataAccess) UpdateUser(ctx context.Context, cedula string, update domain.UserUpdate) (*domain.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateUserCalls = append(m.UpdateUserCalls, cedula)
	if m.UpdateUserError != nil {
		return nil, false, m.UpdateUserError
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	u, ok := m.users[cedula]
	if !ok {
		return nil, false, nil
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	out := *u
	return &out, true, nil
}

// CreateAttendance implements api.DataAccess.
func (m *MockDataAccess) CreateAttendance(ctx context.Context, req domain.AttendanceRequest) (*domain.SessionResponse, error) {
	m.mu.Lock()
	m.CreateAttendanceCalls = append(m.CreateAttendanceCalls, req)
	gate, injected := m.CreateAttendanceGate, m.CreateAttendanceError
	m.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}
	if injected != nil {
		return nil, injected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec := domain.AttendanceRecord{
		ID:             "mock-" + strconv.Itoa(m.nextID),
		Cedula:         req.NationalID,
		EstimatedHours: req.EstimatedHours,
		Authorization:  req.Authorization,
		Timestamp:      m.Now(),
	}
	if label, ok := m.refs[domain.RefServiceTypes].Label(req.ServiceTypeID); ok {
		rec.ServiceType = label
	}
	if req.AccompanimentCourseID != nil {
		if label, ok := m.refs[domain.RefAccompanimentCourses].Label(*req.AccompanimentCourseID); ok {
			rec.AccompanimentCourse = label
		}
	}
	if req.Comments != nil {
		rec.Comments = *req.Comments
	}
	if u, ok := m.users[req.NationalID]; ok {
		rec.UserName = u.DisplayName()
	}
	m.records = append(m.records, rec)

	if m.SessionResponse != nil {
		out := *m.SessionResponse
		return &out, nil
	}
	return &domain.SessionResponse{
		ID:                  rec.ID,
		ServiceType:         rec.ServiceType,
		AccompanimentCourse: rec.AccompanimentCourse,
		Timestamp:           rec.Timestamp,
	}, nil
}

// ListReference implements api.DataAccess.
func (m *MockDataAccess) ListReference(ctx context.Context, kind domain.RefKind) (domain.RefList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListReferenceCalls = append(m.ListReferenceCalls, kind)
	if err := m.ListReferenceErrors[kind]; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(domain.RefList, len(m.refs[kind]))
	copy(out, m.refs[kind])
	return out, nil
}

// ListAttendance implements api.DataAccess.
func (m *MockDataAccess) ListAttendance(ctx context.Context) ([]domain.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListAttendanceCalls++
	if m.ListAttendanceError != nil {
		return nil, m.ListAttendanceError
	}
	out := make([]domain.AttendanceRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}
