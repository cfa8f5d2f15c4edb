package api

import (
	"context"

	"github.com/roach88/checkin/internal/domain"
)

// DataAccess is the backend contract consumed by the wizard.
type DataAccess interface {
	// FindUserByIdentity returns found=false, err=nil when no user has the key.
	FindUserByIdentity(ctx context.Context, cedula string) (user *domain.User, found bool, err error)

	// CreateUser registers a new user. A structured rejection is a *ValidationError.
	CreateUser(ctx context.Context, reg domain.Registration) (*domain.User, error)

	// UpdateUser changes contact fields. found=false when the user does not exist.
	UpdateUser(ctx context.Context, cedula string, update domain.UserUpdate) (user *domain.User, found bool, err error)

	// CreateAttendance records a session. A structured rejection is a *ValidationError.
	CreateAttendance(ctx context.Context, req domain.AttendanceRequest) (*domain.SessionResponse, error)

	// ListReference returns one reference collection.
	ListReference(ctx context.Context, kind domain.RefKind) (domain.RefList, error)

	// ListAttendance returns every recorded session.
	ListAttendance(ctx context.Context) ([]domain.AttendanceRecord, error)
}
