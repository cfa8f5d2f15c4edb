package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertUser registers a participant. Returns ErrDuplicate when the
// national id or email is already taken.
func (s *Store) InsertUser(ctx context.Context, u UserRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users
		(national_id, seq, first_name, last_name, email, phone, role,
		 campus_id, academic_program_id, semester, access_code, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM users), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.NationalID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Phone,
		string(u.Role),
		nullInt(u.CampusID),
		nullInt(u.AcademicProgramID),
		nullInt(u.Semester),
		nullString(u.AccessCode),
		formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", classify(err))
	}
	return nil
}

// EmailTaken reports whether email belongs to a user other than nationalID.
func (s *Store) EmailTaken(ctx context.Context, email, nationalID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ? AND national_id <> ?", email, nationalID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("email taken: %w", err)
	}
	return count > 0, nil
}

const userColumns = `
	u.national_id, u.first_name, u.last_name, u.email, u.phone, u.role,
	u.campus_id, u.academic_program_id, u.semester, u.access_code, u.created_at,
	COALESCE(c.name, ''), COALESCE(p.name, '')
`

const userJoins = `
	FROM users u
	LEFT JOIN campuses c ON c.id = u.campus_id
	LEFT JOIN academic_programs p ON p.id = u.academic_program_id
`

// FindUser looks a participant up by national id.
func (s *Store) FindUser(ctx context.Context, nationalID string) (UserRow, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+userJoins+"WHERE u.national_id = ?", nationalID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRow{}, false, nil
	}
	if err != nil {
		return UserRow{}, false, fmt.Errorf("find user: %w", err)
	}
	return u, true, nil
}

// ListUsers returns every participant in registration order.
func (s *Store) ListUsers(ctx context.Context) ([]UserRow, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+userJoins+"ORDER BY u.seq ASC, u.national_id COLLATE BINARY ASC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []UserRow{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateContact changes a participant's email and/or phone. Nil values are
// left unchanged. Reports false when no such participant exists.
func (s *Store) UpdateContact(ctx context.Context, nationalID string, email, phone *string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = COALESCE(?, email), phone = COALESCE(?, phone)
		WHERE national_id = ?
	`, nullStringPtr(email), nullStringPtr(phone), nationalID)
	if err != nil {
		return false, fmt.Errorf("update contact: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update contact: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(sc scanner) (UserRow, error) {
	var (
		u                         UserRow
		role, createdAt           string
		campus, program, semester sql.NullInt64
		accessCode                sql.NullString
	)
	err := sc.Scan(
		&u.NationalID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &role,
		&campus, &program, &semester, &accessCode, &createdAt,
		&u.CampusName, &u.AcademicProgramName,
	)
	if err != nil {
		return UserRow{}, err
	}
	u.Role = domainRole(role)
	u.CampusID = intPtr(campus)
	u.AcademicProgramID = intPtr(program)
	u.Semester = intPtr(semester)
	u.AccessCode = accessCode.String
	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return UserRow{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return u, nil
}
