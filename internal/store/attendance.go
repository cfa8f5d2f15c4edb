package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertAttendance records a session. The participant, service type and
// course must exist; otherwise ErrReference is returned.
func (s *Store) InsertAttendance(ctx context.Context, a AttendanceRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance
		(id, seq, national_id, service_type_id, accompaniment_course_id,
		 estimated_hours, authorized, comments, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM attendance), ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID,
		a.NationalID,
		a.ServiceTypeID,
		nullInt(a.AccompanimentCourseID),
		a.EstimatedHours,
		a.Authorized,
		nullStringPtr(a.Comments),
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", classify(err))
	}
	return nil
}

// ListAttendance returns every recorded session.
//
// Ordering: ORDER BY seq ASC, id COLLATE BINARY ASC.
func (s *Store) ListAttendance(ctx context.Context) ([]AttendanceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.national_id, a.service_type_id, a.accompaniment_course_id,
		       a.estimated_hours, a.authorized, a.comments, a.created_at,
		       TRIM(u.first_name || ' ' || u.last_name),
		       COALESCE(st.name, ''), COALESCE(ac.name, '')
		FROM attendance a
		JOIN users u ON u.national_id = a.national_id
		LEFT JOIN service_types st ON st.id = a.service_type_id
		LEFT JOIN accompaniment_courses ac ON ac.id = a.accompaniment_course_id
		ORDER BY a.seq ASC, a.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	out := []AttendanceRow{}
	for rows.Next() {
		var (
			a         AttendanceRow
			course    sql.NullInt64
			comments  sql.NullString
			createdAt string
		)
		if err := rows.Scan(
			&a.ID, &a.NationalID, &a.ServiceTypeID, &course,
			&a.EstimatedHours, &a.Authorized, &comments, &createdAt,
			&a.UserName, &a.ServiceTypeName, &a.AccompanimentCourseName,
		); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		a.AccompanimentCourseID = intPtr(course)
		if comments.Valid {
			a.Comments = &comments.String
		}
		a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return out, nil
}

// CountAttendance returns the number of sessions recorded for nationalID.
func (s *Store) CountAttendance(ctx context.Context, nationalID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance WHERE national_id = ?", nationalID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return n, nil
}
