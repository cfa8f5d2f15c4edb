package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/checkin/internal/domain"
)

var refTables = map[domain.RefKind]string{
	domain.RefCampuses:             "campuses",
	domain.RefAcademicPrograms:     "academic_programs",
	domain.RefServiceTypes:         "service_types",
	domain.RefAccompanimentCourses: "accompaniment_courses",
}

func refTable(kind domain.RefKind) (string, error) {
	table, ok := refTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown reference kind %q", kind)
	}
	return table, nil
}

// ReplaceReference replaces the contents of a reference list.
func (s *Store) ReplaceReference(ctx context.Context, kind domain.RefKind, items domain.RefList) error {
	table, err := refTable(kind)
	if err != nil {
		return fmt.Errorf("replace reference: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	defer tx.Rollback()

	// Table name comes from refTables, never from input.
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("replace %s: %w", table, classify(err))
	}
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (id, name) VALUES (?, ?)", item.ID, item.Name); err != nil {
			return fmt.Errorf("replace %s: %w", table, classify(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	return nil
}

// ListReference returns a reference list ordered by id.
func (s *Store) ListReference(ctx context.Context, kind domain.RefKind) (domain.RefList, error) {
	table, err := refTable(kind)
	if err != nil {
		return nil, fmt.Errorf("list reference: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	items := domain.RefList{}
	for rows.Next() {
		var item domain.RefItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return items, nil
}

// SetAccessCode sets the code role must present at registration.
func (s *Store) SetAccessCode(ctx context.Context, role domain.Role, code string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO role_access_codes (role, code) VALUES (?, ?)
		ON CONFLICT(role) DO UPDATE SET code = excluded.code
	`, string(role), code)
	if err != nil {
		return fmt.Errorf("set access code: %w", err)
	}
	return nil
}

// AccessCode returns the code configured for role, if any.
func (s *Store) AccessCode(ctx context.Context, role domain.Role) (string, bool, error) {
	var code string
	err := s.db.QueryRowContext(ctx, "SELECT code FROM role_access_codes WHERE role = ?", string(role)).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("access code: %w", err)
	}
	return code, true, nil
}
