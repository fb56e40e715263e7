package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/models"
)

// GetEnrollmentByUser returns the user's enrollment, or (nil, nil) when the
// user has not enrolled yet.
func (db *DB) GetEnrollmentByUser(ctx context.Context, userID int64) (*models.Enrollment, error) {
	query := `SELECT id, user_id, full_name, document, phone, address_line, city, created_at, updated_at
              FROM enrollments WHERE user_id = ?`

	var e models.Enrollment
	err := db.QueryRowContext(ctx, query, userID).Scan(
		&e.ID, &e.UserID, &e.FullName, &e.Document, &e.Phone, &e.AddressLine, &e.City,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

func (db *DB) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	query := `INSERT INTO enrollments (user_id, full_name, document, phone, address_line, city, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		enrollment.UserID,
		enrollment.FullName,
		enrollment.Document,
		enrollment.Phone,
		enrollment.AddressLine,
		enrollment.City,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	enrollment.ID = id
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	return nil
}
