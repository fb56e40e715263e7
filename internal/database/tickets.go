package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/models"
)

func (db *DB) UpsertTicketType(ctx context.Context, tt *models.TicketType) error {
	query := `INSERT INTO ticket_types (id, name, price_cents, is_remote, includes_hotel, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                price_cents = excluded.price_cents,
                is_remote = excluded.is_remote,
                includes_hotel = excluded.includes_hotel,
                updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query, tt.ID, tt.Name, tt.PriceCents, tt.IsRemote, tt.IncludesHotel, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert ticket type: %w", err)
	}
	return nil
}

// GetTicketByEnrollment returns the enrollment's ticket joined with its type,
// or (nil, nil) when no ticket exists.
func (db *DB) GetTicketByEnrollment(ctx context.Context, enrollmentID int64) (*models.Ticket, error) {
	query := `SELECT t.id, t.enrollment_id, t.ticket_type_id, t.status, t.created_at, t.updated_at,
                     tt.id, tt.name, tt.price_cents, tt.is_remote, tt.includes_hotel
              FROM tickets t
              JOIN ticket_types tt ON tt.id = t.ticket_type_id
              WHERE t.enrollment_id = ?`

	var ticket models.Ticket
	var ticketType models.TicketType
	err := db.QueryRowContext(ctx, query, enrollmentID).Scan(
		&ticket.ID, &ticket.EnrollmentID, &ticket.TicketTypeID, &ticket.Status,
		&ticket.CreatedAt, &ticket.UpdatedAt,
		&ticketType.ID, &ticketType.Name, &ticketType.PriceCents,
		&ticketType.IsRemote, &ticketType.IncludesHotel,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	ticket.Type = &ticketType
	return &ticket, nil
}

func (db *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusReserved
	}

	query := `INSERT INTO tickets (enrollment_id, ticket_type_id, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		ticket.EnrollmentID, ticket.TicketTypeID, ticket.Status, now, now)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	ticket.ID = id
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	return nil
}

// SetTicketStatus transitions a ticket (RESERVED -> PAID in practice; the
// payment flow lives outside this service).
func (db *DB) SetTicketStatus(ctx context.Context, ticketID int64, status string) error {
	query := `UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), ticketID)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ticket %d not found", ticketID)
	}
	return nil
}
