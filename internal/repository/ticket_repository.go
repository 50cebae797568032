package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-ticketing/internal/database"
	"event-ticketing/internal/model"
	apperrors "event-ticketing/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrQRCodeConflict 寫入時 qr_code 唯一鍵衝突，由呼叫端決定是否重新產生
var ErrQRCodeConflict = errors.New("qr code already exists")

const ticketColumns = `id, event_id, user_id, qr_code, status, price,
		checked_in_at, cancelled_at, created_at, updated_at`

type TicketRepository interface {
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	FindByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error)
	ListByUserID(ctx context.Context, userID int) ([]*model.Ticket, error)
	// CountOutstanding 已提交的 PENDING + CONFIRMED 票數
	CountOutstanding(ctx context.Context, eventID int) (int, error)
	FindCheckIn(ctx context.Context, ticketID int) (*model.CheckIn, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	CountOutstandingTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
	CountHeldByUser(ctx context.Context, tx pgx.Tx, eventID int, userID int) (int, error)
	FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error)
	FindByQRCodeTx(ctx context.Context, tx pgx.Tx, qrCode string) (*model.Ticket, error)
	// CompareAndSetStatus 只有在目前狀態屬於 from 時才會更新，否則回傳 ErrTicketNotFound
	CompareAndSetStatus(ctx context.Context, tx pgx.Tx, id int, from []model.TicketStatus, to model.TicketStatus) (*model.Ticket, error)
	MarkUsedByQRCode(ctx context.Context, tx pgx.Tx, qrCode string, at time.Time) (*model.Ticket, error)
	CreateCheckIn(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.CheckIn, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.QRCode,
		&ticket.Status,
		&ticket.Price,
		&ticket.CheckedInAt,
		&ticket.CancelledAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (event_id, user_id, qr_code, status, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ticketColumns

	created, err := scanTicket(tx.QueryRow(ctx, query,
		ticket.EventID, ticket.UserID, ticket.QRCode, ticket.Status, ticket.Price,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "tickets_qr_code_key") {
			return nil, ErrQRCodeConflict
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return created, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	return r.findByID(ctx, r.pool, id)
}

func (r *TicketRepositoryImpl) FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	return r.findByID(ctx, tx, id)
}

func (r *TicketRepositoryImpl) findByID(ctx context.Context, q querier, id int) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`
	return scanTicket(q.QueryRow(ctx, query, id))
}

func (r *TicketRepositoryImpl) FindByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error) {
	return r.findByQRCode(ctx, r.pool, qrCode)
}

func (r *TicketRepositoryImpl) FindByQRCodeTx(ctx context.Context, tx pgx.Tx, qrCode string) (*model.Ticket, error) {
	return r.findByQRCode(ctx, tx, qrCode)
}

func (r *TicketRepositoryImpl) findByQRCode(ctx context.Context, q querier, qrCode string) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE qr_code = $1
	`
	return scanTicket(q.QueryRow(ctx, query, qrCode))
}

func (r *TicketRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1
		ORDER BY id ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *TicketRepositoryImpl) ListByUserID(ctx context.Context, userID int) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1
		ORDER BY id ASC
	`
	return r.list(ctx, query, userID)
}

func (r *TicketRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]*model.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) CountOutstanding(ctx context.Context, eventID int) (int, error) {
	return r.countOutstanding(ctx, r.pool, eventID)
}

func (r *TicketRepositoryImpl) CountOutstandingTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	return r.countOutstanding(ctx, tx, eventID)
}

func (r *TicketRepositoryImpl) countOutstanding(ctx context.Context, q querier, eventID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE event_id = $1
		  AND status = ANY($2)
	`
	var count int
	err := q.QueryRow(ctx, query, eventID, statusStrings(model.OutstandingTicketStatuses())).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count outstanding tickets: %w", err)
	}
	return count, nil
}

// CountHeldByUser 使用者在該活動中尚未取消的票數（含已使用）
func (r *TicketRepositoryImpl) CountHeldByUser(ctx context.Context, tx pgx.Tx, eventID int, userID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE event_id = $1
		  AND user_id = $2
		  AND status != $3
	`
	var count int
	err := tx.QueryRow(ctx, query, eventID, userID, model.TicketStatusCancelled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user tickets: %w", err)
	}
	return count, nil
}

func (r *TicketRepositoryImpl) CompareAndSetStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int,
	from []model.TicketStatus,
	to model.TicketStatus,
) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $1,
		    cancelled_at = CASE WHEN $1 = 'CANCELLED' THEN $2 ELSE cancelled_at END,
		    updated_at = $2
		WHERE id = $3 AND status = ANY($4)
		RETURNING ` + ticketColumns

	return scanTicket(tx.QueryRow(ctx, query, string(to), time.Now().UTC(), id, statusStrings(from)))
}

func statusStrings(statuses []model.TicketStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *TicketRepositoryImpl) MarkUsedByQRCode(ctx context.Context, tx pgx.Tx, qrCode string, at time.Time) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $1, checked_in_at = $2, updated_at = $2
		WHERE qr_code = $3 AND status = $4
		RETURNING ` + ticketColumns

	return scanTicket(tx.QueryRow(ctx, query, model.TicketStatusUsed, at, qrCode, model.TicketStatusConfirmed))
}

func (r *TicketRepositoryImpl) CreateCheckIn(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.CheckIn, error) {
	query := `
		INSERT INTO ticket_check_ins (ticket_id, qr_code, checked_in_at)
		VALUES ($1, $2, $3)
		RETURNING id, ticket_id, qr_code, checked_in_at
	`

	checkedInAt := time.Now().UTC()
	if ticket.CheckedInAt != nil {
		checkedInAt = *ticket.CheckedInAt
	}

	var checkIn model.CheckIn
	err := tx.QueryRow(ctx, query, ticket.ID, ticket.QRCode, checkedInAt).Scan(
		&checkIn.ID,
		&checkIn.TicketID,
		&checkIn.QRCode,
		&checkIn.CheckedInAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, apperrors.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return &checkIn, nil
}

func (r *TicketRepositoryImpl) FindCheckIn(ctx context.Context, ticketID int) (*model.CheckIn, error) {
	query := `
		SELECT id, ticket_id, qr_code, checked_in_at
		FROM ticket_check_ins
		WHERE ticket_id = $1
	`

	var checkIn model.CheckIn
	err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&checkIn.ID,
		&checkIn.TicketID,
		&checkIn.QRCode,
		&checkIn.CheckedInAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}
