package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-ticketing/internal/database"
	"event-ticketing/internal/model"
	apperrors "event-ticketing/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, slug, description, image, start_date, end_date,
		location, address, city, country, capacity, price, status, published,
		featured, tags, organizer_id, category_id, created_at, updated_at`

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	// TransitionStatus 只在目前狀態屬於 from 時更新，published 由目標狀態推導
	TransitionStatus(ctx context.Context, id int, from []model.EventStatus, to model.EventStatus) (*model.Event, error)

	// Transaction methods
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Image,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Address,
		&event.City,
		&event.Country,
		&event.Capacity,
		&event.Price,
		&event.Status,
		&event.Published,
		&event.Featured,
		&event.Tags,
		&event.OrganizerID,
		&event.CategoryID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			title, slug, description, image, start_date, end_date,
			location, address, city, country, capacity, price, status,
			published, featured, tags, organizer_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + eventColumns

	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Title, event.Slug, event.Description, event.Image, event.StartDate, event.EndDate,
		event.Location, event.Address, event.City, event.Country, event.Capacity, event.Price,
		event.Status, event.Published, event.Featured, tags, event.OrganizerID, event.CategoryID,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "events_slug_key") {
			return nil, apperrors.ErrDuplicateSlug
		}
		if database.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: unknown organizer or category", apperrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		ORDER BY start_date ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE slug = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, slug))
}

func (r *EventRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *params.Title)
		argPos++
	}

	if params.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *params.Description)
		argPos++
	}

	if params.ClearPrice {
		sets = append(sets, "price = NULL")
	} else if params.Price != nil {
		sets = append(sets, fmt.Sprintf("price = $%d", argPos))
		args = append(args, *params.Price)
		argPos++
	}

	if params.Featured != nil {
		sets = append(sets, fmt.Sprintf("featured = $%d", argPos))
		args = append(args, *params.Featured)
		argPos++
	}

	if params.Tags != nil {
		sets = append(sets, fmt.Sprintf("tags = $%d", argPos))
		args = append(args, params.Tags)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	return scanEvent(r.pool.QueryRow(ctx, query, args...))
}

func (r *EventRepositoryImpl) TransitionStatus(ctx context.Context, id int, from []model.EventStatus, to model.EventStatus) (*model.Event, error) {
	query := `
		UPDATE events
		SET status = $1, published = $2, updated_at = $3
		WHERE id = $4 AND status = ANY($5)
		RETURNING ` + eventColumns

	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}

	return scanEvent(r.pool.QueryRow(ctx, query,
		to, to == model.EventStatusPublished, time.Now().UTC(), id, statuses,
	))
}
