package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"cityevents/internal/domain"
)

const eventColumns = `id, annotation, description, title, category_id, initiator_id,
		lat, lon, event_date, paid, participant_limit, request_moderation,
		state, created_on, published_on`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (annotation, description, title, category_id, initiator_id,
			lat, lon, event_date, paid, participant_limit, request_moderation,
			state, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return q(ctx, r.DB).QueryRowContext(ctx, query,
		event.Annotation, event.Description, event.Title, event.CategoryID, event.InitiatorID,
		event.Location.Lat, event.Location.Lon, event.EventDate, event.Paid,
		event.ParticipantLimit, event.RequestModeration, event.State, event.CreatedOn).
		Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return r.scanOne(q(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanOne(q(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET annotation = $2, description = $3, title = $4, category_id = $5,
			lat = $6, lon = $7, event_date = $8, paid = $9, participant_limit = $10,
			request_moderation = $11, state = $12, published_on = $13
		WHERE id = $1
	`
	var publishedOn sql.NullTime
	if event.PublishedOn != nil {
		publishedOn = sql.NullTime{Time: *event.PublishedOn, Valid: true}
	}
	res, err := q(ctx, r.DB).ExecContext(ctx, query,
		event.ID, event.Annotation, event.Description, event.Title, event.CategoryID,
		event.Location.Lat, event.Location.Lon, event.EventDate, event.Paid,
		event.ParticipantLimit, event.RequestModeration, event.State, publishedOn)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByInitiatorID(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE initiator_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, initiatorID, from, size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *eventRepository) SearchAdmin(ctx context.Context, search domain.AdminEventSearch) ([]*domain.Event, error) {
	var conds []string
	var args []any

	if len(search.UserIDs) > 0 {
		args = append(args, pq.Array(search.UserIDs))
		conds = append(conds, fmt.Sprintf("initiator_id = ANY($%d)", len(args)))
	}
	if len(search.States) > 0 {
		states := make([]string, 0, len(search.States))
		for _, s := range search.States {
			states = append(states, string(s))
		}
		args = append(args, pq.Array(states))
		conds = append(conds, fmt.Sprintf("state = ANY($%d)", len(args)))
	}
	if len(search.CategoryIDs) > 0 {
		args = append(args, pq.Array(search.CategoryIDs))
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if search.RangeStart != nil {
		args = append(args, *search.RangeStart)
		conds = append(conds, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if search.RangeEnd != nil {
		args = append(args, *search.RangeEnd)
		conds = append(conds, fmt.Sprintf("event_date <= $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	args = append(args, search.From)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	args = append(args, search.Size)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *eventRepository) SearchPublic(ctx context.Context, search domain.PublicEventSearch) ([]*domain.Event, error) {
	conds := []string{"state = 'PUBLISHED'"}
	var args []any

	if search.Text != "" {
		args = append(args, "%"+strings.ToLower(search.Text)+"%")
		conds = append(conds, fmt.Sprintf("(LOWER(annotation) LIKE $%d OR LOWER(description) LIKE $%d)", len(args), len(args)))
	}
	if len(search.CategoryIDs) > 0 {
		args = append(args, pq.Array(search.CategoryIDs))
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if search.Paid != nil {
		args = append(args, *search.Paid)
		conds = append(conds, fmt.Sprintf("paid = $%d", len(args)))
	}
	if search.RangeStart != nil {
		args = append(args, *search.RangeStart)
		conds = append(conds, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if search.RangeEnd != nil {
		args = append(args, *search.RangeEnd)
		conds = append(conds, fmt.Sprintf("event_date <= $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + strings.Join(conds, " AND ") +
		" ORDER BY event_date"

	// Size 0 means no pagination pushdown: the caller filters and slices in
	// memory after projecting confirmed counts.
	if search.Size > 0 {
		args = append(args, search.From)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
		args = append(args, search.Size)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *eventRepository) ExistsByCategoryID(ctx context.Context, categoryID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`
	var exists bool
	if err := q(ctx, r.DB).QueryRowContext(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *eventRepository) scanOne(row *sql.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var publishedOn sql.NullTime
	err := row.Scan(&event.ID, &event.Annotation, &event.Description, &event.Title,
		&event.CategoryID, &event.InitiatorID, &event.Location.Lat, &event.Location.Lon,
		&event.EventDate, &event.Paid, &event.ParticipantLimit, &event.RequestModeration,
		&event.State, &event.CreatedOn, &publishedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if publishedOn.Valid {
		event.PublishedOn = &publishedOn.Time
	}
	return event, nil
}

func (r *eventRepository) scanAll(rows *sql.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		event := &domain.Event{}
		var publishedOn sql.NullTime
		if err := rows.Scan(&event.ID, &event.Annotation, &event.Description, &event.Title,
			&event.CategoryID, &event.InitiatorID, &event.Location.Lat, &event.Location.Lon,
			&event.EventDate, &event.Paid, &event.ParticipantLimit, &event.RequestModeration,
			&event.State, &event.CreatedOn, &publishedOn); err != nil {
			return nil, err
		}
		if publishedOn.Valid {
			event.PublishedOn = &publishedOn.Time
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
