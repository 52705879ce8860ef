package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"cityevents/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (event_id, requester_id, status, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return q(ctx, r.DB).QueryRowContext(ctx, query,
		request.EventID, request.RequesterID, request.Status, request.Created).
		Scan(&request.ID)
}

func (r *requestRepository) GetByIDAndRequester(ctx context.Context, id, requesterID string) (*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = $1 AND requester_id = $2
	`
	request := &domain.ParticipationRequest{}
	err := q(ctx, r.DB).QueryRowContext(ctx, query, id, requesterID).
		Scan(&request.ID, &request.EventID, &request.RequesterID, &request.Status, &request.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (r *requestRepository) ListByRequesterID(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE requester_id = $1
		ORDER BY created
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *requestRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE event_id = $1
		ORDER BY created
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *requestRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = ANY($1)
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *requestRepository) ListByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE event_id = $1 AND status = $2
		ORDER BY created
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, eventID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *requestRepository) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM participation_requests
		WHERE event_id = $1 AND status = $2
	`
	var count int64
	if err := q(ctx, r.DB).QueryRowContext(ctx, query, eventID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) CountConfirmedByEventIDs(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	query := `
		SELECT event_id, COUNT(*)
		FROM participation_requests
		WHERE event_id = ANY($1) AND status = 'CONFIRMED'
		GROUP BY event_id
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64, len(eventIDs))
	for rows.Next() {
		var eventID string
		var count int64
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, err
		}
		counts[eventID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *requestRepository) ExistsActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM participation_requests
			WHERE requester_id = $1 AND event_id = $2 AND status <> 'CANCELED'
		)
	`
	var exists bool
	if err := q(ctx, r.DB).QueryRowContext(ctx, query, requesterID, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *requestRepository) Update(ctx context.Context, request *domain.ParticipationRequest) error {
	query := `
		UPDATE participation_requests
		SET status = $2
		WHERE id = $1
	`
	res, err := q(ctx, r.DB).ExecContext(ctx, query, request.ID, request.Status)
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

// UpdateStatuses persists a batch of status changes with one statement per
// distinct status, so a large cascade costs a constant number of round trips.
func (r *requestRepository) UpdateStatuses(ctx context.Context, requests []*domain.ParticipationRequest) error {
	byStatus := make(map[domain.RequestStatus][]string)
	var order []domain.RequestStatus
	for _, request := range requests {
		if _, ok := byStatus[request.Status]; !ok {
			order = append(order, request.Status)
		}
		byStatus[request.Status] = append(byStatus[request.Status], request.ID)
	}

	query := `
		UPDATE participation_requests
		SET status = $1
		WHERE id = ANY($2)
	`
	for _, status := range order {
		if _, err := q(ctx, r.DB).ExecContext(ctx, query, status, pq.Array(byStatus[status])); err != nil {
			return err
		}
	}
	return nil
}

func (r *requestRepository) scanAll(rows *sql.Rows) ([]*domain.ParticipationRequest, error) {
	var requests []*domain.ParticipationRequest
	for rows.Next() {
		request := &domain.ParticipationRequest{}
		if err := rows.Scan(&request.ID, &request.EventID, &request.RequesterID,
			&request.Status, &request.Created); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*domain.ParticipationRequest{}
	}
	return requests, nil
}
