package domain

import (
	"context"
	"fmt"
	"time"
)

// RequestStatus is a participation request's approval state.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// ParticipationRequest is a user's request to attend an event, subject to
// approval and capacity. Event and requester references are immutable after
// creation.
// swagger:model ParticipationRequest
type ParticipationRequest struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	RequesterID string        `json:"requester_id"`
	Status      RequestStatus `json:"status"`
	Created     time.Time     `json:"created"`
}

// NewParticipationRequest returns a new request. ID is typically set by the
// repository on create.
func NewParticipationRequest(eventID, requesterID string, status RequestStatus, created time.Time) *ParticipationRequest {
	return &ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     created,
	}
}

// Cancel transitions the request to CANCELED. Only PENDING and CONFIRMED
// requests can be canceled; REJECTED and CANCELED are terminal.
func (r *ParticipationRequest) Cancel() error {
	switch r.Status {
	case RequestStatusPending, RequestStatusConfirmed:
		r.Status = RequestStatusCanceled
		return nil
	default:
		return fmt.Errorf("%w: request is already %s", ErrConflict, r.Status)
	}
}

// RequestRepository defines storage operations for participation requests.
type RequestRepository interface {
	Create(ctx context.Context, req *ParticipationRequest) error
	GetByIDAndRequester(ctx context.Context, requestID, requesterID string) (*ParticipationRequest, error)
	ListByRequesterID(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*ParticipationRequest, error)
	ListByIDs(ctx context.Context, ids []string) ([]*ParticipationRequest, error)
	ListByEventAndStatus(ctx context.Context, eventID string, status RequestStatus) ([]*ParticipationRequest, error)
	CountByEventAndStatus(ctx context.Context, eventID string, status RequestStatus) (int64, error)
	// CountConfirmedByEventIDs returns confirmed-request counts grouped by
	// event id. Events with no confirmed requests are absent from the map.
	CountConfirmedByEventIDs(ctx context.Context, eventIDs []string) (map[string]int64, error)
	// ExistsActiveByRequesterAndEvent reports whether a non-canceled request
	// for the (requester, event) pair already exists.
	ExistsActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error)
	Update(ctx context.Context, req *ParticipationRequest) error
	UpdateStatuses(ctx context.Context, reqs []*ParticipationRequest) error
}

// RequestService defines requester-facing operations.
type RequestService interface {
	GetOwnRequests(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	SubmitRequest(ctx context.Context, requesterID, eventID string) (*ParticipationRequest, error)
	CancelRequest(ctx context.Context, requesterID, requestID string) (*ParticipationRequest, error)
}
