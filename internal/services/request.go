package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cityevents/internal/domain"
)

type requestService struct {
	requestRepo    domain.RequestRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	tx             domain.TxManager
	contextTimeout time.Duration
}

func NewRequestService(requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	tx domain.TxManager,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		tx:             tx,
		contextTimeout: timeout,
	}
}

func (s *requestService) GetOwnRequests(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, requesterID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	reqs, err := s.requestRepo.ListByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

// SubmitRequest creates a participation request. The capacity check and the
// insert run in one transaction with the event row locked, so a concurrent
// submission or moderation cannot slip past the limit.
func (s *requestService) SubmitRequest(ctx context.Context, requesterID, eventID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, requesterID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var request *domain.ParticipationRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
			}
			return fmt.Errorf("get event: %w", err)
		}

		if event.InitiatorID == requesterID {
			return fmt.Errorf("%w: initiator cannot request own event", domain.ErrConflict)
		}
		if event.State != domain.EventStatePublished {
			return fmt.Errorf("%w: event is not published", domain.ErrConflict)
		}

		exists, err := s.requestRepo.ExistsActiveByRequesterAndEvent(ctx, requesterID, eventID)
		if err != nil {
			return fmt.Errorf("check duplicate request: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: request already exists", domain.ErrConflict)
		}

		confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed requests: %w", err)
		}
		if domain.LimitReached(event.ParticipantLimit, confirmed) {
			return fmt.Errorf("%w: participant limit reached", domain.ErrConflict)
		}

		status := domain.RequestStatusPending
		if !event.RequestModeration || event.ParticipantLimit == 0 {
			status = domain.RequestStatusConfirmed
		}

		request = domain.NewParticipationRequest(eventID, requesterID, status, time.Now())
		if err := s.requestRepo.Create(ctx, request); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestService) CancelRequest(ctx context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	request, err := s.requestRepo.GetByIDAndRequester(ctx, requestID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("get request: %w", err)
	}

	if err := request.Cancel(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	return request, nil
}
