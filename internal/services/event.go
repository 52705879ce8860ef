package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cityevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	requestRepo    domain.RequestRepository
	userRepo       domain.UserRepository
	categoryRepo   domain.CategoryRepository
	tx             domain.TxManager
	projector      *EventProjector
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	requestRepo domain.RequestRepository,
	userRepo domain.UserRepository,
	categoryRepo domain.CategoryRepository,
	tx domain.TxManager,
	projector *EventProjector,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		tx:             tx,
		projector:      projector,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, initiatorID string, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, initiatorID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, event.CategoryID)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	now := time.Now()
	event.InitiatorID = initiatorID
	event.State = domain.EventStatePending
	event.CreatedOn = now
	event.PublishedOn = nil

	if err := event.ValidateDate(now, domain.InitiatorDateMargin); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetOwnEvents(ctx context.Context, initiatorID string, from, size int) ([]*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	events, err := s.eventRepo.ListByInitiatorID(ctx, initiatorID, from, size)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.projector.Project(ctx, events)
}

func (s *eventService) GetOwnEvent(ctx context.Context, initiatorID, eventID string) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEventAsInitiator(ctx, initiatorID, eventID)
	if err != nil {
		return nil, err
	}
	return s.projector.ProjectOne(ctx, event)
}

func (s *eventService) UpdateOwnEvent(ctx context.Context, initiatorID, eventID string,
	patch domain.EventPatch, action *domain.InitiatorStateAction) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEventAsInitiator(ctx, initiatorID, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.applyPatch(ctx, event, patch); err != nil {
		return nil, err
	}
	if action != nil {
		if err := event.ApplyInitiatorAction(*action); err != nil {
			return nil, err
		}
	}
	if err := event.ValidateDate(time.Now(), domain.InitiatorDateMargin); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.projector.ProjectOne(ctx, event)
}

func (s *eventService) ListEventRequests(ctx context.Context, initiatorID, eventID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEventAsInitiator(ctx, initiatorID, eventID); err != nil {
		return nil, err
	}

	reqs, err := s.requestRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

// ChangeRequestStatuses moderates a batch of pending requests. The whole
// decision runs in one transaction with the event row locked, so two
// concurrent moderations of the same event cannot both read a stale confirmed
// count and jointly overrun the limit. The confirmed count is recomputed from
// request rows inside the transaction.
func (s *eventService) ChangeRequestStatuses(ctx context.Context, initiatorID, eventID string,
	update domain.StatusUpdate) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(update.RequestIDs) == 0 {
		return nil, fmt.Errorf("%w: request ids must not be empty", domain.ErrInvalidInput)
	}

	var result *domain.StatusUpdateResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.InitiatorID != initiatorID {
			return domain.ErrForbidden
		}

		batch, err := s.loadBatchInOrder(ctx, update.RequestIDs)
		if err != nil {
			return err
		}

		confirmedCount, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed requests: %w", err)
		}

		pending, err := s.requestRepo.ListByEventAndStatus(ctx, eventID, domain.RequestStatusPending)
		if err != nil {
			return fmt.Errorf("list pending requests: %w", err)
		}

		alloc, err := domain.AllocateCapacity(eventID, event.ParticipantLimit, confirmedCount,
			update.Status, batch, pending)
		if err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStatuses(ctx, alloc.Touched); err != nil {
			return fmt.Errorf("update request statuses: %w", err)
		}

		confirmed := alloc.Confirmed
		if confirmed == nil {
			confirmed = []*domain.ParticipationRequest{}
		}
		rejected := alloc.Rejected
		if rejected == nil {
			rejected = []*domain.ParticipationRequest{}
		}
		result = &domain.StatusUpdateResult{Confirmed: confirmed, Rejected: rejected}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *eventService) SearchAdminEvents(ctx context.Context, search domain.AdminEventSearch) ([]*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateRange(search.RangeStart, search.RangeEnd); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.SearchAdmin(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return s.projector.Project(ctx, events)
}

func (s *eventService) UpdateAdminEvent(ctx context.Context, eventID string,
	patch domain.EventPatch, action *domain.ModeratorStateAction) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if err := s.applyPatch(ctx, event, patch); err != nil {
		return nil, err
	}
	if action != nil {
		if err := event.ApplyModeratorAction(*action, time.Now()); err != nil {
			return nil, err
		}
	}
	if err := event.ValidateDate(time.Now(), domain.ModeratorDateMargin); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.projector.ProjectOne(ctx, event)
}

// SearchPublicEvents searches published events. When availability filtering
// or views sorting is requested, the storage query runs unpaginated and
// filtering, sorting and from/size slicing happen in memory, because
// availability depends on confirmed counts computed after the query.
func (s *eventService) SearchPublicEvents(ctx context.Context, search domain.PublicEventSearch) ([]*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateRange(search.RangeStart, search.RangeEnd); err != nil {
		return nil, err
	}
	if search.RangeStart == nil && search.RangeEnd == nil {
		now := time.Now()
		search.RangeStart = &now
	}

	inMemory := search.OnlyAvailable || search.Sort == domain.SortByViews
	from, size := search.From, search.Size
	if inMemory {
		// Fetch everything matching; paginate after filtering and sorting.
		search.From, search.Size = 0, 0
	}

	events, err := s.eventRepo.SearchPublic(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}

	result, err := s.projector.Project(ctx, events)
	if err != nil {
		return nil, err
	}

	if !inMemory {
		return result, nil
	}

	if search.OnlyAvailable {
		result = FilterAvailable(result)
	}
	if search.Sort == domain.SortByViews {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Views > result[j].Views
		})
	}
	return paginate(result, from, size), nil
}

func (s *eventService) GetPublishedEvent(ctx context.Context, eventID string) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
	}
	return s.projector.ProjectOne(ctx, event)
}

func (s *eventService) getEventAsInitiator(ctx context.Context, initiatorID, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// applyPatch resolves the category reference before applying field edits.
func (s *eventService) applyPatch(ctx context.Context, event *domain.Event, patch domain.EventPatch) error {
	if patch.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *patch.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: category %s", domain.ErrNotFound, *patch.CategoryID)
			}
			return fmt.Errorf("get category: %w", err)
		}
	}
	return event.Apply(patch)
}

// loadBatchInOrder loads requests by id and returns them in the caller's
// order. Repeated ids collapse to their first occurrence so a request enters
// the batch at most once. Missing ids are a not-found error.
func (s *eventService) loadBatchInOrder(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	loaded, err := s.requestRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	byID := make(map[string]*domain.ParticipationRequest, len(loaded))
	for _, req := range loaded {
		byID[req.ID] = req
	}
	seen := make(map[string]struct{}, len(ids))
	batch := make([]*domain.ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		req, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, id)
		}
		batch = append(batch, req)
	}
	return batch, nil
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return fmt.Errorf("%w: range start is after range end", domain.ErrInvalidInput)
	}
	return nil
}

func paginate(views []*domain.EventWithStats, from, size int) []*domain.EventWithStats {
	if from < 0 {
		from = 0
	}
	if from >= len(views) {
		return []*domain.EventWithStats{}
	}
	end := len(views)
	if size > 0 && from+size < end {
		end = from + size
	}
	return views[from:end]
}
