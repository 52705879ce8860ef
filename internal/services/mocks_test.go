package services

import (
	"context"
	"time"

	"cityevents/internal/domain"
)

type mockTxManager struct {
	err error
}

func (m *mockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type mockEventRepository struct {
	events           map[string]*domain.Event
	searchResult     []*domain.Event
	existsByCategory bool
	updated          []*domain.Event
	created          []*domain.Event
	err              error
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = "created"
	m.created = append(m.created, event)
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return m.GetByID(ctx, id)
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockEventRepository) ListByInitiatorID(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Event
	for _, ev := range m.events {
		if ev.InitiatorID == initiatorID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEventRepository) SearchAdmin(ctx context.Context, search domain.AdminEventSearch) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.searchResult, nil
}

func (m *mockEventRepository) SearchPublic(ctx context.Context, search domain.PublicEventSearch) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.searchResult, nil
}

func (m *mockEventRepository) ExistsByCategoryID(ctx context.Context, categoryID string) (bool, error) {
	return m.existsByCategory, m.err
}

type mockRequestRepository struct {
	requests     map[string]*domain.ParticipationRequest
	activeExists bool
	created      *domain.ParticipationRequest
	saved        []*domain.ParticipationRequest
	err          error
}

func (m *mockRequestRepository) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	if m.err != nil {
		return m.err
	}
	req.ID = "created"
	m.created = req
	return nil
}

func (m *mockRequestRepository) GetByIDAndRequester(ctx context.Context, requestID, requesterID string) (*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	req, ok := m.requests[requestID]
	if !ok || req.RequesterID != requesterID {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (m *mockRequestRepository) ListByRequesterID(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.ParticipationRequest
	for _, req := range m.requests {
		if req.RequesterID == requesterID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.ParticipationRequest
	for _, req := range m.requests {
		if req.EventID == eventID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.ParticipationRequest
	for _, id := range ids {
		if req, ok := m.requests[id]; ok {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.ParticipationRequest
	for _, req := range m.requests {
		if req.EventID == eventID && req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, req := range m.requests {
		if req.EventID == eventID && req.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockRequestRepository) CountConfirmedByEventIDs(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := make(map[string]int64)
	for _, id := range eventIDs {
		for _, req := range m.requests {
			if req.EventID == id && req.Status == domain.RequestStatusConfirmed {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *mockRequestRepository) ExistsActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.activeExists, nil
}

func (m *mockRequestRepository) Update(ctx context.Context, req *domain.ParticipationRequest) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, req)
	return nil
}

func (m *mockRequestRepository) UpdateStatuses(ctx context.Context, reqs []*domain.ParticipationRequest) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, reqs...)
	return nil
}

type mockUserRepository struct {
	users       map[string]*domain.User
	emailExists bool
	err         error
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = "created"
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailExists, m.err
}

func (m *mockUserRepository) List(ctx context.Context, ids []string, from, size int) ([]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockCategoryRepository struct {
	categories map[string]*domain.Category
	nameExists bool
	err        error
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.err != nil {
		return m.err
	}
	category.ID = "created"
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return m.nameExists, m.err
}

func (m *mockCategoryRepository) List(ctx context.Context, from, size int) ([]*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return m.err
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	return m.err
}

type mockStatsClient struct {
	hits     map[string]int64
	recorded []domain.EndpointHit
	err      error
}

func (m *mockStatsClient) RecordHit(ctx context.Context, hit domain.EndpointHit) error {
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, hit)
	return nil
}

func (m *mockStatsClient) HitCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]int64)
	for _, uri := range uris {
		if hits, ok := m.hits[uri]; ok {
			out[uri] = hits
		}
	}
	return out, nil
}
