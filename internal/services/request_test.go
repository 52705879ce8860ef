package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cityevents/internal/domain"
)

func newTestRequestService(requestRepo *mockRequestRepository,
	eventRepo *mockEventRepository,
	userRepo *mockUserRepository,
) *requestService {
	return &requestService{
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		tx:             &mockTxManager{},
		contextTimeout: time.Second,
	}
}

func TestRequestService_SubmitRequest(t *testing.T) {
	userRepo := &mockUserRepository{users: map[string]*domain.User{
		"owner": {ID: "owner"},
		"u1":    {ID: "u1"},
	}}

	tests := []struct {
		name        string
		event       *domain.Event
		requester   string
		existing    map[string]*domain.ParticipationRequest
		dupExists   bool
		wantErr     error
		wantStatus  domain.RequestStatus
	}{
		{
			name:       "moderated limited event pends",
			event:      publishedEvent("e1", "owner", 10, true),
			requester:  "u1",
			wantStatus: domain.RequestStatusPending,
		},
		{
			name:       "moderation off auto-confirms",
			event:      publishedEvent("e1", "owner", 10, false),
			requester:  "u1",
			wantStatus: domain.RequestStatusConfirmed,
		},
		{
			name:       "unlimited event auto-confirms even with moderation on",
			event:      publishedEvent("e1", "owner", 0, true),
			requester:  "u1",
			wantStatus: domain.RequestStatusConfirmed,
		},
		{
			name:      "initiator cannot request own event",
			event:     publishedEvent("e1", "owner", 0, false),
			requester: "owner",
			wantErr:   domain.ErrConflict,
		},
		{
			name: "unpublished event",
			event: func() *domain.Event {
				e := publishedEvent("e1", "owner", 0, false)
				e.State = domain.EventStatePending
				e.PublishedOn = nil
				return e
			}(),
			requester: "u1",
			wantErr:   domain.ErrConflict,
		},
		{
			name:      "duplicate active request",
			event:     publishedEvent("e1", "owner", 10, true),
			requester: "u1",
			dupExists: true,
			wantErr:   domain.ErrConflict,
		},
		{
			name:      "limit already reached",
			event:     publishedEvent("e1", "owner", 1, true),
			requester: "u1",
			existing: map[string]*domain.ParticipationRequest{
				"r1": {ID: "r1", EventID: "e1", RequesterID: "u2", Status: domain.RequestStatusConfirmed},
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := tt.existing
			if requests == nil {
				requests = map[string]*domain.ParticipationRequest{}
			}
			requestRepo := &mockRequestRepository{requests: requests, activeExists: tt.dupExists}
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{tt.event.ID: tt.event}}
			svc := newTestRequestService(requestRepo, eventRepo, userRepo)

			got, err := svc.SubmitRequest(context.Background(), tt.requester, "e1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if requestRepo.created != nil {
					t.Error("request persisted despite failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, got.Status)
			}
			if got.EventID != "e1" || got.RequesterID != tt.requester {
				t.Errorf("request references wrong: %+v", got)
			}
		})
	}

	t.Run("unknown requester", func(t *testing.T) {
		requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{}}
		eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": publishedEvent("e1", "owner", 0, false)}}
		svc := newTestRequestService(requestRepo, eventRepo, userRepo)

		_, err := svc.SubmitRequest(context.Background(), "ghost", "e1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{}}
		eventRepo := &mockEventRepository{events: map[string]*domain.Event{}}
		svc := newTestRequestService(requestRepo, eventRepo, userRepo)

		_, err := svc.SubmitRequest(context.Background(), "u1", "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRequestService_CancelRequest(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.RequestStatus
		wantErr error
	}{
		{name: "cancel pending", status: domain.RequestStatusPending},
		{name: "cancel confirmed", status: domain.RequestStatusConfirmed},
		{name: "cancel rejected conflicts", status: domain.RequestStatusRejected, wantErr: domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{
				"r1": {ID: "r1", EventID: "e1", RequesterID: "u1", Status: tt.status},
			}}
			svc := newTestRequestService(requestRepo, &mockEventRepository{}, &mockUserRepository{})

			got, err := svc.CancelRequest(context.Background(), "u1", "r1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != domain.RequestStatusCanceled {
				t.Errorf("expected CANCELED, got %s", got.Status)
			}
		})
	}

	t.Run("someone else's request is not found", func(t *testing.T) {
		requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{
			"r1": {ID: "r1", EventID: "e1", RequesterID: "u1", Status: domain.RequestStatusPending},
		}}
		svc := newTestRequestService(requestRepo, &mockEventRepository{}, &mockUserRepository{})

		_, err := svc.CancelRequest(context.Background(), "u2", "r1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRequestService_GetOwnRequests(t *testing.T) {
	userRepo := &mockUserRepository{users: map[string]*domain.User{"u1": {ID: "u1"}}}
	requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{
		"r1": {ID: "r1", EventID: "e1", RequesterID: "u1", Status: domain.RequestStatusPending},
		"r2": {ID: "r2", EventID: "e2", RequesterID: "u1", Status: domain.RequestStatusConfirmed},
		"r3": {ID: "r3", EventID: "e1", RequesterID: "u2", Status: domain.RequestStatusPending},
	}}
	svc := newTestRequestService(requestRepo, &mockEventRepository{}, userRepo)

	got, err := svc.GetOwnRequests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}

	_, err = svc.GetOwnRequests(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
