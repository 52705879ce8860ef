package services

import (
	"context"
	"errors"
	"testing"

	"cityevents/internal/domain"
)

func TestEventProjector_Project(t *testing.T) {
	e1 := publishedEvent("e1", "owner", 10, true)
	e2 := publishedEvent("e2", "owner", 10, true)

	requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{
		"r1": {ID: "r1", EventID: "e1", RequesterID: "u1", Status: domain.RequestStatusConfirmed},
		"r2": {ID: "r2", EventID: "e1", RequesterID: "u2", Status: domain.RequestStatusConfirmed},
		"r3": {ID: "r3", EventID: "e1", RequesterID: "u3", Status: domain.RequestStatusPending},
	}}
	stats := &mockStatsClient{hits: map[string]int64{"/events/e1": 42}}

	p := NewEventProjector(requestRepo, stats, testLogger)
	got, err := p.Project(context.Background(), []*domain.Event{e1, e2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 projections, got %d", len(got))
	}
	if got[0].ConfirmedRequests != 2 {
		t.Errorf("expected 2 confirmed for e1 (pending excluded), got %d", got[0].ConfirmedRequests)
	}
	if got[0].Views != 42 {
		t.Errorf("expected 42 views for e1, got %d", got[0].Views)
	}
	// e2 has no confirmed requests and no recorded hits.
	if got[1].ConfirmedRequests != 0 || got[1].Views != 0 {
		t.Errorf("expected zeroes for e2, got %d/%d", got[1].ConfirmedRequests, got[1].Views)
	}
}

func TestEventProjector_StatsFailureDegradesToZero(t *testing.T) {
	e1 := publishedEvent("e1", "owner", 10, true)
	requestRepo := &mockRequestRepository{requests: map[string]*domain.ParticipationRequest{
		"r1": {ID: "r1", EventID: "e1", RequesterID: "u1", Status: domain.RequestStatusConfirmed},
	}}
	stats := &mockStatsClient{err: errors.New("connection refused")}

	p := NewEventProjector(requestRepo, stats, testLogger)
	got, err := p.Project(context.Background(), []*domain.Event{e1})
	if err != nil {
		t.Fatalf("stats failure must not fail the read, got %v", err)
	}
	if got[0].Views != 0 {
		t.Errorf("expected degraded zero views, got %d", got[0].Views)
	}
	if got[0].ConfirmedRequests != 1 {
		t.Errorf("confirmed count must survive stats failure, got %d", got[0].ConfirmedRequests)
	}
}

func TestEventProjector_EmptyInput(t *testing.T) {
	p := NewEventProjector(&mockRequestRepository{}, &mockStatsClient{}, testLogger)
	got, err := p.Project(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestFilterAvailable(t *testing.T) {
	full := &domain.EventWithStats{Event: publishedEvent("full", "o", 2, true), ConfirmedRequests: 2}
	open := &domain.EventWithStats{Event: publishedEvent("open", "o", 2, true), ConfirmedRequests: 1}
	unlimited := &domain.EventWithStats{Event: publishedEvent("unlimited", "o", 0, true), ConfirmedRequests: 1000}

	got := FilterAvailable([]*domain.EventWithStats{full, open, unlimited})
	if len(got) != 2 {
		t.Fatalf("expected 2 available, got %d", len(got))
	}
	for _, v := range got {
		if v.Event.ID == "full" {
			t.Error("full event not filtered out")
		}
	}
}
