package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cityevents/internal/domain"
)

// EventURI returns the public URI identifying an event, as tracked by the
// statistics collector.
func EventURI(eventID string) string {
	return "/events/" + eventID
}

// statsEpoch is the window start used for hit-count queries. Hits are only
// recorded on public endpoints, which serve published events exclusively, so
// counting from the epoch is equivalent to counting from each event's
// publication time.
var statsEpoch = time.Unix(0, 0).UTC()

// EventProjector assembles read-side fields (confirmed requests, views) for
// event listings. Both lookups are batched: one aggregate query for counts,
// one statistics call for views.
type EventProjector struct {
	requestRepo domain.RequestRepository
	stats       domain.StatsClient
	logger      *slog.Logger
}

func NewEventProjector(requestRepo domain.RequestRepository, stats domain.StatsClient, logger *slog.Logger) *EventProjector {
	return &EventProjector{
		requestRepo: requestRepo,
		stats:       stats,
		logger:      logger,
	}
}

// ConfirmedCounts returns confirmed-request counts per event id. Events
// without confirmed requests map to zero.
func (p *EventProjector) ConfirmedCounts(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	if len(eventIDs) == 0 {
		return map[string]int64{}, nil
	}
	counts, err := p.requestRepo.CountConfirmedByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	return counts, nil
}

// Views returns hit counts per event id. A statistics-collector failure is
// not fatal: it logs a warning and every event degrades to zero views.
func (p *EventProjector) Views(ctx context.Context, events []*domain.Event) map[string]int64 {
	result := make(map[string]int64, len(events))
	if len(events) == 0 {
		return result
	}

	uris := make([]string, 0, len(events))
	uriToEvent := make(map[string]string, len(events))
	for _, e := range events {
		uri := EventURI(e.ID)
		uris = append(uris, uri)
		uriToEvent[uri] = e.ID
	}

	counts, err := p.stats.HitCounts(ctx, statsEpoch, time.Now(), uris, true)
	if err != nil {
		p.logger.WarnContext(ctx, "stats collector unavailable, views degraded to zero", "err", err)
		return result
	}

	for uri, hits := range counts {
		if id, ok := uriToEvent[uri]; ok {
			result[id] = hits
		}
	}
	return result
}

// Project builds the read view for a list of events.
func (p *EventProjector) Project(ctx context.Context, events []*domain.Event) ([]*domain.EventWithStats, error) {
	if len(events) == 0 {
		return []*domain.EventWithStats{}, nil
	}

	eventIDs := make([]string, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
	}

	confirmed, err := p.ConfirmedCounts(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	views := p.Views(ctx, events)

	result := make([]*domain.EventWithStats, 0, len(events))
	for _, e := range events {
		result = append(result, &domain.EventWithStats{
			Event:             e,
			ConfirmedRequests: confirmed[e.ID],
			Views:             views[e.ID],
		})
	}
	return result, nil
}

// ProjectOne builds the read view for a single event.
func (p *EventProjector) ProjectOne(ctx context.Context, event *domain.Event) (*domain.EventWithStats, error) {
	views, err := p.Project(ctx, []*domain.Event{event})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// FilterAvailable drops events whose participant limit is exhausted. A limit
// of 0 means unlimited availability.
func FilterAvailable(views []*domain.EventWithStats) []*domain.EventWithStats {
	result := make([]*domain.EventWithStats, 0, len(views))
	for _, v := range views {
		if domain.LimitReached(v.Event.ParticipantLimit, v.ConfirmedRequests) {
			continue
		}
		result = append(result, v)
	}
	return result
}
