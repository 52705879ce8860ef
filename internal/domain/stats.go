package domain

import (
	"context"
	"time"
)

// EndpointHit is one recorded request against a tracked URI.
type EndpointHit struct {
	App       string    `json:"app"`
	URI       string    `json:"uri"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// ViewStats is an aggregated hit count for one URI.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsClient is the consumed statistics collaborator. Hit counts are
// informational: readers degrade to zero views when the collaborator is
// unreachable instead of failing.
type StatsClient interface {
	RecordHit(ctx context.Context, hit EndpointHit) error
	// HitCounts returns hit counts per URI for the window. URIs absent from
	// the response have no recorded hits.
	HitCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error)
}
