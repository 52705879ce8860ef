package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cityevents/internal/domain"
)

// timeLayout is the timestamp format the stats collector speaks on the wire.
const timeLayout = "2006-01-02 15:04:05"

type statsHTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a client that talks to the stats collector service.
func NewHTTPClient(baseURL string, client *http.Client) domain.StatsClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &statsHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewStatsPayload struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func (c *statsHTTPClient) RecordHit(ctx context.Context, hit domain.EndpointHit) error {
	body, err := json.Marshal(hitPayload{
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: hit.Timestamp.UTC().Format(timeLayout),
	})
	if err != nil {
		return fmt.Errorf("failed to encode hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send hit to stats collector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("stats collector returned status: %d", resp.StatusCode)
	}
	return nil
}

func (c *statsHTTPClient) HitCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error) {
	params := url.Values{}
	params.Set("start", start.UTC().Format(timeLayout))
	params.Set("end", end.UTC().Format(timeLayout))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	params.Set("unique", strconv.FormatBool(unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats collector returned status: %d", resp.StatusCode)
	}

	var payload []viewStatsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}

	counts := make(map[string]int64, len(payload))
	for _, s := range payload {
		counts[s.URI] += s.Hits
	}
	return counts, nil
}
