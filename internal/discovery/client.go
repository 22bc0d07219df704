// Package discovery locates working stream URLs for stations by
// querying an external stream registry and scoring the returned
// candidates against the station's name, call letters, frequency, and
// location.
//
// Two scoring weight sets exist: FreshDiscoveryWeights for stations
// with no prior stream and RediscoveryWeights for refreshing a station
// after a capture failure.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/logging"
	"aircheck/internal/services"
	"aircheck/internal/textutil"
)

// Candidate is one stream record from the registry. Lifetime is a
// single discovery call; candidates are never persisted.
type Candidate struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Bitrate       int    `json:"bitrate"`
	Codec         string `json:"codec"`
	Country       string `json:"country"`
	CountryCode   string `json:"countrycode"`
	State         string `json:"state"`
	LastCheckOK   int    `json:"lastcheckok"`
	LastCheckTime string `json:"lastchecktime_iso8601"`
	ClickCount    int    `json:"clickcount"`
}

// LastCheckedAt parses the registry's last-check timestamp.
func (c Candidate) LastCheckedAt() (time.Time, error) {
	if strings.TrimSpace(c.LastCheckTime) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, c.LastCheckTime)
}

// Match is the outcome of a successful discovery.
type Match struct {
	Candidate  Candidate
	Confidence float64
	// Source names the query strategy that produced the candidate set,
	// recorded on the station for audit.
	Source string
}

// Client queries the stream registry.
type Client struct {
	baseURL       string
	userAgent     string
	minConfidence float64
	httpClient    *http.Client
	logger        *slog.Logger

	now func() time.Time
}

// NewClient constructs a registry client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Discovery.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.Discovery.BaseURL, "/"),
		userAgent:     cfg.Discovery.UserAgent,
		minConfidence: cfg.Discovery.MinConfidence,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logging.NewComponentLogger(logger, "discovery"),
		now:           time.Now,
	}
}

// query is one search strategy against the registry.
type query struct {
	label  string
	params url.Values
}

// FindBestStream runs the search strategies in order, scores the first
// non-empty candidate set, and returns the best match above the
// confidence threshold. The station row is not mutated.
func (c *Client) FindBestStream(ctx context.Context, station *catalog.Station, weights Weights) (*Match, error) {
	if station == nil {
		return nil, services.Wrap(services.ErrConfiguration, "discovery", "find stream", "station is nil", nil)
	}

	for _, q := range c.buildQueries(station) {
		candidates, err := c.search(ctx, q.params)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}

		ranked := rank(station, candidates, weights, c.now())
		if len(ranked) == 0 {
			continue
		}
		best := ranked[0]
		c.logger.Debug("scored candidates",
			logging.String("strategy", q.label),
			logging.Int("candidates", len(ranked)),
			logging.Float64("best_score", best.score),
			logging.Int64(logging.FieldStationID, station.ID),
		)
		if best.score < c.minConfidence {
			return nil, services.Wrap(services.ErrNotFound, "discovery", "find stream",
				fmt.Sprintf("best candidate %.2f below confidence threshold %.2f", best.score, c.minConfidence), nil)
		}
		return &Match{Candidate: best.candidate, Confidence: best.score, Source: q.label}, nil
	}

	return nil, services.Wrap(services.ErrNotFound, "discovery", "find stream", "no candidates from any strategy", nil)
}

// RefreshStation runs discovery and applies the result to the station
// row. On success stream_url is replaced, recommended_tool cleared (a
// new stream may need a different tool), and the discovery source and
// confidence recorded. On failure the existing stream_url is left
// untouched and last_test_result is set to error.
func (c *Client) RefreshStation(ctx context.Context, store *catalog.Store, stationID int64, weights Weights) (*catalog.Station, *Match, error) {
	station, err := store.GetStation(ctx, stationID)
	if err != nil {
		return nil, nil, err
	}
	if station == nil {
		return nil, nil, services.Wrap(services.ErrNotFound, "discovery", "refresh station", fmt.Sprintf("station %d", stationID), nil)
	}

	match, err := c.FindBestStream(ctx, station, weights)
	if err != nil {
		if _, markErr := store.MarkStationTested(ctx, station.ID, catalog.TestResultError, "discovery: no stream found", catalog.ToolUnset); markErr != nil {
			c.logger.Warn("mark station after failed discovery",
				logging.Error(markErr),
				logging.Int64(logging.FieldStationID, station.ID),
				logging.String(logging.FieldEventType, "discovery_mark_failed"),
			)
		}
		return station, nil, err
	}

	now := c.now().UTC()
	station.StreamURL = match.Candidate.URL
	station.RecommendedTool = catalog.ToolUnset
	station.DiscoverySource = match.Source
	station.DiscoveryConfidence = match.Confidence
	station.LastTestedAt = &now
	if err := store.UpdateStationCAS(ctx, station, station.UpdatedAt); err != nil {
		return station, match, fmt.Errorf("apply discovery result: %w", err)
	}

	c.logger.Info("station stream updated",
		logging.Int64(logging.FieldStationID, station.ID),
		logging.String("stream_url", match.Candidate.URL),
		logging.Float64("confidence", match.Confidence),
		logging.String("strategy", match.Source),
	)
	return station, match, nil
}

func (c *Client) buildQueries(station *catalog.Station) []query {
	name := strings.TrimSpace(station.Name)
	queries := make([]query, 0, 6)

	add := func(label string, params url.Values) {
		queries = append(queries, query{label: label, params: params})
	}

	if name != "" {
		add("exact-name", url.Values{"name": {name}, "nameExact": {"true"}})
	}

	call := strings.TrimSpace(station.CallLetters)
	if call == "" {
		if extracted, ok := ExtractCallLetters(name); ok {
			call = extracted
		}
	}
	if call != "" {
		add("call-letters", url.Values{"name": {call}})
	}

	freq, hasFreq := ExtractFrequency(name)
	if hasFreq {
		add("frequency", url.Values{"name": {fmt.Sprintf("%.1f", freq)}})
	}

	location := ExtractLocation(name)
	if location != "" && hasFreq {
		add("location-frequency", url.Values{"name": {fmt.Sprintf("%.1f", freq)}, "state": {location}})
	}

	if simplified := textutil.SimplifyName(name); simplified != "" && !strings.EqualFold(simplified, name) {
		add("simplified-name", url.Values{"name": {simplified}})
	}

	if location != "" {
		add("location", url.Values{"state": {location}})
	}

	return queries
}

func (c *Client) search(ctx context.Context, params url.Values) ([]Candidate, error) {
	params.Set("limit", "50")
	params.Set("hidebroken", "false")
	endpoint := c.baseURL + "/stations/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "discovery", "registry query", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrTransient, "discovery", "registry query",
			fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	var candidates []Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, services.Wrap(services.ErrTransient, "discovery", "decode registry response", "", err)
	}
	return candidates, nil
}
