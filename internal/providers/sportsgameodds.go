// Package providers contains clients for external sports data APIs.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/propsight/propsight/internal/services"
	"github.com/propsight/propsight/pkg/config"
)

// RawEvent is one upstream event (game) with its odds book. Field names track
// the SportsGameOdds wire format; nothing here is persisted directly.
type RawEvent struct {
	EventID  string `json:"eventID"`
	LeagueID string `json:"leagueID"`
	Status   struct {
		StartsAt  string `json:"startsAt"` // RFC3339
		Completed bool   `json:"completed"`
	} `json:"status"`
	Teams struct {
		Home RawTeam `json:"home"`
		Away RawTeam `json:"away"`
	} `json:"teams"`
	Odds map[string]OddEntry `json:"odds"`
	// Results is only populated on completed events: playerID -> statID -> value.
	Results map[string]map[string]float64 `json:"results,omitempty"`
	Players map[string]RawPlayer          `json:"players,omitempty"`
}

type RawTeam struct {
	TeamID string `json:"teamID"`
	Names  struct {
		Long  string `json:"long"`
		Short string `json:"short"`
	} `json:"names"`
}

type RawPlayer struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
	TeamID   string `json:"teamID"`
	Position string `json:"position"`
}

// OddEntry is a single market side within an event's odds book. The oddID
// encodes statID-playerID-periodID-betTypeID-sideID.
type OddEntry struct {
	OddID         string                  `json:"oddID"`
	StatID        string                  `json:"statID"`
	PlayerID      string                  `json:"playerID"`
	PeriodID      string                  `json:"periodID"`
	BetTypeID     string                  `json:"betTypeID"`
	SideID        string                  `json:"sideID"`
	BookOverUnder *float64                `json:"bookOverUnder"`
	FairOverUnder *float64                `json:"fairOverUnder"`
	BookOdds      *int                    `json:"bookOdds"`
	ByBookmaker   map[string]BookmakerOdd `json:"byBookmaker"`
}

type BookmakerOdd struct {
	Odds      *int     `json:"odds"`
	OverUnder *float64 `json:"overUnder"`
	Available bool     `json:"available"`
}

type eventsResponse struct {
	Success    bool       `json:"success"`
	Data       []RawEvent `json:"data"`
	NextCursor string     `json:"nextCursor"`
}

// SportsGameOddsClient fetches events with cursor pagination. One circuit
// breaker per league so a broken NFL feed cannot starve NBA fetches, and one
// shared rate limiter because the upstream quota is per API key.
type SportsGameOddsClient struct {
	httpClient *http.Client
	cache      *services.CacheService
	logger     *logrus.Logger
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	breakers   map[string]*gobreaker.CircuitBreaker

	eventsPerPage int
	maxPages      int
	maxRetries    int
	backoffBase   time.Duration
	cacheTTL      time.Duration
}

func NewSportsGameOddsClient(cfg *config.Config, cache *services.CacheService, logger *logrus.Logger) *SportsGameOddsClient {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(cfg.ActiveLeagues))
	for _, league := range cfg.ActiveLeagues {
		lg := league
		breakers[lg] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "sportsgameodds-" + lg,
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(cfg.CircuitBreakerThreshold)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("Circuit breaker state changed")
			},
		})
	}

	return &SportsGameOddsClient{
		httpClient: &http.Client{
			Timeout: cfg.ExternalAPITimeout,
		},
		cache:         cache,
		logger:        logger,
		apiKey:        cfg.SportsGameOddsAPIKey,
		baseURL:       cfg.SportsGameOddsBaseURL,
		limiter:       rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		breakers:      breakers,
		eventsPerPage: cfg.EventsPerPage,
		maxPages:      cfg.MaxPagesPerLeague,
		maxRetries:    cfg.MaxRetries,
		backoffBase:   cfg.RetryBackoffBase,
		cacheTTL:      cfg.EventCacheTTL,
	}
}

// FetchEvents pulls upcoming events for a league, following nextCursor until
// the feed is exhausted or the page cap is reached. Season and week are
// optional filters passed through to the upstream query.
//
// A non-2xx page logs and ends pagination, returning whatever accumulated so
// far with a nil error, so callers can still run their fallback widenings.
// Only transient-retry exhaustion with nothing accumulated, or context
// cancellation, propagates as an error.
func (c *SportsGameOddsClient) FetchEvents(ctx context.Context, league, season, week string) ([]RawEvent, error) {
	var events []RawEvent
	cursor := ""

	for page := 0; page < c.maxPages; page++ {
		resp, err := c.fetchEventsPage(ctx, league, season, week, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return events, ctx.Err()
			}
			if isRetryable(err) && len(events) == 0 {
				return nil, err
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"league": league,
				"page":   page,
			}).Warn("Pagination aborted, returning accumulated events")
			return events, nil
		}

		events = append(events, resp.Data...)
		if resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	c.logger.WithFields(logrus.Fields{
		"league": league,
		"season": season,
		"week":   week,
		"events": len(events),
	}).Info("Fetched events")
	return events, nil
}

// FetchEventResults pulls completed events with box score results for the
// performance ingestion path. Same pagination and filter semantics as
// FetchEvents.
func (c *SportsGameOddsClient) FetchEventResults(ctx context.Context, league, season, week string) ([]RawEvent, error) {
	events, err := c.FetchEvents(ctx, league, season, week)
	if err != nil {
		return nil, err
	}
	completed := events[:0]
	for _, ev := range events {
		if ev.Status.Completed && len(ev.Results) > 0 {
			completed = append(completed, ev)
		}
	}
	return completed, nil
}

func (c *SportsGameOddsClient) fetchEventsPage(ctx context.Context, league, season, week, cursor string) (*eventsResponse, error) {
	cacheKey := services.EventsCacheKey(league, season, week, cursor)
	var cached eventsResponse
	if c.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	breaker := c.breakers[league]
	var resp *eventsResponse
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase * time.Duration(1<<uint(attempt-1))
			c.logger.WithFields(logrus.Fields{
				"league":  league,
				"attempt": attempt,
				"backoff": backoff.String(),
			}).Warn("Retrying events page")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var result interface{}
		var execErr error
		if breaker != nil {
			result, execErr = breaker.Execute(func() (interface{}, error) {
				return c.doEventsRequest(ctx, league, season, week, cursor)
			})
		} else {
			result, execErr = c.doEventsRequest(ctx, league, season, week, cursor)
		}
		if execErr != nil {
			lastErr = execErr
			if !isRetryable(execErr) {
				return nil, execErr
			}
			continue
		}

		resp = result.(*eventsResponse)
		break
	}
	if resp == nil {
		return nil, fmt.Errorf("events page failed after %d retries: %w", c.maxRetries, lastErr)
	}

	if err := c.cache.Set(ctx, cacheKey, resp, c.cacheTTL); err != nil {
		c.logger.WithError(err).Debug("Failed to cache events page")
	}
	return resp, nil
}

func (c *SportsGameOddsClient) doEventsRequest(ctx context.Context, league, season, week, cursor string) (*eventsResponse, error) {
	q := url.Values{}
	q.Set("leagueID", league)
	q.Set("limit", fmt.Sprintf("%d", c.eventsPerPage))
	q.Set("oddsAvailable", "true")
	if season != "" {
		q.Set("season", season)
	}
	if week != "" {
		q.Set("week", week)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/events?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retryableError{err: fmt.Errorf("rate limited by upstream (429)")}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("upstream reported failure")
	}
	return &parsed, nil
}

// retryableError marks transient failures (network errors, 429s) that
// warrant a backoff retry. Anything else fails the page immediately.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	for err != nil {
		if _, ok := err.(*retryableError); ok {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
