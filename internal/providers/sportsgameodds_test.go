package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsight/propsight/internal/services"
	"github.com/propsight/propsight/pkg/config"
)

func testClientConfig(baseURL string) *config.Config {
	return &config.Config{
		SportsGameOddsAPIKey:    "test-key",
		SportsGameOddsBaseURL:   baseURL,
		EventsPerPage:           2,
		MaxPagesPerLeague:       3,
		MaxRetries:              2,
		RetryBackoffBase:        time.Millisecond,
		RequestsPerMinute:       60000,
		ExternalAPITimeout:      5 * time.Second,
		EventCacheTTL:           time.Minute,
		ActiveLeagues:           []string{"NFL"},
		CircuitBreakerThreshold: 5,
	}
}

func newTestClient(baseURL string) *SportsGameOddsClient {
	logger := logrus.New()
	cache := services.NewCacheService(nil, logger)
	return NewSportsGameOddsClient(testClientConfig(baseURL), cache, logger)
}

func eventPage(ids []string, nextCursor string) eventsResponse {
	resp := eventsResponse{Success: true, NextCursor: nextCursor}
	for _, id := range ids {
		resp.Data = append(resp.Data, RawEvent{EventID: id, LeagueID: "NFL"})
	}
	return resp
}

func TestFetchEventsFollowsCursor(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		cursor := r.URL.Query().Get("cursor")
		requests = append(requests, cursor)

		var page eventsResponse
		switch cursor {
		case "":
			page = eventPage([]string{"e1", "e2"}, "c1")
		case "c1":
			page = eventPage([]string{"e3"}, "")
		default:
			t.Fatalf("unexpected cursor %q", cursor)
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, err := client.FetchEvents(context.Background(), "NFL", "2025", "")
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, []string{"", "c1"}, requests)
}

func TestFetchEventsStopsAtPageCap(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		// Every page advertises another one; only the cap ends pagination.
		json.NewEncoder(w).Encode(eventPage([]string{fmt.Sprintf("e%d", pages)}, fmt.Sprintf("c%d", pages)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, err := client.FetchEvents(context.Background(), "NFL", "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.Len(t, events, 3)
}

func TestFetchEventsRetriesOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(eventPage([]string{"e1"}, ""))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, err := client.FetchEvents(context.Background(), "NFL", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Len(t, events, 1)
}

func TestFetchEventsNon2xxDoesNotRaise(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	// A hard upstream rejection ends the league's fetch but is not an error:
	// callers still get the (empty) accumulation so fallbacks can run.
	client := newTestClient(server.URL)
	events, err := client.FetchEvents(context.Background(), "NFL", "", "")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 1, attempts, "4xx other than 429 is not retried")
}

func TestFetchEventsRetryExhaustionPropagates(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchEvents(context.Background(), "NFL", "", "")
	require.Error(t, err)
	assert.Equal(t, 3, attempts, "initial attempt plus two retries")
}

func TestFetchEventsReturnsPartialResultsOnMidPaginationFailure(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if pages == 1 {
			json.NewEncoder(w).Encode(eventPage([]string{"e1", "e2"}, "c1"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, err := client.FetchEvents(context.Background(), "NFL", "", "")
	require.NoError(t, err)
	assert.Len(t, events, 2, "first page survives the second page's failure")
}

func TestFetchEventResultsFiltersIncomplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		completed := RawEvent{EventID: "done", LeagueID: "NFL"}
		completed.Status.Completed = true
		completed.Results = map[string]map[string]float64{
			"JOSH_ALLEN_1_NFL": {"passing_yards": 287},
		}
		upcoming := RawEvent{EventID: "future", LeagueID: "NFL"}
		json.NewEncoder(w).Encode(eventsResponse{Success: true, Data: []RawEvent{completed, upcoming}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, err := client.FetchEventResults(context.Background(), "NFL", "", "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "done", events[0].EventID)
}
