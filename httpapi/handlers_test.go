package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arofre/FinTrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRouter builds the API over a refreshed two-stock tracker:
// 5 AAPL long, 10 TSLA short, 1000 initial cash, data through Jan 20.
func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	ledger, err := fintrack.NewLedger(
		fintrack.NewTransaction(fintrack.NewDate(2024, time.January, 10), "AAPL", fintrack.Buy, 5, 100),
		fintrack.NewTransaction(fintrack.NewDate(2024, time.January, 15), "TSLA", fintrack.Short, 10, 20),
	)
	require.NoError(t, err)

	provider := fintrack.NewMemoryProvider()
	provider.SetCurrency("AAPL", "USD").
		SetPrice("AAPL", fintrack.NewDate(2024, time.January, 10), 100).
		SetPrice("AAPL", fintrack.NewDate(2024, time.January, 12), 120)
	provider.SetCurrency("TSLA", "USD").
		SetPrice("TSLA", fintrack.NewDate(2024, time.January, 15), 20)

	tracker := fintrack.NewTracker(ledger, provider, provider, "USD", 1000)
	require.NoError(t, tracker.Refresh(context.Background(), fintrack.NewDate(2024, time.January, 20)))

	return NewRouter(tracker, &Config{AllowedOrigins: []string{"http://localhost:3000"}})
}

// get performs a request and decodes the JSON body.
func get(t *testing.T, router http.Handler, url string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec.Code, body
}

func TestAPI_Health(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-01-20", body["through"])
}

func TestAPI_Holdings(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/holdings")
	require.Equal(t, http.StatusOK, status)

	holdings, ok := body["holdings"].([]any)
	require.True(t, ok, "holdings: %v", body)
	require.Len(t, holdings, 2)

	tsla := holdings[1].(map[string]any)
	assert.Equal(t, "TSLA", tsla["ticker"])
	assert.Equal(t, true, tsla["short"])
}

func TestAPI_HoldingsOnDate(t *testing.T) {
	router := setupRouter(t)

	// Before the TSLA short only AAPL is open.
	status, body := get(t, router, "/api/holdings?date=2024-01-12")
	require.Equal(t, http.StatusOK, status)
	holdings := body["holdings"].([]any)
	require.Len(t, holdings, 1)
	assert.Equal(t, "AAPL", holdings[0].(map[string]any)["ticker"])
}

func TestAPI_HoldingsRange(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/holdings/range?from=2024-01-14&to=2024-01-16")
	require.Equal(t, http.StatusOK, status)

	days := body["days"].([]any)
	require.Len(t, days, 3)
	// The TSLA short opens on Jan 15.
	first := days[0].(map[string]any)
	assert.Len(t, first["holdings"], 1)
	second := days[1].(map[string]any)
	assert.Equal(t, "2024-01-15", second["date"])
	assert.Len(t, second["holdings"], 2)
}

func TestAPI_Cash(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/cash?date=2024-01-16")
	require.Equal(t, http.StatusOK, status)

	cash := body["cash"].(map[string]any)
	// 1000 - 500 buy + 200 short proceeds.
	assert.Equal(t, "USD", cash["currency"])
	assert.EqualValues(t, 700, cash["amount"])
}

func TestAPI_ValueSeries(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/value?from=2024-01-10&to=2024-01-14")
	require.Equal(t, http.StatusOK, status)

	values := body["values"].([]any)
	assert.Len(t, values, 5)
	last := values[4].(map[string]any)
	assert.Equal(t, "2024-01-14", last["date"])
	// 500 cash + 5*120.
	assert.EqualValues(t, 1100, last["value"].(map[string]any)["amount"])
}

func TestAPI_Returns(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/returns?from=2024-01-10&to=2024-01-20")
	require.Equal(t, http.StatusOK, status)

	stocks := body["stocks"].([]any)
	require.Len(t, stocks, 2)
	best := stocks[0].(map[string]any)
	assert.Equal(t, "AAPL", best["ticker"])
	assert.InDelta(t, 20, best["return"].(float64), 0.01)
}

func TestAPI_BadDate(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/cash?date=tomorrow")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "invalid date")
}

func TestAPI_MissingFrom(t *testing.T) {
	router := setupRouter(t)

	status, body := get(t, router, "/api/returns")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "missing from")
}

func TestAPI_UnrefreshedTrackerIsUnavailable(t *testing.T) {
	ledger, err := fintrack.NewLedger(
		fintrack.NewTransaction(fintrack.NewDate(2024, time.January, 10), "AAPL", fintrack.Buy, 5, 100),
	)
	require.NoError(t, err)
	provider := fintrack.NewMemoryProvider()
	tracker := fintrack.NewTracker(ledger, provider, provider, "USD", 1000)
	router := NewRouter(tracker, &Config{})

	status, _ := get(t, router, "/api/cash?date=2024-01-10")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAPI_UnknownIndexTickerIsNotFound(t *testing.T) {
	router := setupRouter(t)

	status, _ := get(t, router, "/api/returns/index?from=2024-01-10&ticker=UNKNOWN")
	assert.Equal(t, http.StatusNotFound, status)
}
