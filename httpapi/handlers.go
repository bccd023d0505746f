package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/arofre/FinTrack"
)

type handler struct {
	tracker *fintrack.Tracker
}

// queryDate reads a date query parameter, defaulting to the last refreshed
// day when absent.
func (h *handler) queryDate(r *http.Request, name string) (fintrack.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return h.tracker.Through(), nil
	}
	return fintrack.ParseDate(raw)
}

// queryRange reads from/to parameters; to defaults to the last refreshed
// day, from is required.
func (h *handler) queryRange(r *http.Request) (fintrack.Range, error) {
	raw := r.URL.Query().Get("from")
	if raw == "" {
		return fintrack.Range{}, errors.New("missing from parameter")
	}
	from, err := fintrack.ParseDate(raw)
	if err != nil {
		return fintrack.Range{}, err
	}
	to, err := h.queryDate(r, "to")
	if err != nil {
		return fintrack.Range{}, err
	}
	return fintrack.NewRange(from, to), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

// statusOf maps the engine's error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	var verr *fintrack.ValidationError
	var perr *fintrack.PriceUnavailableError
	var ferr *fintrack.DataFetchError
	var cerr *fintrack.ComputationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &perr):
		return http.StatusNotFound
	case errors.As(err, &ferr):
		return http.StatusBadGateway
	case errors.As(err, &cerr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"through": h.tracker.Through().String(),
	})
}

type holdingJSON struct {
	Ticker string            `json:"ticker"`
	Shares fintrack.Quantity `json:"shares"`
	Short  bool              `json:"short"`
}

func (h *handler) holdings(w http.ResponseWriter, r *http.Request) {
	on, err := h.queryDate(r, "date")
	if err != nil {
		badRequest(w, err)
		return
	}
	holdings, err := h.tracker.HoldingsOn(on)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]holdingJSON, 0, len(holdings))
	for _, hd := range holdings {
		out = append(out, holdingJSON{Ticker: hd.Ticker, Shares: hd.Shares, Short: hd.Short})
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": on, "holdings": out})
}

type holdingsDayJSON struct {
	Date     fintrack.Date `json:"date"`
	Holdings []holdingJSON `json:"holdings"`
}

func (h *handler) holdingsRange(w http.ResponseWriter, r *http.Request) {
	rng, err := h.queryRange(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	days := make([]holdingsDayJSON, 0, rng.Len())
	for on := range rng.Days() {
		holdings, err := h.tracker.HoldingsOn(on)
		if err != nil {
			writeError(w, err)
			return
		}
		day := holdingsDayJSON{Date: on, Holdings: make([]holdingJSON, 0, len(holdings))}
		for _, hd := range holdings {
			day.Holdings = append(day.Holdings, holdingJSON{Ticker: hd.Ticker, Shares: hd.Shares, Short: hd.Short})
		}
		days = append(days, day)
	}
	writeJSON(w, http.StatusOK, map[string]any{"from": rng.From, "to": rng.To, "days": days})
}

func (h *handler) cash(w http.ResponseWriter, r *http.Request) {
	on, err := h.queryDate(r, "date")
	if err != nil {
		badRequest(w, err)
		return
	}
	balance, err := h.tracker.CashOn(on)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": on, "cash": balance})
}

type valuePointJSON struct {
	Date  fintrack.Date  `json:"date"`
	Value fintrack.Money `json:"value"`
}

func (h *handler) value(w http.ResponseWriter, r *http.Request) {
	// A single date answers one value; a from/to pair answers the series.
	if r.URL.Query().Get("from") == "" {
		on, err := h.queryDate(r, "date")
		if err != nil {
			badRequest(w, err)
			return
		}
		value, err := h.tracker.ValueOn(on)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": on, "value": value})
		return
	}

	rng, err := h.queryRange(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	values, err := h.tracker.Values(rng)
	if err != nil {
		writeError(w, err)
		return
	}
	series := make([]valuePointJSON, 0, values.Len())
	for on, v := range values.Values() {
		series = append(series, valuePointJSON{Date: on, Value: v})
	}
	writeJSON(w, http.StatusOK, map[string]any{"from": rng.From, "to": rng.To, "values": series})
}

type summaryLineJSON struct {
	Ticker string            `json:"ticker"`
	Shares fintrack.Quantity `json:"shares"`
	Price  fintrack.Money    `json:"price"`
	Value  fintrack.Money    `json:"value"`
	Short  bool              `json:"short"`
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	on, err := h.queryDate(r, "date")
	if err != nil {
		badRequest(w, err)
		return
	}
	summary, err := h.tracker.SummaryOn(on)
	if err != nil {
		writeError(w, err)
		return
	}
	lines := make([]summaryLineJSON, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		lines = append(lines, summaryLineJSON{Ticker: l.Ticker, Shares: l.Shares, Price: l.Price, Value: l.Value, Short: l.Short})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":      summary.On,
		"positions": lines,
		"cash":      summary.Cash,
		"total":     summary.Total,
	})
}

type stockReturnJSON struct {
	Ticker string           `json:"ticker"`
	Return fintrack.Percent `json:"return"`
}

func (h *handler) writeReturns(w http.ResponseWriter, report *fintrack.ReturnsReport) {
	stocks := make([]stockReturnJSON, 0, len(report.Stocks))
	for _, s := range report.Stocks {
		stocks = append(stocks, stockReturnJSON{Ticker: s.Ticker, Return: s.Return})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":    report.Range.From,
		"to":      report.Range.To,
		"stocks":  stocks,
		"average": report.Average,
	})
}

func (h *handler) returns(w http.ResponseWriter, r *http.Request) {
	rng, err := h.queryRange(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	report, err := h.tracker.Returns(rng)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeReturns(w, report)
}

func (h *handler) indexReturns(w http.ResponseWriter, r *http.Request) {
	rng, err := h.queryRange(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	report, err := h.tracker.IndexReturns(rng, r.URL.Query()["ticker"]...)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeReturns(w, report)
}
