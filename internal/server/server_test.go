package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spendcal/spendcal/internal/models"
)

type fakeStore struct {
	events []models.AnalyzedEvent
	err    error
}

func (f *fakeStore) AllEvents() ([]models.AnalyzedEvent, error) {
	return f.events, f.err
}

func (f *fakeStore) EventsInRange(from, to time.Time) ([]models.AnalyzedEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.AnalyzedEvent
	for _, ae := range f.events {
		if !ae.Event.Start.Before(from) && !ae.Event.Start.After(to) {
			out = append(out, ae)
		}
	}
	return out, nil
}

func analyzedEvent(id string, start time.Time, probability, min, max float64) models.AnalyzedEvent {
	return models.AnalyzedEvent{
		Event: models.CalendarEvent{ID: id, Title: "Event " + id, Start: start, End: start.Add(time.Hour)},
		Analysis: models.EventAnalysis{
			Category:            models.CategoryDiningSocial,
			SpendingProbability: probability,
			ExpectedRange:       models.SpendingRange{Min: min, Max: max},
			SpendingCategories:  []string{"Food & Drink"},
			Confidence:          0.85,
			MatchedKeywords:     []string{"dinner"},
		},
	}
}

func get(t *testing.T, store *fakeStore, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(":0", store)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, &fakeStore{}, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEventsEndpoint(t *testing.T) {
	now := time.Now().Add(time.Hour)
	store := &fakeStore{events: []models.AnalyzedEvent{
		analyzedEvent("e1", now, 0.8, 15, 80),
		analyzedEvent("e2", now.Add(2*time.Hour), 0.5, 20, 150),
	}}

	rec := get(t, store, "/api/events")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Events []models.AnalyzedEvent `json:"events"`
		Count  int                    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Count != 2 || len(body.Events) != 2 {
		t.Errorf("expected 2 events, got count=%d len=%d", body.Count, len(body.Events))
	}
}

func TestEventsEndpointBadTimeParam(t *testing.T) {
	rec := get(t, &fakeStore{}, "/api/events?from=yesterday")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventsEndpointStoreError(t *testing.T) {
	rec := get(t, &fakeStore{err: errors.New("db locked")}, "/api/events")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestForecastEndpoint(t *testing.T) {
	now := time.Now().Add(24 * time.Hour)
	store := &fakeStore{events: []models.AnalyzedEvent{
		analyzedEvent("e1", now, 1.0, 40, 60),
	}}

	rec := get(t, store, "/api/forecast?timeframe=week")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Timeframe   string `json:"timeframe"`
		EventCount  int    `json:"event_count"`
		Predictions struct {
			TotalSpending float64 `json:"total_spending"`
		} `json:"predictions"`
		RiskAssessment struct {
			Level string `json:"level"`
		} `json:"risk_assessment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Timeframe != "week" {
		t.Errorf("expected timeframe week, got %q", body.Timeframe)
	}
	if body.EventCount != 1 {
		t.Errorf("expected 1 event in window, got %d", body.EventCount)
	}
	if body.Predictions.TotalSpending != 50 {
		t.Errorf("expected total 50, got %v", body.Predictions.TotalSpending)
	}
	if body.RiskAssessment.Level != "low" {
		t.Errorf("expected low risk, got %q", body.RiskAssessment.Level)
	}
}

func TestForecastEndpointUnknownTimeframeFallsBack(t *testing.T) {
	rec := get(t, &fakeStore{}, "/api/forecast?timeframe=year")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Timeframe string `json:"timeframe"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Timeframe != "week" {
		t.Errorf("expected fallback to week, got %q", body.Timeframe)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	now := time.Now()
	store := &fakeStore{events: []models.AnalyzedEvent{
		analyzedEvent("e1", now.Add(time.Hour), 0.9, 15, 80),
	}}

	rec := get(t, store, "/api/insights")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report models.Insights
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.TotalEvents != 1 {
		t.Errorf("expected 1 total event, got %d", report.TotalEvents)
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	now := time.Now()
	store := &fakeStore{events: []models.AnalyzedEvent{
		analyzedEvent("e1", now.Add(time.Hour), 0.9, 15, 80),
	}}

	rec := get(t, store, "/api/notifications")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Notifications) == 0 {
		t.Error("expected at least one notification")
	}
}
