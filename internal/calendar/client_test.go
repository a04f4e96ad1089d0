package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

const feedBody = `{
	"items": [
		{
			"id": "evt-1",
			"summary": "dinner at the restaurant",
			"description": "with friends",
			"location": "Main St",
			"start": {"dateTime": "2026-03-07T19:00:00Z"},
			"end": {"dateTime": "2026-03-07T21:00:00Z"}
		},
		{
			"id": "evt-2",
			"summary": "conference",
			"start": {"date": "2026-03-10"},
			"end": {"date": "2026-03-11"}
		},
		{
			"summary": "no id, no times"
		}
	]
}`

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 2*time.Second, ClientConfig{
		MaxRetries:     3,
		RetryDelayBase: time.Millisecond,
	})
}

func TestFetchEvents(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := testClient(server.URL)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	events, err := client.FetchEvents(context.Background(), from, to, 100)
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	query := gotQuery.Load().(url.Values)
	if query.Get("timeMin") != "2026-03-01T00:00:00Z" {
		t.Errorf("unexpected timeMin: %q", query.Get("timeMin"))
	}
	if query.Get("singleEvents") != "true" || query.Get("orderBy") != "startTime" {
		t.Errorf("missing expansion params in query")
	}
	if query.Get("maxResults") != "100" {
		t.Errorf("unexpected maxResults: %q", query.Get("maxResults"))
	}

	first := events[0]
	if first.ID != "evt-1" || first.Title != "dinner at the restaurant" {
		t.Errorf("unexpected first event: %+v", first)
	}
	if !first.Start.Equal(time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", first.Start)
	}

	// Date-only start resolves to local midnight.
	second := events[1]
	wantDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	if !second.Start.Equal(wantDate) {
		t.Errorf("unexpected all-day start: %v, want %v", second.Start, wantDate)
	}

	// A missing ID gets a generated one; missing times stay zero.
	third := events[2]
	if third.ID == "" {
		t.Error("expected generated ID for feed entry without one")
	}
	if !third.Start.IsZero() || !third.End.IsZero() {
		t.Errorf("expected zero times, got start=%v end=%v", third.Start, third.End)
	}
}

func TestFetchEventsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	events, err := client.FetchEvents(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7), 0)
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchEventsExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)

	if _, err := client.FetchEvents(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7), 0); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestFetchEventsClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL)

	if _, err := client.FetchEvents(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7), 0); err == nil {
		t.Fatal("expected error on 401")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestFetchEventsHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, ClientConfig{
		MaxRetries:     5,
		RetryDelayBase: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchEvents(ctx, time.Now(), time.Now().AddDate(0, 0, 7), 0); err == nil {
		t.Fatal("expected error with cancelled context")
	}
}

func TestFeedTimeParse(t *testing.T) {
	tests := []struct {
		name string
		ft   feedTime
		want time.Time
	}{
		{"datetime", feedTime{DateTime: "2026-03-07T19:00:00Z"}, time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)},
		{"date only", feedTime{Date: "2026-03-10"}, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
		{"empty", feedTime{}, time.Time{}},
		{"garbage datetime", feedTime{DateTime: "not-a-time"}, time.Time{}},
		{"garbage date", feedTime{Date: "someday"}, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ft.parse(); !got.Equal(tt.want) {
				t.Errorf("parse() = %v, want %v", got, tt.want)
			}
		})
	}
}
