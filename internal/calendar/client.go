// Package calendar provides an HTTP client for the calendar event feed.
// The feed is a provider-neutral JSON export in the common calendar shape
// (items with summary/description/location and dateTime-or-date start/end);
// OAuth and provider sync semantics live outside this service.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/spendcal/spendcal/internal/models"
)

// ClientConfig tunes transport behavior.
type ClientConfig struct {
	MaxRetries          int
	RetryDelayBase      time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Client fetches events from the calendar feed API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// feedResponse is the wire shape of the feed endpoint.
type feedResponse struct {
	Items []feedItem `json:"items"`
}

type feedItem struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Start       feedTime `json:"start"`
	End         feedTime `json:"end"`
}

// feedTime carries either a full timestamp or a date-only value (all-day
// events).
type feedTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

// NewClient creates a feed client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, cfg ClientConfig) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
	}
}

// FetchEvents retrieves events starting within [from, to), expanded to single
// occurrences and ordered by start time. Feed entries without an ID get a
// generated UUID so storage always has a stable key.
func (c *Client) FetchEvents(ctx context.Context, from, to time.Time, limit int) ([]models.CalendarEvent, error) {
	u, err := url.Parse(c.baseURL + "/events")
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}

	q := u.Query()
	q.Set("timeMin", from.Format(time.RFC3339))
	q.Set("timeMax", to.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	if limit > 0 {
		q.Set("maxResults", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	resp, err := c.doRequest(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer resp.Body.Close()

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		events = append(events, models.CalendarEvent{
			ID:          id,
			Title:       item.Summary,
			Description: item.Description,
			Location:    item.Location,
			Start:       item.Start.parse(),
			End:         item.End.parse(),
		})
	}

	return events, nil
}

// parse resolves a feed timestamp. Date-only values become local midnight;
// anything unparsable yields the zero time, which the classifier treats as
// "no timing information".
func (t feedTime) parse() time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
		return time.Time{}
	}
	if t.Date != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", t.Date, time.Local); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// doRequest performs a GET with linear-backoff retry on transport errors and
// server errors.
func (c *Client) doRequest(ctx context.Context, urlStr string) (*http.Response, error) {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		} else if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		} else {
			return resp, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelayBase * time.Duration(i+1)):
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
