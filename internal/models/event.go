// Package models defines the core domain entities for the spendcal application.
// These models represent synced calendar events, per-event spending analyses,
// and the derived forecast structures served by the API and notifier.
//
// Terminology:
//   - Event: a single calendar entry (title, description, location, start/end).
//   - Analysis: the classifier's spending prediction for one event.
//   - Forecast: aggregate predictions over a window of analyzed events.
package models

import (
	"errors"
	"time"
)

// CalendarEvent is a raw event record from the calendar feed. Title,
// description, and location may be empty; start and end may be zero when the
// feed entry carried an unparsable timestamp. The classifier accepts any
// CalendarEvent and never fails on missing fields.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Validate checks the invariants required before an event is persisted.
// It is intentionally lenient about text fields: the feed routinely delivers
// events with no description or location.
func (e *CalendarEvent) Validate() error {
	if e.ID == "" {
		return errors.New("event ID must not be empty")
	}
	if !e.Start.IsZero() && !e.End.IsZero() && e.End.Before(e.Start) {
		return errors.New("event end must not precede start")
	}
	return nil
}

// AllDay reports whether the event spans whole days (midnight-to-midnight).
func (e *CalendarEvent) AllDay() bool {
	if e.Start.IsZero() || e.End.IsZero() {
		return false
	}
	h1, m1, s1 := e.Start.Clock()
	h2, m2, s2 := e.End.Clock()
	return h1 == 0 && m1 == 0 && s1 == 0 && h2 == 0 && m2 == 0 && s2 == 0
}

// AnalyzedEvent pairs a calendar event with its spending analysis. This is
// the unit the forecast engine consumes.
type AnalyzedEvent struct {
	Event    CalendarEvent `json:"event"`
	Analysis EventAnalysis `json:"analysis"`
}
