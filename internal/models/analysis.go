package models

import (
	"errors"
	"time"
)

// Category labels an event's likely spending domain. The set is closed:
// every analysis carries exactly one of the ten values below.
type Category string

const (
	CategoryDiningSocial            Category = "Dining & Social"
	CategoryTravelTransport         Category = "Travel & Transportation"
	CategoryShoppingRetail          Category = "Shopping & Retail"
	CategoryEntertainmentRecreation Category = "Entertainment & Recreation"
	CategoryHealthMedical           Category = "Health & Medical"
	CategoryEducationTraining       Category = "Education & Training"
	CategoryCollegeClasses          Category = "College Classes"
	CategoryWorkBusiness            Category = "Work & Business"
	CategoryPersonalSocial          Category = "Personal & Social"
	CategoryOther                   Category = "Other"
)

// Categories returns all valid category labels.
func Categories() []Category {
	return []Category{
		CategoryDiningSocial,
		CategoryTravelTransport,
		CategoryShoppingRetail,
		CategoryEntertainmentRecreation,
		CategoryHealthMedical,
		CategoryEducationTraining,
		CategoryCollegeClasses,
		CategoryWorkBusiness,
		CategoryPersonalSocial,
		CategoryOther,
	}
}

// Valid reports whether c is one of the closed category labels.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// SpendingRange is a heuristic [min, max] dollar bound for one event's
// potential transaction.
type SpendingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the center of the range, the point estimate used by the
// forecast engine.
func (r SpendingRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// EventAnalysis is the classifier's output for a single event.
//
// SpendingProbability may exceed 1.0: the weekend and evening multipliers
// compose without clamping, and downstream threshold checks tolerate values
// above 1. Confidence stays within [0, 1].
type EventAnalysis struct {
	Category            Category      `json:"category"`
	SpendingProbability float64       `json:"spending_probability"`
	ExpectedRange       SpendingRange `json:"expected_spending_range"`
	SpendingCategories  []string      `json:"spending_categories"`
	Confidence          float64       `json:"confidence"`
	MatchedKeywords     []string      `json:"matched_keywords"`
}

// Validate checks the invariants required before an analysis is persisted.
func (a *EventAnalysis) Validate() error {
	if !a.Category.Valid() {
		return errors.New("unknown category label")
	}
	if a.SpendingProbability < 0 {
		return errors.New("spending probability must not be negative")
	}
	if a.ExpectedRange.Min < 0 || a.ExpectedRange.Max < 0 {
		return errors.New("spending range bounds must not be negative")
	}
	if a.ExpectedRange.Min > a.ExpectedRange.Max {
		return errors.New("spending range min must not exceed max")
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return errors.New("confidence must be between 0.0 and 1.0")
	}
	return nil
}

// TimeBreakdown accumulates predicted spending by time of day. Weekend is an
// orthogonal accumulator: a Saturday evening event contributes to both
// Evening and Weekend.
type TimeBreakdown struct {
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Evening   float64 `json:"evening"`
	Weekend   float64 `json:"weekend"`
}

// SpendingAnalysis is the aggregate of predicted spending over a batch of
// analyzed events. It is recomputed per request and never persisted.
type SpendingAnalysis struct {
	TotalPredictedSpending float64              `json:"total_predicted_spending"`
	HighSpendingEvents     int                  `json:"high_spending_events"`
	LowSpendingEvents      int                  `json:"low_spending_events"`
	CategoryBreakdown      map[Category]float64 `json:"category_breakdown"`
	TimeBreakdown          TimeBreakdown        `json:"time_breakdown"`
	DailyPattern           map[string]float64   `json:"daily_pattern"` // keyed by YYYY-MM-DD
}

// CategoryPrediction is one entry of the per-category forecast, annotated
// with its share of the total.
type CategoryPrediction struct {
	Category   Category `json:"category"`
	Amount     float64  `json:"amount"`
	Percentage float64  `json:"percentage"`
}

// Predictions is the forecast derived from a SpendingAnalysis over a window.
type Predictions struct {
	TotalSpending       float64              `json:"total_spending"`
	DailyAverage        float64              `json:"daily_average"`
	WeeklyAverage       float64              `json:"weekly_average"`
	PeakSpendingDay     string               `json:"peak_spending_day,omitempty"`
	PeakSpendingAmount  float64              `json:"peak_spending_amount"`
	LowSpendingDays     []string             `json:"low_spending_days"`
	CategoryPredictions []CategoryPrediction `json:"category_predictions"`
}

// RiskLevel summarizes the risk score into three bands.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the composite risk summary for a forecast window.
// Score is clamped to [0, 100].
type RiskAssessment struct {
	Level    RiskLevel `json:"level"`
	Score    int       `json:"score"`
	Factors  []string  `json:"factors"`
	Warnings []string  `json:"warnings"`
}

// Recommendation is a human-readable advisory derived from the forecast.
type Recommendation struct {
	Type     string `json:"type"` // warning, info, success
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"` // high, medium, low
}

// Notification is a dated advisory for the notification feed and the
// Telegram digest.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Timestamp time.Time `json:"timestamp"`
}

// EventRef is a lightweight pointer to an event inside an insight advisory.
type EventRef struct {
	Title string    `json:"title"`
	Start time.Time `json:"date"`
}

// InsightAdvisory is an advisory with example events attached, as produced
// by the insights summary.
type InsightAdvisory struct {
	Type    string     `json:"type"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Events  []EventRef `json:"events,omitempty"`
}

// CategoryAmount is a category with its predicted spending total.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// SpendingPredictionSummary is the spending slice of the insights report.
type SpendingPredictionSummary struct {
	TotalPredictedSpending float64            `json:"total_predicted_spending"`
	HighSpendingEvents     int                `json:"high_spending_events"`
	DailyBreakdown         map[string]float64 `json:"daily_breakdown"`
	TopSpendingCategories  []CategoryAmount   `json:"top_spending_categories"`
}

// TimeAnalysis counts events by time of day. Weekend is orthogonal to the
// hour buckets, mirroring TimeBreakdown.
type TimeAnalysis struct {
	MorningEvents   int `json:"morning_events"`
	AfternoonEvents int `json:"afternoon_events"`
	EveningEvents   int `json:"evening_events"`
	WeekendEvents   int `json:"weekend_events"`
}

// Insights is the calendar overview report: event counts, category mix,
// spending predictions, and time-of-day patterns over a window.
type Insights struct {
	TotalEvents         int                       `json:"total_events"`
	UpcomingEvents      int                       `json:"upcoming_events"`
	TodayEvents         int                       `json:"today_events"`
	TomorrowEvents      int                       `json:"tomorrow_events"`
	Categories          map[Category]int          `json:"categories"`
	SpendingPredictions SpendingPredictionSummary `json:"spending_predictions"`
	TimeAnalysis        TimeAnalysis              `json:"time_analysis"`
	Recommendations     []InsightAdvisory         `json:"recommendations"`
}
