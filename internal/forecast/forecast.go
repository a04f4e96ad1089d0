// Package forecast aggregates classified events into spending predictions,
// a risk assessment, and budgeting recommendations. Every function is a pure
// computation over its inputs: results are recomputed per request and never
// cached or persisted here.
package forecast

import (
	"sort"
	"time"

	"github.com/spendcal/spendcal/internal/models"
)

// Timeframe selects the forecast window.
type Timeframe string

const (
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
)

// ParseTimeframe maps a query string to a Timeframe, defaulting to week.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case TimeframeMonth:
		return TimeframeMonth
	case TimeframeQuarter:
		return TimeframeQuarter
	default:
		return TimeframeWeek
	}
}

// Days returns the window length in days.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeMonth:
		return 30
	case TimeframeQuarter:
		return 90
	default:
		return 7
	}
}

// Weeks returns the window length in whole weeks, as used for the weekly
// average (a quarter counts as 13).
func (t Timeframe) Weeks() int {
	switch t {
	case TimeframeMonth:
		return 4
	case TimeframeQuarter:
		return 13
	default:
		return 1
	}
}

// dateKey formats an event start into the per-day accumulator key.
const dateKeyLayout = "2006-01-02"

// PredictedSpending is the point estimate for one analyzed event: the range
// midpoint weighted by the spending probability.
func PredictedSpending(a models.EventAnalysis) float64 {
	return a.ExpectedRange.Midpoint() * a.SpendingProbability
}

// Analyze accumulates predicted spending over a batch of analyzed events.
// Events with zero spending probability contribute nothing and are skipped
// entirely, including the high/low counters.
func Analyze(events []models.AnalyzedEvent) models.SpendingAnalysis {
	analysis := models.SpendingAnalysis{
		CategoryBreakdown: make(map[models.Category]float64),
		DailyPattern:      make(map[string]float64),
	}

	for _, ae := range events {
		if ae.Analysis.SpendingProbability == 0 {
			continue
		}
		predicted := PredictedSpending(ae.Analysis)

		analysis.TotalPredictedSpending += predicted

		if ae.Analysis.SpendingProbability > 0.7 {
			analysis.HighSpendingEvents++
		} else {
			analysis.LowSpendingEvents++
		}

		category := ae.Analysis.Category
		if category == "" {
			category = models.CategoryOther
		}
		analysis.CategoryBreakdown[category] += predicted

		hour := ae.Event.Start.Hour()
		switch {
		case hour >= 6 && hour < 12:
			analysis.TimeBreakdown.Morning += predicted
		case hour >= 12 && hour < 18:
			analysis.TimeBreakdown.Afternoon += predicted
		default:
			analysis.TimeBreakdown.Evening += predicted
		}

		// Weekend is orthogonal to the hour buckets.
		if isWeekend(ae.Event.Start) {
			analysis.TimeBreakdown.Weekend += predicted
		}

		// Events with no usable start time have no calendar day to attribute
		// the spending to.
		if !ae.Event.Start.IsZero() {
			analysis.DailyPattern[ae.Event.Start.Format(dateKeyLayout)] += predicted
		}
	}

	return analysis
}

// Predict derives the window-level forecast from an aggregate. Peak-day ties
// resolve to the earliest date; category ties keep table order via a stable
// sort over the sorted category names.
func Predict(analysis models.SpendingAnalysis, timeframe Timeframe) models.Predictions {
	predictions := models.Predictions{
		TotalSpending:   analysis.TotalPredictedSpending,
		DailyAverage:    analysis.TotalPredictedSpending / float64(timeframe.Days()),
		WeeklyAverage:   analysis.TotalPredictedSpending / float64(timeframe.Weeks()),
		LowSpendingDays: []string{},
	}

	// Go maps iterate in random order; walk the dates sorted so the peak-day
	// tie break (earliest date wins) is deterministic.
	dates := make([]string, 0, len(analysis.DailyPattern))
	for date := range analysis.DailyPattern {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		if amount := analysis.DailyPattern[date]; amount > predictions.PeakSpendingAmount {
			predictions.PeakSpendingAmount = amount
			predictions.PeakSpendingDay = date
		}
	}
	for _, date := range dates {
		if analysis.DailyPattern[date] < predictions.PeakSpendingAmount*0.2 {
			predictions.LowSpendingDays = append(predictions.LowSpendingDays, date)
		}
	}

	total := analysis.TotalPredictedSpending
	categories := make([]models.Category, 0, len(analysis.CategoryBreakdown))
	for category := range analysis.CategoryBreakdown {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	predictions.CategoryPredictions = make([]models.CategoryPrediction, 0, len(categories))
	for _, category := range categories {
		amount := analysis.CategoryBreakdown[category]
		percentage := 0.0
		if total > 0 {
			percentage = amount / total * 100
		}
		predictions.CategoryPredictions = append(predictions.CategoryPredictions, models.CategoryPrediction{
			Category:   category,
			Amount:     amount,
			Percentage: percentage,
		})
	}
	sort.SliceStable(predictions.CategoryPredictions, func(i, j int) bool {
		return predictions.CategoryPredictions[i].Amount > predictions.CategoryPredictions[j].Amount
	})

	return predictions
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}
