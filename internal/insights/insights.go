// Package insights builds the calendar overview report and the notification
// digest: event counts, category mix, spending predictions, and dated
// advisories derived from a window of analyzed events. Like the forecast
// engine it is pure computation, recomputed per request.
package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/spendcal/spendcal/internal/forecast"
	"github.com/spendcal/spendcal/internal/models"
)

const (
	// Probability above which an event counts as near-certain spending for
	// advisory purposes. Deliberately stricter than the forecast engine's
	// 0.7 high-spending threshold.
	alertProbability = 0.8

	maxAdvisoryEventRefs = 3
)

// Summarize computes the calendar insight report for a batch of analyzed
// events. now anchors the today/tomorrow/upcoming counts.
func Summarize(events []models.AnalyzedEvent, now time.Time) models.Insights {
	report := models.Insights{
		TotalEvents: len(events),
		Categories:  make(map[models.Category]int),
		SpendingPredictions: models.SpendingPredictionSummary{
			DailyBreakdown:        make(map[string]float64),
			TopSpendingCategories: []models.CategoryAmount{},
		},
		Recommendations: []models.InsightAdvisory{},
	}

	categoryTotals := make(map[models.Category]float64)

	for _, ae := range events {
		start := ae.Event.Start

		if start.After(now) {
			report.UpcomingEvents++
		}
		if sameDay(start, now) {
			report.TodayEvents++
		}
		if sameDay(start, now.AddDate(0, 0, 1)) {
			report.TomorrowEvents++
		}

		category := ae.Analysis.Category
		if category == "" {
			category = models.CategoryOther
		}
		report.Categories[category]++

		if ae.Analysis.SpendingProbability > 0 {
			predicted := forecast.PredictedSpending(ae.Analysis)
			report.SpendingPredictions.TotalPredictedSpending += predicted
			categoryTotals[category] += predicted
			if !start.IsZero() {
				report.SpendingPredictions.DailyBreakdown[start.Format("2006-01-02")] += predicted
			}
		}
		if ae.Analysis.SpendingProbability > 0.7 {
			report.SpendingPredictions.HighSpendingEvents++
		}

		hour := start.Hour()
		switch {
		case hour >= 6 && hour < 12:
			report.TimeAnalysis.MorningEvents++
		case hour >= 12 && hour < 18:
			report.TimeAnalysis.AfternoonEvents++
		default:
			report.TimeAnalysis.EveningEvents++
		}
		if isWeekend(start) {
			report.TimeAnalysis.WeekendEvents++
		}
	}

	report.SpendingPredictions.TopSpendingCategories = topCategories(categoryTotals, 5)
	report.Recommendations = buildAdvisories(events)

	return report
}

// topCategories returns the k largest spending categories, largest first.
// Equal amounts order by category name so the result is deterministic.
func topCategories(totals map[models.Category]float64, k int) []models.CategoryAmount {
	ranked := make([]models.CategoryAmount, 0, len(totals))
	for category, amount := range totals {
		ranked = append(ranked, models.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// buildAdvisories derives the event-count advisories shown on the insights
// page. Each rule is independent.
func buildAdvisories(events []models.AnalyzedEvent) []models.InsightAdvisory {
	advisories := []models.InsightAdvisory{}

	var alertEvents, weekendEvents, academicEvents []models.AnalyzedEvent
	for _, ae := range events {
		if ae.Analysis.SpendingProbability > alertProbability {
			alertEvents = append(alertEvents, ae)
		}
		if isWeekend(ae.Event.Start) {
			weekendEvents = append(weekendEvents, ae)
		}
		if ae.Analysis.Category == models.CategoryCollegeClasses {
			academicEvents = append(academicEvents, ae)
		}
	}

	if len(alertEvents) > 0 {
		advisories = append(advisories, models.InsightAdvisory{
			Type:    "warning",
			Title:   "High Spending Events Ahead",
			Message: fmt.Sprintf("You have %d events with high spending probability. Consider setting aside budget.", len(alertEvents)),
			Events:  eventRefs(alertEvents),
		})
	}

	if len(weekendEvents) > 5 {
		advisories = append(advisories, models.InsightAdvisory{
			Type:    "info",
			Title:   "Busy Weekends",
			Message: fmt.Sprintf("You have %d weekend events. Plan your budget accordingly.", len(weekendEvents)),
			Events:  eventRefs(weekendEvents),
		})
	}

	if len(academicEvents) > 0 {
		advisories = append(advisories, models.InsightAdvisory{
			Type:    "success",
			Title:   "Academic Schedule",
			Message: fmt.Sprintf("You have %d academic events. Low spending expected.", len(academicEvents)),
			Events:  eventRefs(academicEvents),
		})
	}

	return advisories
}

func eventRefs(events []models.AnalyzedEvent) []models.EventRef {
	refs := make([]models.EventRef, 0, maxAdvisoryEventRefs)
	for _, ae := range events {
		if len(refs) == maxAdvisoryEventRefs {
			break
		}
		refs = append(refs, models.EventRef{Title: ae.Event.Title, Start: ae.Event.Start})
	}
	return refs
}

func sameDay(t, ref time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}
