// Package classify implements the rule-based event spending classifier: it
// maps a raw calendar event to a category label and a probabilistic spending
// prediction. Classification is deterministic given a fixed pattern table and
// does no I/O.
package classify

import (
	"strings"
	"time"

	"github.com/spendcal/spendcal/internal/models"
)

// Classifier matches event text against an immutable category table.
// Safe for concurrent use: it holds no mutable state.
type Classifier struct {
	patterns []Pattern
}

// New creates a Classifier over the given pattern table. A nil table selects
// DefaultPatterns.
func New(patterns []Pattern) *Classifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Classifier{patterns: patterns}
}

// Classify analyzes a single event. It is total: every event yields an
// analysis, with Other/0.1 as the fallback when nothing matches.
//
// Keyword matching is case-sensitive against the raw title and description
// (only the location is lowercased), while course-code detection uppercases
// its input. Both behaviors are part of the contract.
func (c *Classifier) Classify(event models.CalendarEvent) models.EventAnalysis {
	text := event.Title + " " + event.Description + " " + strings.ToLower(event.Location)

	// Course codes take strict priority over keyword matching. The short
	// circuit also skips the timing adjustments: a Saturday study session is
	// still a class.
	if DetectCourseCode(event.Title) || DetectCourseCode(event.Description) {
		return models.EventAnalysis{
			Category:            models.CategoryCollegeClasses,
			SpendingProbability: 0.2,
			ExpectedRange:       models.SpendingRange{Min: 0, Max: 100},
			SpendingCategories:  []string{"Education"},
			Confidence:          0.98,
			MatchedKeywords:     []string{"college class code detected"},
		}
	}

	best := models.EventAnalysis{
		Category:            models.CategoryOther,
		SpendingProbability: 0.1,
		ExpectedRange:       models.SpendingRange{},
		SpendingCategories:  []string{},
		Confidence:          0.1,
		MatchedKeywords:     []string{},
	}

	for _, pattern := range c.patterns {
		var matched []string
		for _, keyword := range pattern.Keywords {
			if strings.Contains(text, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) == 0 {
			continue
		}

		score := float64(len(matched)) / float64(len(pattern.Keywords))
		// Strictly greater: on equal confidence the earlier table entry wins.
		if pattern.Confidence*score > best.Confidence {
			best = models.EventAnalysis{
				Category:            pattern.Category,
				SpendingProbability: pattern.SpendingProbability,
				ExpectedRange:       pattern.ExpectedRange,
				SpendingCategories:  append([]string(nil), pattern.SpendingCategories...),
				Confidence:          pattern.Confidence * score,
				MatchedKeywords:     matched,
			}
		}
	}

	return adjustForTiming(best, event)
}

// adjustForTiming applies the duration, weekend, and evening multipliers.
// The multipliers compose and the probability is deliberately not clamped
// back to [0, 1]; downstream threshold checks tolerate values above 1.
// Events with zero timestamps skip the adjustments that need them.
func adjustForTiming(analysis models.EventAnalysis, event models.CalendarEvent) models.EventAnalysis {
	// Longer events tend to cost more.
	if !event.Start.IsZero() && !event.End.IsZero() {
		if event.End.Sub(event.Start).Hours() > 4 {
			analysis.ExpectedRange.Max *= 1.5
		}
	}

	if !event.Start.IsZero() {
		switch event.Start.Weekday() {
		case time.Saturday, time.Sunday:
			analysis.SpendingProbability *= 1.2
			analysis.ExpectedRange.Max *= 1.3
		}

		hour := event.Start.Hour()
		if hour >= 18 || hour <= 6 {
			analysis.SpendingProbability *= 1.1
		}
	}

	return analysis
}
