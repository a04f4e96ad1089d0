package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendcal/spendcal/internal/forecast"
	"github.com/spendcal/spendcal/internal/models"
)

// BuildNotifications derives the notification feed from the upcoming window:
// today/tomorrow digests, a high-spending alert, a busy-weekend note, and an
// academic-schedule note. The result is sorted by priority, highest first.
func BuildNotifications(events []models.AnalyzedEvent, now time.Time) []models.Notification {
	notifications := []models.Notification{}

	var todayTitles, tomorrowTitles []string
	var alertEvents []models.AnalyzedEvent
	weekendCount := 0
	academicCount := 0

	for _, ae := range events {
		start := ae.Event.Start
		if sameDay(start, now) {
			todayTitles = append(todayTitles, ae.Event.Title)
		}
		if sameDay(start, now.AddDate(0, 0, 1)) {
			tomorrowTitles = append(tomorrowTitles, ae.Event.Title)
		}
		if ae.Analysis.SpendingProbability > alertProbability {
			alertEvents = append(alertEvents, ae)
		}
		if isWeekend(start) {
			weekendCount++
		}
		if ae.Analysis.Category == models.CategoryCollegeClasses {
			academicCount++
		}
	}

	if len(todayTitles) > 0 {
		notifications = append(notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      "info",
			Title:     fmt.Sprintf("You have %d event%s today", len(todayTitles), plural(len(todayTitles))),
			Message:   strings.Join(todayTitles, ", "),
			Priority:  "high",
			Timestamp: now,
		})
	}

	if len(tomorrowTitles) > 0 {
		notifications = append(notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      "info",
			Title:     fmt.Sprintf("You have %d event%s tomorrow", len(tomorrowTitles), plural(len(tomorrowTitles))),
			Message:   strings.Join(tomorrowTitles, ", "),
			Priority:  "medium",
			Timestamp: now,
		})
	}

	if len(alertEvents) > 0 {
		totalPredicted := 0.0
		for _, ae := range alertEvents {
			totalPredicted += forecast.PredictedSpending(ae.Analysis)
		}
		notifications = append(notifications, models.Notification{
			ID:    uuid.New().String(),
			Type:  "warning",
			Title: "High Spending Events Ahead",
			Message: fmt.Sprintf("You have %d events with high spending probability. Total predicted: $%.2f",
				len(alertEvents), totalPredicted),
			Priority:  "high",
			Timestamp: now,
		})
	}

	if weekendCount > 3 {
		notifications = append(notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      "info",
			Title:     "Busy Weekend Ahead",
			Message:   fmt.Sprintf("You have %d weekend events. Plan your budget accordingly.", weekendCount),
			Priority:  "medium",
			Timestamp: now,
		})
	}

	if academicCount > 0 {
		notifications = append(notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      "success",
			Title:     "Academic Schedule",
			Message:   fmt.Sprintf("You have %d academic events this week. Low spending expected.", academicCount),
			Priority:  "low",
			Timestamp: now,
		})
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return priorityRank(notifications[i].Priority) > priorityRank(notifications[j].Priority)
	})

	return notifications
}

func priorityRank(priority string) int {
	switch priority {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
