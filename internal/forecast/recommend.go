package forecast

import (
	"fmt"

	"github.com/spendcal/spendcal/internal/models"
)

// Recommend maps the aggregate and risk assessment to advisory messages.
// Each rule fires independently and the output order is fixed; consumers may
// re-sort by priority. No new computation happens here beyond the threshold
// checks.
func Recommend(events []models.AnalyzedEvent, analysis models.SpendingAnalysis, risk models.RiskAssessment) []models.Recommendation {
	recommendations := []models.Recommendation{}

	if analysis.HighSpendingEvents > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:  "warning",
			Title: "High Spending Events Detected",
			Message: fmt.Sprintf(
				"You have %d events with high spending probability. Consider setting aside $%.2f for these events.",
				analysis.HighSpendingEvents, analysis.TotalPredictedSpending*0.8),
			Priority: "high",
		})
	}

	if analysis.TimeBreakdown.Weekend > analysis.TotalPredictedSpending*0.5 {
		weekendPct := analysis.TimeBreakdown.Weekend / analysis.TotalPredictedSpending * 100
		recommendations = append(recommendations, models.Recommendation{
			Type:     "info",
			Title:    "Weekend Spending Pattern",
			Message:  fmt.Sprintf("%.1f%% of your spending is on weekends. Plan accordingly.", weekendPct),
			Priority: "medium",
		})
	}

	if analysis.TotalPredictedSpending > 500 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     "success",
			Title:    "Budget Planning",
			Message:  fmt.Sprintf("Set aside $%.2f per week to cover your predicted expenses.", analysis.TotalPredictedSpending/4),
			Priority: "medium",
		})
	}

	if risk.Level == models.RiskLow {
		recommendations = append(recommendations, models.Recommendation{
			Type:     "success",
			Title:    "Great Financial Planning!",
			Message:  "Your spending patterns look well-managed. Keep up the good work!",
			Priority: "low",
		})
	}

	return recommendations
}
