package forecast

import (
	"fmt"

	"github.com/spendcal/spendcal/internal/models"
)

// Risk scoring thresholds. Each triggered factor adds (or for the academic
// offset, subtracts) a fixed amount; the sum is clamped to [0, 100].
const (
	riskHighEventCount      = 5    // more than this many high-probability events
	riskWeekendShare        = 0.6  // weekend spending above this share of total
	riskEveningShare        = 0.5  // evening spending above this share of total
	riskTotalSpendingLimit  = 1000 // total predicted spending above this
	riskAcademicShare       = 0.3  // College Classes events above this share of all events
	riskHighLevelBoundary   = 70
	riskMediumLevelBoundary = 40
)

// AssessRisk scores the spending-pattern risk for a window of analyzed
// events. The academic offset is the only negative factor: a schedule
// dominated by classes predicts little discretionary spending.
func AssessRisk(events []models.AnalyzedEvent, analysis models.SpendingAnalysis) models.RiskAssessment {
	risk := models.RiskAssessment{
		Level:    models.RiskLow,
		Factors:  []string{},
		Warnings: []string{},
	}

	score := 0

	if analysis.HighSpendingEvents > riskHighEventCount {
		score += 30
		risk.Factors = append(risk.Factors, fmt.Sprintf("High number of expensive events (%d)", analysis.HighSpendingEvents))
	}

	if analysis.TimeBreakdown.Weekend > analysis.TotalPredictedSpending*riskWeekendShare {
		score += 20
		risk.Factors = append(risk.Factors, "High weekend spending pattern")
	}

	if analysis.TimeBreakdown.Evening > analysis.TotalPredictedSpending*riskEveningShare {
		score += 15
		risk.Factors = append(risk.Factors, "High evening spending pattern")
	}

	if analysis.TotalPredictedSpending > riskTotalSpendingLimit {
		score += 25
		risk.Factors = append(risk.Factors, "High total predicted spending")
	}

	academic := 0
	for _, ae := range events {
		if ae.Analysis.Category == models.CategoryCollegeClasses {
			academic++
		}
	}
	if float64(academic) > float64(len(events))*riskAcademicShare {
		score -= 20
		risk.Factors = append(risk.Factors, "High proportion of academic events (low spending)")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	risk.Score = score

	switch {
	case score >= riskHighLevelBoundary:
		risk.Level = models.RiskHigh
		risk.Warnings = append(risk.Warnings,
			"Consider reviewing your spending plans",
			"Set aside emergency funds")
	case score >= riskMediumLevelBoundary:
		risk.Level = models.RiskMedium
		risk.Warnings = append(risk.Warnings, "Monitor your spending closely")
	default:
		risk.Level = models.RiskLow
		risk.Warnings = append(risk.Warnings, "Your spending looks well-managed")
	}

	return risk
}
