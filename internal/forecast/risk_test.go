package forecast

import (
	"strings"
	"testing"
	"time"

	"github.com/spendcal/spendcal/internal/models"
)

func TestAssessRiskMediumFromCountAndTotal(t *testing.T) {
	// Six high-probability weekday-morning events totaling $1200:
	// 30 (count > 5) + 25 (total > 1000) = 55, medium.
	var events []models.AnalyzedEvent
	for i := 0; i < 6; i++ {
		start := monday.AddDate(0, 0, i%5).Add(9 * time.Hour)
		events = append(events, event("e"+string(rune('a'+i)), start, 0.8, 250, 250, models.CategoryShoppingRetail))
	}

	analysis := Analyze(events)
	if !approx(analysis.TotalPredictedSpending, 1200) {
		t.Fatalf("setup: expected total 1200, got %v", analysis.TotalPredictedSpending)
	}

	risk := AssessRisk(events, analysis)

	if risk.Score != 55 {
		t.Errorf("expected score 55, got %d", risk.Score)
	}
	if risk.Level != models.RiskMedium {
		t.Errorf("expected medium, got %q", risk.Level)
	}
	if len(risk.Factors) != 2 {
		t.Fatalf("expected 2 factors, got %v", risk.Factors)
	}
	if risk.Factors[0] != "High number of expensive events (6)" {
		t.Errorf("unexpected factor: %q", risk.Factors[0])
	}
	if risk.Factors[1] != "High total predicted spending" {
		t.Errorf("unexpected factor: %q", risk.Factors[1])
	}
	if len(risk.Warnings) != 1 || risk.Warnings[0] != "Monitor your spending closely" {
		t.Errorf("unexpected warnings: %v", risk.Warnings)
	}
}

func TestAssessRiskHigh(t *testing.T) {
	// Six high-probability Saturday-evening events: all four positive factors
	// fire (30+20+15+25 = 90).
	var events []models.AnalyzedEvent
	for i := 0; i < 6; i++ {
		events = append(events, event("e"+string(rune('a'+i)), saturday.Add(20*time.Hour), 0.9, 250, 250, models.CategoryDiningSocial))
	}

	analysis := Analyze(events)
	risk := AssessRisk(events, analysis)

	if risk.Score != 90 {
		t.Errorf("expected score 90, got %d", risk.Score)
	}
	if risk.Level != models.RiskHigh {
		t.Errorf("expected high, got %q", risk.Level)
	}
	if len(risk.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", risk.Warnings)
	}
}

func TestAssessRiskLowEmpty(t *testing.T) {
	risk := AssessRisk(nil, Analyze(nil))

	if risk.Score != 0 {
		t.Errorf("expected score 0, got %d", risk.Score)
	}
	if risk.Level != models.RiskLow {
		t.Errorf("expected low, got %q", risk.Level)
	}
	if len(risk.Warnings) != 1 || risk.Warnings[0] != "Your spending looks well-managed" {
		t.Errorf("unexpected warnings: %v", risk.Warnings)
	}
}

func TestAssessRiskAcademicOffsetClampsAtZero(t *testing.T) {
	// All events academic: the -20 offset would push the score negative.
	var events []models.AnalyzedEvent
	for i := 0; i < 4; i++ {
		events = append(events, event("e"+string(rune('a'+i)), monday.Add(9*time.Hour), 0.2, 0, 100, models.CategoryCollegeClasses))
	}

	analysis := Analyze(events)
	risk := AssessRisk(events, analysis)

	if risk.Score != 0 {
		t.Errorf("expected clamped score 0, got %d", risk.Score)
	}
	if risk.Level != models.RiskLow {
		t.Errorf("expected low, got %q", risk.Level)
	}
	found := false
	for _, factor := range risk.Factors {
		if strings.Contains(factor, "academic") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected academic factor, got %v", risk.Factors)
	}
}

func TestRecommendHighSpending(t *testing.T) {
	events := []models.AnalyzedEvent{
		event("e1", monday.Add(9*time.Hour), 0.9, 100, 100, models.CategoryDiningSocial),
	}
	analysis := Analyze(events)
	risk := AssessRisk(events, analysis)

	recommendations := Recommend(events, analysis, risk)

	var warning *models.Recommendation
	for i := range recommendations {
		if recommendations[i].Type == "warning" {
			warning = &recommendations[i]
		}
	}
	if warning == nil {
		t.Fatalf("expected a warning recommendation, got %v", recommendations)
	}
	if warning.Title != "High Spending Events Detected" {
		t.Errorf("unexpected title: %q", warning.Title)
	}
	// 0.8 of the $90 total.
	if !strings.Contains(warning.Message, "$72.00") {
		t.Errorf("expected $72.00 in message, got %q", warning.Message)
	}
	if warning.Priority != "high" {
		t.Errorf("expected high priority, got %q", warning.Priority)
	}
}

func TestRecommendWeekendPattern(t *testing.T) {
	events := []models.AnalyzedEvent{
		event("e1", saturday.Add(10*time.Hour), 0.6, 100, 100, models.CategoryDiningSocial),
		event("e2", monday.Add(10*time.Hour), 0.4, 50, 50, models.CategoryDiningSocial),
	}
	analysis := Analyze(events)
	risk := AssessRisk(events, analysis)

	recommendations := Recommend(events, analysis, risk)

	var weekend *models.Recommendation
	for i := range recommendations {
		if recommendations[i].Title == "Weekend Spending Pattern" {
			weekend = &recommendations[i]
		}
	}
	if weekend == nil {
		t.Fatalf("expected weekend recommendation, got %v", recommendations)
	}
	// 60 of 80 total = 75.0%.
	if !strings.Contains(weekend.Message, "75.0%") {
		t.Errorf("expected 75.0%% in message, got %q", weekend.Message)
	}
}

func TestRecommendBudgetPlanningAndLowRisk(t *testing.T) {
	// A single low-probability event: no high-spending warning, total below
	// the budget-planning bar, low risk.
	events := []models.AnalyzedEvent{
		event("e1", monday.Add(10*time.Hour), 0.3, 50, 50, models.CategoryWorkBusiness),
	}
	analysis := Analyze(events)
	risk := AssessRisk(events, analysis)

	recommendations := Recommend(events, analysis, risk)

	if len(recommendations) != 1 {
		t.Fatalf("expected only the low-risk recommendation, got %v", recommendations)
	}
	if recommendations[0].Title != "Great Financial Planning!" {
		t.Errorf("unexpected title: %q", recommendations[0].Title)
	}
	if recommendations[0].Priority != "low" {
		t.Errorf("expected low priority, got %q", recommendations[0].Priority)
	}
}
