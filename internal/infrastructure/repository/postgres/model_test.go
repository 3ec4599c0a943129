package postgres

import (
	"testing"
	"time"

	"github.com/goalsight/matchaudit/internal/domain/report"
)

func TestMatchTableModel_DerivesTotals(t *testing.T) {
	row := matchTableModel{
		ID:          "m-1",
		HomeGoals:   2,
		AwayGoals:   1,
		HomeCards:   3,
		AwayCards:   2,
		HomeCorners: 6,
		AwayCorners: 4,
	}

	got := row.toDomain()

	if got.TotalGoals != 3 {
		t.Fatalf("unexpected total goals: got=%d want=%d", got.TotalGoals, 3)
	}
	if got.TotalCards != 5 {
		t.Fatalf("unexpected total cards: got=%d want=%d", got.TotalCards, 5)
	}
	if got.TotalCorners != 10 {
		t.Fatalf("unexpected total corners: got=%d want=%d", got.TotalCorners, 10)
	}
}

func TestReportModel_EncodesIssueColumns(t *testing.T) {
	generatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rep := report.Report{
		RunID:         "run-1",
		FixtureID:     "fx-1",
		Issues:        []report.Issue{report.NewIssue(report.KindCalculationError, "corners", "stated average diverges")},
		AccuracyScore: 97,
		SectionScores: map[string]float64{"corners": 90},
		GeneratedAt:   generatedAt,
	}

	insertModel, err := reportInsertModelFrom(rep)
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}
	if insertModel.Issues == "" || insertModel.SectionScores == "" {
		t.Fatalf("expected encoded JSON columns, got issues=%q sections=%q", insertModel.Issues, insertModel.SectionScores)
	}

	row := reportTableModel{
		RunID:         insertModel.RunID,
		FixtureID:     insertModel.FixtureID,
		AccuracyScore: insertModel.AccuracyScore,
		SectionScores: insertModel.SectionScores,
		Issues:        insertModel.Issues,
		GeneratedAt:   insertModel.GeneratedAt,
	}
	got, err := row.toDomain()
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}

	if len(got.Issues) != 1 {
		t.Fatalf("unexpected issue count: got=%d want=%d", len(got.Issues), 1)
	}
	if got.Issues[0].Kind != report.KindCalculationError {
		t.Fatalf("unexpected issue kind: %s", got.Issues[0].Kind)
	}
	if got.Issues[0].Severity != report.SeverityCritical {
		t.Fatalf("unexpected issue severity: %s", got.Issues[0].Severity)
	}
	if got.SectionScores["corners"] != 90 {
		t.Fatalf("unexpected section score: %v", got.SectionScores["corners"])
	}
	if !got.GeneratedAt.Equal(generatedAt) {
		t.Fatalf("unexpected generated_at: %s", got.GeneratedAt)
	}
}

func TestReportModel_EmptySlicesEncodeAsJSON(t *testing.T) {
	insertModel, err := reportInsertModelFrom(report.Report{RunID: "run-2"})
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}
	if insertModel.Issues != "[]" {
		t.Fatalf("expected empty issues array, got %q", insertModel.Issues)
	}
	if insertModel.SectionScores != "{}" {
		t.Fatalf("expected empty section scores object, got %q", insertModel.SectionScores)
	}
}
