package memory

import (
	"context"
	"testing"
	"time"

	"github.com/goalsight/matchaudit/internal/domain/report"
)

func TestReportRepository_ListByFixtureOrdersNewestFirst(t *testing.T) {
	repo := NewReportRepository()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	reports := []report.Report{
		{RunID: "run-1", FixtureID: "fx-1", GeneratedAt: base},
		{RunID: "run-2", FixtureID: "fx-1", GeneratedAt: base.Add(2 * time.Hour)},
		{RunID: "run-3", FixtureID: "fx-2", GeneratedAt: base.Add(time.Hour)},
	}
	for _, rep := range reports {
		if err := repo.Save(context.Background(), rep); err != nil {
			t.Fatalf("save %s: %v", rep.RunID, err)
		}
	}

	got, err := repo.ListByFixture(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("list by fixture: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected report count: got=%d want=%d", len(got), 2)
	}
	if got[0].RunID != "run-2" || got[1].RunID != "run-1" {
		t.Fatalf("unexpected order: %s, %s", got[0].RunID, got[1].RunID)
	}
}
