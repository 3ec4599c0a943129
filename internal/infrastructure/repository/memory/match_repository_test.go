package memory

import (
	"context"
	"testing"

	"github.com/goalsight/matchaudit/internal/domain/match"
)

func TestMatchRepository_ListByTeam(t *testing.T) {
	repo := NewMatchRepository(SeedMatches())

	matches, err := repo.ListByTeam(context.Background(), TeamIDRiverton)
	if err != nil {
		t.Fatalf("list by team: %v", err)
	}
	if len(matches) != 4 {
		t.Fatalf("unexpected match count: got=%d want=%d", len(matches), 4)
	}
	for _, item := range matches {
		if item.HomeTeamID != TeamIDRiverton && item.AwayTeamID != TeamIDRiverton {
			t.Fatalf("match %s does not involve team %s", item.ID, TeamIDRiverton)
		}
	}
}

func TestMatchRepository_UpsertReplacesAndReindexes(t *testing.T) {
	repo := NewMatchRepository(nil)

	original := match.Match{ID: "fx-1", HomeTeamID: "t-a", AwayTeamID: "t-b", Status: match.StatusIncomplete}
	if err := repo.UpsertMany(context.Background(), []match.Match{original}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	moved := match.Match{ID: "fx-1", HomeTeamID: "t-c", AwayTeamID: "t-b", HomeGoals: 1, Status: match.StatusComplete}
	if err := repo.UpsertMany(context.Background(), []match.Match{moved}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, found, err := repo.GetByID(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !found {
		t.Fatalf("expected match fx-1 to exist")
	}
	if got.Status != match.StatusComplete {
		t.Fatalf("unexpected status: %s", got.Status)
	}

	stale, err := repo.ListByTeam(context.Background(), "t-a")
	if err != nil {
		t.Fatalf("list stale team: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("expected no matches for reassigned team, got %d", len(stale))
	}

	current, err := repo.ListByTeam(context.Background(), "t-c")
	if err != nil {
		t.Fatalf("list current team: %v", err)
	}
	if len(current) != 1 {
		t.Fatalf("expected one match for new home team, got %d", len(current))
	}
}

func TestMatchRepository_SkipsBlankIDs(t *testing.T) {
	repo := NewMatchRepository(nil)

	if err := repo.UpsertMany(context.Background(), []match.Match{{ID: "  "}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, found, err := repo.GetByID(context.Background(), "  ")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if found {
		t.Fatalf("expected blank id to be skipped")
	}
}
