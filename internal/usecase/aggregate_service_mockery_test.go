package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/goalsight/matchaudit/internal/domain/match"
	matchmock "github.com/goalsight/matchaudit/internal/mocks/domain/match"
)

func TestWindowStatsService_TeamWindowStats_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := matchmock.NewRepository(t)
	service := NewWindowStatsService(repo, nil)

	corpus := []match.Match{
		{ID: "m-1", HomeTeamID: "t-1", AwayTeamID: "t-2", HomeGoals: 2, AwayGoals: 1, TotalGoals: 3, Status: match.StatusComplete, DateUnix: 300},
		{ID: "m-2", HomeTeamID: "t-1", AwayTeamID: "t-3", HomeGoals: 1, AwayGoals: 0, TotalGoals: 1, Status: match.StatusComplete, DateUnix: 200},
		{ID: "m-3", HomeTeamID: "t-4", AwayTeamID: "t-1", HomeGoals: 0, AwayGoals: 2, TotalGoals: 2, Status: match.StatusComplete, DateUnix: 100},
	}

	repo.
		On("ListByTeam", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "t-1").
		Return(corpus, nil).
		Once()

	block, err := service.TeamWindowStats(ctx, "t-1", match.RoleHome, 5)
	if err != nil {
		t.Fatalf("team window stats: %v", err)
	}

	if len(block.Matches) != 2 {
		t.Fatalf("unexpected window size: got=%d want=%d", len(block.Matches), 2)
	}
	if len(block.Fields) != len(StatFields) {
		t.Fatalf("unexpected field count: got=%d want=%d", len(block.Fields), len(StatFields))
	}
	if block.Fields[0].Field != FieldGoals {
		t.Fatalf("unexpected first field: %s", block.Fields[0].Field)
	}
	if block.Fields[0].Mean != 2 {
		t.Fatalf("unexpected goals mean: got=%v want=%v", block.Fields[0].Mean, 2.0)
	}
	// Both teams scored in m-1 only.
	if block.BTTSPct != 50 {
		t.Fatalf("unexpected btts rate: got=%v want=50", block.BTTSPct)
	}
	if !block.NewestKickoff.Equal(time.Unix(300, 0)) {
		t.Fatalf("unexpected newest kickoff: %v", block.NewestKickoff)
	}
}

func TestWindowStatsService_TeamWindowStats_RepoErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := matchmock.NewRepository(t)
	service := NewWindowStatsService(repo, nil)

	repo.
		On("ListByTeam", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "t-1").
		Return(nil, errors.New("connection refused")).
		Once()

	_, err := service.TeamWindowStats(ctx, "t-1", match.RoleHome, 5)
	if err == nil {
		t.Fatalf("expected error from repository")
	}
}
