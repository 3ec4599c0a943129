package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/goalsight/matchaudit/internal/domain/report"
	reportmock "github.com/goalsight/matchaudit/internal/mocks/domain/report"
)

func TestReportService_GetByRunID_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := reportmock.NewRepository(t)
	service := NewReportService(repo, nil)

	expected := report.Report{
		RunID:         "run-42",
		FixtureID:     "fx-1",
		AccuracyScore: 94,
		GeneratedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	repo.
		On("GetByRunID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "run-42").
		Return(expected, true, nil).
		Once()

	got, err := service.GetByRunID(ctx, "run-42")
	if err != nil {
		t.Fatalf("get by run id: %v", err)
	}
	if got.RunID != expected.RunID {
		t.Fatalf("unexpected run id: got=%s want=%s", got.RunID, expected.RunID)
	}
	if got.AccuracyScore != expected.AccuracyScore {
		t.Fatalf("unexpected accuracy: got=%v want=%v", got.AccuracyScore, expected.AccuracyScore)
	}
}

func TestReportService_GetByRunID_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := reportmock.NewRepository(t)
	service := NewReportService(repo, nil)

	repo.
		On("GetByRunID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "run-missing").
		Return(report.Report{}, false, nil).
		Once()

	_, err := service.GetByRunID(ctx, "run-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_ListByFixture_RepoErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := reportmock.NewRepository(t)
	service := NewReportService(repo, nil)

	repo.
		On("ListByFixture", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "fx-1").
		Return(nil, errors.New("connection reset")).
		Once()

	_, err := service.ListByFixture(ctx, "fx-1")
	if err == nil {
		t.Fatalf("expected error from repository")
	}
}
