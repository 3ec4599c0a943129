package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/goalsight/matchaudit/internal/domain/report"
	"github.com/goalsight/matchaudit/internal/platform/logging"
)

// ReportService serves persisted audit reports.
type ReportService struct {
	repo   report.Repository
	logger *logging.Logger
}

func NewReportService(repo report.Repository, logger *logging.Logger) *ReportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportService{repo: repo, logger: logger}
}

func (s *ReportService) GetByRunID(ctx context.Context, runID string) (report.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GetByRunID")
	defer span.End()

	if strings.TrimSpace(runID) == "" {
		return report.Report{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}

	rep, found, err := s.repo.GetByRunID(ctx, runID)
	if err != nil {
		return report.Report{}, fmt.Errorf("get report run_id=%s: %w", runID, err)
	}
	if !found {
		return report.Report{}, fmt.Errorf("%w: report run_id=%s", ErrNotFound, runID)
	}
	return rep, nil
}

func (s *ReportService) ListByFixture(ctx context.Context, fixtureID string) ([]report.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ListByFixture")
	defer span.End()

	if strings.TrimSpace(fixtureID) == "" {
		return nil, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	reports, err := s.repo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("list reports fixture_id=%s: %w", fixtureID, err)
	}
	return reports, nil
}
