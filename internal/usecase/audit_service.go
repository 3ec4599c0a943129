package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/goalsight/matchaudit/internal/domain/match"
	"github.com/goalsight/matchaudit/internal/domain/panel"
	"github.com/goalsight/matchaudit/internal/domain/rawdata"
	"github.com/goalsight/matchaudit/internal/domain/report"
	"github.com/goalsight/matchaudit/internal/platform/logging"
)

const (
	defaultWindowSize   = 10
	defaultBatchWorkers = 4
	maxBatchWorkers     = 32
	auditStatusSuccess  = "success"
	auditStatusFailed   = "failed"
)

// PanelProvider is the external fetch layer. Implementations retry and
// time out on their own; the audit pipeline only sees data or its absence.
type PanelProvider interface {
	FetchBundle(ctx context.Context, fixtureID string) (panel.Bundle, error)
	FetchTeamMatches(ctx context.Context, teamID string) ([]rawdata.Record, error)
}

// ReportPublisher delivers completed reports to an external sink.
type ReportPublisher interface {
	Publish(ctx context.Context, rep report.Report) error
}

// AuditRequest is one fixture to audit. Bundle, when set, is used as-is and
// no provider fetch happens; otherwise the bundle is fetched by fixture id.
type AuditRequest struct {
	FixtureID  string
	Bundle     panel.Bundle
	References []panel.ReferenceFixture
}

// AuditTaskResult is the outcome of one fixture inside a batch run.
type AuditTaskResult struct {
	FixtureID     string  `json:"fixture_id"`
	RunID         string  `json:"run_id,omitempty"`
	Status        string  `json:"status"`
	Issues        int     `json:"issues"`
	AccuracyScore float64 `json:"accuracy_score"`
	DurationMs    int64   `json:"duration_ms"`
	Message       string  `json:"message,omitempty"`
}

// AuditService runs the full pipeline for a fixture: fetch raw panels,
// normalize and window the team corpora, derive threshold panels the
// provider did not supply, validate the combined bundle, then persist and
// publish the report.
type AuditService struct {
	provider     PanelProvider
	matchRepo    match.Repository
	reportRepo   report.Repository
	validator    *ValidateService
	publisher    ReportPublisher
	windowSize   int
	batchWorkers int
	logger       *logging.Logger
}

func NewAuditService(
	provider PanelProvider,
	matchRepo match.Repository,
	reportRepo report.Repository,
	validator *ValidateService,
	publisher ReportPublisher,
	windowSize int,
	batchWorkers int,
	logger *logging.Logger,
) *AuditService {
	if validator == nil {
		validator = NewValidateService(nil, logger)
	}
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	if batchWorkers <= 0 {
		batchWorkers = defaultBatchWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditService{
		provider:     provider,
		matchRepo:    matchRepo,
		reportRepo:   reportRepo,
		validator:    validator,
		publisher:    publisher,
		windowSize:   windowSize,
		batchWorkers: batchWorkers,
		logger:       logger,
	}
}

// AuditFixture audits one fixture. Fetch failures never fail the audit:
// whatever sections are missing show up as MissingData issues instead.
func (s *AuditService) AuditFixture(ctx context.Context, req AuditRequest) (report.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.AuditFixture")
	defer span.End()

	if req.FixtureID == "" && req.Bundle == nil {
		return report.Report{}, fmt.Errorf("%w: fixture id or inline bundle is required", ErrInvalidInput)
	}

	bundle := req.Bundle
	if bundle == nil {
		if s.provider == nil {
			return report.Report{}, fmt.Errorf("%w: no panel provider configured", ErrDependencyUnavailable)
		}
		fetched, err := s.provider.FetchBundle(ctx, req.FixtureID)
		if err != nil {
			s.logger.Warn("panel bundle fetch failed, continuing with empty bundle",
				"fixture_id", req.FixtureID,
				"error", err.Error(),
			)
			fetched = panel.Bundle{}
		}
		bundle = fetched
	}

	s.enrichBundle(ctx, bundle)

	rep := s.validator.Validate(ctx, ValidateInput{
		FixtureID:  req.FixtureID,
		Bundle:     bundle,
		References: req.References,
	})

	if s.reportRepo != nil {
		if err := s.reportRepo.Save(ctx, rep); err != nil {
			return report.Report{}, fmt.Errorf("save report: %w", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, rep); err != nil {
			// Delivery is best effort; the report itself already exists.
			s.logger.Warn("report publish failed",
				"run_id", rep.RunID,
				"error", err.Error(),
			)
		}
	}

	s.logger.InfoContext(ctx, "fixture audited",
		"fixture_id", req.FixtureID,
		"run_id", rep.RunID,
		"issues", len(rep.Issues),
		"accuracy", rep.AccuracyScore,
	)

	return rep, nil
}

// AuditFixtures audits a batch over a bounded worker pool. A non-positive
// maxWorkers falls back to the service's configured default. Per-fixture
// failures are reported in the task results, not returned as an error.
func (s *AuditService) AuditFixtures(ctx context.Context, requests []AuditRequest, maxWorkers int) ([]AuditTaskResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.AuditFixtures")
	defer span.End()

	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: empty audit batch", ErrInvalidInput)
	}

	if maxWorkers <= 0 {
		maxWorkers = s.batchWorkers
	}
	if maxWorkers > maxBatchWorkers {
		maxWorkers = maxBatchWorkers
	}
	if maxWorkers > len(requests) {
		maxWorkers = len(requests)
	}

	workerPool, err := ants.NewPool(maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	results := make([]AuditTaskResult, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		i, req := i, req
		wg.Add(1)
		submitErr := workerPool.Submit(func() {
			defer wg.Done()
			results[i] = s.runAuditTask(ctx, req)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = AuditTaskResult{
				FixtureID: req.FixtureID,
				Status:    auditStatusFailed,
				Message:   submitErr.Error(),
			}
		}
	}
	wg.Wait()

	return results, nil
}

func (s *AuditService) runAuditTask(ctx context.Context, req AuditRequest) AuditTaskResult {
	started := time.Now()
	rep, err := s.AuditFixture(ctx, req)
	result := AuditTaskResult{
		FixtureID:  req.FixtureID,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		result.Status = auditStatusFailed
		result.Message = err.Error()
		return result
	}

	result.Status = auditStatusSuccess
	result.RunID = rep.RunID
	result.Issues = len(rep.Issues)
	result.AccuracyScore = rep.AccuracyScore
	return result
}

// enrichBundle fills the corners and cards sections from recent-form
// windows when the provider left them out, so aggregator output and
// externally supplied panels flow through the same validation.
func (s *AuditService) enrichBundle(ctx context.Context, bundle panel.Bundle) {
	_, hasCorners := bundle[panel.SectionCorners]
	_, hasCards := bundle[panel.SectionCards]
	if hasCorners && hasCards {
		return
	}

	matchPanel, ok := bundle[panel.SectionMatch]
	if !ok {
		return
	}
	meta := match.Normalize(matchPanel)
	if meta.HomeTeamID == "" || meta.AwayTeamID == "" {
		return
	}

	window := s.recentWindows(ctx, meta.HomeTeamID, meta.AwayTeamID)
	if len(window) == 0 {
		return
	}

	if _, present := bundle[panel.SectionCorners]; !present {
		if p := derivedCountPanel(window, FieldCorners); p != nil {
			bundle[panel.SectionCorners] = p
		}
	}
	if _, present := bundle[panel.SectionCards]; !present {
		if p := derivedCountPanel(window, FieldCards); p != nil {
			bundle[panel.SectionCards] = p
		}
	}
}

// recentWindows fetches, normalizes and windows both team corpora: the home
// side's recent home fixtures and the away side's recent away fixtures,
// fetched concurrently. A failed fetch for one team degrades to an empty
// corpus for that team.
func (s *AuditService) recentWindows(ctx context.Context, homeTeamID, awayTeamID string) []match.Match {
	type teamWindow struct {
		teamID string
		role   match.VenueRole
	}

	targets := []teamWindow{
		{teamID: homeTeamID, role: match.RoleHome},
		{teamID: awayTeamID, role: match.RoleAway},
	}

	fetcher := pool.NewWithResults[[]match.Match]().WithContext(ctx)
	for _, target := range targets {
		target := target
		fetcher.Go(func(ctx context.Context) ([]match.Match, error) {
			corpus, err := s.teamCorpus(ctx, target.teamID)
			if err != nil {
				s.logger.Warn("team corpus unavailable",
					"team_id", target.teamID,
					"error", err.Error(),
				)
				return nil, nil
			}
			return match.SelectWindow(corpus, target.teamID, target.role, s.windowSize, true), nil
		})
	}

	windows, err := fetcher.Wait()
	if err != nil {
		return nil
	}

	var combined []match.Match
	for _, w := range windows {
		combined = append(combined, w...)
	}
	return combined
}

// teamCorpus returns normalized, representative matches for a team from the
// provider when configured, falling back to the stored corpus. Freshly
// fetched matches are upserted into the repository as a side corpus refresh.
func (s *AuditService) teamCorpus(ctx context.Context, teamID string) ([]match.Match, error) {
	if s.provider != nil {
		records, err := s.provider.FetchTeamMatches(ctx, teamID)
		if err == nil {
			matches := normalizeCorpus(records)
			if s.matchRepo != nil && len(matches) > 0 {
				if upsertErr := s.matchRepo.UpsertMany(ctx, matches); upsertErr != nil {
					s.logger.Warn("corpus refresh failed",
						"team_id", teamID,
						"error", upsertErr.Error(),
					)
				}
			}
			return matches, nil
		}
		if s.matchRepo == nil {
			return nil, err
		}
	}

	if s.matchRepo == nil {
		return nil, fmt.Errorf("%w: no match source configured", ErrDependencyUnavailable)
	}
	return s.matchRepo.ListByTeam(ctx, teamID)
}

func normalizeCorpus(records []rawdata.Record) []match.Match {
	matches := make([]match.Match, 0, len(records))
	for _, record := range records {
		if !match.IsRepresentativeFixture(record) {
			continue
		}
		matches = append(matches, match.Normalize(record))
	}
	return matches
}

// derivedCountPanel builds a corners/cards panel from a window so that it is
// arithmetically consistent by construction.
func derivedCountPanel(window []match.Match, field StatField) panel.Panel {
	results, err := Aggregate(window, field, DefaultThresholds(field))
	if err != nil {
		return nil
	}

	total := 0
	for _, m := range window {
		total += field.Value(m)
	}

	overRates := make(map[string]any, len(results))
	for _, result := range results {
		overRates[strconv.FormatFloat(result.Threshold, 'f', -1, 64)] = result.OverPct
	}

	p := panel.Panel{
		"matchesPlayed": len(window),
		"overRates":     overRates,
		"derived":       true,
	}

	average := 0.0
	if len(window) > 0 {
		average = round1(float64(total) / float64(len(window)))
	}

	switch field {
	case FieldCorners:
		p["totalCorners"] = total
		p["averageCorners"] = average
	case FieldCards:
		p["totalCards"] = total
		p["averageCards"] = average
	default:
		return nil
	}

	return p
}
