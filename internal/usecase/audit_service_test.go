package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goalsight/matchaudit/internal/domain/panel"
	"github.com/goalsight/matchaudit/internal/domain/rawdata"
	"github.com/goalsight/matchaudit/internal/domain/report"
)

type stubPanelProvider struct {
	bundle     panel.Bundle
	bundleErr  error
	byTeam     map[string][]rawdata.Record
	matchesErr error
}

func (p *stubPanelProvider) FetchBundle(_ context.Context, _ string) (panel.Bundle, error) {
	if p.bundleErr != nil {
		return nil, p.bundleErr
	}
	return p.bundle, nil
}

func (p *stubPanelProvider) FetchTeamMatches(_ context.Context, teamID string) ([]rawdata.Record, error) {
	if p.matchesErr != nil {
		return nil, p.matchesErr
	}
	return p.byTeam[teamID], nil
}

type stubReportRepository struct {
	mu      sync.Mutex
	saved   []report.Report
	saveErr error
}

func (r *stubReportRepository) Save(_ context.Context, rep report.Report) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, rep)
	return nil
}

func (r *stubReportRepository) GetByRunID(_ context.Context, runID string) (report.Report, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.saved {
		if rep.RunID == runID {
			return rep, true, nil
		}
	}
	return report.Report{}, false, nil
}

func (r *stubReportRepository) ListByFixture(_ context.Context, fixtureID string) ([]report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []report.Report
	for _, rep := range r.saved {
		if rep.FixtureID == fixtureID {
			out = append(out, rep)
		}
	}
	return out, nil
}

type stubPublisher struct {
	mu        sync.Mutex
	published []report.Report
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, rep report.Report) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, rep)
	return nil
}

func TestAuditFixture_InlineBundle(t *testing.T) {
	t.Parallel()

	reports := &stubReportRepository{}
	publisher := &stubPublisher{}
	service := NewAuditService(nil, nil, reports, nil, publisher, 0, 0, nil)

	rep, err := service.AuditFixture(context.Background(), AuditRequest{
		FixtureID: "fx-1",
		Bundle:    cleanBundle(),
	})
	if err != nil {
		t.Fatalf("AuditFixture: %v", err)
	}
	if len(rep.Issues) != 0 || rep.AccuracyScore != 100 {
		t.Fatalf("unexpected report: issues=%d accuracy=%v", len(rep.Issues), rep.AccuracyScore)
	}
	if rep.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if len(reports.saved) != 1 || reports.saved[0].RunID != rep.RunID {
		t.Fatalf("report not persisted: %+v", reports.saved)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("report not published: %+v", publisher.published)
	}
}

func TestAuditFixture_ContractViolations(t *testing.T) {
	t.Parallel()

	service := NewAuditService(nil, nil, nil, nil, nil, 0, 0, nil)

	if _, err := service.AuditFixture(context.Background(), AuditRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
	if _, err := service.AuditFixture(context.Background(), AuditRequest{FixtureID: "fx-1"}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable without a provider, got=%v", err)
	}
}

func TestAuditFixture_FetchFailureDegradesToMissingData(t *testing.T) {
	t.Parallel()

	provider := &stubPanelProvider{bundleErr: errors.New("upstream timeout")}
	service := NewAuditService(provider, nil, nil, nil, nil, 0, 0, nil)

	rep, err := service.AuditFixture(context.Background(), AuditRequest{FixtureID: "fx-1"})
	if err != nil {
		t.Fatalf("fetch failure must not fail the audit: %v", err)
	}

	missing := 0
	for _, issue := range rep.Issues {
		if issue.Kind == report.KindMissingData {
			missing++
		}
	}
	if missing != len(panel.RequiredSections) {
		t.Fatalf("unexpected MissingData count: got=%d want=%d", missing, len(panel.RequiredSections))
	}
}

func TestAuditFixture_SaveFailure(t *testing.T) {
	t.Parallel()

	reports := &stubReportRepository{saveErr: errors.New("db down")}
	service := NewAuditService(nil, nil, reports, nil, nil, 0, 0, nil)

	if _, err := service.AuditFixture(context.Background(), AuditRequest{Bundle: cleanBundle()}); err == nil {
		t.Fatalf("expected save failure to surface")
	}
}

func TestAuditFixture_PublishFailureIsBestEffort(t *testing.T) {
	t.Parallel()

	publisher := &stubPublisher{err: errors.New("webhook 503")}
	service := NewAuditService(nil, nil, nil, nil, publisher, 0, 0, nil)

	rep, err := service.AuditFixture(context.Background(), AuditRequest{Bundle: cleanBundle()})
	if err != nil {
		t.Fatalf("publish failure must not fail the audit: %v", err)
	}
	if rep.RunID == "" {
		t.Fatalf("expected a completed report despite publish failure")
	}
}

func corpusRecord(homeID, awayID string, corners, cards, dateUnix int) rawdata.Record {
	return rawdata.Record{
		"homeID":          homeID,
		"awayID":          awayID,
		"team_a_corners":  float64(corners),
		"team_b_corners":  float64(corners),
		"team_a_card_num": float64(cards),
		"team_b_card_num": float64(cards),
		"date_unix":       float64(dateUnix),
		"status":          "complete",
	}
}

func TestAuditFixture_DerivesCountPanelsFromWindows(t *testing.T) {
	t.Parallel()

	provider := &stubPanelProvider{byTeam: map[string][]rawdata.Record{
		"h1": {
			corpusRecord("h1", "x", 5, 2, 300),
			corpusRecord("h1", "y", 4, 1, 200),
		},
		"a1": {
			corpusRecord("z", "a1", 6, 3, 300),
		},
	}}

	bundle := panel.Bundle{
		panel.SectionMatch: {
			"id":        "fx-9",
			"homeID":    "h1",
			"awayID":    "a1",
			"home_name": "Alpha",
			"away_name": "Beta",
		},
	}

	matchRepo := &stubMatchRepository{}
	service := NewAuditService(provider, matchRepo, nil, nil, nil, 10, 0, nil)

	rep, err := service.AuditFixture(context.Background(), AuditRequest{
		FixtureID: "fx-9",
		Bundle:    bundle,
	})
	if err != nil {
		t.Fatalf("AuditFixture: %v", err)
	}

	if _, present := bundle[panel.SectionCorners]; !present {
		t.Fatalf("corners panel not derived")
	}
	if _, present := bundle[panel.SectionCards]; !present {
		t.Fatalf("cards panel not derived")
	}

	// Derived panels are consistent by construction: no corners or cards
	// findings, only the genuinely absent sections.
	for _, issue := range rep.Issues {
		if issue.Section == panel.SectionCorners || issue.Section == panel.SectionCards {
			t.Fatalf("derived panel flagged: %+v", issue)
		}
		if issue.Kind != report.KindMissingData {
			t.Fatalf("unexpected issue kind: %+v", issue)
		}
	}

	played, ok := rawdata.FirstNumber(bundle[panel.SectionCorners], "matchesPlayed")
	if !ok || played != 3 {
		t.Fatalf("unexpected derived window size: got=%v want=3", played)
	}
}

func TestAuditFixtures_Batch(t *testing.T) {
	t.Parallel()

	reports := &stubReportRepository{}
	service := NewAuditService(nil, nil, reports, nil, nil, 0, 0, nil)

	requests := []AuditRequest{
		{FixtureID: "fx-1", Bundle: cleanBundle()},
		{}, // invalid: neither id nor bundle
		{FixtureID: "fx-3", Bundle: cleanBundle()},
	}

	results, err := service.AuditFixtures(context.Background(), requests, 2)
	if err != nil {
		t.Fatalf("AuditFixtures: %v", err)
	}
	if len(results) != len(requests) {
		t.Fatalf("unexpected result count: got=%d want=%d", len(results), len(requests))
	}

	if results[0].Status != auditStatusSuccess || results[0].FixtureID != "fx-1" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Status != auditStatusFailed || results[1].Message == "" {
		t.Fatalf("invalid request must fail in place: %+v", results[1])
	}
	if results[2].Status != auditStatusSuccess {
		t.Fatalf("unexpected third result: %+v", results[2])
	}

	if len(reports.saved) != 2 {
		t.Fatalf("unexpected persisted count: got=%d want=2", len(reports.saved))
	}
}

func TestAuditFixtures_ConfiguredWorkerDefault(t *testing.T) {
	t.Parallel()

	reports := &stubReportRepository{}
	service := NewAuditService(nil, nil, reports, nil, nil, 0, 1, nil)
	if service.batchWorkers != 1 {
		t.Fatalf("unexpected configured workers: got=%d want=1", service.batchWorkers)
	}

	requests := []AuditRequest{
		{FixtureID: "fx-1", Bundle: cleanBundle()},
		{FixtureID: "fx-2", Bundle: cleanBundle()},
	}

	// Zero per-request workers must fall back to the configured default.
	results, err := service.AuditFixtures(context.Background(), requests, 0)
	if err != nil {
		t.Fatalf("AuditFixtures: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("unexpected result count: got=%d want=2", len(results))
	}
	for _, result := range results {
		if result.Status != auditStatusSuccess {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
}

func TestAuditFixtures_EmptyBatch(t *testing.T) {
	t.Parallel()

	service := NewAuditService(nil, nil, nil, nil, nil, 0, 0, nil)
	if _, err := service.AuditFixtures(context.Background(), nil, 4); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
