package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/goalsight/matchaudit/internal/domain/match"
	"github.com/goalsight/matchaudit/internal/domain/panel"
	"github.com/goalsight/matchaudit/internal/domain/report"
	"github.com/goalsight/matchaudit/internal/usecase"
)

const defaultWindowLimit = 10

type Handler struct {
	auditService  *usecase.AuditService
	windowService *usecase.WindowStatsService
	reportService *usecase.ReportService
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(
	auditService *usecase.AuditService,
	windowService *usecase.WindowStatsService,
	reportService *usecase.ReportService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		auditService:  auditService,
		windowService: windowService,
		reportService: reportService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAudit")
	defer span.End()

	var req auditRequestDTO
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	rep, err := h.auditService.AuditFixture(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "audit failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(rep))
}

func (h *Handler) RunAuditBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAuditBatch")
	defer span.End()

	var req auditBatchRequestDTO
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	requests := make([]usecase.AuditRequest, 0, len(req.Fixtures))
	for _, item := range req.Fixtures {
		requests = append(requests, item.toInput())
	}

	results, err := h.auditService.AuditFixtures(ctx, requests, req.MaxWorkers)
	if err != nil {
		h.logger.WarnContext(ctx, "batch audit failed", "fixtures", len(req.Fixtures), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) GetAuditReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuditReport")
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	rep, err := h.reportService.GetByRunID(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get report failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(rep))
}

func (h *Handler) ListFixtureAudits(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtureAudits")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	reports, err := h.reportService.ListByFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "list reports failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]reportDTO, 0, len(reports))
	for _, rep := range reports {
		items = append(items, reportToDTO(rep))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamWindowStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamWindowStats")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	role, ok := match.ParseVenueRole(r.PathValue("role"))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: role must be home or away", usecase.ErrInvalidInput))
		return
	}

	limit := defaultWindowLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = parsed
	}

	block, err := h.windowService.TeamWindowStats(ctx, teamID, role, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "window stats failed", "team_id", teamID, "role", string(role), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, block)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type auditRequestDTO struct {
	FixtureID  string                    `json:"fixture_id"`
	Bundle     map[string]map[string]any `json:"bundle,omitempty"`
	References []referenceFixtureDTO     `json:"references,omitempty"`
}

func (r auditRequestDTO) toInput() usecase.AuditRequest {
	var bundle panel.Bundle
	if r.Bundle != nil {
		bundle = make(panel.Bundle, len(r.Bundle))
		for section, fields := range r.Bundle {
			bundle[section] = panel.Panel(fields)
		}
	}

	references := make([]panel.ReferenceFixture, 0, len(r.References))
	for _, ref := range r.References {
		references = append(references, panel.ReferenceFixture{
			HomeTeam:  ref.HomeTeam,
			AwayTeam:  ref.AwayTeam,
			Date:      ref.Date,
			HomeGoals: ref.HomeGoals,
			AwayGoals: ref.AwayGoals,
		})
	}

	return usecase.AuditRequest{
		FixtureID:  strings.TrimSpace(r.FixtureID),
		Bundle:     bundle,
		References: references,
	}
}

type auditBatchRequestDTO struct {
	Fixtures   []auditRequestDTO `json:"fixtures" validate:"required,min=1,max=100"`
	MaxWorkers int               `json:"max_workers" validate:"min=0,max=32"`
}

type referenceFixtureDTO struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Date      string `json:"date"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

type reportDTO struct {
	RunID         string             `json:"run_id"`
	FixtureID     string             `json:"fixture_id,omitempty"`
	AccuracyScore float64            `json:"accuracy_score"`
	SectionScores map[string]float64 `json:"section_scores"`
	Issues        []issueDTO         `json:"issues"`
	CriticalCount int                `json:"critical_count"`
	GeneratedAt   string             `json:"generated_at"`
}

type issueDTO struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Section  string `json:"section"`
	Message  string `json:"message"`
}

func reportToDTO(rep report.Report) reportDTO {
	issues := make([]issueDTO, 0, len(rep.Issues))
	for _, issue := range rep.Issues {
		issues = append(issues, issueDTO{
			Kind:     string(issue.Kind),
			Severity: string(issue.Kind.Severity()),
			Section:  issue.Section,
			Message:  issue.Message,
		})
	}

	return reportDTO{
		RunID:         rep.RunID,
		FixtureID:     rep.FixtureID,
		AccuracyScore: rep.AccuracyScore,
		SectionScores: rep.SectionScores,
		Issues:        issues,
		CriticalCount: rep.CriticalCount(),
		GeneratedAt:   rep.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
