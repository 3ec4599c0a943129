package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"

	"github.com/goalsight/matchaudit/internal/domain/match"
	"github.com/goalsight/matchaudit/internal/platform/logging"
)

// StatField selects the per-match quantity a threshold distribution is
// computed over.
type StatField string

const (
	FieldGoals   StatField = "goals"
	FieldCards   StatField = "cards"
	FieldCorners StatField = "corners"
)

// StatFields lists the fields a window stats block covers, in report order.
var StatFields = []StatField{FieldGoals, FieldCards, FieldCorners}

// Value extracts the field's match total. Unknown fields read as 0.
func (f StatField) Value(m match.Match) int {
	switch f {
	case FieldGoals:
		return m.TotalGoals
	case FieldCards:
		return m.TotalCards
	case FieldCorners:
		return m.TotalCorners
	default:
		return 0
	}
}

// DefaultThresholds returns the conventional ladder for the field:
// 0.5 through 5.5 for goals and cards, 6.5 through 13.5 for corners.
func DefaultThresholds(field StatField) []float64 {
	switch field {
	case FieldCorners:
		return thresholdLadder(6.5, 13.5)
	default:
		return thresholdLadder(0.5, 5.5)
	}
}

func thresholdLadder(from, to float64) []float64 {
	var ladder []float64
	for t := from; t <= to; t++ {
		ladder = append(ladder, t)
	}
	return ladder
}

// ThresholdResult is the over/under split of one match set at one cutoff.
type ThresholdResult struct {
	Threshold  float64 `json:"threshold"`
	OverCount  int     `json:"over_count"`
	OverPct    float64 `json:"over_pct"`
	UnderCount int     `json:"under_count"`
	UnderPct   float64 `json:"under_pct"`
}

// Aggregate computes the over/under distribution of matches for one field at
// each threshold. Thresholds are independent of each other; comparison is
// strict `>` so integer thresholds behave correctly too. An empty match set
// yields zero counts and zero percentages, never NaN. An empty or negative
// threshold list is a contract violation.
func Aggregate(matches []match.Match, field StatField, thresholds []float64) ([]ThresholdResult, error) {
	if len(thresholds) == 0 {
		return nil, crerr.Wrap(ErrInvalidInput, "aggregate: empty threshold list")
	}
	for _, t := range thresholds {
		if t < 0 {
			return nil, crerr.Wrapf(ErrInvalidInput, "aggregate: negative threshold %v", t)
		}
	}

	total := len(matches)
	results := make([]ThresholdResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		over := 0
		for _, m := range matches {
			if float64(field.Value(m)) > threshold {
				over++
			}
		}
		under := total - over

		result := ThresholdResult{
			Threshold:  threshold,
			OverCount:  over,
			UnderCount: under,
		}
		if total > 0 {
			result.OverPct = round1(float64(over) / float64(total) * 100)
			result.UnderPct = round1(float64(under) / float64(total) * 100)
		}
		results = append(results, result)
	}

	return results, nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// FieldStats is a numeric summary of one field over a window.
type FieldStats struct {
	Field      StatField         `json:"field"`
	Mean       float64           `json:"mean"`
	Median     float64           `json:"median"`
	Thresholds []ThresholdResult `json:"thresholds"`
}

// WindowBlock is the named statistics block for one (team, venue role,
// window size) combination: the matches used plus per-field distributions.
// OldestKickoff and NewestKickoff bound the period the window covers; both
// stay zero when the window is empty or entirely undated.
type WindowBlock struct {
	TeamID        string          `json:"team_id"`
	Role          match.VenueRole `json:"role"`
	WindowSize    int             `json:"window_size"`
	Matches       []match.Match   `json:"matches"`
	Fields        []FieldStats    `json:"fields"`
	BTTSPct       float64         `json:"btts_pct"`
	OldestKickoff time.Time       `json:"oldest_kickoff"`
	NewestKickoff time.Time       `json:"newest_kickoff"`
}

// WindowStatsService computes threshold distributions over recent-form
// windows drawn from the stored corpus.
type WindowStatsService struct {
	matchRepo match.Repository
	logger    *logging.Logger
}

func NewWindowStatsService(matchRepo match.Repository, logger *logging.Logger) *WindowStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WindowStatsService{
		matchRepo: matchRepo,
		logger:    logger,
	}
}

// TeamWindowStats builds the block for teamID in the given venue role over
// its most recent limit finished fixtures. Shorter history than limit is
// normal and not an error.
func (s *WindowStatsService) TeamWindowStats(ctx context.Context, teamID string, role match.VenueRole, limit int) (WindowBlock, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WindowStatsService.TeamWindowStats")
	defer span.End()

	if teamID == "" {
		return WindowBlock{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		return WindowBlock{}, fmt.Errorf("%w: window limit must be positive", ErrInvalidInput)
	}

	corpus, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return WindowBlock{}, fmt.Errorf("list matches for team: %w", err)
	}

	window := match.SelectWindow(corpus, teamID, role, limit, true)
	block := WindowBlock{
		TeamID:     teamID,
		Role:       role,
		WindowSize: limit,
		Matches:    window,
		Fields:     make([]FieldStats, 0, len(StatFields)),
	}
	if len(window) > 0 {
		// Newest first, per SelectWindow ordering.
		block.NewestKickoff = window[0].Kickoff()
		block.OldestKickoff = window[len(window)-1].Kickoff()

		btts := 0
		for _, m := range window {
			if m.BothTeamsScored() {
				btts++
			}
		}
		block.BTTSPct = round1(100 * float64(btts) / float64(len(window)))
	}

	for _, field := range StatFields {
		fieldStats, err := summarizeField(window, field)
		if err != nil {
			return WindowBlock{}, fmt.Errorf("summarize %s: %w", field, err)
		}
		block.Fields = append(block.Fields, fieldStats)
	}

	s.logger.Debug("computed window stats",
		"team_id", teamID,
		"role", string(role),
		"window_size", limit,
		"matches", len(window),
	)

	return block, nil
}

func summarizeField(window []match.Match, field StatField) (FieldStats, error) {
	thresholds, err := Aggregate(window, field, DefaultThresholds(field))
	if err != nil {
		return FieldStats{}, err
	}

	fieldStats := FieldStats{
		Field:      field,
		Thresholds: thresholds,
	}

	if len(window) > 0 {
		values := make([]float64, 0, len(window))
		for _, m := range window {
			values = append(values, float64(field.Value(m)))
		}
		if mean, err := stats.Mean(values); err == nil {
			fieldStats.Mean = round1(mean)
		}
		if median, err := stats.Median(values); err == nil {
			fieldStats.Median = round1(median)
		}
	}

	return fieldStats, nil
}
