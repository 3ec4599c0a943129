package report

import (
	"context"
	"time"
)

// IssueKind is the closed set of discrepancy classifications. Each kind
// carries a fixed severity used for report grouping only; scoring counts
// every issue the same.
type IssueKind string

const (
	KindMissingData               IssueKind = "missing_data"
	KindPlaceholderData           IssueKind = "placeholder_data"
	KindCalculationError          IssueKind = "calculation_error"
	KindAggregationError          IssueKind = "aggregation_error"
	KindProbabilityError          IssueKind = "probability_error"
	KindLogicalError              IssueKind = "logical_error"
	KindUnrealisticData           IssueKind = "unrealistic_data"
	KindHistoricalDataError       IssueKind = "historical_data_error"
	KindMissingHistoricalData     IssueKind = "missing_historical_data"
	KindCrossSectionInconsistency IssueKind = "cross_section_inconsistency"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

var severityByKind = map[IssueKind]Severity{
	KindMissingData:               SeverityWarning,
	KindPlaceholderData:           SeverityCritical,
	KindCalculationError:          SeverityCritical,
	KindAggregationError:          SeverityWarning,
	KindProbabilityError:          SeverityWarning,
	KindLogicalError:              SeverityWarning,
	KindUnrealisticData:           SeverityWarning,
	KindHistoricalDataError:       SeverityCritical,
	KindMissingHistoricalData:     SeverityCritical,
	KindCrossSectionInconsistency: SeverityWarning,
}

// Severity returns the fixed severity class for the kind.
func (k IssueKind) Severity() Severity {
	if severity, ok := severityByKind[k]; ok {
		return severity
	}
	return SeverityWarning
}

// Issue is one detected violation of a declared invariant. Issues are
// created during a single validation pass and never mutated.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Section  string    `json:"section"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// NewIssue builds an Issue with the severity implied by its kind.
func NewIssue(kind IssueKind, section, message string) Issue {
	return Issue{
		Kind:     kind,
		Section:  section,
		Message:  message,
		Severity: kind.Severity(),
	}
}

// Report is the sole output of a validation run.
type Report struct {
	RunID         string             `json:"run_id"`
	FixtureID     string             `json:"fixture_id,omitempty"`
	Issues        []Issue            `json:"issues"`
	AccuracyScore float64            `json:"accuracy_score"`
	SectionScores map[string]float64 `json:"section_scores"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// Build assembles a Report from the issues of one validation pass. Sections
// lists every section the validator looked at, so clean sections still show
// a score of 100.
func Build(runID, fixtureID string, issues []Issue, sections []string, generatedAt time.Time) Report {
	sectionScores := make(map[string]float64, len(sections))
	for _, section := range sections {
		sectionScores[section] = 100
	}

	issuesBySection := make(map[string]int, len(sections))
	for _, issue := range issues {
		issuesBySection[issue.Section]++
	}
	for section, count := range issuesBySection {
		sectionScores[section] = sectionScore(count)
	}

	return Report{
		RunID:         runID,
		FixtureID:     fixtureID,
		Issues:        issues,
		AccuracyScore: AccuracyScore(len(issues)),
		SectionScores: sectionScores,
		GeneratedAt:   generatedAt,
	}
}

// AccuracyScore derives the 0-100 overall summary from the issue count.
func AccuracyScore(issueCount int) float64 {
	score := 100 - 3*float64(issueCount)
	if score < 0 {
		return 0
	}
	return score
}

func sectionScore(issueCount int) float64 {
	score := 100 - 10*float64(issueCount)
	if score < 0 {
		return 0
	}
	return score
}

// BySeverity groups issues for presentation.
func (r Report) BySeverity() map[Severity][]Issue {
	grouped := make(map[Severity][]Issue, 2)
	for _, issue := range r.Issues {
		grouped[issue.Severity] = append(grouped[issue.Severity], issue)
	}
	return grouped
}

// CriticalCount is the number of critical issues in the report.
func (r Report) CriticalCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			count++
		}
	}
	return count
}

// Repository stores completed reports.
type Repository interface {
	Save(ctx context.Context, rep Report) error
	GetByRunID(ctx context.Context, runID string) (Report, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Report, error)
}
