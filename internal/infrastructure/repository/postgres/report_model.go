package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/goalsight/matchaudit/internal/domain/report"
)

type reportTableModel struct {
	RunID         string    `db:"run_id"`
	FixtureID     string    `db:"fixture_id"`
	AccuracyScore float64   `db:"accuracy_score"`
	SectionScores string    `db:"section_scores"`
	Issues        string    `db:"issues"`
	GeneratedAt   time.Time `db:"generated_at"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m reportTableModel) toDomain() (report.Report, error) {
	var issues []report.Issue
	if m.Issues != "" {
		if err := sonic.UnmarshalString(m.Issues, &issues); err != nil {
			return report.Report{}, fmt.Errorf("decode report issues run_id=%s: %w", m.RunID, err)
		}
	}

	var sectionScores map[string]float64
	if m.SectionScores != "" {
		if err := sonic.UnmarshalString(m.SectionScores, &sectionScores); err != nil {
			return report.Report{}, fmt.Errorf("decode report section scores run_id=%s: %w", m.RunID, err)
		}
	}

	return report.Report{
		RunID:         m.RunID,
		FixtureID:     m.FixtureID,
		Issues:        issues,
		AccuracyScore: m.AccuracyScore,
		SectionScores: sectionScores,
		GeneratedAt:   m.GeneratedAt.UTC(),
	}, nil
}

type reportInsertModel struct {
	RunID         string    `db:"run_id"`
	FixtureID     string    `db:"fixture_id"`
	AccuracyScore float64   `db:"accuracy_score"`
	SectionScores string    `db:"section_scores"`
	Issues        string    `db:"issues"`
	GeneratedAt   time.Time `db:"generated_at"`
}

func reportInsertModelFrom(rep report.Report) (reportInsertModel, error) {
	issues := rep.Issues
	if issues == nil {
		issues = []report.Issue{}
	}
	issuesJSON, err := sonic.MarshalString(issues)
	if err != nil {
		return reportInsertModel{}, fmt.Errorf("encode report issues run_id=%s: %w", rep.RunID, err)
	}

	sectionScores := rep.SectionScores
	if sectionScores == nil {
		sectionScores = map[string]float64{}
	}
	sectionScoresJSON, err := sonic.MarshalString(sectionScores)
	if err != nil {
		return reportInsertModel{}, fmt.Errorf("encode report section scores run_id=%s: %w", rep.RunID, err)
	}

	return reportInsertModel{
		RunID:         rep.RunID,
		FixtureID:     rep.FixtureID,
		AccuracyScore: rep.AccuracyScore,
		SectionScores: sectionScoresJSON,
		Issues:        issuesJSON,
		GeneratedAt:   rep.GeneratedAt.UTC(),
	}, nil
}
