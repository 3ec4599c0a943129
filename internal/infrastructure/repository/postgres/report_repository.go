package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalsight/matchaudit/internal/domain/report"
	qb "github.com/goalsight/matchaudit/internal/platform/querybuilder"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Save(ctx context.Context, rep report.Report) error {
	insertModel, err := reportInsertModelFrom(rep)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("audit_reports", insertModel, `ON CONFLICT (run_id)
DO UPDATE SET
    fixture_id = EXCLUDED.fixture_id,
    accuracy_score = EXCLUDED.accuracy_score,
    section_scores = EXCLUDED.section_scores,
    issues = EXCLUDED.issues,
    generated_at = EXCLUDED.generated_at`)
	if err != nil {
		return fmt.Errorf("build upsert audit report query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert audit report run_id=%s: %w", rep.RunID, err)
	}

	return nil
}

func (r *ReportRepository) GetByRunID(ctx context.Context, runID string) (report.Report, bool, error) {
	query, args, err := qb.Select("*").From("audit_reports").
		Where(qb.Eq("run_id", runID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return report.Report{}, false, fmt.Errorf("build select audit report query: %w", err)
	}

	var row reportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return report.Report{}, false, nil
		}
		return report.Report{}, false, fmt.Errorf("select audit report by run_id: %w", err)
	}

	rep, err := row.toDomain()
	if err != nil {
		return report.Report{}, false, err
	}

	return rep, true, nil
}

func (r *ReportRepository) ListByFixture(ctx context.Context, fixtureID string) ([]report.Report, error) {
	query, args, err := qb.Select("*").From("audit_reports").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("generated_at DESC", "run_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select audit reports by fixture query: %w", err)
	}

	var rows []reportTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select audit reports by fixture: %w", err)
	}

	out := make([]report.Report, 0, len(rows))
	for _, row := range rows {
		rep, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}

	return out, nil
}
