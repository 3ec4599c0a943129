package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalsight/matchaudit/internal/domain/match"
	qb "github.com/goalsight/matchaudit/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
		).
		OrderBy("date_unix DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by team query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by team: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) UpsertMany(ctx context.Context, matches []match.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range matches {
		query, args, err := qb.InsertModel("matches", matchInsertModelFrom(item), `ON CONFLICT (id)
DO UPDATE SET
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_team_name = EXCLUDED.home_team_name,
    away_team_name = EXCLUDED.away_team_name,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    home_cards = EXCLUDED.home_cards,
    away_cards = EXCLUDED.away_cards,
    home_corners = EXCLUDED.home_corners,
    away_corners = EXCLUDED.away_corners,
    season = EXCLUDED.season,
    competition_id = EXCLUDED.competition_id,
    date_unix = EXCLUDED.date_unix,
    date_text = EXCLUDED.date_text,
    status = EXCLUDED.status,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}

	return nil
}
