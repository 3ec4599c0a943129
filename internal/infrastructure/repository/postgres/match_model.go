package postgres

import (
	"time"

	"github.com/goalsight/matchaudit/internal/domain/match"
)

type matchTableModel struct {
	ID            string    `db:"id"`
	HomeTeamID    string    `db:"home_team_id"`
	AwayTeamID    string    `db:"away_team_id"`
	HomeTeamName  string    `db:"home_team_name"`
	AwayTeamName  string    `db:"away_team_name"`
	HomeGoals     int       `db:"home_goals"`
	AwayGoals     int       `db:"away_goals"`
	HomeCards     int       `db:"home_cards"`
	AwayCards     int       `db:"away_cards"`
	HomeCorners   int       `db:"home_corners"`
	AwayCorners   int       `db:"away_corners"`
	Season        string    `db:"season"`
	CompetitionID string    `db:"competition_id"`
	DateUnix      int64     `db:"date_unix"`
	DateText      string    `db:"date_text"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Totals are derived on read so a stored row can never disagree with its
// components.
func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:            m.ID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		HomeTeamName:  m.HomeTeamName,
		AwayTeamName:  m.AwayTeamName,
		HomeGoals:     m.HomeGoals,
		AwayGoals:     m.AwayGoals,
		TotalGoals:    m.HomeGoals + m.AwayGoals,
		HomeCards:     m.HomeCards,
		AwayCards:     m.AwayCards,
		TotalCards:    m.HomeCards + m.AwayCards,
		HomeCorners:   m.HomeCorners,
		AwayCorners:   m.AwayCorners,
		TotalCorners:  m.HomeCorners + m.AwayCorners,
		Season:        m.Season,
		CompetitionID: m.CompetitionID,
		DateUnix:      m.DateUnix,
		DateText:      m.DateText,
		Status:        m.Status,
	}
}

type matchInsertModel struct {
	ID            string `db:"id"`
	HomeTeamID    string `db:"home_team_id"`
	AwayTeamID    string `db:"away_team_id"`
	HomeTeamName  string `db:"home_team_name"`
	AwayTeamName  string `db:"away_team_name"`
	HomeGoals     int    `db:"home_goals"`
	AwayGoals     int    `db:"away_goals"`
	HomeCards     int    `db:"home_cards"`
	AwayCards     int    `db:"away_cards"`
	HomeCorners   int    `db:"home_corners"`
	AwayCorners   int    `db:"away_corners"`
	Season        string `db:"season"`
	CompetitionID string `db:"competition_id"`
	DateUnix      int64  `db:"date_unix"`
	DateText      string `db:"date_text"`
	Status        string `db:"status"`
}

func matchInsertModelFrom(m match.Match) matchInsertModel {
	return matchInsertModel{
		ID:            m.ID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		HomeTeamName:  m.HomeTeamName,
		AwayTeamName:  m.AwayTeamName,
		HomeGoals:     m.HomeGoals,
		AwayGoals:     m.AwayGoals,
		HomeCards:     m.HomeCards,
		AwayCards:     m.AwayCards,
		HomeCorners:   m.HomeCorners,
		AwayCorners:   m.AwayCorners,
		Season:        m.Season,
		CompetitionID: m.CompetitionID,
		DateUnix:      m.DateUnix,
		DateText:      m.DateText,
		Status:        m.Status,
	}
}
