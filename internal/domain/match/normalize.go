package match

import (
	"strings"
	"time"

	"github.com/goalsight/matchaudit/internal/domain/rawdata"
)

const (
	UnknownHomeName = "Unknown Home"
	UnknownAwayName = "Unknown Away"

	// noSeason is the provider sentinel for fixtures outside a season
	// (friendlies, placeholder entries).
	noSeason = "-1"
)

// candidatePaths declares, per canonical field, the ordered fallback chain of
// raw keys and dotted paths. Resolution is strictly left to right; the first
// present, non-nil candidate wins. Keeping the chains in one table documents
// the order and lets it be tested on its own.
var candidatePaths = struct {
	ID            []string
	HomeTeamID    []string
	AwayTeamID    []string
	HomeTeamName  []string
	AwayTeamName  []string
	HomeGoals     []string
	AwayGoals     []string
	HomeCards     []string
	AwayCards     []string
	HomeYellow    []string
	AwayYellow    []string
	HomeRed       []string
	AwayRed       []string
	HomeCorners   []string
	AwayCorners   []string
	Season        []string
	CompetitionID []string
	Date          []string
	Status        []string
}{
	ID:            []string{"id", "matchID", "match_id", "fixture_id"},
	HomeTeamID:    []string{"homeID", "home_id", "homeTeam.id", "team_a_id"},
	AwayTeamID:    []string{"awayID", "away_id", "awayTeam.id", "team_b_id"},
	HomeTeamName:  []string{"home_name", "homeName", "homeTeam.name", "team_a_name"},
	AwayTeamName:  []string{"away_name", "awayName", "awayTeam.name", "team_b_name"},
	HomeGoals:     []string{"homeGoalCount", "home_goals", "homeGoals", "team_a_goals", "score.home"},
	AwayGoals:     []string{"awayGoalCount", "away_goals", "awayGoals", "team_b_goals", "score.away"},
	HomeCards:     []string{"team_a_card_num", "homeCards", "cards.home.total"},
	AwayCards:     []string{"team_b_card_num", "awayCards", "cards.away.total"},
	HomeYellow:    []string{"team_a_yellow_cards", "homeYellowCards", "cards.home.yellow"},
	AwayYellow:    []string{"team_b_yellow_cards", "awayYellowCards", "cards.away.yellow"},
	HomeRed:       []string{"team_a_red_cards", "homeRedCards", "cards.home.red"},
	AwayRed:       []string{"team_b_red_cards", "awayRedCards", "cards.away.red"},
	HomeCorners:   []string{"team_a_corners", "homeCorners", "corners.home"},
	AwayCorners:   []string{"team_b_corners", "awayCorners", "corners.away"},
	Season:        []string{"season", "season_name", "seasonYear"},
	CompetitionID: []string{"competition_id", "competitionID", "league_id", "leagueID"},
	Date:          []string{"date_unix", "dateUnix", "date", "kickoff", "match_date"},
	Status:        []string{"status", "state", "match_status"},
}

// excludedCompetitionIDs lists competition identifiers whose fixtures are
// never statistically representative (youth and reserve mirrors of the main
// competition feeds).
var excludedCompetitionIDs = map[string]struct{}{
	"0":    {},
	"9999": {},
}

// dateLayouts are tried in order when the date candidate is not unix seconds.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize maps one raw record onto the canonical Match shape. It never
// fails: absent numerics become 0, absent identifiers stay empty, absent
// names become the Unknown sentinels. Total fields are derived from their
// components here and nowhere else.
func Normalize(raw rawdata.Record) Match {
	m := Match{
		HomeTeamName: UnknownHomeName,
		AwayTeamName: UnknownAwayName,
	}

	m.ID, _ = rawdata.FirstString(raw, candidatePaths.ID...)
	m.HomeTeamID, _ = rawdata.FirstString(raw, candidatePaths.HomeTeamID...)
	m.AwayTeamID, _ = rawdata.FirstString(raw, candidatePaths.AwayTeamID...)

	if name, ok := rawdata.FirstString(raw, candidatePaths.HomeTeamName...); ok {
		m.HomeTeamName = name
	}
	if name, ok := rawdata.FirstString(raw, candidatePaths.AwayTeamName...); ok {
		m.AwayTeamName = name
	}

	m.HomeGoals = firstInt(raw, candidatePaths.HomeGoals)
	m.AwayGoals = firstInt(raw, candidatePaths.AwayGoals)
	m.TotalGoals = m.HomeGoals + m.AwayGoals

	m.HomeCards = resolveCards(raw, candidatePaths.HomeCards, candidatePaths.HomeYellow, candidatePaths.HomeRed)
	m.AwayCards = resolveCards(raw, candidatePaths.AwayCards, candidatePaths.AwayYellow, candidatePaths.AwayRed)
	m.TotalCards = m.HomeCards + m.AwayCards

	m.HomeCorners = firstInt(raw, candidatePaths.HomeCorners)
	m.AwayCorners = firstInt(raw, candidatePaths.AwayCorners)
	m.TotalCorners = m.HomeCorners + m.AwayCorners

	m.Season, _ = rawdata.FirstString(raw, candidatePaths.Season...)
	m.CompetitionID, _ = rawdata.FirstString(raw, candidatePaths.CompetitionID...)

	m.DateText, _ = rawdata.FirstString(raw, candidatePaths.Date...)
	m.DateUnix = resolveDateUnix(raw)

	if status, ok := rawdata.FirstString(raw, candidatePaths.Status...); ok {
		m.Status = NormalizeStatus(status)
	} else {
		m.Status = StatusIncomplete
	}

	return m
}

// IsRepresentativeFixture reports whether a raw record should count toward
// statistical windows. Excluded: fixtures whose team names carry a
// parenthetical variant marker ("Bayern (A)", "(Youth)"), fixtures outside a
// season, and fixtures in an explicitly excluded competition.
func IsRepresentativeFixture(raw rawdata.Record) bool {
	homeName, _ := rawdata.FirstString(raw, candidatePaths.HomeTeamName...)
	awayName, _ := rawdata.FirstString(raw, candidatePaths.AwayTeamName...)
	if hasVariantMarker(homeName) || hasVariantMarker(awayName) {
		return false
	}

	if season, ok := rawdata.FirstString(raw, candidatePaths.Season...); ok && season == noSeason {
		return false
	}

	if competitionID, ok := rawdata.FirstString(raw, candidatePaths.CompetitionID...); ok {
		if _, excluded := excludedCompetitionIDs[competitionID]; excluded {
			return false
		}
	}

	return true
}

func hasVariantMarker(name string) bool {
	return strings.Contains(name, "(") && strings.Contains(name, ")")
}

func firstInt(raw rawdata.Record, paths []string) int {
	n, _ := rawdata.FirstNumber(raw, paths...)
	return int(n)
}

// resolveCards prefers an explicit per-team card count and falls back to
// summing the yellow and red components when only those exist.
func resolveCards(raw rawdata.Record, totalPaths, yellowPaths, redPaths []string) int {
	if n, ok := rawdata.FirstNumber(raw, totalPaths...); ok {
		return int(n)
	}

	yellow, okYellow := rawdata.FirstNumber(raw, yellowPaths...)
	red, okRed := rawdata.FirstNumber(raw, redPaths...)
	if !okYellow && !okRed {
		return 0
	}
	return int(yellow) + int(red)
}

func resolveDateUnix(raw rawdata.Record) int64 {
	value, ok := rawdata.First(raw, candidatePaths.Date...)
	if !ok {
		return 0
	}

	if n, numeric := rawdata.Number(value); numeric && n > 0 {
		return int64(n)
	}

	text, _ := rawdata.String(value)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts.Unix()
		}
	}

	return 0
}
