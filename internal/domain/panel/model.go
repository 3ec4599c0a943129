package panel

import "github.com/goalsight/matchaudit/internal/domain/rawdata"

// Panel is one named, arbitrarily nested block of statistics about a
// fixture: provider output, aggregator output, or both merged. The
// validator treats it as opaque except where a rule names a field.
type Panel = rawdata.Record

// Bundle maps section keys to their panels. Absent sections are legal input;
// the validator reports them instead of failing.
type Bundle map[string]Panel

// Recognized section keys.
const (
	SectionMatch   = "match"
	SectionH2H     = "h2h"
	SectionCorners = "corners"
	SectionCards   = "cards"
	SectionBTTS    = "btts"
	SectionPlayers = "players"
	SectionReferee = "referee"
)

// RequiredSections are the sections every audit expects to see. SectionReferee
// is optional: many feeds omit referee assignments until close to kickoff.
var RequiredSections = []string{
	SectionMatch,
	SectionH2H,
	SectionCorners,
	SectionCards,
	SectionBTTS,
	SectionPlayers,
}

// ReferenceFixture is one externally supplied ground-truth result used to
// cross-check the h2h section.
type ReferenceFixture struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Date      string `json:"date"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}
