package memory

import "github.com/goalsight/matchaudit/internal/domain/match"

const (
	TeamIDRiverton   = "clb-riverton"
	TeamIDHarborough = "clb-harborough"
	TeamIDWestmere   = "clb-westmere"
	TeamIDKingsfield = "clb-kingsfield"
)

// SeedMatches is a small finished-fixture corpus for dev mode, enough to
// exercise window selection for every seeded team in both venue roles.
func SeedMatches() []match.Match {
	build := func(id, homeID, homeName, awayID, awayName string, hg, ag, hc, ac, hco, aco int, dateUnix int64) match.Match {
		return match.Match{
			ID:            id,
			HomeTeamID:    homeID,
			AwayTeamID:    awayID,
			HomeTeamName:  homeName,
			AwayTeamName:  awayName,
			HomeGoals:     hg,
			AwayGoals:     ag,
			TotalGoals:    hg + ag,
			HomeCards:     hc,
			AwayCards:     ac,
			TotalCards:    hc + ac,
			HomeCorners:   hco,
			AwayCorners:   aco,
			TotalCorners:  hco + aco,
			Season:        "2025/2026",
			CompetitionID: "lg-national-one",
			DateUnix:      dateUnix,
			Status:        match.StatusComplete,
		}
	}

	return []match.Match{
		build("fx-seed-001", TeamIDRiverton, "Riverton FC", TeamIDHarborough, "Harborough Town", 2, 1, 2, 3, 6, 4, 1767139200),
		build("fx-seed-002", TeamIDWestmere, "Westmere United", TeamIDRiverton, "Riverton FC", 0, 0, 1, 2, 5, 7, 1767744000),
		build("fx-seed-003", TeamIDRiverton, "Riverton FC", TeamIDKingsfield, "Kingsfield Athletic", 3, 2, 2, 2, 8, 3, 1768348800),
		build("fx-seed-004", TeamIDHarborough, "Harborough Town", TeamIDWestmere, "Westmere United", 1, 1, 3, 1, 4, 6, 1768953600),
		build("fx-seed-005", TeamIDKingsfield, "Kingsfield Athletic", TeamIDHarborough, "Harborough Town", 2, 0, 1, 4, 7, 2, 1769558400),
		build("fx-seed-006", TeamIDWestmere, "Westmere United", TeamIDKingsfield, "Kingsfield Athletic", 1, 2, 2, 3, 5, 5, 1770163200),
		build("fx-seed-007", TeamIDHarborough, "Harborough Town", TeamIDRiverton, "Riverton FC", 0, 2, 4, 1, 3, 9, 1770768000),
		build("fx-seed-008", TeamIDKingsfield, "Kingsfield Athletic", TeamIDWestmere, "Westmere United", 3, 3, 2, 2, 6, 6, 1771372800),
	}
}
