package match

import (
	"testing"

	"github.com/goalsight/matchaudit/internal/domain/rawdata"
)

func TestNormalize_FallbackChains(t *testing.T) {
	t.Parallel()

	raw := rawdata.Record{
		"match_id":       float64(9001),
		"homeTeam":       map[string]any{"id": "101", "name": "FC Augsburg"},
		"team_b_id":      "202",
		"away_name":      "VfL Bochum",
		"homeGoalCount":  float64(2),
		"awayGoalCount":  float64(1),
		"team_a_corners": float64(7),
		"team_b_corners": float64(3),
		"season":         "2025/2026",
		"competition_id": "12",
		"date_unix":      float64(1756000000),
		"status":         "complete",
	}

	m := Normalize(raw)

	if m.ID != "9001" {
		t.Fatalf("unexpected id: got=%s want=9001", m.ID)
	}
	if m.HomeTeamID != "101" || m.AwayTeamID != "202" {
		t.Fatalf("unexpected team ids: got=%s/%s want=101/202", m.HomeTeamID, m.AwayTeamID)
	}
	if m.HomeTeamName != "FC Augsburg" || m.AwayTeamName != "VfL Bochum" {
		t.Fatalf("unexpected names: got=%s/%s", m.HomeTeamName, m.AwayTeamName)
	}
	if m.TotalGoals != 3 || m.TotalCorners != 10 {
		t.Fatalf("unexpected totals: goals=%d corners=%d", m.TotalGoals, m.TotalCorners)
	}
	if m.DateUnix != 1756000000 {
		t.Fatalf("unexpected date: got=%d want=1756000000", m.DateUnix)
	}
	if !IsFinishedStatus(m.Status) {
		t.Fatalf("expected finished status, got=%s", m.Status)
	}
}

func TestNormalize_DerivedTotalsOnEmptyRecord(t *testing.T) {
	t.Parallel()

	m := Normalize(rawdata.Record{})

	if m.TotalGoals != 0 || m.TotalCards != 0 || m.TotalCorners != 0 {
		t.Fatalf("expected zero totals, got goals=%d cards=%d corners=%d",
			m.TotalGoals, m.TotalCards, m.TotalCorners)
	}
	if m.HomeTeamName != UnknownHomeName || m.AwayTeamName != UnknownAwayName {
		t.Fatalf("expected sentinel names, got=%s/%s", m.HomeTeamName, m.AwayTeamName)
	}
	if m.ID != "" || m.HomeTeamID != "" {
		t.Fatalf("expected empty identifiers, got id=%s home=%s", m.ID, m.HomeTeamID)
	}
	if m.Status != StatusIncomplete {
		t.Fatalf("unexpected default status: got=%s want=%s", m.Status, StatusIncomplete)
	}
}

func TestNormalize_TotalsAlwaysDerived(t *testing.T) {
	t.Parallel()

	// A raw record claiming an inconsistent pre-summed total must lose to
	// the derived component sum.
	raw := rawdata.Record{
		"homeGoalCount":  float64(2),
		"awayGoalCount":  float64(2),
		"totalGoalCount": float64(9),
	}

	m := Normalize(raw)
	if m.TotalGoals != 4 {
		t.Fatalf("total goals must be derived: got=%d want=4", m.TotalGoals)
	}
}

func TestNormalize_CardComponentsSummed(t *testing.T) {
	t.Parallel()

	raw := rawdata.Record{
		"team_a_yellow_cards": float64(3),
		"team_a_red_cards":    float64(1),
		"team_b_yellow_cards": float64(2),
	}

	m := Normalize(raw)
	if m.HomeCards != 4 {
		t.Fatalf("unexpected home cards: got=%d want=4", m.HomeCards)
	}
	if m.AwayCards != 2 {
		t.Fatalf("unexpected away cards: got=%d want=2", m.AwayCards)
	}
	if m.TotalCards != 6 {
		t.Fatalf("unexpected total cards: got=%d want=6", m.TotalCards)
	}
}

func TestNormalize_ExplicitCardCountWinsOverComponents(t *testing.T) {
	t.Parallel()

	raw := rawdata.Record{
		"team_a_card_num":     float64(5),
		"team_a_yellow_cards": float64(1),
	}

	m := Normalize(raw)
	if m.HomeCards != 5 {
		t.Fatalf("unexpected home cards: got=%d want=5", m.HomeCards)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	first := Normalize(rawdata.Record{
		"id":            "77",
		"homeID":        "1",
		"awayID":        "2",
		"home_name":     "Werder Bremen",
		"away_name":     "1. FC Köln",
		"homeGoalCount": float64(1),
		"awayGoalCount": float64(1),
		"date_unix":     float64(1755000000),
		"status":        "complete",
	})

	again := Normalize(rawdata.Record{
		"id":            first.ID,
		"homeID":        first.HomeTeamID,
		"awayID":        first.AwayTeamID,
		"home_name":     first.HomeTeamName,
		"away_name":     first.AwayTeamName,
		"homeGoalCount": first.HomeGoals,
		"awayGoalCount": first.AwayGoals,
		"date_unix":     first.DateUnix,
		"status":        first.Status,
	})

	if first != again {
		t.Fatalf("normalize is not idempotent:\nfirst=%+v\nagain=%+v", first, again)
	}
}

func TestNormalize_TextDateParsed(t *testing.T) {
	t.Parallel()

	m := Normalize(rawdata.Record{"date": "2026-08-15"})
	if m.DateUnix <= 0 {
		t.Fatalf("expected parseable text date, got=%d", m.DateUnix)
	}

	m = Normalize(rawdata.Record{"date": "next tuesday"})
	if m.DateUnix != 0 {
		t.Fatalf("expected unparseable date to stay undated, got=%d", m.DateUnix)
	}
}

func TestIsRepresentativeFixture(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  rawdata.Record
		want bool
	}{
		{
			name: "plain fixture",
			raw: rawdata.Record{
				"home_name": "Hertha BSC", "away_name": "St. Pauli", "season": "2025/2026",
			},
			want: true,
		},
		{
			name: "parenthetical variant marker",
			raw: rawdata.Record{
				"home_name": "Hertha BSC (Youth)", "away_name": "St. Pauli",
			},
			want: false,
		},
		{
			name: "no-season sentinel",
			raw: rawdata.Record{
				"home_name": "Hertha BSC", "away_name": "St. Pauli", "season": "-1",
			},
			want: false,
		},
		{
			name: "excluded competition",
			raw: rawdata.Record{
				"home_name": "Hertha BSC", "away_name": "St. Pauli", "competition_id": "9999",
			},
			want: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRepresentativeFixture(tc.raw); got != tc.want {
				t.Fatalf("unexpected classification: got=%v want=%v", got, tc.want)
			}
		})
	}
}
