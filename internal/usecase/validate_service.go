package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goalsight/matchaudit/internal/domain/panel"
	"github.com/goalsight/matchaudit/internal/domain/rawdata"
	"github.com/goalsight/matchaudit/internal/domain/report"
	idgen "github.com/goalsight/matchaudit/internal/platform/id"
	"github.com/goalsight/matchaudit/internal/platform/logging"
)

// Numeric tolerances per rule class. Aggregation sums are exact.
const (
	averageTolerance    = 0.1
	percentSumTolerance = 0.1
	compositeBound      = 100 + percentSumTolerance
)

// Plausibility bounds for the unrealistic-data rule.
const (
	maxCardsPerMatch      = 10.0
	maxCornersPerMatch    = 25.0
	maxGoalsPerAppearance = 3.0
)

// placeholderNames flag identifier or name values that are template
// leftovers rather than real data. Matching is case-insensitive substring
// for "undefined" and exact for the generic names.
var placeholderNames = map[string]struct{}{
	"Home Team":    {},
	"Away Team":    {},
	"Unknown Home": {},
	"Unknown Away": {},
	"TBD":          {},
	"N/A":          {},
}

// panelPaths declares the candidate paths the validator reads, per section,
// mirroring the normalizer's table-driven resolution.
var panelPaths = struct {
	MatchID        []string
	MatchHome      []string
	MatchAway      []string
	Played         []string
	TotalCorners   []string
	AvgCorners     []string
	TotalCards     []string
	AvgCards       []string
	BTTSPct        []string
	CleanSheetPct  []string
	TeamGoals      []string
	RefereeMatches []string
	RefereeCards   []string
	RefereeAvg     []string
}{
	MatchID:        []string{"id", "matchID", "match_id"},
	MatchHome:      []string{"home_name", "homeName", "homeTeam.name"},
	MatchAway:      []string{"away_name", "awayName", "awayTeam.name"},
	Played:         []string{"matchesPlayed", "matches_played", "matchCount"},
	TotalCorners:   []string{"totalCorners", "total_corners"},
	AvgCorners:     []string{"averageCorners", "avg_corners"},
	TotalCards:     []string{"totalCards", "total_cards"},
	AvgCards:       []string{"averageCards", "avg_cards"},
	BTTSPct:        []string{"bttsPercentage", "btts_pct"},
	CleanSheetPct:  []string{"cleanSheetPercentage", "clean_sheet_pct"},
	TeamGoals:      []string{"teamGoalsTotal", "team_goals_total"},
	RefereeMatches: []string{"matchesOfficiated", "matches_officiated"},
	RefereeCards:   []string{"totalCards", "total_cards"},
	RefereeAvg:     []string{"cardsPerMatch", "cards_per_match"},
}

// ValidateInput is one validation run: the panel bundle plus the optional
// ground-truth reference fixtures for the h2h cross-check.
type ValidateInput struct {
	FixtureID  string
	Bundle     panel.Bundle
	References []panel.ReferenceFixture
}

// ValidateService checks a bundle of statistical panels against a fixed set
// of arithmetic and logical invariants. Data-quality problems become report
// issues, never errors: one bad section must not abort the others.
type ValidateService struct {
	idGen  idgen.Generator
	now    func() time.Time
	logger *logging.Logger
}

func NewValidateService(idGen idgen.Generator, logger *logging.Logger) *ValidateService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ValidateService{
		idGen:  idGen,
		now:    time.Now,
		logger: logger,
	}
}

// Validate runs every applicable rule over the bundle and returns the
// assembled report. Absent sections yield exactly one MissingData issue each
// and processing continues.
func (s *ValidateService) Validate(ctx context.Context, input ValidateInput) report.Report {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValidateService.Validate")
	defer span.End()

	c := &checker{}
	sections := append([]string(nil), panel.RequiredSections...)

	for _, section := range panel.RequiredSections {
		p, present := input.Bundle[section]
		if !present || len(p) == 0 {
			c.add(report.KindMissingData, section, "section is absent")
			continue
		}
		s.checkSection(c, section, p, input)
	}

	// Referee assignments arrive late in many feeds; the section is only
	// checked when supplied.
	if p, present := input.Bundle[panel.SectionReferee]; present && len(p) > 0 {
		sections = append(sections, panel.SectionReferee)
		s.checkReferee(c, p)
	}

	runID, err := s.idGen.NewRunID()
	if err != nil {
		runID = "run-unknown"
	}

	rep := report.Build(runID, input.FixtureID, c.issues, sections, s.now().UTC())
	s.logger.Debug("validated panel bundle",
		"fixture_id", input.FixtureID,
		"issues", len(rep.Issues),
		"accuracy", rep.AccuracyScore,
	)

	return rep
}

func (s *ValidateService) checkSection(c *checker, section string, p panel.Panel, input ValidateInput) {
	switch section {
	case panel.SectionMatch:
		s.checkMatch(c, p)
	case panel.SectionH2H:
		s.checkH2H(c, p, input.References)
	case panel.SectionCorners:
		s.checkCountPanel(c, section, p, countPanelRules{
			totalPaths:   panelPaths.TotalCorners,
			averagePaths: panelPaths.AvgCorners,
			breakdownKey: "cornersByPeriod",
			ratesKey:     "overRates",
			maxPerMatch:  maxCornersPerMatch,
			quantity:     "corners",
		})
	case panel.SectionCards:
		s.checkCountPanel(c, section, p, countPanelRules{
			totalPaths:   panelPaths.TotalCards,
			averagePaths: panelPaths.AvgCards,
			breakdownKey: "cardsByPeriod",
			ratesKey:     "overRates",
			maxPerMatch:  maxCardsPerMatch,
			quantity:     "cards",
		})
	case panel.SectionBTTS:
		s.checkBTTS(c, p)
	case panel.SectionPlayers:
		s.checkPlayers(c, p, input.Bundle)
	}
}

// checkMatch flags placeholder identifiers and names in the metadata panel.
// Presence is checked against the declared paths; the placeholder sweep then
// covers every identifier- and name-class key the panel carries, whatever
// the feed happens to call it.
func (s *ValidateService) checkMatch(c *checker, p panel.Panel) {
	if _, ok := rawdata.FirstString(p, panelPaths.MatchID...); !ok {
		c.add(report.KindMissingData, panel.SectionMatch, "match id is absent")
	}
	if _, ok := rawdata.FirstString(p, panelPaths.MatchHome...); !ok {
		c.add(report.KindMissingData, panel.SectionMatch, "home team name is absent")
	}
	if _, ok := rawdata.FirstString(p, panelPaths.MatchAway...); !ok {
		c.add(report.KindMissingData, panel.SectionMatch, "away team name is absent")
	}

	for _, category := range []rawdata.FieldCategory{rawdata.CategoryIdentifier, rawdata.CategoryName} {
		keys := rawdata.KeysInCategory(p, category)
		sort.Strings(keys)
		for _, key := range keys {
			if value, ok := rawdata.String(p[key]); ok {
				c.checkPlaceholder(panel.SectionMatch, key, value)
			}
		}
	}
}

// countPanelRules parameterizes the shared rule set for the corner and card
// panels: both report a total, an average, an over-rate ladder and a
// per-period breakdown of the same quantity.
type countPanelRules struct {
	totalPaths   []string
	averagePaths []string
	breakdownKey string
	ratesKey     string
	maxPerMatch  float64
	quantity     string
}

func (s *ValidateService) checkCountPanel(c *checker, section string, p panel.Panel, rules countPanelRules) {
	total, totalOK := rawdata.FirstNumber(p, rules.totalPaths...)
	if !totalOK {
		c.add(report.KindMissingData, section, "total %s is absent", rules.quantity)
	}

	played, playedOK := rawdata.FirstNumber(p, panelPaths.Played...)
	average, averageOK := rawdata.FirstNumber(p, rules.averagePaths...)

	if totalOK && playedOK && averageOK && played > 0 {
		expected := total / played
		if diff(expected, average) > averageTolerance {
			c.add(report.KindCalculationError, section,
				"average %s %s does not match %s/%s = %s",
				rules.quantity, trimFloat(average), trimFloat(total), trimFloat(played), trimFloat(expected))
		}
	}

	if averageOK && average > rules.maxPerMatch {
		c.add(report.KindUnrealisticData, section,
			"average %s per match %s exceeds plausibility bound %s",
			rules.quantity, trimFloat(average), trimFloat(rules.maxPerMatch))
	}

	c.checkOverRates(section, p, rules.ratesKey)

	if totalOK {
		c.checkBreakdownSum(section, p, rules.breakdownKey, rules.quantity, total)
	}
}

func (s *ValidateService) checkBTTS(c *checker, p panel.Panel) {
	btts, bttsOK := rawdata.FirstNumber(p, panelPaths.BTTSPct...)
	if !bttsOK {
		c.add(report.KindMissingData, panel.SectionBTTS, "btts percentage is absent")
	} else {
		c.checkPercentRange(panel.SectionBTTS, "btts percentage", btts)
	}

	cleanSheet, cleanSheetOK := rawdata.FirstNumber(p, panelPaths.CleanSheetPct...)
	if cleanSheetOK {
		c.checkPercentRange(panel.SectionBTTS, "clean sheet percentage", cleanSheet)
	}

	// Both-teams-scored and clean-sheet are mutually exclusive per match, so
	// their rates cannot jointly exceed the sample.
	if bttsOK && cleanSheetOK && btts+cleanSheet > compositeBound {
		c.add(report.KindLogicalError, panel.SectionBTTS,
			"btts %s%% and clean sheet %s%% sum to %s%%, above 100%%",
			trimFloat(btts), trimFloat(cleanSheet), trimFloat(btts+cleanSheet))
	}

	c.checkDistribution(panel.SectionBTTS, p, "resultDistribution")
}

func (s *ValidateService) checkPlayers(c *checker, p panel.Panel, bundle panel.Bundle) {
	rows, ok := panelList(p, "players", "list")
	if !ok || len(rows) == 0 {
		c.add(report.KindMissingData, panel.SectionPlayers, "player list is absent")
		return
	}

	playerGoals := 0.0
	for i, row := range rows {
		label := fmt.Sprintf("player %d", i+1)
		if name, nameOK := rawdata.FirstString(row, "name", "player_name", "known_as"); nameOK {
			label = name
			c.checkPlaceholder(panel.SectionPlayers, "player name", name)
		}

		appearances, appsOK := rawdata.FirstNumber(row, "appearances", "apps", "matches_played")
		goals, goalsOK := rawdata.FirstNumber(row, "goals", "goals_overall")
		if goalsOK {
			playerGoals += goals
		}

		if appsOK && goalsOK && appearances > 0 && goals > maxGoalsPerAppearance*appearances {
			c.add(report.KindUnrealisticData, panel.SectionPlayers,
				"%s: %s goals in %s appearances exceeds plausibility bound",
				label, trimFloat(goals), trimFloat(appearances))
		}

		if reported, reportedOK := rawdata.FirstNumber(row, "goalsPerMatch", "goals_per_match"); reportedOK && appsOK && goalsOK && appearances > 0 {
			expected := goals / appearances
			if diff(expected, reported) > averageTolerance {
				c.add(report.KindCalculationError, panel.SectionPlayers,
					"%s: goals per match %s does not match %s/%s = %s",
					label, trimFloat(reported), trimFloat(goals), trimFloat(appearances), trimFloat(expected))
			}
		}
	}

	// Cross-section total: summed player goals against the team-level total
	// reported elsewhere in the bundle.
	if bttsPanel, present := bundle[panel.SectionBTTS]; present {
		if teamGoals, teamOK := rawdata.FirstNumber(bttsPanel, panelPaths.TeamGoals...); teamOK {
			if diff(playerGoals, teamGoals) > 0 {
				c.add(report.KindCrossSectionInconsistency, panel.SectionPlayers,
					"summed player goals %s disagree with team total %s reported in %s",
					trimFloat(playerGoals), trimFloat(teamGoals), panel.SectionBTTS)
			}
		}
	}
}

func (s *ValidateService) checkH2H(c *checker, p panel.Panel, refs []panel.ReferenceFixture) {
	rows, ok := panelList(p, "previousResults", "previous_results", "matches")
	if !ok {
		c.add(report.KindMissingData, panel.SectionH2H, "previous results are absent")
		return
	}

	c.checkDistribution(panel.SectionH2H, p, "outcomeDistribution")

	for _, ref := range refs {
		found := false
		for _, row := range rows {
			if !sameFixture(row, ref) {
				continue
			}
			found = true
			homeGoals, _ := rawdata.FirstNumber(row, "homeGoals", "home_goals", "homeGoalCount")
			awayGoals, _ := rawdata.FirstNumber(row, "awayGoals", "away_goals", "awayGoalCount")
			if int(homeGoals) != ref.HomeGoals || int(awayGoals) != ref.AwayGoals {
				c.add(report.KindHistoricalDataError, panel.SectionH2H,
					"%s vs %s on %s: reported %d-%d, expected %d-%d",
					ref.HomeTeam, ref.AwayTeam, ref.Date,
					int(homeGoals), int(awayGoals), ref.HomeGoals, ref.AwayGoals)
			}
			break
		}
		if !found {
			c.add(report.KindMissingHistoricalData, panel.SectionH2H,
				"%s vs %s on %s is missing from head-to-head history",
				ref.HomeTeam, ref.AwayTeam, ref.Date)
		}
	}
}

func (s *ValidateService) checkReferee(c *checker, p panel.Panel) {
	if name, ok := rawdata.FirstString(p, "name", "referee", "full_name"); ok {
		c.checkPlaceholder(panel.SectionReferee, "referee name", name)
	}

	matches, matchesOK := rawdata.FirstNumber(p, panelPaths.RefereeMatches...)
	cards, cardsOK := rawdata.FirstNumber(p, panelPaths.RefereeCards...)
	perMatch, perMatchOK := rawdata.FirstNumber(p, panelPaths.RefereeAvg...)

	if matchesOK && cardsOK && perMatchOK && matches > 0 {
		expected := cards / matches
		if diff(expected, perMatch) > averageTolerance {
			c.add(report.KindCalculationError, panel.SectionReferee,
				"cards per match %s does not match %s/%s = %s",
				trimFloat(perMatch), trimFloat(cards), trimFloat(matches), trimFloat(expected))
		}
	}

	if perMatchOK && perMatch > maxCardsPerMatch {
		c.add(report.KindUnrealisticData, panel.SectionReferee,
			"cards per match %s exceeds plausibility bound %s",
			trimFloat(perMatch), trimFloat(maxCardsPerMatch))
	}
}

// checker accumulates issues during a single validation pass.
type checker struct {
	issues []report.Issue
}

func (c *checker) add(kind report.IssueKind, section, format string, args ...any) {
	c.issues = append(c.issues, report.NewIssue(kind, section, fmt.Sprintf(format, args...)))
}

func (c *checker) checkPlaceholder(section, label string, value string) {
	if strings.Contains(strings.ToLower(value), "undefined") {
		c.add(report.KindPlaceholderData, section, "%s %q contains a placeholder token", label, value)
		return
	}
	if _, generic := placeholderNames[value]; generic {
		c.add(report.KindPlaceholderData, section, "%s %q is a generic template value", label, value)
	}
}

func (c *checker) checkPercentRange(section, label string, value float64) {
	if value < 0 || value > 100 {
		c.add(report.KindProbabilityError, section, "%s %s%% lies outside [0,100]", label, trimFloat(value))
	}
}

// checkOverRates enforces range and monotonicity over a threshold-indexed
// rate ladder. The monotonicity rule is generalized across every ordered
// threshold pair, not only adjacent ones.
func (c *checker) checkOverRates(section string, p panel.Panel, key string) {
	rates, ok := thresholdMap(p, key)
	if !ok {
		return
	}

	thresholds := make([]float64, 0, len(rates))
	for threshold := range rates {
		thresholds = append(thresholds, threshold)
	}
	sort.Float64s(thresholds)

	for _, threshold := range thresholds {
		c.checkPercentRange(section, fmt.Sprintf("over %s rate", trimFloat(threshold)), rates[threshold])
	}

	for i := 0; i < len(thresholds); i++ {
		for j := i + 1; j < len(thresholds); j++ {
			lower, higher := thresholds[i], thresholds[j]
			if rates[lower] < rates[higher] {
				c.add(report.KindLogicalError, section,
					"over %s rate %s%% is below over %s rate %s%%; rates must not increase with the threshold",
					trimFloat(lower), trimFloat(rates[lower]),
					trimFloat(higher), trimFloat(rates[higher]))
			}
		}
	}
}

// checkBreakdownSum verifies a per-period breakdown sums exactly to the
// panel's reported total. No tolerance: both come from the same counts.
func (c *checker) checkBreakdownSum(section string, p panel.Panel, key, quantity string, total float64) {
	value, ok := rawdata.Lookup(p, key)
	if !ok {
		return
	}
	buckets, ok := value.(map[string]any)
	if !ok {
		return
	}

	sum := 0.0
	counted := 0
	for _, bucket := range buckets {
		if n, numeric := rawdata.Number(bucket); numeric {
			sum += n
			counted++
		}
	}
	if counted == 0 {
		return
	}

	if sum != total {
		c.add(report.KindAggregationError, section,
			"%s breakdown sums to %s but the reported total is %s",
			quantity, trimFloat(sum), trimFloat(total))
	}
}

// checkDistribution verifies a discrete outcome distribution sums to 100.
func (c *checker) checkDistribution(section string, p panel.Panel, key string) {
	value, ok := rawdata.Lookup(p, key)
	if !ok {
		return
	}
	outcomes, ok := value.(map[string]any)
	if !ok {
		return
	}

	sum := 0.0
	counted := 0
	labels := make([]string, 0, len(outcomes))
	for label := range outcomes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		n, numeric := rawdata.Number(outcomes[label])
		if !numeric {
			continue
		}
		c.checkPercentRange(section, fmt.Sprintf("%s %s", key, label), n)
		sum += n
		counted++
	}
	if counted == 0 {
		return
	}

	if diff(sum, 100) > percentSumTolerance {
		c.add(report.KindProbabilityError, section,
			"%s sums to %s%%, expected 100%%", key, trimFloat(sum))
	}
}

func sameFixture(row rawdata.Record, ref panel.ReferenceFixture) bool {
	home, _ := rawdata.FirstString(row, "home_name", "homeName", "homeTeam")
	away, _ := rawdata.FirstString(row, "away_name", "awayName", "awayTeam")
	date, _ := rawdata.FirstString(row, "date", "match_date", "kickoff")

	return strings.EqualFold(home, ref.HomeTeam) &&
		strings.EqualFold(away, ref.AwayTeam) &&
		strings.HasPrefix(date, ref.Date)
}

// panelList resolves the first candidate key holding a list of records.
func panelList(p panel.Panel, keys ...string) ([]rawdata.Record, bool) {
	value, ok := rawdata.First(p, keys...)
	if !ok {
		return nil, false
	}

	items, ok := value.([]any)
	if !ok {
		return nil, false
	}

	rows := make([]rawdata.Record, 0, len(items))
	for _, item := range items {
		if node, isMap := item.(map[string]any); isMap {
			rows = append(rows, rawdata.Record(node))
		}
	}
	return rows, true
}

// thresholdMap reads a {"2.5": 61.3, ...} ladder into numeric keys.
func thresholdMap(p panel.Panel, key string) (map[float64]float64, bool) {
	value, ok := rawdata.Lookup(p, key)
	if !ok {
		return nil, false
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}

	rates := make(map[float64]float64, len(raw))
	for label, rate := range raw {
		threshold, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
		if err != nil {
			continue
		}
		if n, numeric := rawdata.Number(rate); numeric {
			rates[threshold] = n
		}
	}
	if len(rates) == 0 {
		return nil, false
	}
	return rates, true
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// trimFloat renders a float without trailing zero noise in messages.
func trimFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
