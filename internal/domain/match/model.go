package match

import (
	"context"
	"strings"
	"time"
)

const (
	StatusComplete   = "COMPLETE"
	StatusIncomplete = "INCOMPLETE"
	StatusSuspended  = "SUSPENDED"
	StatusCancelled  = "CANCELLED"
)

// VenueRole is whether a team is designated home or away in a fixture.
type VenueRole string

const (
	RoleHome VenueRole = "HOME"
	RoleAway VenueRole = "AWAY"
)

// ParseVenueRole maps free-form input onto a VenueRole.
func ParseVenueRole(value string) (VenueRole, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "HOME", "H":
		return RoleHome, true
	case "AWAY", "A":
		return RoleAway, true
	default:
		return "", false
	}
}

// Match is the canonical, fixed-shape representation of one fixture.
// The three Total fields are always derived from their two components when
// the value is constructed and are never written independently afterwards.
type Match struct {
	ID           string
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string

	HomeGoals    int
	AwayGoals    int
	TotalGoals   int
	HomeCards    int
	AwayCards    int
	TotalCards   int
	HomeCorners  int
	AwayCorners  int
	TotalCorners int

	Season        string
	CompetitionID string

	// DateUnix is the resolved kickoff time in unix seconds, 0 when the
	// source carried no parseable date. DateText preserves the raw value.
	DateUnix int64
	DateText string

	Status string
}

// BothTeamsScored reports the BTTS outcome for a finished fixture.
func (m Match) BothTeamsScored() bool {
	return m.HomeGoals > 0 && m.AwayGoals > 0
}

// Plays reports whether teamID occupied the given venue role in this match.
func (m Match) Plays(teamID string, role VenueRole) bool {
	switch role {
	case RoleHome:
		return m.HomeTeamID == teamID
	case RoleAway:
		return m.AwayTeamID == teamID
	default:
		return false
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusIncomplete
	}
	return status
}

// IsFinishedStatus covers the finished-fixture spellings seen across
// providers.
func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusComplete, "FINISHED", "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusSuspended, "CANCELED", "POSTPONED", "ABANDONED":
		return true
	default:
		return false
	}
}

// Kickoff converts DateUnix into a time. The zero time means undated.
func (m Match) Kickoff() time.Time {
	if m.DateUnix <= 0 {
		return time.Time{}
	}
	return time.Unix(m.DateUnix, 0).UTC()
}

// Repository is the stored corpus of normalized matches.
type Repository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	UpsertMany(ctx context.Context, matches []Match) error
}
