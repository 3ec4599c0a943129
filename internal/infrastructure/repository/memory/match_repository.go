package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/goalsight/matchaudit/internal/domain/match"
)

type MatchRepository struct {
	mu          sync.RWMutex
	matchesByID map[string]match.Match
	idsByTeam   map[string][]string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	repo := &MatchRepository{
		matchesByID: make(map[string]match.Match),
		idsByTeam:   make(map[string][]string),
	}
	_ = repo.UpsertMany(context.Background(), matches)

	return repo
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.idsByTeam[teamID]
	out := make([]match.Match, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.matchesByID[id])
	}

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matchesByID[id]

	return item, ok, nil
}

func (r *MatchRepository) UpsertMany(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range matches {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}

		if existing, ok := r.matchesByID[id]; ok {
			r.detachTeamIndex(existing.HomeTeamID, id)
			r.detachTeamIndex(existing.AwayTeamID, id)
		}
		r.matchesByID[id] = item
		r.attachTeamIndex(item.HomeTeamID, id)
		r.attachTeamIndex(item.AwayTeamID, id)
	}

	return nil
}

func (r *MatchRepository) attachTeamIndex(teamID, matchID string) {
	if strings.TrimSpace(teamID) == "" {
		return
	}
	r.idsByTeam[teamID] = append(r.idsByTeam[teamID], matchID)
}

func (r *MatchRepository) detachTeamIndex(teamID, matchID string) {
	ids := r.idsByTeam[teamID]
	for idx, id := range ids {
		if id == matchID {
			r.idsByTeam[teamID] = append(ids[:idx], ids[idx+1:]...)
			return
		}
	}
}
