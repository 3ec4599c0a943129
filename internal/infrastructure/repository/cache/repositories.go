package cache

import (
	"context"

	"github.com/goalsight/matchaudit/internal/domain/match"
	basecache "github.com/goalsight/matchaudit/internal/platform/cache"
)

// MatchRepository caches corpus reads in front of a slower store. Team
// corpora are read once per audited team per run, and often again for the
// opposing fixture, so a short TTL removes most repeat queries. Writes
// invalidate every key the written matches can appear under.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	key := "match:team:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	key := "match:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) UpsertMany(ctx context.Context, matches []match.Match) error {
	if err := r.next.UpsertMany(ctx, matches); err != nil {
		return err
	}

	for _, item := range matches {
		r.cache.Delete(ctx, "match:id:"+item.ID)
		if item.HomeTeamID != "" {
			r.cache.Delete(ctx, "match:team:"+item.HomeTeamID)
		}
		if item.AwayTeamID != "" {
			r.cache.Delete(ctx, "match:team:"+item.AwayTeamID)
		}
	}

	return nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}
