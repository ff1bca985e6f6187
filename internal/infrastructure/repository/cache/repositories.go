package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	basecache "github.com/riskibarqy/fantasy-hockey/internal/platform/cache"
)

// Read-through decorators over the domain repositories. Writes go
// straight to the next layer and invalidate the affected keys, so the
// jobs always see fresh data on their own reads.

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Assignment, error) {
	key := "roster:list:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]roster.Assignment(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]roster.Assignment)
	return append([]roster.Assignment(nil), items...), nil
}

// ScoringRepository caches the read paths the HTTP handlers hit and
// passes every write through with targeted invalidation. Live snapshot
// reads used by the jobs themselves are deliberately uncached.
type ScoringRepository struct {
	next  scoring.Repository
	cache *basecache.Store
}

func NewScoringRepository(next scoring.Repository, cache *basecache.Store) *ScoringRepository {
	return &ScoringRepository{next: next, cache: cache}
}

func (r *ScoringRepository) CreateProcessedDate(ctx context.Context, marker scoring.ProcessedDate) (bool, error) {
	created, err := r.next.CreateProcessedDate(ctx, marker)
	if err == nil && created {
		r.cache.Delete(ctx, "scoring:processed:"+marker.LeagueID+":"+marker.Date)
	}
	return created, err
}

func (r *ScoringRepository) FinalizeProcessedDate(ctx context.Context, marker scoring.ProcessedDate) error {
	if err := r.next.FinalizeProcessedDate(ctx, marker); err != nil {
		return err
	}
	r.cache.Delete(ctx, "scoring:processed:"+marker.LeagueID+":"+marker.Date)
	return nil
}

func (r *ScoringRepository) GetProcessedDate(ctx context.Context, leagueID, date string) (scoring.ProcessedDate, bool, error) {
	key := "scoring:processed:" + leagueID + ":" + date
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetProcessedDate(ctx, leagueID, date)
		if err != nil {
			return nil, err
		}
		return cachedProcessedDate{value: item, exists: exists}, nil
	})
	if err != nil {
		return scoring.ProcessedDate{}, false, err
	}

	cached, _ := v.(cachedProcessedDate)
	return cached.value, cached.exists, nil
}

type cachedProcessedDate struct {
	value  scoring.ProcessedDate
	exists bool
}

func (r *ScoringRepository) IncrementTeamScore(ctx context.Context, leagueID, team string, points float64, at time.Time) error {
	if err := r.next.IncrementTeamScore(ctx, leagueID, team, points, at); err != nil {
		return err
	}
	r.cache.Delete(ctx, "scoring:teams:"+leagueID)
	return nil
}

func (r *ScoringRepository) ListTeamScoresByLeague(ctx context.Context, leagueID string) ([]scoring.TeamScore, error) {
	key := "scoring:teams:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListTeamScoresByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]scoring.TeamScore(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoring.TeamScore)
	return append([]scoring.TeamScore(nil), items...), nil
}

func (r *ScoringRepository) UpsertPlayerDailyScore(ctx context.Context, score scoring.PlayerDailyScore) error {
	if err := r.next.UpsertPlayerDailyScore(ctx, score); err != nil {
		return err
	}
	r.cache.Delete(ctx, "scoring:daily:"+score.LeagueID+":"+score.Date)
	return nil
}

func (r *ScoringRepository) ListPlayerDailyScores(ctx context.Context, leagueID, date string) ([]scoring.PlayerDailyScore, error) {
	key := "scoring:daily:" + leagueID + ":" + date
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListPlayerDailyScores(ctx, leagueID, date)
		if err != nil {
			return nil, err
		}
		return append([]scoring.PlayerDailyScore(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoring.PlayerDailyScore)
	return append([]scoring.PlayerDailyScore(nil), items...), nil
}

func (r *ScoringRepository) ReplaceLiveStatsForGame(ctx context.Context, leagueID, date string, gameID int64, stats []scoring.LivePlayerStat) error {
	if err := r.next.ReplaceLiveStatsForGame(ctx, leagueID, date, gameID, stats); err != nil {
		return err
	}
	r.cache.Delete(ctx, fmt.Sprintf("scoring:live:%s:%s", leagueID, date))
	return nil
}

func (r *ScoringRepository) ListLiveStatsByGame(ctx context.Context, leagueID string, gameID int64) ([]scoring.LivePlayerStat, error) {
	return r.next.ListLiveStatsByGame(ctx, leagueID, gameID)
}

func (r *ScoringRepository) ListLiveStatsByDate(ctx context.Context, leagueID, date string) ([]scoring.LivePlayerStat, error) {
	key := fmt.Sprintf("scoring:live:%s:%s", leagueID, date)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListLiveStatsByDate(ctx, leagueID, date)
		if err != nil {
			return nil, err
		}
		return append([]scoring.LivePlayerStat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoring.LivePlayerStat)
	return append([]scoring.LivePlayerStat(nil), items...), nil
}
