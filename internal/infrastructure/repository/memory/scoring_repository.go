package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

// ScoringRepository is the in-memory scoring store. It backs local
// development and the memory store driver; all methods honor the same
// atomicity contracts as the postgres implementation.
type ScoringRepository struct {
	mu sync.Mutex

	markers     map[string]scoring.ProcessedDate
	teamScores  map[string]map[string]scoring.TeamScore
	dailyScores map[string]map[string]scoring.PlayerDailyScore
	liveStats   map[string]map[int64][]scoring.LivePlayerStat
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{
		markers:     make(map[string]scoring.ProcessedDate),
		teamScores:  make(map[string]map[string]scoring.TeamScore),
		dailyScores: make(map[string]map[string]scoring.PlayerDailyScore),
		liveStats:   make(map[string]map[int64][]scoring.LivePlayerStat),
	}
}

func markerKey(leagueID, date string) string {
	return leagueID + "|" + date
}

func (r *ScoringRepository) CreateProcessedDate(_ context.Context, marker scoring.ProcessedDate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := markerKey(marker.LeagueID, marker.Date)
	if _, exists := r.markers[key]; exists {
		return false, nil
	}
	r.markers[key] = marker
	return true, nil
}

func (r *ScoringRepository) FinalizeProcessedDate(_ context.Context, marker scoring.ProcessedDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers[markerKey(marker.LeagueID, marker.Date)] = marker
	return nil
}

func (r *ScoringRepository) GetProcessedDate(_ context.Context, leagueID, date string) (scoring.ProcessedDate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	marker, ok := r.markers[markerKey(leagueID, date)]
	return marker, ok, nil
}

func (r *ScoringRepository) IncrementTeamScore(_ context.Context, leagueID, team string, points float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byTeam, ok := r.teamScores[leagueID]
	if !ok {
		byTeam = make(map[string]scoring.TeamScore)
		r.teamScores[leagueID] = byTeam
	}
	score := byTeam[team]
	score.LeagueID = leagueID
	score.Team = team
	score.TotalPoints += points
	score.UpdatedAt = at
	byTeam[team] = score
	return nil
}

func (r *ScoringRepository) ListTeamScoresByLeague(_ context.Context, leagueID string) ([]scoring.TeamScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byTeam := r.teamScores[leagueID]
	out := make([]scoring.TeamScore, 0, len(byTeam))
	for _, score := range byTeam {
		out = append(out, score)
	}
	return out, nil
}

func dailyScoreKey(date string, playerID int64) string {
	return fmt.Sprintf("%s|%d", date, playerID)
}

func (r *ScoringRepository) UpsertPlayerDailyScore(_ context.Context, score scoring.PlayerDailyScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey, ok := r.dailyScores[score.LeagueID]
	if !ok {
		byKey = make(map[string]scoring.PlayerDailyScore)
		r.dailyScores[score.LeagueID] = byKey
	}
	byKey[dailyScoreKey(score.Date, score.PlayerID)] = score
	return nil
}

func (r *ScoringRepository) ListPlayerDailyScores(_ context.Context, leagueID, date string) ([]scoring.PlayerDailyScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []scoring.PlayerDailyScore
	for _, score := range r.dailyScores[leagueID] {
		if score.Date == date {
			out = append(out, score)
		}
	}
	return out, nil
}

func (r *ScoringRepository) ReplaceLiveStatsForGame(_ context.Context, leagueID, date string, gameID int64, stats []scoring.LivePlayerStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byGame, ok := r.liveStats[leagueID]
	if !ok {
		byGame = make(map[int64][]scoring.LivePlayerStat)
		r.liveStats[leagueID] = byGame
	}
	rows := make([]scoring.LivePlayerStat, len(stats))
	copy(rows, stats)
	for i := range rows {
		rows[i].LeagueID = leagueID
		rows[i].Date = date
		rows[i].GameID = gameID
	}
	byGame[gameID] = rows
	return nil
}

func (r *ScoringRepository) ListLiveStatsByGame(_ context.Context, leagueID string, gameID int64) ([]scoring.LivePlayerStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]scoring.LivePlayerStat(nil), r.liveStats[leagueID][gameID]...), nil
}

func (r *ScoringRepository) ListLiveStatsByDate(_ context.Context, leagueID, date string) ([]scoring.LivePlayerStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []scoring.LivePlayerStat
	for _, rows := range r.liveStats[leagueID] {
		for _, row := range rows {
			if row.Date == date {
				out = append(out, row)
			}
		}
	}
	return out, nil
}
