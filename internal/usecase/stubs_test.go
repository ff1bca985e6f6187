package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

type stubLeagueRepo struct {
	leagues []league.League
	err     error
}

func (s *stubLeagueRepo) List(context.Context) ([]league.League, error) {
	return s.leagues, s.err
}

func (s *stubLeagueRepo) GetByID(_ context.Context, id string) (league.League, bool, error) {
	if s.err != nil {
		return league.League{}, false, s.err
	}
	for _, lg := range s.leagues {
		if lg.ID == id {
			return lg, true, nil
		}
	}
	return league.League{}, false, nil
}

type stubRosterRepo struct {
	assignments map[string][]roster.Assignment
	err         error
}

func (s *stubRosterRepo) ListByLeague(_ context.Context, leagueID string) ([]roster.Assignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.assignments[leagueID], nil
}

// stubScoringRepo is an in-memory scoring store with the same atomicity
// guarantees the contracts require.
type stubScoringRepo struct {
	mu sync.Mutex

	markers     map[string]scoring.ProcessedDate
	teamScores  map[string]scoring.TeamScore
	dailyScores map[string]scoring.PlayerDailyScore
	liveStats   map[string][]scoring.LivePlayerStat

	incrementCalls int
	replaceCalls   int

	createErr    error
	incrementErr error
}

func newStubScoringRepo() *stubScoringRepo {
	return &stubScoringRepo{
		markers:     map[string]scoring.ProcessedDate{},
		teamScores:  map[string]scoring.TeamScore{},
		dailyScores: map[string]scoring.PlayerDailyScore{},
		liveStats:   map[string][]scoring.LivePlayerStat{},
	}
}

func markerKey(leagueID, date string) string { return leagueID + "|" + date }

func (s *stubScoringRepo) CreateProcessedDate(_ context.Context, marker scoring.ProcessedDate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return false, s.createErr
	}
	key := markerKey(marker.LeagueID, marker.Date)
	if _, ok := s.markers[key]; ok {
		return false, nil
	}
	s.markers[key] = marker
	return true, nil
}

func (s *stubScoringRepo) FinalizeProcessedDate(_ context.Context, marker scoring.ProcessedDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[markerKey(marker.LeagueID, marker.Date)] = marker
	return nil
}

func (s *stubScoringRepo) GetProcessedDate(_ context.Context, leagueID, date string) (scoring.ProcessedDate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker, ok := s.markers[markerKey(leagueID, date)]
	return marker, ok, nil
}

func (s *stubScoringRepo) IncrementTeamScore(_ context.Context, leagueID, team string, points float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.incrementCalls++
	key := leagueID + "|" + team
	score := s.teamScores[key]
	score.LeagueID = leagueID
	score.Team = team
	score.TotalPoints += points
	score.UpdatedAt = at
	s.teamScores[key] = score
	return nil
}

func (s *stubScoringRepo) ListTeamScoresByLeague(_ context.Context, leagueID string) ([]scoring.TeamScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scoring.TeamScore
	for _, score := range s.teamScores {
		if score.LeagueID == leagueID {
			out = append(out, score)
		}
	}
	return out, nil
}

func (s *stubScoringRepo) UpsertPlayerDailyScore(_ context.Context, score scoring.PlayerDailyScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%d", score.LeagueID, score.Date, score.PlayerID)
	s.dailyScores[key] = score
	return nil
}

func (s *stubScoringRepo) ListPlayerDailyScores(_ context.Context, leagueID, date string) ([]scoring.PlayerDailyScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scoring.PlayerDailyScore
	for _, score := range s.dailyScores {
		if score.LeagueID == leagueID && score.Date == date {
			out = append(out, score)
		}
	}
	return out, nil
}

func liveKey(leagueID string, gameID int64) string {
	return fmt.Sprintf("%s|%d", leagueID, gameID)
}

func (s *stubScoringRepo) ReplaceLiveStatsForGame(_ context.Context, leagueID, date string, gameID int64, stats []scoring.LivePlayerStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
	s.liveStats[liveKey(leagueID, gameID)] = append([]scoring.LivePlayerStat(nil), stats...)
	return nil
}

func (s *stubScoringRepo) ListLiveStatsByGame(_ context.Context, leagueID string, gameID int64) ([]scoring.LivePlayerStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scoring.LivePlayerStat(nil), s.liveStats[liveKey(leagueID, gameID)]...), nil
}

func (s *stubScoringRepo) ListLiveStatsByDate(_ context.Context, leagueID, date string) ([]scoring.LivePlayerStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scoring.LivePlayerStat
	for _, rows := range s.liveStats {
		for _, row := range rows {
			if row.LeagueID == leagueID && row.Date == date {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

// stubGameSource serves canned schedule and stat payloads keyed by date
// and game id.
type stubGameSource struct {
	mu sync.Mutex

	gamesByDate map[string][]Game
	boxScores   map[int64][]scoring.PlayerGameStats
	plays       map[int64][]scoring.GameEvent

	boxScoreErr map[int64]error
	playsErr    map[int64]error
	listErr     map[string]error

	boxScoreCalls []int64
}

func newStubGameSource() *stubGameSource {
	return &stubGameSource{
		gamesByDate: map[string][]Game{},
		boxScores:   map[int64][]scoring.PlayerGameStats{},
		plays:       map[int64][]scoring.GameEvent{},
		boxScoreErr: map[int64]error{},
		playsErr:    map[int64]error{},
		listErr:     map[string]error{},
	}
}

func (s *stubGameSource) ListGamesByDate(_ context.Context, date string) ([]Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.listErr[date]; err != nil {
		return nil, err
	}
	return s.gamesByDate[date], nil
}

func (s *stubGameSource) FetchBoxScore(_ context.Context, gameID int64) ([]scoring.PlayerGameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boxScoreCalls = append(s.boxScoreCalls, gameID)
	if err := s.boxScoreErr[gameID]; err != nil {
		return nil, err
	}
	return s.boxScores[gameID], nil
}

func (s *stubGameSource) FetchPlayByPlay(_ context.Context, gameID int64) ([]scoring.GameEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playsErr[gameID]; err != nil {
		return nil, err
	}
	return s.plays[gameID], nil
}

type captureSink struct {
	mu        sync.Mutex
	published []int64
	err       error
}

func (s *captureSink) PublishGameSnapshot(_ context.Context, _ string, _ string, gameID int64, _ []scoring.LivePlayerStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, gameID)
	return s.err
}

type captureQueue struct {
	mu    sync.Mutex
	paths []string
	ids   []string
}

func (q *captureQueue) Enqueue(_ context.Context, path, dedupID string, _ time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paths = append(q.paths, path)
	q.ids = append(q.ids, dedupID)
	return nil
}

func defaultTestRules() *scoring.Rules {
	rules := scoring.DefaultRules()
	return &rules
}

func liveTestLeague(id string) league.League {
	return league.League{ID: id, Name: "Test League", Season: "2025-26", Status: league.StatusLive, Rules: defaultTestRules()}
}

func newTestScoringService(leagues *stubLeagueRepo, rosters *stubRosterRepo, repo *stubScoringRepo, source *stubGameSource, sink LiveSnapshotSink) *ScoringService {
	svc := NewScoringService(leagues, rosters, repo, source, sink, time.FixedZone("scoring", -5*60*60), 0, nil)
	svc.now = func() time.Time { return time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}
