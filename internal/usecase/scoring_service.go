package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

// LiveSnapshotSink receives the freshly written live rows for a game so
// they can be fanned out to a secondary store. Publish failures must not
// fail the job.
type LiveSnapshotSink interface {
	PublishGameSnapshot(ctx context.Context, leagueID string, date string, gameID int64, stats []scoring.LivePlayerStat) error
}

// DailyResult summarizes one completed daily scoring run.
type DailyResult struct {
	LeagueID           string `json:"leagueId"`
	Date               string `json:"date"`
	GamesProcessed     int    `json:"gamesProcessed"`
	TeamsUpdated       int    `json:"teamsUpdated"`
	PlayerPerformances int    `json:"playerPerformances"`
}

// LiveResult summarizes one live scoring sweep.
type LiveResult struct {
	LeagueID       string `json:"leagueId"`
	Date           string `json:"date"`
	GamesProcessed int    `json:"gamesProcessed"`
	GamesSkipped   int    `json:"gamesSkipped"`
	PlayersUpdated int    `json:"playersUpdated"`
}

// ScoringService runs the daily and live scoring jobs and serves score
// reads. The daily job is idempotent per (league, date); the live job
// overwrites snapshots and may run as often as desired.
type ScoringService struct {
	leagueRepo league.Repository
	rosterRepo roster.Repository
	scoreRepo  scoring.Repository
	source     GameSource
	sink       LiveSnapshotSink

	zone      *time.Location
	fetchGap  time.Duration
	logger    *logging.Logger
	now       func() time.Time
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewScoringService wires a scoring service. zone is the fixed offset used
// to decide which calendar day a run covers; fetchGap is the pause between
// successive upstream fetches. sink may be nil.
func NewScoringService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	scoreRepo scoring.Repository,
	source GameSource,
	sink LiveSnapshotSink,
	zone *time.Location,
	fetchGap time.Duration,
	logger *logging.Logger,
) *ScoringService {
	if zone == nil {
		zone = time.FixedZone("scoring", -5*60*60)
	}
	if fetchGap < 0 {
		fetchGap = 0
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		leagueRepo: leagueRepo,
		rosterRepo: rosterRepo,
		scoreRepo:  scoreRepo,
		source:     source,
		sink:       sink,
		zone:       zone,
		fetchGap:   fetchGap,
		logger:     logger,
		now:        time.Now,
		sleepFunc:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// loadLiveLeague fetches the league and checks it can be scored.
func (s *ScoringService) loadLiveLeague(ctx context.Context, leagueID string) (league.League, error) {
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league %s: %w", leagueID, err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if lg.Status != league.StatusLive {
		return league.League{}, fmt.Errorf("%w: league %s is %s", ErrLeagueNotLive, leagueID, lg.Status)
	}
	if !lg.HasRules() {
		return league.League{}, fmt.Errorf("%w: league %s", ErrMissingScoringRules, leagueID)
	}
	return lg, nil
}

// RunDaily scores yesterday's final games for one league and applies the
// totals to the season standings exactly once. asOf anchors "yesterday";
// a zero asOf means the current time. The processed-date marker is
// reserved before any game data is fetched so concurrent runs for the
// same date cannot both apply increments.
func (s *ScoringService) RunDaily(ctx context.Context, leagueID string, asOf time.Time) (DailyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.RunDaily")
	defer span.End()

	lg, err := s.loadLiveLeague(ctx, leagueID)
	if err != nil {
		return DailyResult{}, err
	}

	if asOf.IsZero() {
		asOf = s.now()
	}
	date := asOf.In(s.zone).AddDate(0, 0, -1).Format(scoring.DateFormat)

	created, err := s.scoreRepo.CreateProcessedDate(ctx, scoring.ProcessedDate{
		LeagueID:    leagueID,
		Date:        date,
		ProcessedAt: s.now().UTC(),
	})
	if err != nil {
		return DailyResult{}, fmt.Errorf("reserve processed date %s: %w", date, err)
	}
	if !created {
		return DailyResult{}, fmt.Errorf("%w: league %s date %s", ErrAlreadyProcessed, leagueID, date)
	}

	activeTeams, err := s.activeRoster(ctx, leagueID)
	if err != nil {
		return DailyResult{}, err
	}

	games, err := s.source.ListGamesByDate(ctx, date)
	if err != nil {
		return DailyResult{}, fmt.Errorf("list games for %s: %w", date, err)
	}

	result := DailyResult{LeagueID: leagueID, Date: date}
	teamPoints := map[string]float64{}
	var dailyScores []scoring.PlayerDailyScore
	fetched := false

	for _, g := range games {
		if !g.IsFinal() {
			continue
		}
		if fetched {
			if err := s.sleepFunc(ctx, s.fetchGap); err != nil {
				return DailyResult{}, err
			}
		}
		fetched = true

		stats, fights, err := s.fetchGameStats(ctx, g.ID)
		if err != nil {
			// One broken game must not sink the whole day.
			s.logger.WarnContext(ctx, "skipping game after fetch failure",
				"leagueId", leagueID, "gameId", g.ID, "error", err)
			continue
		}
		result.GamesProcessed++

		for _, stat := range stats {
			team, ok := activeTeams[stat.PlayerID]
			if !ok {
				continue
			}
			points := scoring.CalculatePoints(stat, *lg.Rules, fights[stat.PlayerID])
			if math.IsNaN(points) || math.IsInf(points, 0) {
				s.logger.WarnContext(ctx, "discarding non-finite score",
					"leagueId", leagueID, "playerId", stat.PlayerID)
				continue
			}
			if points == 0 {
				continue
			}
			teamPoints[team] += points
			dailyScores = append(dailyScores, scoring.PlayerDailyScore{
				LeagueID:    leagueID,
				PlayerID:    stat.PlayerID,
				Date:        date,
				PlayerName:  stat.Name,
				FantasyTeam: team,
				NHLTeam:     stat.TeamAbbrev,
				Points:      points,
				Stats:       scoring.SparseStatLine(stat, fights[stat.PlayerID]),
				CreatedAt:   s.now().UTC(),
			})
		}
	}

	teams := make([]string, 0, len(teamPoints))
	for team := range teamPoints {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	at := s.now().UTC()
	for _, team := range teams {
		if err := s.scoreRepo.IncrementTeamScore(ctx, leagueID, team, teamPoints[team], at); err != nil {
			return DailyResult{}, fmt.Errorf("increment team %s: %w", team, err)
		}
		result.TeamsUpdated++
	}

	for _, ds := range dailyScores {
		if err := s.scoreRepo.UpsertPlayerDailyScore(ctx, ds); err != nil {
			return DailyResult{}, fmt.Errorf("upsert daily score for player %d: %w", ds.PlayerID, err)
		}
		result.PlayerPerformances++
	}

	if err := s.scoreRepo.FinalizeProcessedDate(ctx, scoring.ProcessedDate{
		LeagueID:           leagueID,
		Date:               date,
		GamesProcessed:     result.GamesProcessed,
		TeamsUpdated:       result.TeamsUpdated,
		PlayerPerformances: result.PlayerPerformances,
		ProcessedAt:        s.now().UTC(),
	}); err != nil {
		return DailyResult{}, fmt.Errorf("finalize processed date %s: %w", date, err)
	}

	s.logger.InfoContext(ctx, "daily scoring complete",
		"leagueId", leagueID, "date", date,
		"games", result.GamesProcessed, "teams", result.TeamsUpdated,
		"performances", result.PlayerPerformances)
	return result, nil
}

// RunLive refreshes today's in-flight game snapshots for one league. It
// also sweeps yesterday's games so a run shortly after midnight still
// captures games that crossed the date boundary. Snapshots are replaced
// wholesale per game, so re-runs converge to the latest upstream state.
func (s *ScoringService) RunLive(ctx context.Context, leagueID string, asOf time.Time) (LiveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.RunLive")
	defer span.End()

	_, err := s.loadLiveLeague(ctx, leagueID)
	if err != nil {
		return LiveResult{}, err
	}

	if asOf.IsZero() {
		asOf = s.now()
	}
	local := asOf.In(s.zone)
	today := local.Format(scoring.DateFormat)
	yesterday := local.AddDate(0, 0, -1).Format(scoring.DateFormat)

	activeTeams, err := s.activeRoster(ctx, leagueID)
	if err != nil {
		return LiveResult{}, err
	}

	type datedGame struct {
		date string
		game Game
	}
	var games []datedGame
	todays, err := s.source.ListGamesByDate(ctx, today)
	if err != nil {
		return LiveResult{}, fmt.Errorf("list games for %s: %w", today, err)
	}
	for _, g := range todays {
		games = append(games, datedGame{date: today, game: g})
	}
	// Yesterday only matters once its games have finished.
	prior, err := s.source.ListGamesByDate(ctx, yesterday)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping prior-day sweep",
			"leagueId", leagueID, "date", yesterday, "error", err)
	} else {
		for _, g := range prior {
			if g.IsFinal() {
				games = append(games, datedGame{date: yesterday, game: g})
			}
		}
	}

	result := LiveResult{LeagueID: leagueID, Date: today}
	fetched := false

	for _, dg := range games {
		g := dg.game
		if g.IsScheduled() {
			result.GamesSkipped++
			continue
		}

		existing, err := s.scoreRepo.ListLiveStatsByGame(ctx, leagueID, g.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "could not read prior snapshot",
				"leagueId", leagueID, "gameId", g.ID, "error", err)
			existing = nil
		}
		priorNonzero := false
		priorHasEvents := false
		for _, row := range existing {
			if row.AwayScore != 0 || row.HomeScore != 0 {
				priorNonzero = true
			}
			if row.HasFantasyEvents() {
				priorHasEvents = true
			}
		}

		// The schedule feed occasionally reports 0-0 for a game that
		// already had goals. Keep the prior snapshot in that case.
		if g.Away.Score == 0 && g.Home.Score == 0 && priorNonzero {
			result.GamesSkipped++
			continue
		}
		// A final game whose snapshot already holds its events will not
		// change again; skip the refetch.
		if g.IsFinal() && priorNonzero && priorHasEvents {
			result.GamesSkipped++
			continue
		}

		if fetched {
			if err := s.sleepFunc(ctx, s.fetchGap); err != nil {
				return LiveResult{}, err
			}
		}
		fetched = true

		stats, fights, err := s.fetchGameStats(ctx, g.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping game after fetch failure",
				"leagueId", leagueID, "gameId", g.ID, "error", err)
			continue
		}
		result.GamesProcessed++

		rows := s.buildLiveRows(leagueID, dg.date, g, stats, fights, activeTeams)
		if err := s.scoreRepo.ReplaceLiveStatsForGame(ctx, leagueID, dg.date, g.ID, rows); err != nil {
			return LiveResult{}, fmt.Errorf("replace live stats for game %d: %w", g.ID, err)
		}
		result.PlayersUpdated += len(rows)

		if s.sink != nil && len(rows) > 0 {
			if err := s.sink.PublishGameSnapshot(ctx, leagueID, dg.date, g.ID, rows); err != nil {
				s.logger.WarnContext(ctx, "live snapshot publish failed",
					"leagueId", leagueID, "gameId", g.ID, "error", err)
			}
		}
	}

	s.logger.InfoContext(ctx, "live scoring sweep complete",
		"leagueId", leagueID, "date", today,
		"games", result.GamesProcessed, "skipped", result.GamesSkipped,
		"players", result.PlayersUpdated)
	return result, nil
}

func (s *ScoringService) activeRoster(ctx context.Context, leagueID string) (map[int64]string, error) {
	assignments, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list roster for league %s: %w", leagueID, err)
	}
	return roster.ActiveTeamByPlayer(assignments), nil
}

// fetchGameStats retrieves the box score and fight counts for one game.
// Play-by-play is best effort: without it fights simply count as zero.
func (s *ScoringService) fetchGameStats(ctx context.Context, gameID int64) ([]scoring.PlayerGameStats, map[int64]int, error) {
	stats, err := s.source.FetchBoxScore(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch box score for game %d: %w", gameID, err)
	}
	events, err := s.source.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		s.logger.WarnContext(ctx, "play-by-play unavailable, fights count as zero",
			"gameId", gameID, "error", err)
		return stats, map[int64]int{}, nil
	}
	return stats, scoring.CountFights(events), nil
}

func (s *ScoringService) buildLiveRows(
	leagueID, date string,
	g Game,
	stats []scoring.PlayerGameStats,
	fights map[int64]int,
	activeTeams map[int64]string,
) []scoring.LivePlayerStat {
	now := s.now().UTC()
	rows := make([]scoring.LivePlayerStat, 0, len(stats))
	for _, stat := range stats {
		team, ok := activeTeams[stat.PlayerID]
		if !ok {
			continue
		}
		rows = append(rows, scoring.LivePlayerStat{
			LeagueID:     leagueID,
			Date:         date,
			PlayerID:     stat.PlayerID,
			PlayerName:   stat.Name,
			FantasyTeam:  team,
			NHLTeam:      stat.TeamAbbrev,
			GameID:       g.ID,
			GameState:    g.State,
			AwayAbbrev:   g.Away.Abbrev,
			HomeAbbrev:   g.Home.Abbrev,
			AwayScore:    g.Away.Score,
			HomeScore:    g.Home.Score,
			Goals:        stat.Goals,
			Assists:      stat.Assists,
			Points:       stat.Goals + stat.Assists,
			Shots:        stat.Shots,
			Hits:         stat.Hits,
			BlockedShots: stat.BlockedShots,
			Fights:       fights[stat.PlayerID],
			Wins:         stat.Wins,
			Saves:        stat.Saves,
			Shutouts:     stat.Shutouts,
			UpdatedAt:    now,
		})
	}
	return rows
}

// ListTeamScores returns the season standings for a league, best first.
func (s *ScoringService) ListTeamScores(ctx context.Context, leagueID string) ([]scoring.TeamScore, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListTeamScores")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	scores, err := s.scoreRepo.ListTeamScoresByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list team scores: %w", err)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalPoints != scores[j].TotalPoints {
			return scores[i].TotalPoints > scores[j].TotalPoints
		}
		return scores[i].Team < scores[j].Team
	})
	return scores, nil
}

// ListDailyScores returns the persisted per-player scores for a date.
func (s *ScoringService) ListDailyScores(ctx context.Context, leagueID, date string) ([]scoring.PlayerDailyScore, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListDailyScores")
	defer span.End()

	if leagueID == "" || date == "" {
		return nil, fmt.Errorf("%w: league id and date are required", ErrInvalidInput)
	}
	if _, err := time.Parse(scoring.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	scores, err := s.scoreRepo.ListPlayerDailyScores(ctx, leagueID, date)
	if err != nil {
		return nil, fmt.Errorf("list daily scores: %w", err)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Points != scores[j].Points {
			return scores[i].Points > scores[j].Points
		}
		return scores[i].PlayerName < scores[j].PlayerName
	})
	return scores, nil
}

// ListLiveStats returns the latest live snapshots for a date. An empty
// date means today in the scoring timezone.
func (s *ScoringService) ListLiveStats(ctx context.Context, leagueID, date string) ([]scoring.LivePlayerStat, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListLiveStats")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if date == "" {
		date = s.now().In(s.zone).Format(scoring.DateFormat)
	} else if _, err := time.Parse(scoring.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	stats, err := s.scoreRepo.ListLiveStatsByDate(ctx, leagueID, date)
	if err != nil {
		return nil, fmt.Errorf("list live stats: %w", err)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].GameID != stats[j].GameID {
			return stats[i].GameID < stats[j].GameID
		}
		return stats[i].Points > stats[j].Points
	})
	return stats, nil
}

// ProcessedDate returns the audit record for a completed daily run.
func (s *ScoringService) ProcessedDate(ctx context.Context, leagueID, date string) (scoring.ProcessedDate, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ProcessedDate")
	defer span.End()

	if leagueID == "" || date == "" {
		return scoring.ProcessedDate{}, fmt.Errorf("%w: league id and date are required", ErrInvalidInput)
	}
	pd, found, err := s.scoreRepo.GetProcessedDate(ctx, leagueID, date)
	if err != nil {
		return scoring.ProcessedDate{}, fmt.Errorf("get processed date: %w", err)
	}
	if !found {
		return scoring.ProcessedDate{}, fmt.Errorf("%w: league %s date %s", ErrNotFound, leagueID, date)
	}
	return pd, nil
}
