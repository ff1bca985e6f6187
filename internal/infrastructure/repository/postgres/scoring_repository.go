package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) leagueRef(ctx context.Context, q sqlx.QueryerContext, leagueID string) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q, &id, `SELECT id FROM leagues WHERE public_id = $1 AND deleted_at IS NULL`, leagueID)
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("league %s not found", leagueID)
		}
		return 0, fmt.Errorf("resolve league ref: %w", err)
	}
	return id, nil
}

// CreateProcessedDate relies on ON CONFLICT DO NOTHING so the first of
// any concurrent runs wins the date.
func (r *ScoringRepository) CreateProcessedDate(ctx context.Context, marker scoring.ProcessedDate) (bool, error) {
	leagueRef, err := r.leagueRef(ctx, r.db, marker.LeagueID)
	if err != nil {
		return false, err
	}

	const query = `
		INSERT INTO processed_dates (league_id, score_date, games_processed, teams_updated, player_performances, processed_at)
		VALUES ($1, $2, 0, 0, 0, $3)
		ON CONFLICT (league_id, score_date) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, leagueRef, marker.Date, marker.ProcessedAt)
	if err != nil {
		return false, fmt.Errorf("insert processed date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("processed date rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *ScoringRepository) FinalizeProcessedDate(ctx context.Context, marker scoring.ProcessedDate) error {
	leagueRef, err := r.leagueRef(ctx, r.db, marker.LeagueID)
	if err != nil {
		return err
	}

	const query = `
		UPDATE processed_dates
		   SET games_processed = $3, teams_updated = $4, player_performances = $5, processed_at = $6
		 WHERE league_id = $1 AND score_date = $2`

	if _, err := r.db.ExecContext(ctx, query, leagueRef, marker.Date,
		marker.GamesProcessed, marker.TeamsUpdated, marker.PlayerPerformances, marker.ProcessedAt); err != nil {
		return fmt.Errorf("finalize processed date: %w", err)
	}
	return nil
}

func (r *ScoringRepository) GetProcessedDate(ctx context.Context, leagueID, date string) (scoring.ProcessedDate, bool, error) {
	const query = `
		SELECT l.public_id AS league_public_id,
		       pd.score_date, pd.games_processed, pd.teams_updated, pd.player_performances, pd.processed_at
		  FROM processed_dates pd
		  JOIN leagues l ON l.id = pd.league_id
		 WHERE l.public_id = $1 AND pd.score_date = $2`

	var row processedDateTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, date); err != nil {
		if isNotFound(err) {
			return scoring.ProcessedDate{}, false, nil
		}
		return scoring.ProcessedDate{}, false, fmt.Errorf("get processed date: %w", err)
	}
	return row.toDomain(), true, nil
}

// IncrementTeamScore adds the delta inside the database so concurrent
// increments for different dates cannot lose updates.
func (r *ScoringRepository) IncrementTeamScore(ctx context.Context, leagueID, team string, points float64, at time.Time) error {
	leagueRef, err := r.leagueRef(ctx, r.db, leagueID)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO team_scores (league_id, team, total_points, wins, losses, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4)
		ON CONFLICT (league_id, team)
		DO UPDATE SET total_points = team_scores.total_points + EXCLUDED.total_points,
		              updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, leagueRef, team, points, at); err != nil {
		return fmt.Errorf("increment team score: %w", err)
	}
	return nil
}

func (r *ScoringRepository) ListTeamScoresByLeague(ctx context.Context, leagueID string) ([]scoring.TeamScore, error) {
	const query = `
		SELECT l.public_id AS league_public_id,
		       ts.team, ts.total_points, ts.wins, ts.losses, ts.updated_at
		  FROM team_scores ts
		  JOIN leagues l ON l.id = ts.league_id
		 WHERE l.public_id = $1
		 ORDER BY ts.total_points DESC, ts.team`

	var rows []teamScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("select team scores: %w", err)
	}

	out := make([]scoring.TeamScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ScoringRepository) UpsertPlayerDailyScore(ctx context.Context, score scoring.PlayerDailyScore) error {
	leagueRef, err := r.leagueRef(ctx, r.db, score.LeagueID)
	if err != nil {
		return err
	}
	statLine, err := marshalJSON(score.Stats)
	if err != nil {
		return fmt.Errorf("encode stat line: %w", err)
	}

	const query = `
		INSERT INTO player_daily_scores (league_id, player_id, score_date, player_name, fantasy_team, nhl_team, points, stat_line, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (league_id, player_id, score_date)
		DO UPDATE SET player_name = EXCLUDED.player_name,
		              fantasy_team = EXCLUDED.fantasy_team,
		              nhl_team = EXCLUDED.nhl_team,
		              points = EXCLUDED.points,
		              stat_line = EXCLUDED.stat_line`

	if _, err := r.db.ExecContext(ctx, query, leagueRef, score.PlayerID, score.Date,
		score.PlayerName, score.FantasyTeam, score.NHLTeam, score.Points, statLine, score.CreatedAt); err != nil {
		return fmt.Errorf("upsert player daily score: %w", err)
	}
	return nil
}

func (r *ScoringRepository) ListPlayerDailyScores(ctx context.Context, leagueID, date string) ([]scoring.PlayerDailyScore, error) {
	const query = `
		SELECT l.public_id AS league_public_id,
		       pds.player_id, pds.score_date, pds.player_name, pds.fantasy_team, pds.nhl_team,
		       pds.points, pds.stat_line, pds.created_at
		  FROM player_daily_scores pds
		  JOIN leagues l ON l.id = pds.league_id
		 WHERE l.public_id = $1 AND pds.score_date = $2
		 ORDER BY pds.points DESC, pds.player_name`

	var rows []playerDailyScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, date); err != nil {
		return nil, fmt.Errorf("select player daily scores: %w", err)
	}

	out := make([]scoring.PlayerDailyScore, 0, len(rows))
	for _, row := range rows {
		score, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode stat line player_id=%d: %w", row.PlayerID, err)
		}
		out = append(out, score)
	}
	return out, nil
}

// ReplaceLiveStatsForGame deletes and reinserts the game's snapshot rows
// in one transaction so readers never observe a partial refresh.
func (r *ScoringRepository) ReplaceLiveStatsForGame(ctx context.Context, leagueID, date string, gameID int64, stats []scoring.LivePlayerStat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace live stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	leagueRef, err := r.leagueRef(ctx, tx, leagueID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM live_player_stats WHERE league_id = $1 AND game_id = $2`,
		leagueRef, gameID); err != nil {
		return fmt.Errorf("clear live stats: %w", err)
	}

	const insert = `
		INSERT INTO live_player_stats (league_id, score_date, player_id, player_name, fantasy_team, nhl_team,
		                               game_id, game_state, away_abbrev, home_abbrev, away_score, home_score,
		                               goals, assists, points, shots, hits, blocked_shots, fights,
		                               wins, saves, shutouts, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	for _, stat := range stats {
		if _, err := tx.ExecContext(ctx, insert,
			leagueRef, date, stat.PlayerID, stat.PlayerName, stat.FantasyTeam, stat.NHLTeam,
			gameID, stat.GameState, stat.AwayAbbrev, stat.HomeAbbrev, stat.AwayScore, stat.HomeScore,
			stat.Goals, stat.Assists, stat.Points, stat.Shots, stat.Hits, stat.BlockedShots, stat.Fights,
			stat.Wins, stat.Saves, stat.Shutouts, stat.UpdatedAt); err != nil {
			return fmt.Errorf("insert live stat player_id=%d: %w", stat.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace live stats: %w", err)
	}
	return nil
}

func (r *ScoringRepository) ListLiveStatsByGame(ctx context.Context, leagueID string, gameID int64) ([]scoring.LivePlayerStat, error) {
	const query = `
		SELECT l.public_id AS league_public_id,
		       lps.score_date, lps.player_id, lps.player_name, lps.fantasy_team, lps.nhl_team,
		       lps.game_id, lps.game_state, lps.away_abbrev, lps.home_abbrev, lps.away_score, lps.home_score,
		       lps.goals, lps.assists, lps.points, lps.shots, lps.hits, lps.blocked_shots, lps.fights,
		       lps.wins, lps.saves, lps.shutouts, lps.updated_at
		  FROM live_player_stats lps
		  JOIN leagues l ON l.id = lps.league_id
		 WHERE l.public_id = $1 AND lps.game_id = $2
		 ORDER BY lps.points DESC, lps.player_name`

	return r.selectLiveStats(ctx, query, leagueID, gameID)
}

func (r *ScoringRepository) ListLiveStatsByDate(ctx context.Context, leagueID, date string) ([]scoring.LivePlayerStat, error) {
	const query = `
		SELECT l.public_id AS league_public_id,
		       lps.score_date, lps.player_id, lps.player_name, lps.fantasy_team, lps.nhl_team,
		       lps.game_id, lps.game_state, lps.away_abbrev, lps.home_abbrev, lps.away_score, lps.home_score,
		       lps.goals, lps.assists, lps.points, lps.shots, lps.hits, lps.blocked_shots, lps.fights,
		       lps.wins, lps.saves, lps.shutouts, lps.updated_at
		  FROM live_player_stats lps
		  JOIN leagues l ON l.id = lps.league_id
		 WHERE l.public_id = $1 AND lps.score_date = $2
		 ORDER BY lps.game_id, lps.points DESC`

	return r.selectLiveStats(ctx, query, leagueID, date)
}

func (r *ScoringRepository) selectLiveStats(ctx context.Context, query string, args ...any) ([]scoring.LivePlayerStat, error) {
	var rows []livePlayerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select live stats: %w", err)
	}

	out := make([]scoring.LivePlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
