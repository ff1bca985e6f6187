package scoring

import (
	"context"
	"time"
)

type Repository interface {
	// CreateProcessedDate atomically creates the marker and reports whether
	// this call created it. A false return means another run owns the date.
	CreateProcessedDate(ctx context.Context, marker ProcessedDate) (bool, error)
	// FinalizeProcessedDate records the audit counts once all increments for
	// the date have committed.
	FinalizeProcessedDate(ctx context.Context, marker ProcessedDate) error
	GetProcessedDate(ctx context.Context, leagueID, date string) (ProcessedDate, bool, error)

	// IncrementTeamScore applies a point delta, creating the record with the
	// delta as its initial value when the team has never scored.
	IncrementTeamScore(ctx context.Context, leagueID, team string, points float64, at time.Time) error
	ListTeamScoresByLeague(ctx context.Context, leagueID string) ([]TeamScore, error)

	UpsertPlayerDailyScore(ctx context.Context, score PlayerDailyScore) error
	ListPlayerDailyScores(ctx context.Context, leagueID, date string) ([]PlayerDailyScore, error)

	// ReplaceLiveStatsForGame swaps the full snapshot set for one game in a
	// single atomic batch.
	ReplaceLiveStatsForGame(ctx context.Context, leagueID, date string, gameID int64, stats []LivePlayerStat) error
	ListLiveStatsByGame(ctx context.Context, leagueID string, gameID int64) ([]LivePlayerStat, error)
	ListLiveStatsByDate(ctx context.Context, leagueID, date string) ([]LivePlayerStat, error)
}
