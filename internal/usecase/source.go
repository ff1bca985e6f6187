package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

// NHL schedule game states. CRIT is the league's "late in a close game"
// variant of LIVE; OFF means the result is final but not yet official.
const (
	GameStateFuture   = "FUT"
	GameStatePregame  = "PRE"
	GameStateLive     = "LIVE"
	GameStateCritical = "CRIT"
	GameStateFinal    = "FINAL"
	GameStateOfficial = "OFF"
)

// GameTeam is one side of a game as reported by the schedule feed.
type GameTeam struct {
	Abbrev string
	Score  int
}

// Game is a single scheduled game with its current score and state.
type Game struct {
	ID    int64
	State string
	Away  GameTeam
	Home  GameTeam
}

// IsFinal reports whether the game has ended.
func (g Game) IsFinal() bool {
	return g.State == GameStateFinal || g.State == GameStateOfficial
}

// IsScheduled reports whether the game has not started yet.
func (g Game) IsScheduled() bool {
	return g.State == GameStateFuture || g.State == GameStatePregame
}

// InProgress reports whether the game is currently being played.
func (g Game) InProgress() bool {
	return g.State == GameStateLive || g.State == GameStateCritical
}

// GameSource provides schedule, box score, and play-by-play data for a
// single day of games. Dates use the scoring.DateFormat layout.
type GameSource interface {
	ListGamesByDate(ctx context.Context, date string) ([]Game, error)
	FetchBoxScore(ctx context.Context, gameID int64) ([]scoring.PlayerGameStats, error)
	FetchPlayByPlay(ctx context.Context, gameID int64) ([]scoring.GameEvent, error)
}
