package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
)

type rosterTableModel struct {
	LeagueID    string `db:"league_public_id"`
	PlayerID    int64  `db:"player_id"`
	PlayerName  string `db:"player_name"`
	NHLTeam     string `db:"nhl_team"`
	FantasyTeam string `db:"fantasy_team"`
	Slot        string `db:"slot"`
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Assignment, error) {
	const query = `
		SELECT l.public_id AS league_public_id,
		       ra.player_id, ra.player_name, ra.nhl_team, ra.fantasy_team, ra.slot
		  FROM roster_assignments ra
		  JOIN leagues l ON l.id = ra.league_id
		 WHERE l.public_id = $1 AND l.deleted_at IS NULL
		 ORDER BY ra.fantasy_team, ra.player_name`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("select roster assignments: %w", err)
	}

	out := make([]roster.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Assignment{
			LeagueID:    row.LeagueID,
			PlayerID:    row.PlayerID,
			PlayerName:  row.PlayerName,
			NHLTeam:     row.NHLTeam,
			FantasyTeam: row.FantasyTeam,
			Slot:        roster.NormalizeSlot(row.Slot),
		})
	}
	return out, nil
}
