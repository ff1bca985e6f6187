package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	const query = `
		SELECT id, public_id, name, season, status, scoring_rules, created_at, updated_at, deleted_at
		  FROM leagues
		 WHERE deleted_at IS NULL
		 ORDER BY name`

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		lg, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode league %s: %w", row.PublicID, err)
		}
		out = append(out, lg)
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	const query = `
		SELECT id, public_id, name, season, status, scoring_rules, created_at, updated_at, deleted_at
		  FROM leagues
		 WHERE public_id = $1 AND deleted_at IS NULL`

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	lg, err := row.toDomain()
	if err != nil {
		return league.League{}, false, fmt.Errorf("decode league %s: %w", leagueID, err)
	}
	return lg, true, nil
}
