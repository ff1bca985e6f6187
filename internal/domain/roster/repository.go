package roster

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Assignment, error)
}
