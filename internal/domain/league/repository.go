package league

import "context"

// Repository is the read surface the scoring jobs need for leagues.
// GetByID looks a league up by its public id and reports whether it
// exists instead of returning a not-found error.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
}
