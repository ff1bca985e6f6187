package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string][]roster.Assignment
}

func NewRosterRepository(assignments []roster.Assignment) *RosterRepository {
	items := make(map[string][]roster.Assignment)
	for _, a := range assignments {
		items[a.LeagueID] = append(items[a.LeagueID], a)
	}
	return &RosterRepository{items: items}
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]roster.Assignment(nil), r.items[leagueID]...), nil
}
