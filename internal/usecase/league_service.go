package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
)

// LeagueService serves league and roster reads.
type LeagueService struct {
	leagueRepo league.Repository
	rosterRepo roster.Repository
}

func NewLeagueService(leagueRepo league.Repository, rosterRepo roster.Repository) *LeagueService {
	return &LeagueService{leagueRepo: leagueRepo, rosterRepo: rosterRepo}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	sort.SliceStable(leagues, func(i, j int) bool { return leagues[i].Name < leagues[j].Name })
	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetLeague")
	defer span.End()

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
	return lg, nil
}

func (s *LeagueService) ListRoster(ctx context.Context, leagueID string) ([]roster.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListRoster")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	assignments, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list roster for league %s: %w", leagueID, err)
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].FantasyTeam != assignments[j].FantasyTeam {
			return assignments[i].FantasyTeam < assignments[j].FantasyTeam
		}
		return assignments[i].PlayerName < assignments[j].PlayerName
	})
	return assignments, nil
}
