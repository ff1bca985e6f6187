package memory

import (
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

const LeagueIDOfficeLeague = "office-league-2025"

func seedRules() *scoring.Rules {
	rules := scoring.DefaultRules()
	return &rules
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:     LeagueIDOfficeLeague,
			Name:   "Office League",
			Season: "2025-26",
			Status: league.StatusLive,
			Rules:  seedRules(),
		},
	}
}

func SeedRoster() []roster.Assignment {
	return []roster.Assignment{
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8478402, PlayerName: "Connor McDavid", NHLTeam: "EDM", FantasyTeam: "Glass Eaters", Slot: roster.SlotActive},
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8477934, PlayerName: "Leon Draisaitl", NHLTeam: "EDM", FantasyTeam: "Glass Eaters", Slot: roster.SlotActive},
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8471675, PlayerName: "Sidney Crosby", NHLTeam: "PIT", FantasyTeam: "Bench Bosses", Slot: roster.SlotActive},
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8480012, PlayerName: "Elias Pettersson", NHLTeam: "VAN", FantasyTeam: "Bench Bosses", Slot: roster.SlotReserve},
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8479318, PlayerName: "Auston Matthews", NHLTeam: "TOR", FantasyTeam: "Zamboni Drivers", Slot: roster.SlotActive},
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8480069, PlayerName: "Cale Makar", NHLTeam: "COL", FantasyTeam: "Zamboni Drivers", Slot: roster.SlotActive},
		{LeagueID: LeagueIDOfficeLeague, PlayerID: 8479973, PlayerName: "Stuart Skinner", NHLTeam: "EDM", FantasyTeam: "Glass Eaters", Slot: roster.SlotActive},
	}
}
