package roster

import "strings"

type Slot string

const (
	SlotActive  Slot = "active"
	SlotReserve Slot = "reserve"
)

// NormalizeSlot maps a raw slot value to a known slot. Records written before
// slots existed carry no value at all; those players always counted, so an
// empty slot means active.
func NormalizeSlot(value string) Slot {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(SlotReserve):
		return SlotReserve
	default:
		return SlotActive
	}
}

// Assignment binds one NHL player to one fantasy team within a league.
// Created by the draft, reshuffled by roster swaps; scoring only reads it.
type Assignment struct {
	LeagueID    string
	PlayerID    int64
	PlayerName  string
	NHLTeam     string
	FantasyTeam string
	Slot        Slot
}

func (a Assignment) IsActive() bool {
	return NormalizeSlot(string(a.Slot)) == SlotActive
}

// ActiveTeamByPlayer builds the player-to-fantasy-team map the scoring jobs
// filter against. Reserve players are excluded entirely.
func ActiveTeamByPlayer(assignments []Assignment) map[int64]string {
	out := make(map[int64]string, len(assignments))
	for _, item := range assignments {
		if !item.IsActive() {
			continue
		}
		if item.PlayerID <= 0 || item.FantasyTeam == "" {
			continue
		}
		out[item.PlayerID] = item.FantasyTeam
	}
	return out
}
