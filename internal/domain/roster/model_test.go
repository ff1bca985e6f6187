package roster

import "testing"

func TestNormalizeSlot(t *testing.T) {
	t.Parallel()

	cases := map[string]Slot{
		"active":   SlotActive,
		"reserve":  SlotReserve,
		"Reserve":  SlotReserve,
		" RESERVE": SlotReserve,
		"":         SlotActive,
		"bench":    SlotActive,
	}
	for raw, want := range cases {
		if got := NormalizeSlot(raw); got != want {
			t.Fatalf("slot %q: got=%s want=%s", raw, got, want)
		}
	}
}

func TestActiveTeamByPlayer(t *testing.T) {
	t.Parallel()

	assignments := []Assignment{
		{LeagueID: "l1", PlayerID: 100, FantasyTeam: "Ice Dogs", Slot: SlotActive},
		{LeagueID: "l1", PlayerID: 200, FantasyTeam: "Ice Dogs", Slot: SlotReserve},
		{LeagueID: "l1", PlayerID: 300, FantasyTeam: "Zamboners"},
		{LeagueID: "l1", PlayerID: 0, FantasyTeam: "Zamboners", Slot: SlotActive},
		{LeagueID: "l1", PlayerID: 400, FantasyTeam: "", Slot: SlotActive},
	}

	got := ActiveTeamByPlayer(assignments)
	if len(got) != 2 {
		t.Fatalf("unexpected map size: got=%d want=2", len(got))
	}
	if got[100] != "Ice Dogs" {
		t.Fatalf("player 100 team: got=%q want=%q", got[100], "Ice Dogs")
	}
	// A record with no slot at all predates the slot field and counts as active.
	if got[300] != "Zamboners" {
		t.Fatalf("player 300 team: got=%q want=%q", got[300], "Zamboners")
	}
	if _, ok := got[200]; ok {
		t.Fatalf("reserve player must be excluded")
	}
}
