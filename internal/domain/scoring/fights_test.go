package scoring

import "testing"

func TestCountFights(t *testing.T) {
	t.Parallel()

	plays := []GameEvent{
		{TypeKey: "penalty", DescKey: "fighting", CommittedByPlayerID: 8471234},
		{TypeKey: "penalty", DescKey: "roughing", CommittedByPlayerID: 8471234},
		{TypeKey: "penalty", DescKey: "Fighting", CommittedByPlayerID: 8475999},
		{TypeKey: "goal", DescKey: "", CommittedByPlayerID: 8471234},
		{TypeKey: "penalty", DescKey: "fighting", CommittedByPlayerID: 8471234},
		{TypeKey: "penalty", DescKey: "boarding", CommittedByPlayerID: 8475999},
	}

	got := CountFights(plays)
	if got[8471234] != 2 {
		t.Fatalf("player 8471234 fights: got=%d want=2", got[8471234])
	}
	if got[8475999] != 1 {
		t.Fatalf("player 8475999 fights: got=%d want=1", got[8475999])
	}
	if len(got) != 2 {
		t.Fatalf("unexpected fighters count: got=%d want=2", len(got))
	}
}

func TestCountFights_EmptyAndMalformedInput(t *testing.T) {
	t.Parallel()

	if got := CountFights(nil); len(got) != 0 {
		t.Fatalf("nil play-by-play must yield empty map, got=%v", got)
	}

	plays := []GameEvent{
		{TypeKey: "penalty", DescKey: "fighting", CommittedByPlayerID: 0},
		{TypeKey: "", DescKey: "fighting", CommittedByPlayerID: 8471234},
	}
	if got := CountFights(plays); len(got) != 0 {
		t.Fatalf("malformed entries must not count, got=%v", got)
	}
}
