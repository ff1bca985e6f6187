package scoring

import "strings"

const eventTypePenalty = "penalty"

// GameEvent is one play-by-play entry, reduced to the fields fight counting
// needs. Non-penalty events carry an empty DescKey.
type GameEvent struct {
	TypeKey             string
	DescKey             string
	CommittedByPlayerID int64
}

// CountFights scans a game's play-by-play for fighting majors and returns the
// fight count per committing player. Penalty minutes in the box score are not
// a reliable proxy: a ten-minute misconduct is not a fight.
func CountFights(plays []GameEvent) map[int64]int {
	out := make(map[int64]int)
	for _, play := range plays {
		if !strings.EqualFold(strings.TrimSpace(play.TypeKey), eventTypePenalty) {
			continue
		}
		if !isFightingDesc(play.DescKey) {
			continue
		}
		if play.CommittedByPlayerID <= 0 {
			continue
		}
		out[play.CommittedByPlayerID]++
	}
	return out
}

func isFightingDesc(desc string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(desc)), "fighting")
}
