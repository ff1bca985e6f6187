package scoring

import "fmt"

// Rules stores the per-league point weights applied to raw game statistics.
// A rules set is immutable for the duration of a scoring run.
type Rules struct {
	Goal            float64
	Assist          float64
	ShortHandedGoal float64
	// OvertimeGoal is configured per league but the box score does not expose
	// overtime goals per player, so the calculator never applies it.
	OvertimeGoal float64
	Fight        float64
	BlockedShot  float64
	Hit          float64
	Win          float64
	Shutout      float64
	Save         float64
	GoalieAssist float64
	GoalieGoal   float64
}

func DefaultRules() Rules {
	return Rules{
		Goal:            1,
		Assist:          1,
		ShortHandedGoal: 1,
		OvertimeGoal:    1,
		Fight:           2,
		BlockedShot:     0.5,
		Hit:             0.25,
		Win:             1,
		Shutout:         2,
		Save:            0.04,
		GoalieAssist:    2,
		GoalieGoal:      5,
	}
}

func (r Rules) Validate() error {
	if r == (Rules{}) {
		return fmt.Errorf("scoring rules are empty")
	}
	return nil
}

// Position is the raw lineup position reported by the stats provider.
type Position string

const (
	PositionCenter    Position = "C"
	PositionLeftWing  Position = "L"
	PositionRightWing Position = "R"
	PositionDefense   Position = "D"
	PositionGoalie    Position = "G"
)

// Group collapses lineup positions into the three buckets scoring cares about.
type Group string

const (
	GroupForward Group = "forward"
	GroupDefense Group = "defense"
	GroupGoalie  Group = "goalie"
)

func (p Position) Group() Group {
	switch p {
	case PositionGoalie:
		return GroupGoalie
	case PositionDefense:
		return GroupDefense
	default:
		return GroupForward
	}
}

// PlayerGameStats is one player's counting stats for one game. Stats the
// provider did not report stay at zero.
type PlayerGameStats struct {
	PlayerID   int64
	Name       string
	TeamAbbrev string
	Position   Position

	Goals            int
	Assists          int
	Shots            int
	Hits             int
	BlockedShots     int
	PenaltyMinutes   int
	ShortHandedGoals int

	Wins         int
	Saves        int
	Shutouts     int
	GoalsAgainst int
}

// CalculatePoints maps one player's game line to fantasy points under the
// given rules. Goalies score on goaltending stats at their own weights;
// skaters score on offense, and only defensemen earn hit and blocked-shot
// points. Callers must discard non-finite results.
func CalculatePoints(stat PlayerGameStats, rules Rules, fightCount int) float64 {
	if stat.Position.Group() == GroupGoalie {
		return float64(stat.Wins)*rules.Win +
			float64(stat.Shutouts)*rules.Shutout +
			float64(stat.Saves)*rules.Save +
			float64(stat.Assists)*rules.GoalieAssist +
			float64(stat.Goals)*rules.GoalieGoal
	}

	points := float64(stat.Goals)*rules.Goal +
		float64(stat.Assists)*rules.Assist +
		float64(stat.ShortHandedGoals)*rules.ShortHandedGoal +
		float64(fightCount)*rules.Fight

	if stat.Position.Group() == GroupDefense {
		points += float64(stat.BlockedShots)*rules.BlockedShot +
			float64(stat.Hits)*rules.Hit
	}

	return points
}

// SparseStatLine keeps only the stats that actually happened, preserving the
// "did something notable happen" signal in persisted daily records.
func SparseStatLine(stat PlayerGameStats, fightCount int) map[string]int {
	out := make(map[string]int, 8)
	put := func(key string, value int) {
		if value != 0 {
			out[key] = value
		}
	}

	put("goals", stat.Goals)
	put("assists", stat.Assists)
	put("shots", stat.Shots)
	put("hits", stat.Hits)
	put("blocked_shots", stat.BlockedShots)
	put("penalty_minutes", stat.PenaltyMinutes)
	put("short_handed_goals", stat.ShortHandedGoals)
	put("fights", fightCount)
	put("wins", stat.Wins)
	put("saves", stat.Saves)
	put("shutouts", stat.Shutouts)
	put("goals_against", stat.GoalsAgainst)

	return out
}
