package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

type leagueTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Season    string     `db:"season"`
	Status    string     `db:"status"`
	Rules     []byte     `db:"scoring_rules"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type scoringRulesJSON struct {
	Goal            float64 `json:"goal"`
	Assist          float64 `json:"assist"`
	ShortHandedGoal float64 `json:"shortHandedGoal"`
	OvertimeGoal    float64 `json:"overtimeGoal"`
	Fight           float64 `json:"fight"`
	BlockedShot     float64 `json:"blockedShot"`
	Hit             float64 `json:"hit"`
	Win             float64 `json:"win"`
	Shutout         float64 `json:"shutout"`
	Save            float64 `json:"save"`
	GoalieAssist    float64 `json:"goalieAssist"`
	GoalieGoal      float64 `json:"goalieGoal"`
}

func rulesFromJSON(r scoringRulesJSON) scoring.Rules {
	return scoring.Rules{
		Goal:            r.Goal,
		Assist:          r.Assist,
		ShortHandedGoal: r.ShortHandedGoal,
		OvertimeGoal:    r.OvertimeGoal,
		Fight:           r.Fight,
		BlockedShot:     r.BlockedShot,
		Hit:             r.Hit,
		Win:             r.Win,
		Shutout:         r.Shutout,
		Save:            r.Save,
		GoalieAssist:    r.GoalieAssist,
		GoalieGoal:      r.GoalieGoal,
	}
}

func rulesToJSON(r scoring.Rules) scoringRulesJSON {
	return scoringRulesJSON{
		Goal:            r.Goal,
		Assist:          r.Assist,
		ShortHandedGoal: r.ShortHandedGoal,
		OvertimeGoal:    r.OvertimeGoal,
		Fight:           r.Fight,
		BlockedShot:     r.BlockedShot,
		Hit:             r.Hit,
		Win:             r.Win,
		Shutout:         r.Shutout,
		Save:            r.Save,
		GoalieAssist:    r.GoalieAssist,
		GoalieGoal:      r.GoalieGoal,
	}
}

func (m leagueTableModel) toDomain() (league.League, error) {
	out := league.League{
		ID:     m.PublicID,
		Name:   m.Name,
		Season: m.Season,
		Status: league.Status(m.Status),
	}
	if len(m.Rules) > 0 {
		var raw scoringRulesJSON
		if err := unmarshalJSON(m.Rules, &raw); err != nil {
			return league.League{}, err
		}
		rules := rulesFromJSON(raw)
		out.Rules = &rules
	}
	return out, nil
}
