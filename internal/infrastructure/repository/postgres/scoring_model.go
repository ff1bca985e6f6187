package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

type processedDateTableModel struct {
	LeagueID           string    `db:"league_public_id"`
	Date               string    `db:"score_date"`
	GamesProcessed     int       `db:"games_processed"`
	TeamsUpdated       int       `db:"teams_updated"`
	PlayerPerformances int       `db:"player_performances"`
	ProcessedAt        time.Time `db:"processed_at"`
}

func (m processedDateTableModel) toDomain() scoring.ProcessedDate {
	return scoring.ProcessedDate{
		LeagueID:           m.LeagueID,
		Date:               m.Date,
		GamesProcessed:     m.GamesProcessed,
		TeamsUpdated:       m.TeamsUpdated,
		PlayerPerformances: m.PlayerPerformances,
		ProcessedAt:        m.ProcessedAt,
	}
}

type teamScoreTableModel struct {
	LeagueID    string    `db:"league_public_id"`
	Team        string    `db:"team"`
	TotalPoints float64   `db:"total_points"`
	Wins        int       `db:"wins"`
	Losses      int       `db:"losses"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m teamScoreTableModel) toDomain() scoring.TeamScore {
	return scoring.TeamScore{
		LeagueID:    m.LeagueID,
		Team:        m.Team,
		TotalPoints: m.TotalPoints,
		Wins:        m.Wins,
		Losses:      m.Losses,
		UpdatedAt:   m.UpdatedAt,
	}
}

type playerDailyScoreTableModel struct {
	LeagueID    string    `db:"league_public_id"`
	PlayerID    int64     `db:"player_id"`
	Date        string    `db:"score_date"`
	PlayerName  string    `db:"player_name"`
	FantasyTeam string    `db:"fantasy_team"`
	NHLTeam     string    `db:"nhl_team"`
	Points      float64   `db:"points"`
	Stats       []byte    `db:"stat_line"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m playerDailyScoreTableModel) toDomain() (scoring.PlayerDailyScore, error) {
	out := scoring.PlayerDailyScore{
		LeagueID:    m.LeagueID,
		PlayerID:    m.PlayerID,
		Date:        m.Date,
		PlayerName:  m.PlayerName,
		FantasyTeam: m.FantasyTeam,
		NHLTeam:     m.NHLTeam,
		Points:      m.Points,
		CreatedAt:   m.CreatedAt,
	}
	if len(m.Stats) > 0 {
		if err := unmarshalJSON(m.Stats, &out.Stats); err != nil {
			return scoring.PlayerDailyScore{}, err
		}
	}
	return out, nil
}

type livePlayerStatTableModel struct {
	LeagueID     string    `db:"league_public_id"`
	Date         string    `db:"score_date"`
	PlayerID     int64     `db:"player_id"`
	PlayerName   string    `db:"player_name"`
	FantasyTeam  string    `db:"fantasy_team"`
	NHLTeam      string    `db:"nhl_team"`
	GameID       int64     `db:"game_id"`
	GameState    string    `db:"game_state"`
	AwayAbbrev   string    `db:"away_abbrev"`
	HomeAbbrev   string    `db:"home_abbrev"`
	AwayScore    int       `db:"away_score"`
	HomeScore    int       `db:"home_score"`
	Goals        int       `db:"goals"`
	Assists      int       `db:"assists"`
	Points       int       `db:"points"`
	Shots        int       `db:"shots"`
	Hits         int       `db:"hits"`
	BlockedShots int       `db:"blocked_shots"`
	Fights       int       `db:"fights"`
	Wins         int       `db:"wins"`
	Saves        int       `db:"saves"`
	Shutouts     int       `db:"shutouts"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m livePlayerStatTableModel) toDomain() scoring.LivePlayerStat {
	return scoring.LivePlayerStat{
		LeagueID:     m.LeagueID,
		Date:         m.Date,
		PlayerID:     m.PlayerID,
		PlayerName:   m.PlayerName,
		FantasyTeam:  m.FantasyTeam,
		NHLTeam:      m.NHLTeam,
		GameID:       m.GameID,
		GameState:    m.GameState,
		AwayAbbrev:   m.AwayAbbrev,
		HomeAbbrev:   m.HomeAbbrev,
		AwayScore:    m.AwayScore,
		HomeScore:    m.HomeScore,
		Goals:        m.Goals,
		Assists:      m.Assists,
		Points:       m.Points,
		Shots:        m.Shots,
		Hits:         m.Hits,
		BlockedShots: m.BlockedShots,
		Fights:       m.Fights,
		Wins:         m.Wins,
		Saves:        m.Saves,
		Shutouts:     m.Shutouts,
		UpdatedAt:    m.UpdatedAt,
	}
}
