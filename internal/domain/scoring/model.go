package scoring

import "time"

// DateFormat is the calendar-day key used across all scoring records.
const DateFormat = "2006-01-02"

// PlayerDailyScore is one player's settled fantasy output for one day.
// Written once by the daily job; the (league, player, date) key makes a
// replayed write an overwrite of identical data.
type PlayerDailyScore struct {
	LeagueID    string
	PlayerID    int64
	Date        string
	PlayerName  string
	FantasyTeam string
	NHLTeam     string
	Points      float64
	Stats       map[string]int
	CreatedAt   time.Time
}

// TeamScore is the cumulative total for one fantasy team. Totals only ever
// move by increments so runs for different dates cannot clobber each other.
type TeamScore struct {
	LeagueID    string
	Team        string
	TotalPoints float64
	Wins        int
	Losses      int
	UpdatedAt   time.Time
}

// ProcessedDate marks that a day's team increments have been applied for a
// league. Creating it is the concurrency gate for the daily job.
type ProcessedDate struct {
	LeagueID           string
	Date               string
	GamesProcessed     int
	TeamsUpdated       int
	PlayerPerformances int
	ProcessedAt        time.Time
}

// LivePlayerStat is the current in-game snapshot for one rostered player,
// keyed by the date the game belongs to. Overwritten on every poll and never
// feeds team totals.
type LivePlayerStat struct {
	LeagueID    string
	Date        string
	PlayerID    int64
	PlayerName  string
	FantasyTeam string
	NHLTeam     string

	GameID     int64
	GameState  string
	AwayAbbrev string
	HomeAbbrev string
	AwayScore  int
	HomeScore  int

	Goals   int
	Assists int
	// Points is the goals+assists scoring line, not fantasy points.
	Points       int
	Shots        int
	Hits         int
	BlockedShots int
	Fights       int
	Wins         int
	Saves        int
	Shutouts     int

	UpdatedAt time.Time
}

// HasFantasyEvents reports whether the snapshot recorded anything a fantasy
// roster would care about. Used to decide whether a final game's stats were
// actually populated upstream.
func (s LivePlayerStat) HasFantasyEvents() bool {
	return s.Goals != 0 || s.Assists != 0 || s.Shots != 0 || s.Hits != 0 ||
		s.BlockedShots != 0 || s.Fights != 0 || s.Wins != 0 || s.Saves != 0 ||
		s.Shutouts != 0
}
