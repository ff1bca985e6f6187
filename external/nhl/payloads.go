package nhl

// Wire shapes for the api-web.nhle.com feed. Only the fields the jobs
// consume are declared.

type localizedName struct {
	Default string `json:"default"`
}

type scoreboardTeam struct {
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

type scoreboardGame struct {
	ID        int64          `json:"id"`
	GameState string         `json:"gameState"`
	AwayTeam  scoreboardTeam `json:"awayTeam"`
	HomeTeam  scoreboardTeam `json:"homeTeam"`
}

type scoreboardEnvelope struct {
	Games []scoreboardGame `json:"games"`
}

type skaterLine struct {
	PlayerID         int64         `json:"playerId"`
	Name             localizedName `json:"name"`
	Position         string        `json:"position"`
	Goals            int           `json:"goals"`
	Assists          int           `json:"assists"`
	SOG              int           `json:"sog"`
	Hits             int           `json:"hits"`
	BlockedShots     int           `json:"blockedShots"`
	PIM              int           `json:"pim"`
	ShorthandedGoals int           `json:"shorthandedGoals"`
}

type goalieLine struct {
	PlayerID         int64         `json:"playerId"`
	Name             localizedName `json:"name"`
	Goals            int           `json:"goals"`
	Assists          int           `json:"assists"`
	SaveShotsAgainst string        `json:"saveShotsAgainst"`
	GoalsAgainst     int           `json:"goalsAgainst"`
	Decision         string        `json:"decision"`
}

type teamPlayerStats struct {
	Forwards []skaterLine `json:"forwards"`
	Defense  []skaterLine `json:"defense"`
	Goalies  []goalieLine `json:"goalies"`
}

type boxScoreEnvelope struct {
	AwayTeam          scoreboardTeam `json:"awayTeam"`
	HomeTeam          scoreboardTeam `json:"homeTeam"`
	PlayerByGameStats struct {
		AwayTeam teamPlayerStats `json:"awayTeam"`
		HomeTeam teamPlayerStats `json:"homeTeam"`
	} `json:"playerByGameStats"`
}

type playDetails struct {
	DescKey             string `json:"descKey"`
	CommittedByPlayerID int64  `json:"committedByPlayerId"`
}

type playByPlayEnvelope struct {
	Plays []struct {
		TypeDescKey string      `json:"typeDescKey"`
		Details     playDetails `json:"details"`
	} `json:"plays"`
}
