package models

// PlayerWinRate is one row of the dashboard leaderboard.
type PlayerWinRate struct {
	PlayerID int     `json:"player_id" db:"player_id"`
	Name     string  `json:"name" db:"name"`
	Played   int     `json:"played" db:"played"`
	Wins     int     `json:"wins" db:"wins"`
	WinRate  float64 `json:"win_rate" db:"-"`
}

// CommanderUsage counts how often a commander hit the table.
type CommanderUsage struct {
	CommanderID int    `json:"commander_id" db:"commander_id"`
	Name        string `json:"name" db:"name"`
	Games       int    `json:"games" db:"games"`
	Wins        int    `json:"wins" db:"wins"`
}

// DashboardStats is the aggregate block of the analytics dashboard.
type DashboardStats struct {
	MatchesTotal     int              `json:"matches_total"`
	PlayersTotal     int              `json:"players_total"`
	CommandersTotal  int              `json:"commanders_total"`
	ActiveTournament *Tournament      `json:"active_tournament,omitempty"`
	TopPlayers       []PlayerWinRate  `json:"top_players"`
	TopCommanders    []CommanderUsage `json:"top_commanders"`
}
