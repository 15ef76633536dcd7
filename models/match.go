package models

import "time"

// Match is one recorded game at the table. TournamentID is set when the match
// resolves a tournament fixture; casual games leave it NULL.
type Match struct {
	ID              int        `json:"id" db:"id"`
	TournamentID    *int       `json:"tournament_id,omitempty" db:"tournament_id"`
	PlayedAt        time.Time  `json:"played_at" db:"played_at"`
	DurationSeconds *int       `json:"duration_seconds,omitempty" db:"duration_seconds"`
	TurnCount       *int       `json:"turn_count,omitempty" db:"turn_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`

	Players []MatchPlayer `json:"players,omitempty" db:"-"`
}

// MatchPlayer is one seat of a match. PlayerID references the player catalog
// and is NULL for ad-hoc names typed in at the table; Placement is 1 for the
// winner, 2 for the loser in the 1v1 tournament format.
type MatchPlayer struct {
	ID              int    `json:"id" db:"id"`
	MatchID         int    `json:"match_id" db:"match_id"`
	PlayerID        *int   `json:"player_id,omitempty" db:"player_id"`
	Name            string `json:"name" db:"name"`
	BackgroundColor string `json:"background_color" db:"background_color"`
	Placement       int    `json:"placement" db:"placement"`
	FinalLife       *int   `json:"final_life,omitempty" db:"final_life"`
	CommanderID     *int   `json:"commander_id,omitempty" db:"commander_id"`
}
