package models

import "time"

// Commander is a deck/commander catalog entry. ColorIdentity uses the usual
// WUBRG letters, e.g. "WUG".
type Commander struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	ColorIdentity string    `json:"color_identity" db:"color_identity"`
	OwnerPlayerID *int      `json:"owner_player_id,omitempty" db:"owner_player_id"`
	ImageKey      *string   `json:"-" db:"image_key"`
	ImageURL      *string   `json:"image_url,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
