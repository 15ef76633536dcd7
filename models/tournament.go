package models

import (
	"time"

	"github.com/Veldrin92/commander-tracker/schedule"
)

// TournamentStatus соответствует ENUM в БД.
type TournamentStatus string

const (
	TournamentActive   TournamentStatus = "active"
	TournamentFinished TournamentStatus = "finished"
)

// Tournament is one league night. The whole schedule (participants, fixtures,
// rounds, current round) lives in a single JSON text column; Version guards
// concurrent read-modify-write cycles over that blob.
type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Status       TournamentStatus `json:"status" db:"status"`
	ScheduleJSON string           `json:"-" db:"schedule_json"`
	Version      int              `json:"version" db:"version"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	FinishedAt   *time.Time       `json:"finished_at,omitempty" db:"finished_at"`

	// Deserialized schedule, populated by  the service layer, not mapped.
	Schedule *schedule.State `json:"schedule,omitempty" db:"-"`
}
