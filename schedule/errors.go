package schedule

import "errors"

// Ошибки планировщика, пробрасываются сервисным слоем без изменений.
var (
	ErrInsufficientParticipants = errors.New("at least 2 participants are required for a round-robin schedule")
	ErrInvalidState             = errors.New("persisted schedule state failed validation")
	ErrInvalidFixtureIndex      = errors.New("fixture index is out of range")
	ErrRoundIncomplete          = errors.New("current round still has unplayed fixtures")
	ErrAlreadyAtFinalRound      = errors.New("tournament is already at the final round")
)
