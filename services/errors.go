package services

import "errors"

// Общие ошибки сервисного слоя, маппятся на HTTP в handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Tournaments
	ErrTournamentNotFound        = errors.New("tournament not found")
	ErrTournamentNotActive       = errors.New("tournament is not active")
	ErrActiveTournamentExists    = errors.New("an active tournament already exists")
	ErrTournamentNameRequired    = errors.New("tournament name is required")
	ErrParticipantNameRequired   = errors.New("every participant needs a name")
	ErrParticipantNameConflict   = errors.New("participant names must be unique within a tournament")
	ErrScheduleVersionConflict   = errors.New("schedule was modified concurrently, reload and retry")
	ErrNoActiveTournament        = errors.New("no active tournament")

	// Matches
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchNeedsTwoPlayers  = errors.New("a match needs at least two players")
	ErrMatchPlacementInvalid = errors.New("placements must form a contiguous ranking starting at 1")
	ErrMatchInvalidReference = errors.New("match references an unknown player or commander")
	ErrFixtureWithoutIndex   = errors.New("tournament matches must name the fixture they resolve")

	// Catalog
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerNameConflict    = errors.New("player name already exists")
	ErrPlayerInUse           = errors.New("player has recorded matches and cannot be deleted")
	ErrCommanderNotFound     = errors.New("commander not found")
	ErrCommanderNameConflict = errors.New("commander name already exists")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email address is already in use")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Uploads
	ErrUnsupportedImageType = errors.New("unsupported image content type")
)
