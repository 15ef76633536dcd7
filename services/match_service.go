package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/Veldrin92/commander-tracker/repositories"
)

type MatchSeatInput struct {
	PlayerID        *int   `json:"player_id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"background_color"`
	Placement       int    `json:"placement"`
	FinalLife       *int   `json:"final_life"`
	CommanderID     *int   `json:"commander_id"`
}

type RecordMatchInput struct {
	TournamentID    *int             `json:"tournament_id"`
	FixtureIndex    *int             `json:"fixture_index"`
	PlayedAt        *time.Time       `json:"played_at"`
	DurationSeconds *int             `json:"duration_seconds"`
	TurnCount       *int             `json:"turn_count"`
	Players         []MatchSeatInput `json:"players"`
}

type MatchService interface {
	// Record stores a finished game. When the match resolves a tournament
	// fixture it also flags that fixture as played.
	Record(ctx context.Context, input RecordMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, limit, offset int) ([]models.Match, error)
}

type matchService struct {
	matchRepo         repositories.MatchRepository
	tournamentService TournamentService
	logger            *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentService TournamentService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:         matchRepo,
		tournamentService: tournamentService,
		logger:            logger,
	}
}

func (s *matchService) Record(ctx context.Context, input RecordMatchInput) (*models.Match, error) {
	if err := validateSeats(input.Players); err != nil {
		return nil, err
	}
	if input.TournamentID != nil {
		if input.FixtureIndex == nil {
			return nil, ErrFixtureWithoutIndex
		}
		// Tournament fixtures are 1v1; casual commander pods can seat more.
		if len(input.Players) != 2 {
			return nil, fmt.Errorf("%w: tournament matches seat exactly two players", ErrValidationFailed)
		}
	}

	playedAt := time.Now()
	if input.PlayedAt != nil {
		playedAt = *input.PlayedAt
	}

	match := &models.Match{
		TournamentID:    input.TournamentID,
		PlayedAt:        playedAt,
		DurationSeconds: input.DurationSeconds,
		TurnCount:       input.TurnCount,
		Players:         make([]models.MatchPlayer, 0, len(input.Players)),
	}
	for _, seat := range input.Players {
		match.Players = append(match.Players, models.MatchPlayer{
			PlayerID:        seat.PlayerID,
			Name:            seat.Name,
			BackgroundColor: seat.BackgroundColor,
			Placement:       seat.Placement,
			FinalLife:       seat.FinalLife,
			CommanderID:     seat.CommanderID,
		})
	}

	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchInvalidPlayer) {
			return nil, ErrMatchInvalidReference
		}
		return nil, fmt.Errorf("failed to record match: %w", err)
	}

	if input.TournamentID != nil {
		if _, err := s.tournamentService.RecordFixtureResult(ctx, *input.TournamentID, *input.FixtureIndex, match.ID); err != nil {
			// The match row is kept; the fixture flag can be replayed once
			// the caller resolves the error.
			s.logger.Error("match recorded but fixture flag failed",
				slog.Int("match_id", match.ID),
				slog.Int("tournament_id", *input.TournamentID),
				slog.Int("fixture", *input.FixtureIndex),
				slog.Any("error", err),
			)
			return nil, err
		}
	}

	s.logger.Info("match recorded",
		slog.Int("match_id", match.ID),
		slog.Int("players", len(match.Players)),
	)
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, limit, offset int) ([]models.Match, error) {
	matches, err := s.matchRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if matches == nil {
		return []models.Match{}, nil
	}
	return matches, nil
}

// validateSeats checks that placements form a contiguous ranking 1..n with no
// duplicates and every seat carries a name.
func validateSeats(seats []MatchSeatInput) error {
	if len(seats) < 2 {
		return ErrMatchNeedsTwoPlayers
	}
	taken := make(map[int]bool, len(seats))
	for _, seat := range seats {
		if seat.Name == "" {
			return ErrParticipantNameRequired
		}
		if seat.Placement < 1 || seat.Placement > len(seats) || taken[seat.Placement] {
			return ErrMatchPlacementInvalid
		}
		taken[seat.Placement] = true
	}
	return nil
}
