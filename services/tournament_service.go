package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/Veldrin92/commander-tracker/repositories"
	"github.com/Veldrin92/commander-tracker/schedule"
)

type StartTournamentInput struct {
	Name         string                 `json:"name"`
	Mode         schedule.Mode          `json:"mode"`
	Participants []schedule.Participant `json:"participants"`
}

type TournamentService interface {
	Start(ctx context.Context, input StartTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetActive(ctx context.Context) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]models.Tournament, error)
	RecordFixtureResult(ctx context.Context, tournamentID, fixtureIndex, matchID int) (*models.Tournament, error)
	AdvanceRound(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Standings(ctx context.Context, tournamentID int) ([]schedule.StandingsRow, error)
	Finish(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	hub            *schedule.Hub
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	hub *schedule.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *tournamentService) Start(ctx context.Context, input StartTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if err := validateParticipants(input.Participants); err != nil {
		return nil, err
	}

	// One active tournament at a time, system-wide.
	_, err := s.tournamentRepo.GetActive(ctx, nil)
	switch {
	case err == nil:
		return nil, ErrActiveTournamentExists
	case !errors.Is(err, repositories.ErrTournamentNotFound):
		return nil, fmt.Errorf("failed to check for an active tournament: %w", err)
	}

	state, err := schedule.Generate(input.Participants, input.Mode)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schedule: %w", err)
	}

	tournament := &models.Tournament{
		Name:         name,
		Status:       models.TournamentActive,
		ScheduleJSON: string(blob),
		Version:      1,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentConflict) {
			return nil, ErrActiveTournamentExists
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	tournament.Schedule = state

	s.logger.Info("tournament started",
		slog.Int("tournament_id", tournament.ID),
		slog.String("mode", string(state.Mode)),
		slog.Int("participants", len(state.Participants)),
		slog.Int("fixtures", len(state.Fixtures)),
		slog.Int("rounds", len(state.Rounds)),
	)
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if err := attachSchedule(tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetActive(ctx context.Context) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetActive(ctx, nil)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNoActiveTournament
		}
		return nil, err
	}
	if err := attachSchedule(tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		if err := attachSchedule(&tournaments[i]); err != nil {
			return nil, err
		}
	}
	return tournaments, nil
}

// RecordFixtureResult marks a fixture as played and attaches the match id to
// it. The read-modify-write cycle over the schedule blob runs inside one
// transaction and is guarded by the version column, so two concurrent writers
// cannot both apply against the same snapshot.
func (s *tournamentService) RecordFixtureResult(ctx context.Context, tournamentID, fixtureIndex, matchID int) (*models.Tournament, error) {
	tournament, err := s.mutateSchedule(ctx, tournamentID, func(state *schedule.State) (*schedule.State, error) {
		return state.MarkPlayed(fixtureIndex, matchID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixture recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("fixture", fixtureIndex),
		slog.Int("match_id", matchID),
	)
	s.broadcast(tournamentID, schedule.EventScheduleUpdated, tournament.Schedule)
	if rows, standingsErr := s.Standings(ctx, tournamentID); standingsErr == nil {
		s.broadcast(tournamentID, schedule.EventStandingsUpdated, rows)
	} else {
		s.logger.Error("failed to compute standings for broadcast",
			slog.Int("tournament_id", tournamentID),
			slog.Any("error", standingsErr),
		)
	}
	return tournament, nil
}

// AdvanceRound moves the tournament to the next round. The completeness check
// runs against the snapshot read inside the same transaction that writes the
// advanced state back, so two callers cannot both observe "round complete"
// and advance twice.
func (s *tournamentService) AdvanceRound(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.mutateSchedule(ctx, tournamentID, func(state *schedule.State) (*schedule.State, error) {
		return state.AdvanceRound()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("round advanced",
		slog.Int("tournament_id", tournamentID),
		slog.Int("current_round", tournament.Schedule.CurrentRound),
	)
	s.broadcast(tournamentID, schedule.EventScheduleUpdated, tournament.Schedule)
	return tournament, nil
}

func (s *tournamentService) Standings(ctx context.Context, tournamentID int) ([]schedule.StandingsRow, error) {
	if _, err := s.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListCompletedByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed matches for tournament %d: %w", tournamentID, err)
	}
	return schedule.ComputeStandings(matches), nil
}

func (s *tournamentService) Finish(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	err := s.tournamentRepo.Finish(ctx, nil, tournamentID, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to finish tournament %d: %w", tournamentID, err)
	}

	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament finished", slog.Int("tournament_id", tournamentID))
	s.broadcast(tournamentID, schedule.EventTournamentDone, tournament)
	return tournament, nil
}

// mutateSchedule loads the tournament inside a transaction, applies the pure
// mutation to its decoded schedule and writes the result back with a version
// check.
func (s *tournamentService) mutateSchedule(ctx context.Context, tournamentID int, mutate func(*schedule.State) (*schedule.State, error)) (*models.Tournament, error) {
	var exec repositories.SQLExecutor
	var tx *sql.Tx
	if s.db != nil {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()
		exec = tx
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.TournamentActive {
		return nil, ErrTournamentNotActive
	}
	if err := attachSchedule(tournament); err != nil {
		return nil, err
	}

	next, err := mutate(tournament.Schedule)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schedule: %w", err)
	}
	if err := s.tournamentRepo.UpdateSchedule(ctx, exec, tournamentID, string(blob), tournament.Version); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return nil, ErrScheduleVersionConflict
		}
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit schedule update: %w", err)
		}
	}

	tournament.Schedule = next
	tournament.ScheduleJSON = string(blob)
	tournament.Version++
	return tournament, nil
}

func (s *tournamentService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	roomID := "tournament_" + strconv.Itoa(tournamentID)
	s.hub.BroadcastToRoom(roomID, schedule.Message{Type: event, Payload: payload, RoomID: roomID})
}

// attachSchedule decodes and re-validates the persisted blob. Shape
// violations mean external corruption and surface as schedule.ErrInvalidState.
func attachSchedule(t *models.Tournament) error {
	var state schedule.State
	if err := json.Unmarshal([]byte(t.ScheduleJSON), &state); err != nil {
		return fmt.Errorf("%w: %v", schedule.ErrInvalidState, err)
	}
	if err := state.Validate(); err != nil {
		return err
	}
	t.Schedule = &state
	return nil
}

func validateParticipants(participants []schedule.Participant) error {
	if len(participants) < 2 {
		return schedule.ErrInsufficientParticipants
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return ErrParticipantNameRequired
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrParticipantNameConflict, p.Name)
		}
		seen[key] = true
	}
	return nil
}
