package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/Veldrin92/commander-tracker/repositories"
	"golang.org/x/sync/errgroup"
)

const dashboardTopN = 10

type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type statsService struct {
	playerRepo     repositories.PlayerRepository
	commanderRepo  repositories.CommanderRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
}

func NewStatsService(
	playerRepo repositories.PlayerRepository,
	commanderRepo repositories.CommanderRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
) StatsService {
	return &statsService{
		playerRepo:     playerRepo,
		commanderRepo:  commanderRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
	}
}

// Dashboard fetches the aggregate blocks in parallel; the numbers come from
// independent queries so there is no ordering between them.
func (s *statsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.matchRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count matches: %w", err)
		}
		stats.MatchesTotal = count
		return nil
	})

	g.Go(func() error {
		count, err := s.playerRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count players: %w", err)
		}
		stats.PlayersTotal = count
		return nil
	})

	g.Go(func() error {
		count, err := s.commanderRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count commanders: %w", err)
		}
		stats.CommandersTotal = count
		return nil
	})

	g.Go(func() error {
		rates, err := s.playerRepo.WinRates(gCtx, dashboardTopN)
		if err != nil {
			return fmt.Errorf("failed to load win rates: %w", err)
		}
		stats.TopPlayers = rates
		return nil
	})

	g.Go(func() error {
		usage, err := s.commanderRepo.Usage(gCtx, dashboardTopN)
		if err != nil {
			return fmt.Errorf("failed to load commander usage: %w", err)
		}
		stats.TopCommanders = usage
		return nil
	})

	g.Go(func() error {
		tournament, err := s.tournamentRepo.GetActive(gCtx, nil)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load active tournament: %w", err)
		}
		stats.ActiveTournament = tournament
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.ActiveTournament != nil {
		if err := attachSchedule(stats.ActiveTournament); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
