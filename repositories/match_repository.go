package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/Veldrin92/commander-tracker/schedule"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchInvalidPlayer = errors.New("match references an unknown player or commander")
)

type MatchRepository interface {
	// Create inserts the match together with its seat rows.
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, limit, offset int) ([]models.Match, error)
	// ListCompletedByTournament returns the placement view the standings
	// aggregator consumes, ordered by play time.
	ListCompletedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]schedule.MatchResult, error)
	Count(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO matches (tournament_id, played_at, duration_seconds, turn_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		m.TournamentID, m.PlayedAt, m.DurationSeconds, m.TurnCount,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}

	playerQuery := `
		INSERT INTO match_players (match_id, player_id, name, background_color, placement, final_life, commander_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	for i := range m.Players {
		p := &m.Players[i]
		p.MatchID = m.ID
		err = executor.QueryRowContext(ctx, playerQuery,
			p.MatchID, p.PlayerID, p.Name, p.BackgroundColor, p.Placement, p.FinalLife, p.CommanderID,
		).Scan(&p.ID)
		if err != nil {
			return r.handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)

	m := &models.Match{}
	query := `
		SELECT id, tournament_id, played_at, duration_seconds, turn_count, created_at
		FROM matches
		WHERE id = $1`
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.PlayedAt, &m.DurationSeconds, &m.TurnCount, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	players, err := r.listPlayers(ctx, executor, m.ID)
	if err != nil {
		return nil, err
	}
	m.Players = players
	return m, nil
}

func (r *postgresMatchRepository) listPlayers(ctx context.Context, executor SQLExecutor, matchID int) ([]models.MatchPlayer, error) {
	query := `
		SELECT id, match_id, player_id, name, background_color, placement, final_life, commander_id
		FROM match_players
		WHERE match_id = $1
		ORDER BY placement ASC`
	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.MatchPlayer, 0, 2)
	for rows.Next() {
		var p models.MatchPlayer
		if scanErr := rows.Scan(&p.ID, &p.MatchID, &p.PlayerID, &p.Name, &p.BackgroundColor, &p.Placement, &p.FinalLife, &p.CommanderID); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresMatchRepository) List(ctx context.Context, limit, offset int) ([]models.Match, error) {
	query := `
		SELECT id, tournament_id, played_at, duration_seconds, turn_count, created_at
		FROM matches
		ORDER BY played_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(&m.ID, &m.TournamentID, &m.PlayedAt, &m.DurationSeconds, &m.TurnCount, &m.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range matches {
		players, playersErr := r.listPlayers(ctx, r.db, matches[i].ID)
		if playersErr != nil {
			return nil, playersErr
		}
		matches[i].Players = players
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListCompletedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]schedule.MatchResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT m.id, mp.player_id, mp.name, mp.background_color, mp.placement
		FROM matches m
		JOIN match_players mp ON mp.match_id = m.id
		WHERE m.tournament_id = $1
		ORDER BY m.played_at ASC, m.id ASC, mp.placement ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	results := make([]schedule.MatchResult, 0)
	byMatch := make(map[int]int) // match id -> index in results
	for rows.Next() {
		var matchID int
		var p schedule.MatchResultPlayer
		if scanErr := rows.Scan(&matchID, &p.ID, &p.Name, &p.BackgroundColor, &p.Placement); scanErr != nil {
			return nil, scanErr
		}
		idx, ok := byMatch[matchID]
		if !ok {
			idx = len(results)
			byMatch[matchID] = idx
			results = append(results, schedule.MatchResult{MatchID: matchID})
		}
		results[idx].Players = append(results[idx].Players, p)
	}
	return results, rows.Err()
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchInvalidPlayer
	}
	return err
}
