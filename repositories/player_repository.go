package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNameConflict = errors.New("player name is already taken")
	ErrPlayerInUse        = errors.New("player is referenced by recorded matches")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdateAvatarKey(ctx context.Context, playerID int, avatarKey *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	WinRates(ctx context.Context, limit int) ([]models.PlayerWinRate, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (name, color, avatar_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Color, p.AvatarKey).Scan(&p.ID, &p.CreatedAt)
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, name, color, avatar_key, created_at FROM players WHERE id = $1`
	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Color, &p.AvatarKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT id, name, color, avatar_key, created_at FROM players ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Color, &p.AvatarKey, &p.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `UPDATE players SET name = $1, color = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Color, p.ID)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, playerID int, avatarKey *string) error {
	query := `UPDATE players SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	return count, err
}

func (r *postgresPlayerRepository) WinRates(ctx context.Context, limit int) ([]models.PlayerWinRate, error) {
	query := `
		SELECT p.id, p.name,
		       COUNT(mp.id) AS played,
		       COUNT(mp.id) FILTER (WHERE mp.placement = 1) AS wins
		FROM players p
		JOIN match_players mp ON mp.player_id = p.id
		GROUP BY p.id, p.name
		ORDER BY wins DESC, played DESC, p.name ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make([]models.PlayerWinRate, 0, limit)
	for rows.Next() {
		var wr models.PlayerWinRate
		if scanErr := rows.Scan(&wr.PlayerID, &wr.Name, &wr.Played, &wr.Wins); scanErr != nil {
			return nil, scanErr
		}
		if wr.Played > 0 {
			wr.WinRate = float64(wr.Wins) / float64(wr.Played)
		}
		rates = append(rates, wr)
	}
	return rates, rows.Err()
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrPlayerNameConflict
		case "23503":
			return ErrPlayerInUse
		}
	}
	return err
}
