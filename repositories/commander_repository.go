package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrCommanderNotFound     = errors.New("commander not found")
	ErrCommanderNameConflict = errors.New("commander name is already taken")
	ErrCommanderInvalidOwner = errors.New("commander references an unknown player")
)

type CommanderRepository interface {
	Create(ctx context.Context, commander *models.Commander) error
	GetByID(ctx context.Context, id int) (*models.Commander, error)
	List(ctx context.Context) ([]models.Commander, error)
	Update(ctx context.Context, commander *models.Commander) error
	UpdateImageKey(ctx context.Context, commanderID int, imageKey *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	Usage(ctx context.Context, limit int) ([]models.CommanderUsage, error)
}

type postgresCommanderRepository struct {
	db *sql.DB
}

func NewPostgresCommanderRepository(db *sql.DB) CommanderRepository {
	return &postgresCommanderRepository{db: db}
}

func (r *postgresCommanderRepository) Create(ctx context.Context, c *models.Commander) error {
	query := `
		INSERT INTO commanders (name, color_identity, owner_player_id, image_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.ColorIdentity, c.OwnerPlayerID, c.ImageKey).Scan(&c.ID, &c.CreatedAt)
	return r.handleCommanderError(err)
}

func (r *postgresCommanderRepository) GetByID(ctx context.Context, id int) (*models.Commander, error) {
	query := `
		SELECT id, name, color_identity, owner_player_id, image_key, created_at
		FROM commanders WHERE id = $1`
	c := &models.Commander{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.ColorIdentity, &c.OwnerPlayerID, &c.ImageKey, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommanderNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCommanderRepository) List(ctx context.Context) ([]models.Commander, error) {
	query := `
		SELECT id, name, color_identity, owner_player_id, image_key, created_at
		FROM commanders ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commanders := make([]models.Commander, 0)
	for rows.Next() {
		var c models.Commander
		if scanErr := rows.Scan(&c.ID, &c.Name, &c.ColorIdentity, &c.OwnerPlayerID, &c.ImageKey, &c.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		commanders = append(commanders, c)
	}
	return commanders, rows.Err()
}

func (r *postgresCommanderRepository) Update(ctx context.Context, c *models.Commander) error {
	query := `UPDATE commanders SET name = $1, color_identity = $2, owner_player_id = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, c.Name, c.ColorIdentity, c.OwnerPlayerID, c.ID)
	if err != nil {
		return r.handleCommanderError(err)
	}
	return checkAffectedRows(result, ErrCommanderNotFound)
}

func (r *postgresCommanderRepository) UpdateImageKey(ctx context.Context, commanderID int, imageKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE commanders SET image_key = $1 WHERE id = $2`, imageKey, commanderID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCommanderNotFound)
}

func (r *postgresCommanderRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM commanders WHERE id = $1`, id)
	if err != nil {
		return r.handleCommanderError(err)
	}
	return checkAffectedRows(result, ErrCommanderNotFound)
}

func (r *postgresCommanderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commanders`).Scan(&count)
	return count, err
}

func (r *postgresCommanderRepository) Usage(ctx context.Context, limit int) ([]models.CommanderUsage, error) {
	query := `
		SELECT c.id, c.name,
		       COUNT(mp.id) AS games,
		       COUNT(mp.id) FILTER (WHERE mp.placement = 1) AS wins
		FROM commanders c
		JOIN match_players mp ON mp.commander_id = c.id
		GROUP BY c.id, c.name
		ORDER BY games DESC, wins DESC, c.name ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make([]models.CommanderUsage, 0, limit)
	for rows.Next() {
		var u models.CommanderUsage
		if scanErr := rows.Scan(&u.CommanderID, &u.Name, &u.Games, &u.Wins); scanErr != nil {
			return nil, scanErr
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (r *postgresCommanderRepository) handleCommanderError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrCommanderNameConflict
		case "23503":
			return ErrCommanderInvalidOwner
		}
	}
	return err
}
