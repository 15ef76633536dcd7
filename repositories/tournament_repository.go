package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Veldrin92/commander-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("another active tournament already exists")
	ErrVersionConflict    = errors.New("tournament schedule was modified concurrently")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	GetActive(ctx context.Context, exec SQLExecutor) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]models.Tournament, error)
	// UpdateSchedule replaces the schedule blob iff the stored version still
	// matches expectedVersion, bumping the version by one.
	UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, scheduleJSON string, expectedVersion int) error
	Finish(ctx context.Context, exec SQLExecutor, id int, finishedAt time.Time) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (name, status, schedule_json, version)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.Status, t.ScheduleJSON, t.Version,
	).Scan(&t.ID, &t.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		// Partial unique index on status = 'active' keeps the single-active
		// invariant at the database level too.
		return ErrTournamentConflict
	}
	return err
}

func (r *postgresTournamentRepository) scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(&t.ID, &t.Name, &t.Status, &t.ScheduleJSON, &t.Version, &t.CreatedAt, &t.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, status, schedule_json, version, created_at, finished_at
		FROM tournaments
		WHERE id = $1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetActive(ctx context.Context, exec SQLExecutor) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, status, schedule_json, version, created_at, finished_at
		FROM tournaments
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT 1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, models.TournamentActive))
}

func (r *postgresTournamentRepository) List(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	query := `
		SELECT id, name, status, schedule_json, version, created_at, finished_at
		FROM tournaments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, scheduleJSON string, expectedVersion int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET schedule_json = $1, version = version + 1
		WHERE id = $2 AND version = $3`

	result, err := executor.ExecContext(ctx, query, scheduleJSON, id, expectedVersion)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either the row is gone or someone else won the write race.
		if _, getErr := r.GetByID(ctx, executor, id); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *postgresTournamentRepository) Finish(ctx context.Context, exec SQLExecutor, id int, finishedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1, finished_at = $2 WHERE id = $3 AND status = $4`
	result, err := executor.ExecContext(ctx, query, models.TournamentFinished, finishedAt, id, models.TournamentActive)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
