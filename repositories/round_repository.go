package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/lamasia-league/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	List(ctx context.Context) ([]models.Round, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `INSERT INTO rounds (name, date) VALUES ($1, $2) RETURNING id, created_at`
	return pick(exec, r.db).QueryRowContext(ctx, query, round.Name, round.Date).
		Scan(&round.ID, &round.CreatedAt)
}

func (r *postgresRoundRepository) scanRound(row rowScanner) (*models.Round, error) {
	var round models.Round
	var date sql.NullTime
	if err := row.Scan(&round.ID, &round.Name, &date, &round.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	if date.Valid {
		round.Date = &date.Time
	}
	return &round, nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `SELECT id, name, date, created_at FROM rounds WHERE id = $1`
	return r.scanRound(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) List(ctx context.Context) ([]models.Round, error) {
	query := `SELECT id, name, date, created_at FROM rounds ORDER BY date ASC NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]models.Round, 0)
	for rows.Next() {
		round, scanErr := r.scanRound(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, *round)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *postgresRoundRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM rounds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
