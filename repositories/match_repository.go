package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/lamasia-league/models"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchFilter narrows List. Nil fields are not filtered on.
type MatchFilter struct {
	Category *models.Category
	RoundID  *int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]models.Match, error)
	UpdateStats(ctx context.Context, exec SQLExecutor, id int, stats models.MatchStats) error
	Delete(ctx context.Context, id int) error
	DeleteByRound(ctx context.Context, exec SQLExecutor, roundID int) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, round_id, category, match_time, home_team_id, away_team_id, stats, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (round_id, category, match_time, home_team_id, away_team_id, stats)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return pick(exec, r.db).QueryRowContext(ctx, query,
		match.RoundID,
		match.Category,
		match.Date,
		match.HomeTeamID,
		match.AwayTeamID,
		match.Stats,
	).Scan(&match.ID, &match.CreatedAt)
}

func (r *postgresMatchRepository) scanMatch(row rowScanner) (*models.Match, error) {
	var match models.Match
	err := row.Scan(
		&match.ID,
		&match.RoundID,
		&match.Category,
		&match.Date,
		&match.HomeTeamID,
		&match.AwayTeamID,
		&match.Stats,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.Category != nil {
		queryBuilder.WriteString(" AND category = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Category)
		placeholderIndex++
	}
	if filter.RoundID != nil {
		queryBuilder.WriteString(" AND round_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.RoundID)
		placeholderIndex++
	}
	queryBuilder.WriteString(" ORDER BY match_time ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, *match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateStats overwrites the embedded stats document as a whole.
func (r *postgresMatchRepository) UpdateStats(ctx context.Context, exec SQLExecutor, id int, stats models.MatchStats) error {
	result, err := pick(exec, r.db).ExecContext(ctx, `UPDATE matches SET stats = $1 WHERE id = $2`, stats, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByRound(ctx context.Context, exec SQLExecutor, roundID int) (int64, error) {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM matches WHERE round_id = $1`, roundID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
